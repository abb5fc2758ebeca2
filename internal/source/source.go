// Package source defines the contract external calendar providers
// implement. Providers are read-only: they normalize third-party events
// into a common shape and never write back.
package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/muhammad-salman-webdev/planr/internal/model"
)

// AuthError indicates that authentication has failed or expired for a
// provider. It is returned by clients when a 401 response (or an IMAP
// login failure) is seen.
type AuthError struct {
	Provider model.ProviderType
	Message  string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.Provider, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// Event is the normalized external calendar event. Providers drop
// records they cannot produce a valid Event from (missing start or
// end); callers never see malformed events.
type Event struct {
	// ProviderID is the event's identifier within its provider, used
	// to derive a stable task id for re-import dedupe. May be empty
	// for providers that cannot supply one.
	ProviderID string

	Title       string
	Description string
	Start       time.Time
	End         time.Time

	// Color is a resolved RGB hex string, or empty when the provider
	// supplies none.
	Color string
}

// Source is the contract every calendar provider implements.
type Source interface {
	// Type returns the provider identifier.
	Type() model.ProviderType

	// ValidateConnection verifies credentials and connectivity.
	// Returns a human-readable status message on success.
	ValidateConnection(ctx context.Context) (string, error)

	// FetchEvents retrieves events whose start falls in [from, to).
	FetchEvents(ctx context.Context, from, to time.Time) ([]Event, error)
}
