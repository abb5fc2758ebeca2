// Package notify is the delivery boundary for reminders: an
// asynchronous dispatcher feeding a platform alert sink and an
// independent sound sink. The scheduler publishes requests and never
// waits on presentation.
package notify

import "context"

// Request describes one alert to present. Key identifies the alert to
// the platform; the scheduler guarantees at most one Request per
// reminder window, so no dedupe happens at this layer.
type Request struct {
	Title   string
	Message string
	Key     string

	// Sound asks for the reminder clip alongside the visual alert.
	Sound bool
}

// Notifier presents a single alert. Implementations are best-effort;
// an error is logged by the dispatcher, never returned to the scheduler.
type Notifier interface {
	Notify(ctx context.Context, req Request) error
}

// SoundPlayer plays the reminder clip. Starting a new clip stops any
// clip still playing (last reminder wins, nothing is queued).
type SoundPlayer interface {
	Play(ctx context.Context) error
}

// Authorizer answers the "can show alerts" capability question. The
// scheduler queries it lazily on every tick and never caches the
// answer, since the user can grant or revoke at any time.
type Authorizer interface {
	Authorized(ctx context.Context) bool
}

// AllowAll is the Authorizer for desktop platforms that expose no
// queryable notification permission; a real denial there surfaces as a
// delivery error and is logged by the dispatcher.
type AllowAll struct{}

func (AllowAll) Authorized(context.Context) bool { return true }
