package email

import (
	"context"
	"fmt"
	"time"

	"github.com/muhammad-salman-webdev/planr/internal/model"
	"github.com/muhammad-salman-webdev/planr/internal/source"
)

// Adapter implements source.Source for calendar invites arriving by
// email. It scans recent INBOX mail for text/calendar parts and
// surfaces the events inside them.
type Adapter struct {
	client *IMAPClient
}

// NewAdapter creates an email invite source adapter.
func NewAdapter(host, port, username, password string, tls bool) *Adapter {
	return &Adapter{
		client: NewIMAPClient(host, port, username, password, tls),
	}
}

// Type returns the source type identifier for email invites.
func (a *Adapter) Type() model.ProviderType {
	return model.ProviderEmail
}

// ValidateConnection verifies IMAP credentials by logging in and
// immediately logging out.
func (a *Adapter) ValidateConnection(ctx context.Context) (string, error) {
	client, err := a.client.Connect(ctx)
	if err != nil {
		return "", err
	}
	_ = client.Logout().Wait()
	return fmt.Sprintf("connected as %s", a.client.username), nil
}

// FetchEvents scans mail received since from for calendar invites and
// returns the events starting within [from, to). Invite mail often
// arrives days before the event, so the IMAP search window is widened
// by a month and the event window is enforced here instead.
func (a *Adapter) FetchEvents(
	ctx context.Context,
	from, to time.Time,
) ([]source.Event, error) {
	mailSince := from.AddDate(0, -1, 0)

	payloads, err := a.client.FetchInvitePayloads(ctx, mailSince)
	if err != nil {
		return nil, err
	}

	var events []source.Event
	for _, payload := range payloads {
		for _, ev := range parseICS(payload) {
			if ev.Start.Before(from) || !ev.Start.Before(to) {
				continue
			}
			title := ev.Summary
			if title == "" {
				title = "(untitled event)"
			}
			events = append(events, source.Event{
				ProviderID:  ev.UID,
				Title:       title,
				Description: ev.Description,
				Start:       ev.Start,
				End:         ev.End,
			})
		}
	}

	return events, nil
}
