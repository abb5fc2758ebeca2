package google

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/muhammad-salman-webdev/planr/internal/model"
	"github.com/muhammad-salman-webdev/planr/internal/source"
)

// maxPages caps event list pagination so a runaway calendar cannot
// stall an import.
const maxPages = 20

// Adapter implements source.Source for Google Calendar.
type Adapter struct {
	client     *Client
	calendarID string

	// colors caches the event color palette for the adapter's
	// lifetime. Resolved lazily on first fetch.
	colors map[string]ColorDefinition
}

// NewAdapter creates a Google Calendar source adapter. An empty
// calendarID selects the authenticated user's primary calendar.
func NewAdapter(token, calendarID string) *Adapter {
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Adapter{
		client:     NewClient(token),
		calendarID: calendarID,
	}
}

// Type returns the source type identifier for Google Calendar.
func (a *Adapter) Type() model.ProviderType {
	return model.ProviderGoogle
}

// ValidateConnection verifies credentials by fetching the calendar's
// metadata. Returns the calendar's display name on success.
func (a *Adapter) ValidateConnection(ctx context.Context) (string, error) {
	var cal Calendar
	path := "/calendars/" + escapeCalendarID(a.calendarID)
	if err := a.client.Get(ctx, path, nil, &cal); err != nil {
		return "", fmt.Errorf("validating calendar connection: %w", err)
	}
	if cal.Summary != "" {
		return cal.Summary, nil
	}
	return cal.ID, nil
}

// FetchEvents retrieves single-instance events starting within
// [from, to). All-day events and events without concrete start or end
// instants are dropped rather than guessed at.
func (a *Adapter) FetchEvents(
	ctx context.Context,
	from, to time.Time,
) ([]source.Event, error) {
	palette := a.eventPalette(ctx)

	path := "/calendars/" + escapeCalendarID(a.calendarID) + "/events"

	var events []source.Event
	pageToken := ""
	for page := 0; page < maxPages; page++ {
		query := url.Values{}
		query.Set("timeMin", from.Format(time.RFC3339))
		query.Set("timeMax", to.Format(time.RFC3339))
		query.Set("singleEvents", "true")
		query.Set("orderBy", "startTime")
		query.Set("maxResults", "250")
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}

		var resp EventsResponse
		if err := a.client.Get(ctx, path, query, &resp); err != nil {
			return nil, fmt.Errorf("fetching calendar events: %w", err)
		}

		for _, item := range resp.Items {
			ev, ok := a.normalize(item, palette)
			if !ok {
				continue
			}
			events = append(events, ev)
		}

		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}

	return events, nil
}

// eventPalette returns the event color palette, fetching it on first
// use. Palette lookup is best effort: on failure events import without
// a color rather than failing the whole fetch.
func (a *Adapter) eventPalette(ctx context.Context) map[string]ColorDefinition {
	if a.colors != nil {
		return a.colors
	}

	var resp ColorsResponse
	if err := a.client.Get(ctx, "/colors", nil, &resp); err != nil {
		return nil
	}
	a.colors = resp.Event
	return a.colors
}

// normalize converts an API event to the common Event shape. Returns
// false for events that cannot be represented: cancelled events,
// all-day events, and events missing a parseable start or end.
func (a *Adapter) normalize(
	item Event,
	palette map[string]ColorDefinition,
) (source.Event, bool) {
	if item.Status == "cancelled" {
		return source.Event{}, false
	}
	if item.Start.DateTime == "" || item.End.DateTime == "" {
		// All-day events carry only a Date field.
		return source.Event{}, false
	}

	start, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return source.Event{}, false
	}
	end, err := time.Parse(time.RFC3339, item.End.DateTime)
	if err != nil {
		return source.Event{}, false
	}
	if !end.After(start) {
		return source.Event{}, false
	}

	title := item.Summary
	if title == "" {
		title = "(untitled event)"
	}

	color := ""
	if item.ColorID != "" && palette != nil {
		if def, ok := palette[item.ColorID]; ok {
			color = def.Background
		}
	}

	return source.Event{
		ProviderID:  item.ID,
		Title:       title,
		Description: item.Description,
		Start:       start,
		End:         end,
		Color:       color,
	}, true
}
