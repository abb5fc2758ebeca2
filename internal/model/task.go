package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateKeyLayout is the calendar-day bucket key format, local time.
const DateKeyLayout = "2006-01-02"

var ErrInvalidInterval = errors.New("model: task end time must be after start time")

// ProviderType identifies the origin of an imported task.
type ProviderType string

const (
	ProviderGoogle ProviderType = "google"
	ProviderEmail  ProviderType = "email"
)

// Task is a reminder-bearing, time-boxed activity on the calendar grid.
type Task struct {
	// ID is the unique identifier, immutable after creation.
	ID string `json:"id"`

	// Title is the required display string.
	Title string `json:"title"`

	// Description is optional free text.
	Description string `json:"description,omitempty"`

	// StartTime and EndTime bound the task; EndTime is always after
	// StartTime.
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	// Color is display-only and never affects scheduling.
	Color string `json:"color,omitempty"`

	// NotificationsEnabled controls whether the scheduler considers
	// this task. Filled from the default setting at creation when the
	// caller leaves it unset.
	NotificationsEnabled bool `json:"notifications_enabled"`

	// Provider and ProviderEventID are set for imported tasks and used
	// for re-import dedupe. Empty for tasks created in the app.
	Provider        ProviderType `json:"provider,omitempty"`
	ProviderEventID string       `json:"provider_event_id,omitempty"`
}

// Validate checks the task's structural invariants.
func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return errors.New("model: task title is required")
	}
	if t.StartTime.IsZero() || t.EndTime.IsZero() {
		return errors.New("model: task start and end times are required")
	}
	if !t.EndTime.After(t.StartTime) {
		return fmt.Errorf("%w: start=%s end=%s",
			ErrInvalidInterval,
			t.StartTime.Format(time.RFC3339),
			t.EndTime.Format(time.RFC3339),
		)
	}
	return nil
}

// DateKey returns the bucket key the task files under, derived from
// its current start time in local time.
func (t Task) DateKey() string {
	return DateKeyOf(t.StartTime)
}

// Duration returns the task's length.
func (t Task) Duration() time.Duration {
	return t.EndTime.Sub(t.StartTime)
}

// DateKeyOf derives the calendar-day bucket key for an instant.
func DateKeyOf(at time.Time) string {
	return at.Local().Format(DateKeyLayout)
}
