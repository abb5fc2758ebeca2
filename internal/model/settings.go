package model

import "fmt"

// Lead-time bounds for reminders, in minutes.
const (
	MinLeadMinutes = 1
	MaxLeadMinutes = 120

	// DefaultLeadMinutes matches the application's original default.
	DefaultLeadMinutes = 5
)

// Settings are the process-wide, user-mutable preferences. They live in
// the store's settings table, not in the static config file, because the
// user can change them at any moment and the scheduler must see the
// change on its next tick.
type Settings struct {
	// DefaultNotifications is applied to new tasks that don't specify
	// their own notification flag. Changing it never retroactively
	// alters existing tasks.
	DefaultNotifications bool `json:"default_notifications"`

	// LeadMinutes is how many minutes before a task's start its
	// reminder fires. Valid range is [MinLeadMinutes, MaxLeadMinutes].
	LeadMinutes int `json:"lead_minutes"`

	// MuteSound suppresses the reminder sound but not the visual alert.
	MuteSound bool `json:"mute_sound"`
}

// DefaultSettings returns the settings used before the user has saved any.
func DefaultSettings() Settings {
	return Settings{
		DefaultNotifications: false,
		LeadMinutes:          DefaultLeadMinutes,
		MuteSound:            false,
	}
}

// Validate checks that the settings are within their allowed ranges.
func (s Settings) Validate() error {
	if s.LeadMinutes < MinLeadMinutes || s.LeadMinutes > MaxLeadMinutes {
		return fmt.Errorf(
			"model: lead minutes must be between %d and %d, got %d",
			MinLeadMinutes, MaxLeadMinutes, s.LeadMinutes,
		)
	}
	return nil
}
