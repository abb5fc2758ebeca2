package store

import (
	"context"
	"fmt"
	"strconv"

	"github.com/muhammad-salman-webdev/planr/internal/model"
)

// Settings table keys.
const (
	keyDefaultNotifications = "default_notifications"
	keyLeadMinutes          = "lead_minutes"
	keyMuteSound            = "mute_sound"
)

// Settings returns the current user settings. Keys that were never
// saved resolve to their defaults, so a fresh database behaves the same
// as a fresh install.
func (s *SQLiteStore) Settings(ctx context.Context) (model.Settings, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return model.Settings{}, fmt.Errorf("querying settings: %w", err)
	}
	defer rows.Close()

	settings := model.DefaultSettings()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return model.Settings{}, fmt.Errorf("scanning setting: %w", err)
		}
		switch key {
		case keyDefaultNotifications:
			settings.DefaultNotifications = value == "1"
		case keyMuteSound:
			settings.MuteSound = value == "1"
		case keyLeadMinutes:
			minutes, err := strconv.Atoi(value)
			if err == nil && minutes >= model.MinLeadMinutes && minutes <= model.MaxLeadMinutes {
				settings.LeadMinutes = minutes
			}
		}
	}
	if err := rows.Err(); err != nil {
		return model.Settings{}, fmt.Errorf("reading settings: %w", err)
	}

	return settings, nil
}

// SaveSettings validates and persists the full settings record.
func (s *SQLiteStore) SaveSettings(ctx context.Context, settings model.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	pairs := map[string]string{
		keyDefaultNotifications: boolValue(settings.DefaultNotifications),
		keyLeadMinutes:          strconv.Itoa(settings.LeadMinutes),
		keyMuteSound:            boolValue(settings.MuteSound),
	}
	for key, value := range pairs {
		if _, err := tx.ExecContext(ctx,
			"INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)",
			key, value,
		); err != nil {
			return fmt.Errorf("saving setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing settings: %w", err)
	}
	return nil
}

// SetDefaultNotifications updates only the process-wide default flag.
func (s *SQLiteStore) SetDefaultNotifications(ctx context.Context, enabled bool) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)",
		keyDefaultNotifications, boolValue(enabled),
	)
	if err != nil {
		return fmt.Errorf("saving default notification setting: %w", err)
	}
	return nil
}

func boolValue(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
