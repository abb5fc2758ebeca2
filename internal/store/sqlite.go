package store

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/muhammad-salman-webdev/planr/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// The UI, importer, and scheduler all touch the store; serialize
	// writers at the connection level so a busy write retries instead
	// of failing.
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// taskRow is the raw database shape of a task. Timestamps travel as
// RFC 3339 strings on disk and are hydrated to time.Time on read.
type taskRow struct {
	ID              string `db:"id"`
	DateKey         string `db:"date_key"`
	Title           string `db:"title"`
	Description     string `db:"description"`
	StartTime       string `db:"start_time"`
	EndTime         string `db:"end_time"`
	Color           string `db:"color"`
	Notifications   int    `db:"notifications"`
	Provider        string `db:"provider"`
	ProviderEventID string `db:"provider_event_id"`
	Position        int    `db:"position"`
	CreatedAt       string `db:"created_at"`
	UpdatedAt       string `db:"updated_at"`
}

// hydrate converts a raw row into a model.Task. Unparsable timestamps
// get a safe fallback interval instead of failing the whole read, so a
// corrupt row can still be listed and repaired by the user.
func (r taskRow) hydrate() model.Task {
	start, errStart := time.Parse(time.RFC3339, r.StartTime)
	end, errEnd := time.Parse(time.RFC3339, r.EndTime)
	if errStart != nil || errEnd != nil || !end.After(start) {
		now := time.Now()
		start = now
		end = now.Add(time.Hour)
	}

	return model.Task{
		ID:                   r.ID,
		Title:                r.Title,
		Description:          r.Description,
		StartTime:            start.Local(),
		EndTime:              end.Local(),
		Color:                r.Color,
		NotificationsEnabled: r.Notifications != 0,
		Provider:             model.ProviderType(r.Provider),
		ProviderEventID:      r.ProviderEventID,
	}
}
