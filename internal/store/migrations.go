package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id                TEXT PRIMARY KEY,
	date_key          TEXT NOT NULL,
	title             TEXT NOT NULL,
	description       TEXT NOT NULL DEFAULT '',
	start_time        TEXT NOT NULL,
	end_time          TEXT NOT NULL,
	color             TEXT NOT NULL DEFAULT '',
	notifications     INTEGER NOT NULL DEFAULT 0,
	provider          TEXT NOT NULL DEFAULT '',
	provider_event_id TEXT NOT NULL DEFAULT '',
	position          INTEGER NOT NULL DEFAULT 0,
	created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tasks_date_key ON tasks(date_key);
CREATE INDEX IF NOT EXISTS idx_tasks_date_key_position ON tasks(date_key, position);
CREATE INDEX IF NOT EXISTS idx_tasks_provider_event ON tasks(provider, provider_event_id);

CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
