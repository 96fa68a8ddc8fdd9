package store

// schema is applied on every open; CREATE IF NOT EXISTS keeps it idempotent.
const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	title        TEXT NOT NULL,
	date         TEXT NOT NULL,
	start_time   TEXT NOT NULL DEFAULT '',
	end_time     TEXT NOT NULL DEFAULT '',
	is_all_day   INTEGER NOT NULL DEFAULT 0,
	is_completed INTEGER NOT NULL DEFAULT 0,
	notes        TEXT NOT NULL DEFAULT '',
	subtasks     TEXT NOT NULL DEFAULT '[]',
	created_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_tasks_date ON tasks(date);

CREATE TABLE IF NOT EXISTS user_profile (
	id           INTEGER PRIMARY KEY CHECK (id = 1),
	name         TEXT NOT NULL DEFAULT '',
	image_path   TEXT NOT NULL DEFAULT '',
	wake_up_time TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS recurring_jobs (
	name          TEXT PRIMARY KEY,
	interval_secs INTEGER NOT NULL,
	next_run_at   DATETIME NOT NULL,
	last_run_at   DATETIME,
	last_error    TEXT
);
`
