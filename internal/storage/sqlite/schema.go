package sqlite

import (
	"fmt"
)

// migrations are applied in order; PRAGMA user_version tracks progress
var migrations = []string{
	// 1: initial schema
	`
	CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at    TIMESTAMP NOT NULL
	);

	CREATE TABLE IF NOT EXISTS notes (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id),
		title      TEXT NOT NULL DEFAULT '',
		content    TEXT NOT NULL DEFAULT '',
		area_id    TEXT,
		project_id TEXT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		deleted_at TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_notes_user ON notes(user_id, updated_at DESC);

	CREATE TABLE IF NOT EXISTS daily_notes (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id),
		date       TEXT NOT NULL,
		content    TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE(user_id, date)
	);

	CREATE TABLE IF NOT EXISTS para_items (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL REFERENCES users(id),
		kind        TEXT NOT NULL,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at  TIMESTAMP NOT NULL,
		updated_at  TIMESTAMP NOT NULL,
		archived_at TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_para_user_kind ON para_items(user_id, kind);

	CREATE TABLE IF NOT EXISTS captures (
		id         TEXT PRIMARY KEY,
		user_id    TEXT NOT NULL REFERENCES users(id),
		type       TEXT NOT NULL,
		content    TEXT NOT NULL DEFAULT '',
		source_url TEXT NOT NULL DEFAULT '',
		title      TEXT NOT NULL DEFAULT '',
		media_id   TEXT,
		created_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_captures_user ON captures(user_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS media (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL REFERENCES users(id),
		note_id      TEXT,
		file_name    TEXT NOT NULL,
		file_path    TEXT NOT NULL,
		mime_type    TEXT NOT NULL DEFAULT '',
		size_bytes   INTEGER NOT NULL DEFAULT 0,
		is_processed INTEGER NOT NULL DEFAULT 0,
		created_at   TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_media_user ON media(user_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS processing_jobs (
		id            TEXT PRIMARY KEY,
		user_id       TEXT NOT NULL REFERENCES users(id),
		note_id       TEXT,
		media_id      TEXT,
		job_type      TEXT NOT NULL,
		status        TEXT NOT NULL,
		progress      INTEGER NOT NULL DEFAULT 0,
		error_message TEXT NOT NULL DEFAULT '',
		created_at    TIMESTAMP NOT NULL,
		started_at    TIMESTAMP,
		completed_at  TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_jobs_user ON processing_jobs(user_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_jobs_status ON processing_jobs(status);

	CREATE TABLE IF NOT EXISTS processed_content (
		id              TEXT PRIMARY KEY,
		job_id          TEXT NOT NULL REFERENCES processing_jobs(id) ON DELETE CASCADE,
		note_id         TEXT,
		content_type    TEXT NOT NULL,
		raw_text        TEXT NOT NULL DEFAULT '',
		summary         TEXT NOT NULL DEFAULT '',
		key_points      TEXT NOT NULL DEFAULT '[]',
		extracted_tasks TEXT NOT NULL DEFAULT '[]',
		metadata        TEXT NOT NULL DEFAULT '{}',
		confidence      INTEGER NOT NULL DEFAULT 0,
		created_at      TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_content_note ON processed_content(note_id);
	`,
}

// migrate applies any pending migrations
func (s *DB) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	for i := version; i < len(migrations); i++ {
		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", i+1, err)
		}

		if _, err := tx.Exec(migrations[i]); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}

		// PRAGMA cannot be parameterized
		if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", i+1)); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to set schema version %d: %w", i+1, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", i+1, err)
		}

		s.logger.Info().Int("version", i+1).Msg("Applied database migration")
	}

	return nil
}
