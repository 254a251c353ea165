package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ternarybob/arbor"
	_ "modernc.org/sqlite"

	"github.com/ZordnajelA/aura/internal/common"
)

// DB manages the SQLite database connection shared by all storage
// managers and the job queue.
type DB struct {
	db     *sql.DB
	logger arbor.ILogger
}

// NewDB opens the SQLite database, applies pragmas and runs migrations
func NewDB(logger arbor.ILogger, config *common.StorageConfig) (*DB, error) {
	dir := filepath.Dir(config.SQLitePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// modernc.org/sqlite uses "sqlite" driver name (not "sqlite3")
	db, err := sql.Open("sqlite", config.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &DB{
		db:     db,
		logger: logger,
	}

	if err := s.configure(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info().Str("path", config.SQLitePath).Msg("SQLite database initialized")
	return s, nil
}

// configure sets up SQLite pragmas
func (s *DB) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}

	// goqite shares this connection; a single writer avoids SQLITE_BUSY
	// churn under concurrent workers
	s.db.SetMaxOpenConns(1)

	return nil
}

// SQL returns the underlying database handle for the queue manager
func (s *DB) SQL() *sql.DB {
	return s.db
}

// Close closes the database connection
func (s *DB) Close() error {
	return s.db.Close()
}
