package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"

	serrors "github.com/sachi/sachi-go/internal/errors"
)

// SQLiteStore implements storage using SQLite (the local default)
type SQLiteStore struct {
	sqlStore
	path string
}

// NewSQLiteStore creates a new SQLite storage
func NewSQLiteStore(path string, logger logrus.FieldLogger) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, serrors.FileSystemError(err, "create database directory")
	}

	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, serrors.StorageError(err, "connect to sqlite")
	}

	// Enable foreign keys and WAL mode for better concurrency
	db.Exec("PRAGMA foreign_keys = ON")
	db.Exec("PRAGMA journal_mode = WAL")

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	store := &SQLiteStore{
		sqlStore: sqlStore{db: db, logger: logger.WithField("component", "history")},
		path:     path,
	}

	// Initialize schema
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, serrors.StorageError(err, "init schema")
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL,
		renderer TEXT,
		targets INTEGER,
		functions INTEGER,
		checks INTEGER,
		warnings INTEGER,
		errors INTEGER
	);

	CREATE TABLE IF NOT EXISTS findings (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		target TEXT NOT NULL,
		line INTEGER,
		col INTEGER,
		rule TEXT,
		scope TEXT,
		value REAL,
		goal REAL,
		FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at);
	CREATE INDEX IF NOT EXISTS idx_findings_run_id ON findings(run_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// Path returns the database file
func (s *SQLiteStore) Path() string {
	return s.path
}
