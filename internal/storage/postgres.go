package storage

import (
	"context"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	serrors "github.com/sachi/sachi-go/internal/errors"
)

// PostgresStore implements storage using PostgreSQL, for teams sharing a history
type PostgresStore struct {
	sqlStore
}

// NewPostgresStore creates a new PostgreSQL storage
func NewPostgresStore(ctx context.Context, dsn string, logger logrus.FieldLogger) (*PostgresStore, error) {
	db, err := sqlx.ConnectContext(ctx, "pgx", dsn)
	if err != nil {
		return nil, serrors.StorageError(err, "connect to postgres")
	}

	// Configure connection pool
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	store := &PostgresStore{
		sqlStore: sqlStore{db: db, logger: logger.WithField("component", "history")},
	}

	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, serrors.StorageError(err, "init schema")
	}

	return store, nil
}

func (s *PostgresStore) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TIMESTAMPTZ NOT NULL,
			duration_ms BIGINT NOT NULL,
			renderer TEXT,
			targets INTEGER,
			functions INTEGER,
			checks INTEGER,
			warnings INTEGER,
			errors INTEGER
		)`,
		`CREATE TABLE IF NOT EXISTS findings (
			id BIGSERIAL PRIMARY KEY,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			target TEXT NOT NULL,
			line INTEGER,
			col INTEGER,
			rule TEXT,
			scope TEXT,
			value DOUBLE PRECISION,
			goal DOUBLE PRECISION
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
		`CREATE INDEX IF NOT EXISTS idx_findings_run_id ON findings(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
