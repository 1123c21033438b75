package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	serrors "github.com/sachi/sachi-go/internal/errors"
)

// sqlStore holds the queries shared by the SQL backends. Queries are written
// with ? placeholders and rebound for the driver.
type sqlStore struct {
	db     *sqlx.DB
	logger logrus.FieldLogger
}

func (s *sqlStore) SaveRun(ctx context.Context, run *Run) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return serrors.StorageError(err, "begin transaction")
	}
	defer tx.Rollback()

	query := `
		INSERT INTO runs (id, started_at, duration_ms, renderer, targets,
			functions, checks, warnings, errors)
		VALUES (:id, :started_at, :duration_ms, :renderer, :targets,
			:functions, :checks, :warnings, :errors)
	`
	if _, err := tx.NamedExecContext(ctx, query, run); err != nil {
		return serrors.StorageError(err, "save run")
	}

	findingQuery := `
		INSERT INTO findings (run_id, target, line, col, rule, scope, value, goal)
		VALUES (:run_id, :target, :line, :col, :rule, :scope, :value, :goal)
	`
	for i := range run.Findings {
		f := run.Findings[i]
		f.RunID = run.ID
		if _, err := tx.NamedExecContext(ctx, findingQuery, f); err != nil {
			return serrors.StorageError(err, "save finding")
		}
	}

	if err := tx.Commit(); err != nil {
		return serrors.StorageError(err, "commit run")
	}

	s.logger.WithFields(logrus.Fields{
		"run":      run.ID,
		"findings": len(run.Findings),
	}).Debug("Run recorded")

	return nil
}

func (s *sqlStore) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}

	var runs []*Run
	query := s.db.Rebind(`
		SELECT id, started_at, duration_ms, renderer, targets, functions, checks, warnings, errors
		FROM runs ORDER BY started_at DESC, id LIMIT ?
	`)
	if err := s.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, serrors.StorageError(err, "list runs")
	}

	return runs, nil
}

func (s *sqlStore) GetRun(ctx context.Context, id string) (*Run, error) {
	var runs []*Run
	query := s.db.Rebind(`
		SELECT id, started_at, duration_ms, renderer, targets, functions, checks, warnings, errors
		FROM runs WHERE id LIKE ? LIMIT 2
	`)
	if err := s.db.SelectContext(ctx, &runs, query, id+"%"); err != nil {
		return nil, serrors.StorageError(err, "get run")
	}

	switch len(runs) {
	case 0:
		return nil, ErrNotFound
	case 1:
	default:
		return nil, ErrAmbiguous
	}

	run := runs[0]
	findingQuery := s.db.Rebind(`
		SELECT run_id, target, line, col, rule, scope, value, goal
		FROM findings WHERE run_id = ? ORDER BY id
	`)
	if err := s.db.SelectContext(ctx, &run.Findings, findingQuery, run.ID); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, serrors.StorageError(err, "get findings")
	}

	return run, nil
}

// Close closes the database connection
func (s *sqlStore) Close() error {
	return s.db.Close()
}
