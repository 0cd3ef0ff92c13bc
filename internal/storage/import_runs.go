package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/abdullahfadli/caniaffordtobuythis/internal/common"
	"github.com/abdullahfadli/caniaffordtobuythis/internal/service"
	"github.com/google/uuid"
)

// StartImportRun records the beginning of a fetch.
func (s *SQLiteStorage) StartImportRun(ctx context.Context, source, query string) (*service.ImportRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(source, "source"); err != nil {
		return nil, err
	}

	run := &service.ImportRun{
		ID:        uuid.NewString(),
		Source:    source,
		Query:     query,
		StartedAt: time.Now().UTC().Truncate(time.Second),
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO import_runs (id, source, query, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Source, run.Query, run.StartedAt.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to insert import run: %w", err)
	}

	return run, nil
}

// FinishImportRun stores the outcome of a fetch started with StartImportRun.
func (s *SQLiteStorage) FinishImportRun(ctx context.Context, run *service.ImportRun) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateImportRun(run); err != nil {
		return err
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now().UTC()
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE import_runs
		SET finished_at = ?, fetched = ?, saved = ?, error = ?
		WHERE id = ?
	`, run.FinishedAt.Unix(), run.Fetched, run.Saved, run.ErrorDetail, run.ID)
	if err != nil {
		return fmt.Errorf("failed to update import run: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check import run update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("import run %s: %w", run.ID, common.ErrNotFound)
	}

	return nil
}

// GetImportRuns returns the most recent import runs first.
func (s *SQLiteStorage) GetImportRuns(ctx context.Context, limit int) ([]service.ImportRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, query, started_at, finished_at, fetched, saved, error
		FROM import_runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query import runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []service.ImportRun
	for rows.Next() {
		var (
			run      service.ImportRun
			started  int64
			finished sql.NullInt64
		)
		if err := rows.Scan(&run.ID, &run.Source, &run.Query, &started, &finished,
			&run.Fetched, &run.Saved, &run.ErrorDetail); err != nil {
			return nil, fmt.Errorf("failed to scan import run: %w", err)
		}
		run.StartedAt = time.Unix(started, 0).UTC()
		if finished.Valid {
			run.FinishedAt = time.Unix(finished.Int64, 0).UTC()
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

var _ service.Storage = (*SQLiteStorage)(nil)
