// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mdhender/calc/model"
)

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// InsertBatchWithWork inserts a batch and one queued job per entry of jobs
// in a single transaction and returns the batch ID. The batch's Lines is
// set to len(jobs). If any insert fails, nothing is stored.
func (s *SQLiteStore) InsertBatchWithWork(ctx context.Context, batch *model.Batch, jobs []model.Work) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	batch.Lines = len(jobs)
	batchID, err := insertBatch(ctx, tx, batch)
	if err != nil {
		return 0, err
	}
	for i := range jobs {
		jobs[i].BatchID = batchID
		if _, err := insertWork(ctx, tx, &jobs[i]); err != nil {
			return 0, fmt.Errorf("line %d: %w", jobs[i].LineNo, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	batch.ID = batchID
	return batchID, nil
}

func insertBatch(ctx context.Context, db execer, batch *model.Batch) (int64, error) {
	const query = `
		INSERT INTO batches (name, sha256, lines, created_by, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	result, err := db.ExecContext(ctx, query,
		batch.Name,
		batch.SHA256,
		batch.Lines,
		nullString(batch.CreatedBy),
		batch.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert batch: %w", err)
	}
	return result.LastInsertId()
}

// GetBatch retrieves a Batch by ID. Returns nil if not found.
func (s *SQLiteStore) GetBatch(ctx context.Context, id int64) (*model.Batch, error) {
	const query = `
		SELECT id, name, sha256, lines, created_by, created_at
		FROM batches
		WHERE id = ?
	`
	batch, err := scanBatch(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get batch: %w", err)
	}
	return batch, nil
}

// GetBatchBySHA256 retrieves a Batch by the hash of its contents. Returns nil if not found.
func (s *SQLiteStore) GetBatchBySHA256(ctx context.Context, sha256 string) (*model.Batch, error) {
	const query = `
		SELECT id, name, sha256, lines, created_by, created_at
		FROM batches
		WHERE sha256 = ?
	`
	batch, err := scanBatch(s.db.QueryRowContext(ctx, query, sha256))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get batch by sha256: %w", err)
	}
	return batch, nil
}

func scanBatch(row scanner) (*model.Batch, error) {
	var batch model.Batch
	var createdBy sql.NullString
	var createdAt string
	if err := row.Scan(
		&batch.ID,
		&batch.Name,
		&batch.SHA256,
		&batch.Lines,
		&createdBy,
		&createdAt,
	); err != nil {
		return nil, err
	}
	batch.CreatedBy = createdBy.String
	batch.CreatedAt = parseTime(createdAt)
	return &batch, nil
}

func insertWork(ctx context.Context, db execer, work *model.Work) (int64, error) {
	const query = `
		INSERT INTO work (batch_id, line_no, expression, stage, status, attempt, available_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := db.ExecContext(ctx, query,
		work.BatchID,
		work.LineNo,
		work.Expression,
		work.Stage,
		work.Status,
		work.Attempt,
		work.AvailableAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert work: %w", err)
	}
	return result.LastInsertId()
}

const workColumns = `id, batch_id, line_no, expression, stage, status, attempt, available_at,
		          locked_by, locked_at, started_at, finished_at, postfix, result, error_code, error_message`

// ClaimWork atomically claims a queued job for a stage, returning nil if none available.
func (s *SQLiteStore) ClaimWork(ctx context.Context, stage, workerID string) (*model.Work, error) {
	nowStr := time.Now().UTC().Format(time.RFC3339)

	const query = `
		UPDATE work
		SET status = 'running',
		    locked_by = ?,
		    locked_at = ?,
		    started_at = COALESCE(started_at, ?),
		    attempt = attempt + 1
		WHERE id = (
			SELECT id FROM work
			WHERE stage = ?
			  AND status = 'queued'
			  AND available_at <= ?
			ORDER BY available_at, id
			LIMIT 1
		)
		RETURNING ` + workColumns

	work, err := scanWork(s.db.QueryRowContext(ctx, query, workerID, nowStr, nowStr, stage, nowStr))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("claim work: %w", err)
	}
	return work, nil
}

// FinishWork records the outcome of a job and appends it to the
// evaluation history with source "batch", in one transaction.
func (s *SQLiteStore) FinishWork(ctx context.Context, id int64, outcome model.WorkOutcome) error {
	const update = `
		UPDATE work
		SET status = ?,
		    finished_at = ?,
		    postfix = ?,
		    result = ?,
		    error_code = ?,
		    error_message = ?,
		    locked_by = NULL,
		    locked_at = NULL
		WHERE id = ?
	`
	const history = `
		INSERT INTO evaluations (expression, postfix, result, error_code, error_message, source, created_at)
		SELECT expression, postfix, result, error_code, error_message, ?, finished_at
		FROM work
		WHERE id = ?
	`
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("finish work: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, update,
		outcome.Status,
		time.Now().UTC().Format(time.RFC3339),
		nullString(outcome.Postfix),
		nullFloat(outcome.Result),
		nullString(outcome.ErrorCode),
		nullString(outcome.ErrorMessage),
		id,
	)
	if err != nil {
		return fmt.Errorf("finish work: %w", err)
	}
	if n, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("finish work: rows affected: %w", err)
	} else if n == 0 {
		return fmt.Errorf("finish work %d: not found", id)
	}
	if _, err := tx.ExecContext(ctx, history, model.SourceBatch, id); err != nil {
		return fmt.Errorf("finish work: record history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("finish work: commit: %w", err)
	}
	return nil
}

// ResetFailedWork resets failed jobs for a stage back to queued, returning count reset.
func (s *SQLiteStore) ResetFailedWork(ctx context.Context, stage string) (int, error) {
	const query = `
		UPDATE work
		SET status = 'queued',
		    available_at = ?,
		    locked_by = NULL,
		    locked_at = NULL,
		    finished_at = NULL,
		    postfix = NULL,
		    result = NULL,
		    error_code = NULL,
		    error_message = NULL
		WHERE stage = ?
		  AND status = 'failed'
	`
	result, err := s.db.ExecContext(ctx, query, time.Now().UTC().Format(time.RFC3339), stage)
	if err != nil {
		return 0, fmt.Errorf("reset failed work: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}

// GetFailedWork returns all failed jobs for a stage.
func (s *SQLiteStore) GetFailedWork(ctx context.Context, stage string) ([]model.Work, error) {
	const query = `
		SELECT ` + workColumns + `
		FROM work
		WHERE stage = ?
		  AND status = 'failed'
		ORDER BY id
	`
	return s.queryWork(ctx, query, stage)
}

// GetWorkByBatch returns the jobs of a batch in line order.
func (s *SQLiteStore) GetWorkByBatch(ctx context.Context, batchID int64) ([]model.Work, error) {
	const query = `
		SELECT ` + workColumns + `
		FROM work
		WHERE batch_id = ?
		ORDER BY line_no, id
	`
	return s.queryWork(ctx, query, batchID)
}

// GetWorkSummaryByBatch returns work counts grouped by stage and status for a batch.
// Returns map[stage]map[status]count.
func (s *SQLiteStore) GetWorkSummaryByBatch(ctx context.Context, batchID int64) (map[string]map[string]int, error) {
	const query = `
		SELECT stage, status, COUNT(*) as cnt
		FROM work
		WHERE batch_id = ?
		GROUP BY stage, status
	`
	rows, err := s.db.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, fmt.Errorf("get work summary: %w", err)
	}
	defer rows.Close()

	result := make(map[string]map[string]int)
	for rows.Next() {
		var stage, status string
		var cnt int
		if err := rows.Scan(&stage, &status, &cnt); err != nil {
			return nil, fmt.Errorf("scan work summary: %w", err)
		}
		if result[stage] == nil {
			result[stage] = make(map[string]int)
		}
		result[stage][status] = cnt
	}
	return result, rows.Err()
}

func (s *SQLiteStore) queryWork(ctx context.Context, query string, args ...any) ([]model.Work, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query work: %w", err)
	}
	defer rows.Close()

	var works []model.Work
	for rows.Next() {
		work, err := scanWork(rows)
		if err != nil {
			return nil, fmt.Errorf("scan work: %w", err)
		}
		works = append(works, *work)
	}
	return works, rows.Err()
}

// scanWork scans a Work from a sql.Row or sql.Rows.
func scanWork(row scanner) (*model.Work, error) {
	var w model.Work
	var availableAt string
	var lockedBy, lockedAt, startedAt, finishedAt, postfix, errorCode, errorMessage sql.NullString
	var result sql.NullFloat64
	if err := row.Scan(
		&w.ID, &w.BatchID, &w.LineNo, &w.Expression, &w.Stage, &w.Status, &w.Attempt, &availableAt,
		&lockedBy, &lockedAt, &startedAt, &finishedAt, &postfix, &result, &errorCode, &errorMessage,
	); err != nil {
		return nil, err
	}
	w.AvailableAt = parseTime(availableAt)
	w.LockedBy = nullStringPtr(lockedBy)
	w.LockedAt = parseTimePtr(lockedAt)
	w.StartedAt = parseTimePtr(startedAt)
	w.FinishedAt = parseTimePtr(finishedAt)
	w.Postfix = nullStringPtr(postfix)
	if result.Valid {
		w.Result = &result.Float64
	}
	w.ErrorCode = nullStringPtr(errorCode)
	w.ErrorMessage = nullStringPtr(errorMessage)
	return &w, nil
}

// Helper functions

func parseTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	return time.Time{}
}

func parseTimePtr(ns sql.NullString) *time.Time {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, ns.String); err == nil {
		return &t
	}
	return nil
}

func nullStringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
