// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/mdhender/calc/model"
)

// InsertEvaluation records an evaluation and returns its assigned ID.
func (s *SQLiteStore) InsertEvaluation(ctx context.Context, e *model.Evaluation) (int64, error) {
	const query = `
		INSERT INTO evaluations (expression, postfix, result, error_code, error_message, source, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	source := e.Source
	if source == "" {
		source = model.SourceCLI
	}
	result, err := s.db.ExecContext(ctx, query,
		e.Expression,
		nullString(e.Postfix),
		nullFloat(e.Result),
		nullString(e.ErrorCode),
		nullString(e.ErrorMsg),
		source,
		createdAt.Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert evaluation: %w", err)
	}
	return result.LastInsertId()
}

// GetEvaluation retrieves an evaluation by ID. Returns nil if not found.
func (s *SQLiteStore) GetEvaluation(ctx context.Context, id int64) (*model.Evaluation, error) {
	const query = `
		SELECT id, expression, postfix, result, error_code, error_message, source, created_at
		FROM evaluations
		WHERE id = ?
	`
	e, err := scanEvaluation(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get evaluation: %w", err)
	}
	return e, nil
}

// ListEvaluations returns the most recent evaluations, newest first.
// A limit of zero or less returns all of them.
func (s *SQLiteStore) ListEvaluations(ctx context.Context, limit int) ([]model.Evaluation, error) {
	const query = `
		SELECT id, expression, postfix, result, error_code, error_message, source, created_at
		FROM evaluations
		ORDER BY id DESC
		LIMIT ?
	`
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	defer rows.Close()

	var list []model.Evaluation
	for rows.Next() {
		e, err := scanEvaluation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan evaluation: %w", err)
		}
		list = append(list, *e)
	}
	return list, rows.Err()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEvaluation(row scanner) (*model.Evaluation, error) {
	var e model.Evaluation
	var postfix, errorCode, errorMsg sql.NullString
	var result sql.NullFloat64
	var createdAt string
	if err := row.Scan(
		&e.ID, &e.Expression, &postfix, &result, &errorCode, &errorMsg, &e.Source, &createdAt,
	); err != nil {
		return nil, err
	}
	e.Postfix = postfix.String
	e.ErrorCode = errorCode.String
	e.ErrorMsg = errorMsg.String
	if result.Valid {
		e.Result = &result.Float64
	}
	e.CreatedAt = parseTime(createdAt)
	return &e, nil
}
