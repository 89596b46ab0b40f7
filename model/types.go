// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package model

import (
	"time"
)

// Evaluation is a single expression and its outcome, as recorded in history.
type Evaluation struct {
	ID         int64     `json:"id"`
	Expression string    `json:"expression"`
	Postfix    string    `json:"postfix,omitempty"`
	Result     *float64  `json:"result,omitempty"` // nil when the expression failed
	ErrorCode  string    `json:"errorCode,omitempty"`
	ErrorMsg   string    `json:"error,omitempty"`
	Source     string    `json:"source,omitempty"` // cli, web, batch
	CreatedAt  time.Time `json:"createdAt"`
}

// OK reports whether the evaluation produced a result.
func (e *Evaluation) OK() bool {
	return e.ErrorCode == "" && e.Result != nil
}

// Batch is a file of expressions submitted for evaluation.
type Batch struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	SHA256    string    `json:"sha256"`
	Lines     int       `json:"lines"` // number of expressions queued
	CreatedBy string    `json:"createdBy,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Work is a queued job that evaluates one line of a batch.
type Work struct {
	ID           int64      `json:"id"`
	BatchID      int64      `json:"batchId"`
	LineNo       int        `json:"lineNo"`
	Expression   string     `json:"expression"`
	Stage        string     `json:"stage"`
	Status       string     `json:"status"`
	Attempt      int        `json:"attempt"`
	AvailableAt  time.Time  `json:"availableAt"`
	LockedBy     *string    `json:"lockedBy,omitempty"`
	LockedAt     *time.Time `json:"lockedAt,omitempty"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	FinishedAt   *time.Time `json:"finishedAt,omitempty"`
	Postfix      *string    `json:"postfix,omitempty"`
	Result       *float64   `json:"result,omitempty"`
	ErrorCode    *string    `json:"errorCode,omitempty"`
	ErrorMessage *string    `json:"errorMessage,omitempty"`
}

// Work stages.
const (
	WorkStageEvaluate = "evaluate"
)

// Work statuses.
const (
	WorkStatusQueued  = "queued"
	WorkStatusRunning = "running"
	WorkStatusOk      = "ok"
	WorkStatusFailed  = "failed"
)

// Evaluation sources.
const (
	SourceCLI   = "cli"
	SourceWeb   = "web"
	SourceBatch = "batch"
)

// WorkOutcome is the result of running a job.
type WorkOutcome struct {
	Status       string   // WorkStatusOk or WorkStatusFailed
	Postfix      string   // empty if conversion failed
	Result       *float64 // nil on failure
	ErrorCode    string
	ErrorMessage string
}
