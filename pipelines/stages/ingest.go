// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"time"

	"github.com/mdhender/calc/model"
	"github.com/spf13/afero"
)

// IngestService turns a file of expressions into a batch of queued jobs.
type IngestService struct {
	store IngestStore
	fs    afero.Fs
}

// IngestStore defines the store operations needed by IngestService.
type IngestStore interface {
	GetBatchBySHA256(ctx context.Context, sha256 string) (*model.Batch, error)
	InsertBatchWithWork(ctx context.Context, batch *model.Batch, jobs []model.Work) (int64, error)
}

// NewIngestService creates a new IngestService.
func NewIngestService(store IngestStore) *IngestService {
	return &IngestService{
		store: store,
		fs:    afero.NewOsFs(),
	}
}

// SetFS sets the filesystem for testing.
func (s *IngestService) SetFS(fs afero.Fs) {
	s.fs = fs
}

// IngestResult contains the result of an ingest operation.
type IngestResult struct {
	BatchID   int64
	Lines     int  // number of expressions queued
	Duplicate bool // true if the same content was already ingested (idempotent no-op)
}

// Line is one expression from a batch file.
type Line struct {
	No         int // 1-based line number in the file
	Expression string
}

// ParseLines splits a batch file into expressions.
// Blank lines and lines starting with '#' are skipped.
func ParseLines(data []byte) []Line {
	var lines []Line
	for n, raw := range bytes.Split(data, []byte{'\n'}) {
		text := bytes.TrimSpace(raw)
		if len(text) == 0 || text[0] == '#' {
			continue
		}
		lines = append(lines, Line{No: n + 1, Expression: string(text)})
	}
	return lines
}

// IngestFile reads a batch file and queues one job per expression.
func (s *IngestService) IngestFile(ctx context.Context, path, createdBy string) (*IngestResult, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, &ErrReadFile{Op: "read", Path: path, Err: err}
	}
	return s.Ingest(ctx, filepath.Base(path), data, createdBy)
}

// Ingest queues one job per expression in data.
// Returns IngestResult with Duplicate=true if the content was already ingested.
func (s *IngestService) Ingest(ctx context.Context, name string, data []byte, createdBy string) (*IngestResult, error) {
	hash := sha256.Sum256(data)
	hashStr := hex.EncodeToString(hash[:])

	existing, err := s.store.GetBatchBySHA256(ctx, hashStr)
	if err != nil {
		return nil, &ErrDatabase{Op: "check duplicate", Err: err}
	}
	if existing != nil {
		return &IngestResult{
			BatchID:   existing.ID,
			Lines:     existing.Lines,
			Duplicate: true,
		}, nil
	}

	now := time.Now().UTC()
	lines := ParseLines(data)
	jobs := make([]model.Work, 0, len(lines))
	for _, line := range lines {
		jobs = append(jobs, model.Work{
			LineNo:      line.No,
			Expression:  line.Expression,
			Stage:       model.WorkStageEvaluate,
			Status:      model.WorkStatusQueued,
			Attempt:     0,
			AvailableAt: now,
		})
	}

	// the batch and its jobs are stored together or not at all
	batchID, err := s.store.InsertBatchWithWork(ctx, &model.Batch{
		Name:      name,
		SHA256:    hashStr,
		CreatedBy: createdBy,
		CreatedAt: now,
	}, jobs)
	if err != nil {
		return nil, &ErrDatabase{Op: "insert batch", Err: err}
	}

	return &IngestResult{
		BatchID: batchID,
		Lines:   len(lines),
	}, nil
}
