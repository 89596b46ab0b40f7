// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/mdhender/calc"
	"github.com/mdhender/calc/model"
)

// WorkerService claims and executes evaluation jobs.
type WorkerService struct {
	store    WorkerStore
	workerID string
	options  []calc.Option
}

// WorkerStore defines the store operations needed by WorkerService.
type WorkerStore interface {
	ClaimWork(ctx context.Context, stage, workerID string) (*model.Work, error)
	FinishWork(ctx context.Context, id int64, outcome model.WorkOutcome) error
}

// NewWorkerService creates a new WorkerService.
// The options are passed to the converter and evaluator for every job.
func NewWorkerService(store WorkerStore, workerID string, options ...calc.Option) *WorkerService {
	if workerID == "" {
		hostname, _ := os.Hostname()
		workerID = fmt.Sprintf("%s:%d", hostname, os.Getpid())
	}
	return &WorkerService{
		store:    store,
		workerID: workerID,
		options:  options,
	}
}

// ClaimJob atomically claims a queued job.
// Returns nil if no work is available.
func (w *WorkerService) ClaimJob(ctx context.Context) (*model.Work, error) {
	return w.store.ClaimWork(ctx, model.WorkStageEvaluate, w.workerID)
}

// Execute evaluates the job's expression. A bad expression is a failed
// outcome, not an error.
func (w *WorkerService) Execute(job *model.Work) model.WorkOutcome {
	options := append([]calc.Option{calc.WithName(fmt.Sprintf("line %d", job.LineNo))}, w.options...)
	p, value, err := calc.CalculatePostfix(job.Expression, options...)
	outcome := model.WorkOutcome{Status: model.WorkStatusOk}
	if p.Len() != 0 {
		outcome.Postfix = p.String()
	}
	if err != nil {
		outcome.Status = model.WorkStatusFailed
		outcome.ErrorCode = ErrorCode(err)
		outcome.ErrorMessage = err.Error()
		return outcome
	}
	outcome.Result = &value
	return outcome
}

// FinishJob records the outcome of a job. The store also adds it to the
// evaluation history.
func (w *WorkerService) FinishJob(ctx context.Context, job *model.Work, outcome model.WorkOutcome) error {
	if err := w.store.FinishWork(ctx, job.ID, outcome); err != nil {
		return &ErrDatabase{Op: "finish work", Err: err}
	}
	return nil
}

// ProcessJob claims, executes, and finishes a single job.
// Returns (jobProcessed, error). jobProcessed is true if a job was claimed.
func (w *WorkerService) ProcessJob(ctx context.Context) (bool, error) {
	job, err := w.ClaimJob(ctx)
	if err != nil {
		return false, &ErrDatabase{Op: "claim work", Err: err}
	}
	if job == nil {
		return false, nil
	}
	if err := w.FinishJob(ctx, job, w.Execute(job)); err != nil {
		return true, err
	}
	return true, nil
}

// Drain processes jobs until the queue is empty or the context is done.
// Returns the number of jobs processed.
func (w *WorkerService) Drain(ctx context.Context) (int, error) {
	processed := 0
	for {
		if err := ctx.Err(); err != nil {
			return processed, err
		}
		ok, err := w.ProcessJob(ctx)
		if ok {
			processed++
		}
		if err != nil {
			return processed, err
		}
		if !ok {
			return processed, nil
		}
	}
}

// DrainWithWorkers runs n workers against the store until the queue is empty.
// Worker IDs are prefix-1 through prefix-n. Returns the total number of jobs
// processed and the first error reported by any worker.
func DrainWithWorkers(ctx context.Context, store WorkerStore, prefix string, n int, options ...calc.Option) (int, error) {
	if n < 1 {
		n = 1
	}
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		total    int
		firstErr error
	)
	for i := 1; i <= n; i++ {
		worker := NewWorkerService(store, fmt.Sprintf("%s-%d", prefix, i), options...)
		wg.Add(1)
		go func() {
			defer wg.Done()
			processed, err := worker.Drain(ctx)
			mu.Lock()
			defer mu.Unlock()
			total += processed
			if err != nil && firstErr == nil {
				firstErr = err
			}
		}()
	}
	wg.Wait()
	return total, firstErr
}
