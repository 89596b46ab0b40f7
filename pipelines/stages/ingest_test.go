// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package stages_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/mdhender/calc/model"
	"github.com/mdhender/calc/pipelines/stages"
	store "github.com/mdhender/calc/stores/sqlite"
	"github.com/spf13/afero"
)

const batchFile = `# sample batch
2+3*4

(2+3)*4
5/0
   1.5 + 2.25
(1+2
`

func newStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore()
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestParseLines(t *testing.T) {
	lines := stages.ParseLines([]byte(batchFile))
	want := []stages.Line{
		{No: 2, Expression: "2+3*4"},
		{No: 4, Expression: "(2+3)*4"},
		{No: 5, Expression: "5/0"},
		{No: 6, Expression: "1.5 + 2.25"},
		{No: 7, Expression: "(1+2"},
	}
	if len(lines) != len(want) {
		t.Fatalf("ParseLines: got %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %+v, want %+v", i, lines[i], want[i])
		}
	}

	crlf := stages.ParseLines([]byte("1+1\r\n2+2\r\n"))
	if len(crlf) != 2 || crlf[1].Expression != "2+2" {
		t.Errorf("ParseLines(CRLF) = %+v", crlf)
	}
}

func TestIngestService_IngestFile(t *testing.T) {
	ctx := context.Background()
	sqlStore := newStore(t)

	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/data/exprs.txt", []byte(batchFile), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	svc := stages.NewIngestService(sqlStore)
	svc.SetFS(fs)

	result, err := svc.IngestFile(ctx, "/data/exprs.txt", "test")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if result.Duplicate || result.Lines != 5 {
		t.Fatalf("ingest = %+v, want 5 new lines", result)
	}

	batch, err := sqlStore.GetBatch(ctx, result.BatchID)
	if err != nil || batch == nil {
		t.Fatalf("get batch: %v, %v", batch, err)
	}
	if batch.Name != "exprs.txt" || batch.Lines != 5 || batch.CreatedBy != "test" {
		t.Errorf("batch = %+v", batch)
	}

	jobs, err := sqlStore.GetWorkByBatch(ctx, result.BatchID)
	if err != nil {
		t.Fatalf("get work: %v", err)
	}
	if len(jobs) != 5 {
		t.Fatalf("got %d jobs, want 5", len(jobs))
	}
	for _, job := range jobs {
		if job.Status != model.WorkStatusQueued || job.Stage != model.WorkStageEvaluate {
			t.Errorf("job %d: stage %q status %q", job.LineNo, job.Stage, job.Status)
		}
	}

	again, err := svc.IngestFile(ctx, "/data/exprs.txt", "test")
	if err != nil {
		t.Fatalf("ingest again: %v", err)
	}
	if !again.Duplicate || again.BatchID != result.BatchID || again.Lines != 5 {
		t.Fatalf("ingest again = %+v, want duplicate of batch %d", again, result.BatchID)
	}
}

func TestIngestService_MissingFile(t *testing.T) {
	svc := stages.NewIngestService(newStore(t))
	svc.SetFS(afero.NewMemMapFs())

	_, err := svc.IngestFile(context.Background(), "/nope.txt", "test")
	var re *stages.ErrReadFile
	if !errors.As(err, &re) {
		t.Fatalf("err = %v, want *ErrReadFile", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want it to wrap os.ErrNotExist", err)
	}
	if got := stages.ErrorCode(err); got != stages.ErrCodeReadFile {
		t.Errorf("ErrorCode = %q, want %q", got, stages.ErrCodeReadFile)
	}
}

// flakyStore fails the next batch insert partway through its jobs.
type flakyStore struct {
	*store.SQLiteStore
	fail bool
}

func (s *flakyStore) InsertBatchWithWork(ctx context.Context, batch *model.Batch, jobs []model.Work) (int64, error) {
	if s.fail && len(jobs) > 1 {
		s.fail = false
		broken := append([]model.Work(nil), jobs...)
		broken[1].Status = "disk full"
		return s.SQLiteStore.InsertBatchWithWork(ctx, batch, broken)
	}
	return s.SQLiteStore.InsertBatchWithWork(ctx, batch, jobs)
}

func TestIngestService_RetryAfterFailedInsert(t *testing.T) {
	ctx := context.Background()
	sqlStore := newStore(t)
	flaky := &flakyStore{SQLiteStore: sqlStore, fail: true}
	svc := stages.NewIngestService(flaky)
	data := []byte("1+1\n2+2\n3+3\n")

	if _, err := svc.Ingest(ctx, "exprs.txt", data, "test"); err == nil {
		t.Fatalf("first ingest: want error")
	} else if got := stages.ErrorCode(err); got != stages.ErrCodeDatabase {
		t.Errorf("ErrorCode = %q, want %q", got, stages.ErrCodeDatabase)
	}

	result, err := svc.Ingest(ctx, "exprs.txt", data, "test")
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if result.Duplicate || result.Lines != 3 {
		t.Fatalf("retry = %+v, want 3 new lines", result)
	}
	jobs, err := sqlStore.GetWorkByBatch(ctx, result.BatchID)
	if err != nil {
		t.Fatalf("get work: %v", err)
	}
	if len(jobs) != 3 {
		t.Fatalf("got %d jobs, want 3", len(jobs))
	}
	stats, err := sqlStore.TableStats(ctx)
	if err != nil {
		t.Fatalf("table stats: %v", err)
	}
	if stats["batches"] != 1 || stats["work"] != 3 {
		t.Errorf("stats = %v, want 1 batch and 3 jobs", stats)
	}
}
