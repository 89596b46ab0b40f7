// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/mdhender/calc/model"
	"github.com/mdhender/calc/pipelines/stages"
	store "github.com/mdhender/calc/stores/sqlite"
	"github.com/spf13/cobra"
)

func cmdBatch() *cobra.Command {
	workers := 4
	retryFailed := false
	showTiming := false
	var dbPath string
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().IntVar(&workers, "workers", workers, "number of concurrent workers")
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "SQLite database file path (empty = in-memory)")
		cmd.Flags().BoolVar(&retryFailed, "retry-failed", retryFailed, "requeue failed jobs before draining")
		cmd.Flags().BoolVar(&showTiming, "show-timing", showTiming, "show timing for each stage")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "batch <expressions-file>",
		Short:        "evaluate every expression in a file",
		Long:         `Evaluate a file with one expression per line. Blank lines and lines starting with '#' are skipped.`,
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1), // require path to expressions file
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			quiet, _ := cmd.Flags().GetBool("quiet")

			var s *store.SQLiteStore
			var err error
			if dbPath != "" {
				s, err = store.NewSQLiteStoreWithConfig(store.StoreConfig{Path: dbPath})
			} else {
				s, err = store.NewSQLiteStore()
			}
			if err != nil {
				return fmt.Errorf("create store: %w", err)
			}
			defer s.Close()

			startedStage := time.Now()
			ingest := stages.NewIngestService(s)
			result, err := ingest.IngestFile(ctx, args[0], currentUser())
			if err != nil {
				return err
			}
			if showTiming {
				log.Printf("%s: ingest completed in %v\n", args[0], time.Since(startedStage))
			}
			if result.Duplicate && !quiet {
				log.Printf("%s: already ingested as batch %d\n", args[0], result.BatchID)
			}

			if retryFailed {
				n, err := s.ResetFailedWork(ctx, model.WorkStageEvaluate)
				if err != nil {
					return fmt.Errorf("retry failed: %w", err)
				}
				if !quiet {
					log.Printf("%s: requeued %d failed jobs\n", args[0], n)
				}
			}

			startedStage = time.Now()
			processed, err := stages.DrainWithWorkers(ctx, s, workerPrefix(), workers, calcOptions(cmd, args[0])...)
			if err != nil {
				return err
			}
			if showTiming {
				log.Printf("%s: evaluated %d jobs in %v\n", args[0], processed, time.Since(startedStage))
			}

			jobs, err := s.GetWorkByBatch(ctx, result.BatchID)
			if err != nil {
				return fmt.Errorf("list work: %w", err)
			}
			failed := 0
			for _, job := range jobs {
				switch {
				case job.Status == model.WorkStatusOk && job.Result != nil:
					fmt.Printf("%d: %s = %s\n", job.LineNo, job.Expression, strconv.FormatFloat(*job.Result, 'g', -1, 64))
				case job.Status == model.WorkStatusFailed:
					failed++
					fmt.Printf("%d: %s: %s: %s\n", job.LineNo, job.Expression, deref(job.ErrorCode), deref(job.ErrorMessage))
				default:
					fmt.Printf("%d: %s: %s\n", job.LineNo, job.Expression, job.Status)
				}
			}
			if !quiet {
				log.Printf("%s: batch %d: %d lines, %d failed\n", args[0], result.BatchID, len(jobs), failed)
			}
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func currentUser() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "calc"
}

func workerPrefix() string {
	hostname, _ := os.Hostname()
	return fmt.Sprintf("%s:%d", hostname, os.Getpid())
}
