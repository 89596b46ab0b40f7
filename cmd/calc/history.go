// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"fmt"
	"log"
	"strconv"

	store "github.com/mdhender/calc/stores/sqlite"
	"github.com/spf13/cobra"
)

func cmdHistory() *cobra.Command {
	limit := 20
	var dbPath string
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().IntVar(&limit, "limit", limit, "maximum number of evaluations to show (0 = all)")
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "SQLite database file path")
		return cmd.MarkFlagRequired("db")
	}
	var cmd = &cobra.Command{
		Use:          "history",
		Short:        "list recent evaluations, newest first",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.NewSQLiteStoreWithConfig(store.StoreConfig{Path: dbPath})
			if err != nil {
				return err
			}
			defer s.Close()

			list, err := s.ListEvaluations(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("history: %w", err)
			}
			for _, e := range list {
				result := e.ErrorCode
				if e.OK() {
					result = strconv.FormatFloat(*e.Result, 'g', -1, 64)
				}
				fmt.Printf("%6d  %s  %-5s  %s = %s\n", e.ID, e.CreatedAt.Format("2006-01-02 15:04:05"), e.Source, e.Expression, result)
			}
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}
