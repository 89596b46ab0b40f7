// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	store "github.com/mdhender/calc/stores/sqlite"
	"github.com/mdhender/calc/web/auth"
	"github.com/spf13/cobra"
)

func cmdDB() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "db",
		Short: "manage the SQLite database",
	}
	cmd.AddCommand(&cobra.Command{
		Use:          "init <path>",
		Short:        "create a new database file with the schema applied",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.InitDatabase(args[0]); err != nil {
				return err
			}
			log.Printf("db: created %s\n", args[0])
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:          "compact <path>",
		Short:        "checkpoint the WAL and vacuum the database file",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.CompactDatabase(args[0]); err != nil {
				return err
			}
			log.Printf("db: compacted %s\n", args[0])
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:          "stats <path>",
		Short:        "dump row counts from each table",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := store.NewSQLiteStoreWithConfig(store.StoreConfig{Path: args[0]})
			if err != nil {
				return err
			}
			defer s.Close()
			stats, err := s.TableStats(cmd.Context())
			if err != nil {
				return err
			}
			var tables []string
			for table := range stats {
				tables = append(tables, table)
			}
			sort.Strings(tables)
			for _, table := range tables {
				fmt.Printf("%-12s %8d\n", table, stats[table])
			}
			return nil
		},
	})
	return cmd
}

func cmdHashPassword() *cobra.Command {
	cost := auth.DefaultCost
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().IntVar(&cost, "cost", cost, "bcrypt cost")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "hash-password [password]",
		Short:        "print a bcrypt hash for serve --auth-hash",
		Long:         `Print a bcrypt hash of the password. The password is read from stdin when not given.`,
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("hash-password: read stdin: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			hash, err := auth.HashPassword(password, cost)
			if err != nil {
				return fmt.Errorf("hash-password: %w", err)
			}
			fmt.Println(hash)
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}
