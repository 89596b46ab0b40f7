// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	store "github.com/mdhender/calc/stores/sqlite"
	"github.com/mdhender/calc/web/auth"
	"github.com/mdhender/calc/web/handlers"
	"github.com/spf13/cobra"
)

func cmdServe() *cobra.Command {
	addr := ":8787"
	var dbPath string
	var authUser, authHash string
	var timeout time.Duration
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().StringVar(&addr, "addr", addr, "HTTP listen address")
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "SQLite database file path (empty = in-memory)")
		cmd.Flags().StringVar(&authUser, "auth-user", authUser, "require basic auth with this user name")
		cmd.Flags().StringVar(&authHash, "auth-hash", authHash, "bcrypt hash of the basic auth password (see hash-password)")
		cmd.Flags().DurationVar(&timeout, "timeout", 0, "auto-shutdown after duration (e.g., 5s, 1m)")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "serve",
		Short:        "serve the calculator over HTTP",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (authUser == "") != (authHash == "") {
				return fmt.Errorf("serve: --auth-user and --auth-hash must be used together")
			}
			if authHash != "" {
				if _, err := auth.HashCost(authHash); err != nil {
					return fmt.Errorf("serve: --auth-hash: %w", err)
				}
			}
			return serve(addr, dbPath, auth.BasicAuth{User: authUser, Hash: authHash}, timeout)
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func serve(addr, dbPath string, ba auth.BasicAuth, timeout time.Duration) error {
	var sqliteStore *store.SQLiteStore
	var err error

	if dbPath != "" {
		// File-based mode: database must already exist (created by db init)
		log.Printf("store: using file-based SQLite: %s", dbPath)
		sqliteStore, err = store.NewSQLiteStoreWithConfig(store.StoreConfig{
			Path:       dbPath,
			InitSchema: false,
		})
	} else {
		log.Printf("store: using in-memory SQLite")
		sqliteStore, err = store.NewSQLiteStore()
	}
	if err != nil {
		return fmt.Errorf("failed to create SQLite store: %v", err)
	}
	defer sqliteStore.Close()

	h := handlers.New(sqliteStore)
	if ba.Enabled() {
		h.SetBasicAuth(ba)
		log.Printf("auth: basic auth enabled for %q", ba.User)
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      h.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	if timeout > 0 {
		go func() {
			log.Printf("server: will auto-shutdown in %v", timeout)
			time.Sleep(timeout)
			log.Printf("server: timeout reached, initiating shutdown")
			shutdown <- os.Interrupt
		}()
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("server: listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-shutdown:
	case err := <-serverErr:
		return fmt.Errorf("server: %w", err)
	}
	log.Printf("server: shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown error: %w", err)
	}

	log.Printf("server: stopped")
	return nil
}
