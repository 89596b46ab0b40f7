// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package main implements the calc command line utility.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/mdhender/calc"
	"github.com/spf13/cobra"
)

func main() {
	addFlags := func(cmd *cobra.Command) error {
		cmd.PersistentFlags().Bool("debug", false, "log debugging information")
		cmd.PersistentFlags().Bool("log-with-default-flags", false, "log with default flags")
		cmd.PersistentFlags().Bool("log-with-shortfile", true, "log with short file name")
		cmd.PersistentFlags().Bool("log-with-timestamp", false, "log with timestamp")
		cmd.PersistentFlags().Bool("quiet", false, "log less information")
		cmd.PersistentFlags().Bool("show-version", false, "show version")
		cmd.PersistentFlags().Bool("verbose", false, "log more information")
		return nil
	}
	var cmdRoot = &cobra.Command{
		Use:   "calc",
		Short: "Arithmetic expression calculator",
		Long:  `Convert infix expressions to postfix and evaluate them`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logWithDefaultFlags, _ := cmd.Flags().GetBool("log-with-default-flags")
			logWithShortFileName, _ := cmd.Flags().GetBool("log-with-shortfile")
			logWithTimestamp, _ := cmd.Flags().GetBool("log-with-timestamp")
			logFlags := 0
			if logWithShortFileName {
				logFlags |= log.Lshortfile
			}
			if logWithTimestamp {
				logFlags |= log.Ltime
			}
			if logWithDefaultFlags || logFlags == 0 {
				logFlags = log.LstdFlags
			}
			log.SetFlags(logFlags)

			if showVersion, _ := cmd.Flags().GetBool("show-version"); showVersion {
				fmt.Printf("calc: version %q\n", calc.Version().Core())
			}

			return nil
		},
	}
	cmdRoot.AddCommand(cmdEval())
	cmdRoot.AddCommand(cmdPostfix())
	cmdRoot.AddCommand(cmdBatch())
	cmdRoot.AddCommand(cmdHistory())
	cmdRoot.AddCommand(cmdServe())
	cmdRoot.AddCommand(cmdDB())
	cmdRoot.AddCommand(cmdHashPassword())
	cmdRoot.AddCommand(cmdVersion())
	if err := addFlags(cmdRoot); err != nil {
		log.Fatal(err)
	}

	if err := cmdRoot.Execute(); err != nil {
		os.Exit(1)
	}
}

// calcOptions returns the converter and evaluator options for the
// persistent logging flags.
func calcOptions(cmd *cobra.Command, name string) []calc.Option {
	options := []calc.Option{calc.WithName(name)}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		options = append(options, calc.WithLogger(logger))
	}
	return options
}

// expression joins the command arguments so that unquoted input like
// `calc eval 2 + 3` works.
func expression(args []string) string {
	return strings.Join(args, " ")
}

// reportError prints a caret diagnostic for errors that carry a position.
func reportError(name, expr string, err error) {
	if diag, ok := calc.DiagnosticFor(err); ok {
		calc.PrintDiagnostic(os.Stderr, diag, name, calc.Terminate(expr))
		return
	}
	log.Printf("%s: %v\n", name, err)
}

func cmdVersion() *cobra.Command {
	showBuildInfo := false
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().BoolVar(&showBuildInfo, "build-info", showBuildInfo, "show build information")
		return nil
	}
	var cmd = &cobra.Command{
		Use:   "version",
		Short: "display the application's version number",
		RunE: func(cmd *cobra.Command, args []string) error {
			if showBuildInfo {
				fmt.Println(calc.Version().String())
				return nil
			}
			fmt.Println(calc.Version().Core())
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}
