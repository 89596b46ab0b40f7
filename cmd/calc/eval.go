// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/mdhender/calc"
	"github.com/mdhender/calc/model"
	store "github.com/mdhender/calc/stores/sqlite"
	"github.com/spf13/cobra"
)

func cmdEval() *cobra.Command {
	showPostfix := false
	var dbPath string
	addFlags := func(cmd *cobra.Command) error {
		cmd.Flags().BoolVar(&showPostfix, "show-postfix", showPostfix, "print the postfix form before the result")
		cmd.Flags().StringVar(&dbPath, "db", dbPath, "record the evaluation in this database")
		return nil
	}
	var cmd = &cobra.Command{
		Use:          "eval <expression>",
		Short:        "evaluate an infix expression",
		Long:         `Evaluate an infix expression. The terminating '=' is added for you.`,
		SilenceUsage: true,
		Args:         cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr := expression(args)
			p, value, err := calc.CalculatePostfix(expr, calcOptions(cmd, "<expr>")...)
			if showPostfix && p.Len() != 0 {
				fmt.Println(p.String())
			}
			if dbPath != "" {
				if rerr := recordEvaluation(cmd.Context(), dbPath, expr, p, value, err); rerr != nil {
					log.Printf("eval: %v\n", rerr)
				}
			}
			if err != nil {
				reportError("<expr>", expr, err)
				return fmt.Errorf("eval: %s", calc.ErrorCode(err))
			}
			fmt.Println(strconv.FormatFloat(value, 'g', -1, 64))
			return nil
		},
	}
	if err := addFlags(cmd); err != nil {
		log.Fatal(err)
	}
	return cmd
}

func cmdPostfix() *cobra.Command {
	var cmd = &cobra.Command{
		Use:          "postfix <expression>",
		Short:        "convert an infix expression to postfix without evaluating it",
		SilenceUsage: true,
		Args:         cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr := expression(args)
			p, err := calc.Convert(calc.Terminate(expr), calcOptions(cmd, "<expr>")...)
			if err != nil {
				reportError("<expr>", expr, err)
				return fmt.Errorf("postfix: %s", calc.ErrorCode(err))
			}
			fmt.Println(p.String())
			return nil
		},
	}
	return cmd
}

// recordEvaluation appends one evaluation to the history table.
func recordEvaluation(ctx context.Context, dbPath, expr string, p calc.Postfix, value float64, calcErr error) error {
	s, err := store.NewSQLiteStoreWithConfig(store.StoreConfig{Path: dbPath})
	if err != nil {
		return err
	}
	defer s.Close()

	e := &model.Evaluation{
		Expression: expr,
		Source:     model.SourceCLI,
		CreatedAt:  time.Now().UTC(),
	}
	if p.Len() != 0 {
		e.Postfix = p.String()
	}
	if calcErr != nil {
		e.ErrorCode = calc.ErrorCode(calcErr)
		e.ErrorMsg = calcErr.Error()
	} else {
		e.Result = &value
	}
	if _, err := s.InsertEvaluation(ctx, e); err != nil {
		return fmt.Errorf("record: %w", err)
	}
	return nil
}
