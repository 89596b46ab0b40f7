// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package calc_test

import (
	"testing"

	"github.com/mdhender/calc"
)

func TestSymbol_Priority(t *testing.T) {
	for _, tc := range []struct {
		sym      calc.Symbol
		priority int
		paren    bool
	}{
		{calc.Add, 1, false},
		{calc.Sub, 1, false},
		{calc.Mul, 2, false},
		{calc.Div, 2, false},
		{calc.Pow, 3, false},
		{calc.LeftParen, 0, true},
		{calc.RightParen, 0, true},
		{calc.Symbol('%'), 0, false},
		{calc.Symbol('='), 0, false},
		{calc.Symbol('a'), 0, false},
		{calc.Symbol(0), 0, false},
	} {
		t.Run(tc.sym.String(), func(t *testing.T) {
			if got := tc.sym.Priority(); got != tc.priority {
				t.Errorf("Priority() = %d, want %d", got, tc.priority)
			}
			if got := tc.sym.IsParen(); got != tc.paren {
				t.Errorf("IsParen() = %v, want %v", got, tc.paren)
			}
		})
	}
}
