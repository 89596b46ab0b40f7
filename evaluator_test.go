// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package calc_test

import (
	"errors"
	"math"
	"testing"

	"github.com/mdhender/calc"
)

func num(v float64) calc.Token {
	return calc.NumberToken(v, calc.Position{Line: 1, Column: 1}, 1)
}

func op(sym calc.Symbol) calc.Token {
	return calc.OperatorToken(sym, calc.Position{Line: 1, Column: 1})
}

func TestEvaluate_Operators(t *testing.T) {
	for _, tc := range []struct {
		name   string
		tokens []calc.Token
		want   float64
	}{
		{"add", []calc.Token{num(2), num(3), op(calc.Add)}, 5},
		{"sub", []calc.Token{num(2), num(3), op(calc.Sub)}, -1},
		{"mul", []calc.Token{num(2), num(3), op(calc.Mul)}, 6},
		{"div", []calc.Token{num(3), num(2), op(calc.Div)}, 1.5},
		{"pow", []calc.Token{num(2), num(10), op(calc.Pow)}, 1024},
		{"pow fraction", []calc.Token{num(9), num(0.5), op(calc.Pow)}, 3},
		{"pow negative", []calc.Token{num(2), num(-1), op(calc.Pow)}, 0.5},
		{"single", []calc.Token{num(42)}, 42},
		{"empty", nil, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got, err := calc.Evaluate(calc.NewPostfix(tc.tokens...))
			if err != nil {
				t.Fatalf("Evaluate: unexpected error %v", err)
			}
			if got != tc.want {
				t.Fatalf("Evaluate = %g, want %g", got, tc.want)
			}
		})
	}
}

func TestEvaluate_DivisionByZero(t *testing.T) {
	for _, zero := range []float64{0, math.Copysign(0, -1)} {
		_, err := calc.Evaluate(calc.NewPostfix(num(5), num(zero), op(calc.Div)))
		var dz *calc.ErrDivisionByZero
		if !errors.As(err, &dz) {
			t.Fatalf("Evaluate(5 %g /): err = %v, want *ErrDivisionByZero", zero, err)
		}
		if dz.Dividend != 5 {
			t.Errorf("Dividend = %g, want 5", dz.Dividend)
		}
	}
}

func TestEvaluate_Malformed(t *testing.T) {
	for _, tc := range []struct {
		name   string
		tokens []calc.Token
		index  int
	}{
		{"missing operand", []calc.Token{num(1), op(calc.Add)}, 1},
		{"operator only", []calc.Token{op(calc.Mul)}, 0},
		{"extra operand", []calc.Token{num(1), num(2)}, 2},
		{"parenthesis", []calc.Token{num(1), num(2), op(calc.LeftParen)}, 2},
		{"unknown kind", []calc.Token{{Kind: calc.UNKNOWN}}, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := calc.Evaluate(calc.NewPostfix(tc.tokens...))
			var me *calc.ErrMalformedPostfix
			if !errors.As(err, &me) {
				t.Fatalf("err = %v, want *ErrMalformedPostfix", err)
			}
			if me.Index != tc.index {
				t.Fatalf("Index = %d, want %d", me.Index, tc.index)
			}
		})
	}
}

func TestEvaluate_NotFinite(t *testing.T) {
	for _, tokens := range [][]calc.Token{
		{num(10), num(400), op(calc.Pow)},
		{num(-8), num(0.5), op(calc.Pow)},
		{num(math.MaxFloat64), num(10), op(calc.Mul)},
	} {
		_, err := calc.Evaluate(calc.NewPostfix(tokens...))
		var nf *calc.ErrNotFinite
		if !errors.As(err, &nf) {
			t.Fatalf("Evaluate(%s): err = %v, want *ErrNotFinite", calc.NewPostfix(tokens...), err)
		}
	}
}

func TestPostfix_Immutable(t *testing.T) {
	tokens := []calc.Token{num(1), num(2), op(calc.Add)}
	p := calc.NewPostfix(tokens...)
	tokens[0] = num(100)
	copied := p.Tokens()
	copied[1] = num(200)
	got, err := calc.Evaluate(p)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if got != 3 {
		t.Fatalf("Evaluate = %g, want 3", got)
	}
}
