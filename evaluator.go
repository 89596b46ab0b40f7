// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package calc

import (
	"fmt"
	"math"
)

// Evaluate reduces a postfix sequence to a single value.
//
// An empty sequence evaluates to 0. The first error aborts the reduction;
// there is never a partial result.
func Evaluate(p Postfix, options ...Option) (float64, error) {
	cfg, err := newConfig(options)
	if err != nil {
		return 0, err
	}
	if p.Len() == 0 {
		return 0, nil
	}

	var operands stack[float64]
	for i, tok := range p.tokens {
		switch tok.Kind {
		case Number:
			operands.push(tok.Value)
		case Operator:
			if tok.Symbol.IsParen() {
				return 0, &ErrMalformedPostfix{Index: i, Msg: fmt.Sprintf("unexpected %q", tok.Symbol)}
			}
			if operands.len() < 2 {
				return 0, &ErrMalformedPostfix{Index: i, Msg: fmt.Sprintf("operator %q needs 2 operands, have %d", tok.Symbol, operands.len())}
			}
			right := operands.pop()
			left := operands.pop()
			value, err := apply(tok, left, right)
			if err != nil {
				return 0, err
			}
			if cfg.logger != nil {
				cfg.logger.Debug(fmt.Sprintf("%s: %g %s %g = %g", cfg.name, left, tok.Symbol, right, value))
			}
			operands.push(value)
		default:
			return 0, &ErrMalformedPostfix{Index: i, Msg: fmt.Sprintf("unknown token kind %s", tok.Kind)}
		}
	}

	if operands.len() != 1 {
		return 0, &ErrMalformedPostfix{Index: p.Len(), Msg: fmt.Sprintf("%d values left on the stack, want 1", operands.len())}
	}
	return operands.pop(), nil
}

// apply computes left op right.
func apply(tok Token, left, right float64) (float64, error) {
	var value float64
	switch tok.Symbol {
	case Add:
		value = left + right
	case Sub:
		value = left - right
	case Mul:
		value = left * right
	case Div:
		if right == 0 {
			return 0, &ErrDivisionByZero{Position: tok.Position, Dividend: left}
		}
		value = left / right
	case Pow:
		value = math.Pow(left, right)
	default:
		return 0, &ErrMalformedPostfix{Msg: fmt.Sprintf("unknown operator %q", tok.Symbol)}
	}
	if math.IsInf(value, 0) || math.IsNaN(value) {
		return 0, &ErrNotFinite{Position: tok.Position, Symbol: tok.Symbol, Left: left, Right: right}
	}
	return value, nil
}
