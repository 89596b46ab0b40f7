// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package calc

import (
	"errors"
	"fmt"
)

// ErrSyntax is returned when the input contains a rune outside the
// grammar or a malformed numeric literal.
type ErrSyntax struct {
	Position
	Char rune   // offending rune, or 0 for a malformed literal
	Msg  string // set for malformed literals
}

func (e *ErrSyntax) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("syntax error at column %d: %s", e.Column, e.Msg)
	}
	return fmt.Sprintf("syntax error at column %d: unexpected %q", e.Column, e.Char)
}

// ErrUnbalancedParens is returned when a ')' has no matching '(' or a
// '(' is still open when the end of the expression is reached.
type ErrUnbalancedParens struct {
	Position
	Symbol Symbol // the unmatched parenthesis
}

func (e *ErrUnbalancedParens) Error() string {
	if e.Symbol == LeftParen {
		return fmt.Sprintf("unbalanced parentheses: '(' at column %d is never closed", e.Column)
	}
	return fmt.Sprintf("unbalanced parentheses: ')' at column %d has no matching '('", e.Column)
}

// ErrUnterminated is returned when the input ends before the
// end-of-expression marker.
type ErrUnterminated struct {
	Position
}

func (e *ErrUnterminated) Error() string {
	return fmt.Sprintf("unterminated expression: missing %q", EndOfExpression)
}

// ErrDivisionByZero is returned when the right operand of '/' is zero.
type ErrDivisionByZero struct {
	Position
	Dividend float64
}

func (e *ErrDivisionByZero) Error() string {
	return "division by zero"
}

// ErrMalformedPostfix is returned when a postfix sequence does not reduce
// to exactly one value.
type ErrMalformedPostfix struct {
	Index int // index of the offending token, or the sequence length
	Msg   string
}

func (e *ErrMalformedPostfix) Error() string {
	return fmt.Sprintf("malformed postfix at token %d: %s", e.Index, e.Msg)
}

// ErrNotFinite is returned when an operator produces an infinite or NaN result.
type ErrNotFinite struct {
	Position
	Symbol      Symbol
	Left, Right float64
}

func (e *ErrNotFinite) Error() string {
	return fmt.Sprintf("result of %g %s %g is not a finite number", e.Left, e.Symbol, e.Right)
}

// Error code constants for reporting and storage.
const (
	ErrCodeSyntax         = "SYNTAX_ERROR"
	ErrCodeUnbalanced     = "UNBALANCED_PARENTHESES"
	ErrCodeUnterminated   = "UNTERMINATED_EXPRESSION"
	ErrCodeDivisionByZero = "DIVISION_BY_ZERO"
	ErrCodeMalformed      = "MALFORMED_POSTFIX"
	ErrCodeNotFinite      = "NOT_FINITE"
	ErrCodeUnknown        = "UNKNOWN"
)

// ErrorCode returns the error code string for a given error.
// Wrapped errors are unwrapped; nil returns the empty string.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}
	var (
		syntax     *ErrSyntax
		unbalanced *ErrUnbalancedParens
		unterm     *ErrUnterminated
		divZero    *ErrDivisionByZero
		malformed  *ErrMalformedPostfix
		notFinite  *ErrNotFinite
	)
	switch {
	case errors.As(err, &syntax):
		return ErrCodeSyntax
	case errors.As(err, &unbalanced):
		return ErrCodeUnbalanced
	case errors.As(err, &unterm):
		return ErrCodeUnterminated
	case errors.As(err, &divZero):
		return ErrCodeDivisionByZero
	case errors.As(err, &malformed):
		return ErrCodeMalformed
	case errors.As(err, &notFinite):
		return ErrCodeNotFinite
	}
	return ErrCodeUnknown
}
