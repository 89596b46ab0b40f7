// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package calc evaluates arithmetic expressions.
//
// An expression is converted from infix to postfix order with an
// operator stack, then reduced with an operand stack. The grammar is
// decimal literals, the binary operators + - * / ^, parentheses and
// whitespace, terminated by '='.
//
// All operators, including ^, group left to right: 2^3^2 is (2^3)^2 = 64.
package calc

// Terminate returns expr with the end-of-expression marker appended.
func Terminate(expr string) []byte {
	return append([]byte(expr), byte(EndOfExpression))
}

// Calculate terminates expr, converts it and evaluates it.
func Calculate(expr string, options ...Option) (float64, error) {
	_, value, err := CalculatePostfix(expr, options...)
	return value, err
}

// CalculatePostfix is Calculate, but also returns the postfix sequence.
// The sequence is valid when the error is from evaluation.
func CalculatePostfix(expr string, options ...Option) (Postfix, float64, error) {
	p, err := Convert(Terminate(expr), options...)
	if err != nil {
		return Postfix{}, 0, err
	}
	value, err := Evaluate(p, options...)
	if err != nil {
		return p, 0, err
	}
	return p, value, nil
}
