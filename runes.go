// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package calc

import (
	"unicode"
	"unicode/utf8"
)

const (
	// EndOfExpression is the marker the caller appends to the input.
	// The converter stops reading when it sees it.
	EndOfExpression rune = '='

	// DecimalPoint separates the integer and fractional parts of a literal.
	DecimalPoint rune = '.'

	// EOF is a sentinel for end of input
	EOF rune = rune(-1)
)

// Symbol is an operator or grouping character.
type Symbol byte

const (
	Add        Symbol = '+'
	Sub        Symbol = '-'
	Mul        Symbol = '*'
	Div        Symbol = '/'
	Pow        Symbol = '^'
	LeftParen  Symbol = '('
	RightParen Symbol = ')'
)

func init() {
	for _, ch := range []Symbol{Add, Sub, Mul, Div, Pow, LeftParen, RightParen} {
		symbols[ch] = true
	}
}

var (
	symbols = [256]bool{}
)

// Priority returns the precedence class of the symbol.
// Parentheses (and anything that is not an operator) are 0 so that
// an open parenthesis on the stack never wins a priority comparison.
func (s Symbol) Priority() int {
	switch s {
	case Add, Sub:
		return 1
	case Mul, Div:
		return 2
	case Pow:
		return 3
	}
	return 0
}

// IsParen reports whether s is one of the grouping symbols.
func (s Symbol) IsParen() bool {
	return s == LeftParen || s == RightParen
}

func (s Symbol) String() string {
	return string(rune(s))
}

// issymbol reports whether ch is an operator or a parenthesis.
func issymbol(ch rune) bool {
	if 0 <= ch && ch < utf8.RuneSelf {
		return symbols[byte(ch)]
	}
	return false
}

func isdigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func isspace(ch rune) bool {
	return unicode.IsSpace(ch)
}
