// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package calc

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Converter invariants
//
// The converter treats input as an immutable UTF-8 byte slice and reads
// it exactly once, left to right. Every decision is made on the current
// rune; there is no lookahead.
//
//   r           - the current rune, or EOF when we have read past the end.
//   posCurrRune - index into input of the first byte of r,
//                 or length when r == EOF.
//   posNextRune - index into input of the first byte of the *next* rune,
//                 or length when r == EOF.
//
//   0 <= posCurrRune <= posNextRune <= length
//   r == EOF  <=> posCurrRune == posNextRune == length
//
// The operator stack and the output list live on the Go stack of a single
// Convert call. A Converter may be reused; every call to Convert starts
// from the beginning of the input.

type Converter struct {
	name        string // name of the input source
	r           rune   // current rune
	line        int    // line number of current rune
	column      int    // column number of current rune
	posCurrRune int    // position of current rune
	posNextRune int    // position of next rune
	length      int    // length of input buffer
	input       []byte

	logger *slog.Logger
}

// NewConverter returns a converter for input. The input must contain the
// end-of-expression marker; anything after the marker is never read.
func NewConverter(input []byte, options ...Option) (*Converter, error) {
	cfg, err := newConfig(options)
	if err != nil {
		return nil, err
	}
	return &Converter{
		name:   cfg.name,
		input:  input,
		length: len(input),
		logger: cfg.logger,
	}, nil
}

// Convert is a helper that creates a Converter and runs it once.
func Convert(input []byte, options ...Option) (Postfix, error) {
	c, err := NewConverter(input, options...)
	if err != nil {
		return Postfix{}, err
	}
	return c.Convert()
}

// operatorEntry is a pending symbol on the operator stack.
type operatorEntry struct {
	Position
	symbol Symbol
}

// literal accumulates the text of a numeric literal.
type literal struct {
	text  []byte
	pos   Position
	end   int
	point bool
}

func (lit *literal) pending() bool {
	return lit.text != nil
}

// Convert scans the input and returns the expression in postfix order.
func (c *Converter) Convert() (Postfix, error) {
	c.reset()

	var output []Token
	var operators stack[operatorEntry]
	var lit literal

	for ; !c.iseof(); c.advance() {
		ch, pos := c.peekChar(), c.position()

		// whitespace never flushes a literal, so "1 000" is 1000
		if isspace(ch) {
			continue
		}
		if isdigit(ch) || ch == DecimalPoint {
			if !lit.pending() {
				lit = literal{text: make([]byte, 0, 16), pos: pos}
			}
			if ch == DecimalPoint {
				if lit.point {
					return Postfix{}, &ErrSyntax{Position: pos, Msg: "malformed number: second decimal point"}
				}
				lit.point = true
			}
			lit.text = append(lit.text, byte(ch))
			lit.end = c.posNextRune
			continue
		}

		if lit.pending() {
			tok, err := lit.token()
			if err != nil {
				return Postfix{}, err
			}
			c.debug("emit number %s", tok.Lexeme(c.input))
			output = append(output, tok)
			lit = literal{}
		}

		switch {
		case issymbol(ch):
			var err error
			if output, err = c.shunt(Symbol(ch), pos, &operators, output); err != nil {
				return Postfix{}, err
			}
		case ch == EndOfExpression:
			for !operators.empty() {
				top := operators.pop()
				if top.symbol == LeftParen {
					return Postfix{}, &ErrUnbalancedParens{Position: top.Position, Symbol: LeftParen}
				}
				c.debug("emit operator %s", top.symbol)
				output = append(output, OperatorToken(top.symbol, top.Position))
			}
			return Postfix{tokens: output}, nil
		default:
			c.error("unexpected %q", ch)
			return Postfix{}, &ErrSyntax{Position: pos, Char: ch}
		}
	}

	c.error("no end-of-expression marker")
	return Postfix{}, &ErrUnterminated{Position: c.position()}
}

// shunt applies one operator or parenthesis to the operator stack,
// moving operators to the output as their priority requires.
func (c *Converter) shunt(sym Symbol, pos Position, operators *stack[operatorEntry], output []Token) ([]Token, error) {
	for {
		if sym == RightParen && operators.empty() {
			c.error("unmatched ')'")
			return output, &ErrUnbalancedParens{Position: pos, Symbol: RightParen}
		}
		if sym == LeftParen || operators.empty() || sym.Priority() > operators.peek().symbol.Priority() {
			c.debug("push %s", sym)
			operators.push(operatorEntry{Position: pos, symbol: sym})
			return output, nil
		}
		if sym == RightParen && operators.peek().symbol == LeftParen {
			c.debug("pop (")
			operators.pop()
			return output, nil
		}
		top := operators.pop()
		c.debug("emit operator %s", top.symbol)
		output = append(output, OperatorToken(top.symbol, top.Position))
	}
}

// token converts the accumulated literal into a Number token.
// The text is split once on the decimal point; missing parts default to "0".
func (lit *literal) token() (Token, error) {
	text := string(lit.text)
	integer, fraction, _ := strings.Cut(text, string(DecimalPoint))
	if integer == "" && fraction == "" {
		return Token{}, &ErrSyntax{Position: lit.pos, Msg: fmt.Sprintf("malformed number %q", text)}
	}
	if integer == "" {
		integer = "0"
	}
	if fraction == "" {
		fraction = "0"
	}
	value, err := strconv.ParseFloat(integer+"."+fraction, 64)
	if err != nil {
		return Token{}, &ErrSyntax{Position: lit.pos, Msg: fmt.Sprintf("malformed number %q: out of range", text)}
	}
	return NumberToken(value, lit.pos, lit.end), nil
}

// peekChar returns the current character without advancing the input.
func (c *Converter) peekChar() rune {
	return c.r
}

func (c *Converter) position() Position {
	return Position{Line: c.line, Column: c.column, Start: c.posCurrRune}
}

// reset rewinds to the first rune of the input.
func (c *Converter) reset() {
	c.r, c.line, c.column = 0, 1, 0
	c.posCurrRune, c.posNextRune = 0, 0
	c.advance()
}

// advance moves to the next rune and updates line/col.
// On end of input, it sets r == EOF and both positions to length and returns.
func (c *Converter) advance() {
	// update line/col wrt the *current* rune before stepping
	if c.r == '\n' {
		c.line++
		c.column = 1
	} else if c.r != EOF {
		c.column++
	}

	if c.posNextRune >= c.length {
		c.posCurrRune, c.posNextRune = c.length, c.length
		c.r = EOF
		return
	}

	c.posCurrRune = c.posNextRune

	// read the next rune, optimizing for ASCII grammars.
	r, w := rune(c.input[c.posCurrRune]), 1
	if r >= utf8.RuneSelf {
		r, w = utf8.DecodeRune(c.input[c.posCurrRune:])
	}
	c.posNextRune = c.posCurrRune + w
	c.r = r
}

func (c *Converter) iseof() bool {
	return c.r == EOF
}

func (c *Converter) debug(format string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Debug(fmt.Sprintf("%s:%d:%d %s", c.name, c.line, c.column, fmt.Sprintf(format, args...)))
}

func (c *Converter) error(format string, args ...any) {
	if c.logger == nil {
		return
	}
	c.logger.Error(fmt.Sprintf("%s:%d:%d %s", c.name, c.line, c.column, fmt.Sprintf(format, args...)))
}
