package calc

import (
	"strconv"
	"strings"
)

// Token is a single element of a postfix sequence.
//
// A Token is either a Number or an Operator; Kind is set when the
// token is built and tells which of Value or Symbol is meaningful.
type Token struct {
	Position

	// End is the byte offset in the original input.
	// It is exclusive: input[Start:End] is the token's lexeme.
	End int

	Kind   Kind
	Value  float64 // valid when Kind == Number
	Symbol Symbol  // valid when Kind == Operator
}

// NumberToken returns a Number token.
func NumberToken(value float64, pos Position, end int) Token {
	return Token{Position: pos, End: end, Kind: Number, Value: value}
}

// OperatorToken returns an Operator token.
func OperatorToken(sym Symbol, pos Position) Token {
	return Token{Position: pos, End: pos.Start + 1, Kind: Operator, Symbol: sym}
}

// Lexeme is a helper to return the original text of the token.
func (tok Token) Lexeme(input []byte) []byte {
	return input[tok.Position.Start:tok.End]
}

func (tok Token) String() string {
	switch tok.Kind {
	case Number:
		return strconv.FormatFloat(tok.Value, 'g', -1, 64)
	case Operator:
		return tok.Symbol.String()
	}
	return "?"
}

// Position represents a position in the original input.
type Position struct {
	Line   int // 1-based
	Column int // 1-based, character column
	Start  int // byte index into input (0-based); always required
}

// Span represents a range in the source: [Start, End).
type Span struct {
	// Byte offsets into the original input slice.
	// End is exclusive.
	Start int
	End   int

	// 1-based line and column of the *start* of the span.
	Line   int
	Column int
}

// spanFromPosition creates a Span that covers the n bytes starting at pos.
func spanFromPosition(pos Position, n int) Span {
	return Span{
		Start:  pos.Start,
		End:    pos.Start + n,
		Line:   pos.Line,
		Column: pos.Column,
	}
}

// Postfix is an ordered sequence of tokens in operator-after-operands order.
//
// It is produced once by the converter and consumed by the evaluator.
// The zero value is an empty sequence.
type Postfix struct {
	tokens []Token
}

// NewPostfix returns a sequence holding a copy of tokens.
func NewPostfix(tokens ...Token) Postfix {
	return Postfix{tokens: append([]Token(nil), tokens...)}
}

// Len returns the number of tokens in the sequence.
func (p Postfix) Len() int {
	return len(p.tokens)
}

// At returns the i'th token. It panics if i is out of range.
func (p Postfix) At(i int) Token {
	return p.tokens[i]
}

// Tokens returns a copy of the tokens in the sequence.
func (p Postfix) Tokens() []Token {
	return append([]Token(nil), p.tokens...)
}

// String returns the tokens separated by spaces, e.g. "2 3 4 * +".
func (p Postfix) String() string {
	var sb strings.Builder
	for i, tok := range p.tokens {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok.String())
	}
	return sb.String()
}
