// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package calc

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// Diagnostic represents a conversion or evaluation error
// with a span in the original source.
type Diagnostic struct {
	Severity slog.Level // Error, Warning, Info
	Message  string     // "division by zero"
	Code     string     // "DIVISION_BY_ZERO"
	Span     Span       // where in the input it occurred
	Notes    []string   // optional additional help messages
}

// Pos returns the position. It lets errors that embed a Position
// report where they happened.
func (p Position) Pos() Position {
	return p
}

type positioned interface {
	error
	Pos() Position
}

// DiagnosticFor builds a Diagnostic from an error returned by this package.
// It returns false if err carries no position.
func DiagnosticFor(err error) (Diagnostic, bool) {
	var pe positioned
	if !errors.As(err, &pe) {
		return Diagnostic{}, false
	}
	diag := Diagnostic{
		Severity: slog.LevelError,
		Message:  err.Error(),
		Code:     ErrorCode(err),
		Span:     spanFromPosition(pe.Pos(), 1),
	}
	var unterminated *ErrUnterminated
	var notFinite *ErrNotFinite
	switch {
	case errors.As(err, &unterminated):
		diag.Notes = append(diag.Notes, fmt.Sprintf("end the expression with %q", EndOfExpression))
	case errors.As(err, &notFinite):
		diag.Notes = append(diag.Notes, "the result overflows or is undefined for real numbers")
	}
	return diag, true
}

// PrintDiagnostic writes the diagnostic header, the source line and a
// caret under the column where the error occurred.
func PrintDiagnostic(w io.Writer, diag Diagnostic, filename string, src []byte) {
	// Header: file:line:column: error: message
	span := diag.Span
	_, _ = fmt.Fprintf(w, "%s:%d:%d: %s: %s\n",
		filename, span.Line, span.Column,
		diag.Severity.String(), diag.Message)

	line := findLine(src, span.Start)
	_, _ = fmt.Fprintf(w, "    %s\n", line)

	// caret underline
	caretCount := utf8.RuneCount(line[:runeColumnOffset(span.Column, line)])
	_, _ = fmt.Fprintf(w, "    %s^\n", strings.Repeat(" ", caretCount))

	// Notes
	for _, note := range diag.Notes {
		_, _ = fmt.Fprintf(w, "    note: %s\n", note)
	}
}

// findLine returns the line containing the start byte, without the new-line.
// A start at the end of input returns the last line.
func findLine(src []byte, start int) []byte {
	if start > len(src) {
		start = len(src)
	}

	lineStart := 0
	for i := start - 1; i >= 0; i-- {
		if src[i] == '\n' {
			lineStart = i + 1
			break
		}
	}

	lineEnd := len(src)
	for i := start; i < len(src); i++ {
		if src[i] == '\n' {
			lineEnd = i
			break
		}
	}

	return src[lineStart:lineEnd]
}

// runeColumnOffset returns the byte offset of the 1-based column in b.
func runeColumnOffset(column int, b []byte) (offset int) {
	for column > 1 && offset < len(b) {
		_, w := utf8.DecodeRune(b[offset:])
		offset += w
		column--
	}
	return offset
}
