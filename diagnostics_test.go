// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package calc_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mdhender/calc"
)

func TestPrintDiagnostic_Caret(t *testing.T) {
	const expr = "2 + x"
	_, err := calc.Calculate(expr)
	diag, ok := calc.DiagnosticFor(err)
	if !ok {
		t.Fatalf("DiagnosticFor(%v): want a diagnostic", err)
	}
	if diag.Code != calc.ErrCodeSyntax {
		t.Errorf("Code = %q, want %q", diag.Code, calc.ErrCodeSyntax)
	}
	if diag.Span.Column != 5 {
		t.Errorf("Span.Column = %d, want 5", diag.Span.Column)
	}

	var buf bytes.Buffer
	calc.PrintDiagnostic(&buf, diag, "arg", calc.Terminate(expr))
	want := "arg:1:5: ERROR: syntax error at column 5: unexpected 'x'\n" +
		"    2 + x=\n" +
		"        ^\n"
	if got := buf.String(); got != want {
		t.Fatalf("PrintDiagnostic:\ngot  %q\nwant %q", got, want)
	}
}

func TestPrintDiagnostic_Notes(t *testing.T) {
	_, err := calc.Convert([]byte("1+2"))
	diag, ok := calc.DiagnosticFor(err)
	if !ok {
		t.Fatalf("DiagnosticFor(%v): want a diagnostic", err)
	}
	var buf bytes.Buffer
	calc.PrintDiagnostic(&buf, diag, "arg", []byte("1+2"))
	got := buf.String()
	if !strings.Contains(got, "arg:1:4:") {
		t.Errorf("header missing position: %q", got)
	}
	if !strings.Contains(got, "    1+2\n       ^\n") {
		t.Errorf("caret not after the input: %q", got)
	}
	if !strings.Contains(got, "note: end the expression with '='") {
		t.Errorf("missing note: %q", got)
	}
}

func TestPrintDiagnostic_MultiLine(t *testing.T) {
	src := []byte("1 +\n(2 * 3=")
	_, err := calc.Convert(src)
	diag, ok := calc.DiagnosticFor(err)
	if !ok {
		t.Fatalf("DiagnosticFor(%v): want a diagnostic", err)
	}
	if diag.Span.Line != 2 || diag.Span.Column != 1 {
		t.Fatalf("Span = %d:%d, want 2:1", diag.Span.Line, diag.Span.Column)
	}
	var buf bytes.Buffer
	calc.PrintDiagnostic(&buf, diag, "src", src)
	if !strings.Contains(buf.String(), "    (2 * 3=\n    ^\n") {
		t.Fatalf("PrintDiagnostic = %q", buf.String())
	}
}

func TestDiagnosticFor_NoPosition(t *testing.T) {
	_, err := calc.Evaluate(calc.NewPostfix(num(1), num(2)))
	if _, ok := calc.DiagnosticFor(err); ok {
		t.Fatalf("DiagnosticFor(%v): want false for malformed postfix", err)
	}
}
