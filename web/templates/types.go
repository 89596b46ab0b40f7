// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package templates renders the HTML pages of the calculator.
package templates

import (
	"strconv"
	"strings"

	"github.com/mdhender/calc/model"
)

// LayoutData holds the values shared by every page.
type LayoutData struct {
	Title       string
	CurrentPath string
	Version     string
}

// ResultData is the outcome of evaluating one expression.
type ResultData struct {
	Expression string
	Postfix    string
	Result     string
	Error      string
	Code       string
	Caret      int // 0-based column of the error, -1 if none
}

func pageTitle(title string) string {
	if title == "" {
		return "calc"
	}
	return "calc - " + title
}

// caretLine is the line under the expression that points at the error.
func caretLine(caret int) string {
	return "\n" + strings.Repeat(" ", caret) + "^"
}

func resultText(e model.Evaluation) string {
	if e.OK() {
		return strconv.FormatFloat(*e.Result, 'g', -1, 64)
	}
	return e.ErrorCode
}
