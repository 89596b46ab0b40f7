// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mdhender/calc"
	"github.com/mdhender/calc/model"
	"github.com/mdhender/calc/web/templates"
)

// EvalResponse is the JSON body returned by /eval.
type EvalResponse struct {
	Expression string   `json:"expression"`
	Postfix    string   `json:"postfix,omitempty"`
	Result     *float64 `json:"result,omitempty"`
	Error      string   `json:"error,omitempty"`
	Code       string   `json:"code,omitempty"`
}

// Eval evaluates the expression in the expr form value.
// The '=' terminator is appended by the server; clients send the bare expression.
func (h *Handlers) Eval(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	expr := strings.TrimSpace(r.FormValue("expr"))

	p, value, err := calc.CalculatePostfix(expr)
	resp := EvalResponse{Expression: expr}
	if p.Len() != 0 {
		resp.Postfix = p.String()
	}
	status := http.StatusOK
	if err != nil {
		status = http.StatusUnprocessableEntity
		resp.Error = err.Error()
		resp.Code = calc.ErrorCode(err)
	} else {
		resp.Result = &value
	}
	h.record(r, resp)

	if wantsJSON(r) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Printf("handlers: eval: encode: %v", err)
		}
		return
	}

	data := templates.ResultData{
		Expression: resp.Expression,
		Postfix:    resp.Postfix,
		Error:      resp.Error,
		Code:       resp.Code,
		Caret:      -1,
	}
	if resp.Result != nil {
		data.Result = strconv.FormatFloat(value, 'g', -1, 64)
	}
	if diag, ok := calc.DiagnosticFor(err); ok && diag.Span.Line == 1 {
		data.Caret = diag.Span.Column - 1
	}
	h.render(w, r, status, h.getLayoutData(r, "Result"), templates.Result(data))
}

// record saves the evaluation in history. Failures are logged, not returned.
func (h *Handlers) record(r *http.Request, resp EvalResponse) {
	if h.store == nil {
		return
	}
	_, err := h.store.InsertEvaluation(r.Context(), &model.Evaluation{
		Expression: resp.Expression,
		Postfix:    resp.Postfix,
		Result:     resp.Result,
		ErrorCode:  resp.Code,
		ErrorMsg:   resp.Error,
		Source:     model.SourceWeb,
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		log.Printf("handlers: eval: record: %v", err)
	}
}

func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
