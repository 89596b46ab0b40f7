// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/mdhender/calc/model"
	store "github.com/mdhender/calc/stores/sqlite"
	"github.com/mdhender/calc/web/auth"
	"github.com/mdhender/calc/web/handlers"
)

func newServer(t *testing.T) (*store.SQLiteStore, http.Handler) {
	t.Helper()
	s, err := store.NewSQLiteStore()
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, handlers.New(s).Routes()
}

func TestEval_JSON(t *testing.T) {
	tests := []struct {
		name       string
		expr       string
		wantStatus int
		wantResult float64
		wantCode   string
		wantPost   string
	}{
		{name: "precedence", expr: "2+3*4", wantStatus: http.StatusOK, wantResult: 14, wantPost: "2 3 4 * +"},
		{name: "parens", expr: "(2+3)*4", wantStatus: http.StatusOK, wantResult: 20, wantPost: "2 3 + 4 *"},
		{name: "division by zero", expr: "5/0", wantStatus: http.StatusUnprocessableEntity, wantCode: "DIVISION_BY_ZERO", wantPost: "5 0 /"},
		{name: "syntax", expr: "2 a", wantStatus: http.StatusUnprocessableEntity, wantCode: "SYNTAX_ERROR"},
		{name: "unbalanced", expr: "(1+2", wantStatus: http.StatusUnprocessableEntity, wantCode: "UNBALANCED_PARENTHESES"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, h := newServer(t)
			req := httptest.NewRequest(http.MethodGet, "/eval?format=json&expr="+url.QueryEscape(tt.expr), nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body.String())
			}
			var got handlers.EvalResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if got.Expression != tt.expr {
				t.Errorf("expression = %q, want %q", got.Expression, tt.expr)
			}
			if got.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Postfix != tt.wantPost {
				t.Errorf("postfix = %q, want %q", got.Postfix, tt.wantPost)
			}
			if tt.wantCode == "" {
				if got.Result == nil || *got.Result != tt.wantResult {
					t.Errorf("result = %v, want %v", got.Result, tt.wantResult)
				}
			} else if got.Result != nil {
				t.Errorf("result = %v, want none", *got.Result)
			}
		})
	}
}

func TestEval_AcceptHeader(t *testing.T) {
	_, h := newServer(t)
	req := httptest.NewRequest(http.MethodPost, "/eval", strings.NewReader("expr="+url.QueryEscape("2^3^2")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
	var got handlers.EvalResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Result == nil || *got.Result != 64 {
		t.Errorf("2^3^2 = %v, want 64", got.Result)
	}
}

func TestEval_HTML(t *testing.T) {
	_, h := newServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/eval?expr="+url.QueryEscape("1+1"), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "<strong>2</strong>") {
		t.Errorf("body missing result:\n%s", body)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/eval?expr="+url.QueryEscape("1<2"), nil))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `data-code="SYNTAX_ERROR"`) {
		t.Errorf("body missing error code:\n%s", body)
	}
	if strings.Contains(body, "1<2") {
		t.Errorf("expression was not escaped:\n%s", body)
	}
}

func TestEval_RecordsHistory(t *testing.T) {
	s, h := newServer(t)
	for _, expr := range []string{"1+2", "1/0"} {
		req := httptest.NewRequest(http.MethodGet, "/eval?format=json&expr="+url.QueryEscape(expr), nil)
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
	list, err := s.ListEvaluations(t.Context(), 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("history has %d rows, want 2", len(list))
	}
	if list[0].Expression != "1/0" || list[0].ErrorCode != "DIVISION_BY_ZERO" || list[0].Source != model.SourceWeb {
		t.Errorf("newest = %+v", list[0])
	}
	if !list[1].OK() || *list[1].Result != 3 {
		t.Errorf("oldest = %+v", list[1])
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("history status = %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "DIVISION_BY_ZERO") || !strings.Contains(body, "<code>1+2</code>") {
		t.Errorf("history body:\n%s", body)
	}
}

func TestIndex(t *testing.T) {
	_, h := newServer(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `<form method="post" action="/eval">`) {
		t.Errorf("index = %d\n%s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown path = %d, want 404", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/eval", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("DELETE /eval = %d, want 405", rec.Code)
	}
}

func TestRoutes_BasicAuth(t *testing.T) {
	hash, err := auth.HashPassword("secret", auth.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	s, err := store.NewSQLiteStore()
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	hs := handlers.New(s)
	hs.SetBasicAuth(auth.BasicAuth{User: "admin", Hash: hash})
	h := hs.Routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("no credentials = %d, want 401", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.SetBasicAuth("admin", "secret")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid credentials = %d, want 200", rec.Code)
	}
}
