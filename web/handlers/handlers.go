// Copyright (c) 2025 Michael D Henderson. All rights reserved.

// Package handlers implements the HTTP front end of the calculator.
package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/a-h/templ"
	"github.com/mdhender/calc"
	"github.com/mdhender/calc/model"
	"github.com/mdhender/calc/web/auth"
	"github.com/mdhender/calc/web/templates"
)

// Store defines the store operations needed by the handlers.
type Store interface {
	InsertEvaluation(ctx context.Context, e *model.Evaluation) (int64, error)
	ListEvaluations(ctx context.Context, limit int) ([]model.Evaluation, error)
}

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	store        Store
	auth         auth.BasicAuth
	historyLimit int
}

// New creates a new Handlers with the given store.
// A nil store disables recording and the history page.
func New(s Store) *Handlers {
	return &Handlers{store: s, historyLimit: 50}
}

// SetBasicAuth protects every route with HTTP basic authentication.
func (h *Handlers) SetBasicAuth(ba auth.BasicAuth) {
	h.auth = ba
}

// Routes returns the router for the application.
func (h *Handlers) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.Index)
	mux.HandleFunc("/eval", h.Eval)
	mux.HandleFunc("/history", h.History)
	return h.auth.Require(mux)
}

// getLayoutData returns layout data for the current request.
func (h *Handlers) getLayoutData(r *http.Request, title string) templates.LayoutData {
	return templates.LayoutData{
		Title:       title,
		CurrentPath: r.URL.Path,
		Version:     calc.Version().String(),
	}
}

// render writes the page with the given status.
func (h *Handlers) render(w http.ResponseWriter, r *http.Request, status int, layout templates.LayoutData, body templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Layout(layout, body).Render(r.Context(), w); err != nil {
		log.Printf("handlers: render %s: %v", r.URL.Path, err)
	}
}
