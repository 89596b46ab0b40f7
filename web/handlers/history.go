// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package handlers

import (
	"log"
	"net/http"

	"github.com/mdhender/calc/web/templates"
)

// History lists the most recent evaluations.
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.store == nil {
		http.Error(w, "History is not available", http.StatusServiceUnavailable)
		return
	}
	list, err := h.store.ListEvaluations(r.Context(), h.historyLimit)
	if err != nil {
		log.Printf("handlers: history: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	h.render(w, r, http.StatusOK, h.getLayoutData(r, "History"), templates.History(list))
}
