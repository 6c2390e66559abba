// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/danielhkuo/pollbooth/middleware"
	"github.com/danielhkuo/pollbooth/service"
	"github.com/danielhkuo/pollbooth/store"
)

type ResultsHandler struct {
	polls *service.Polls
}

func NewResultsHandler(db *sql.DB) *ResultsHandler {
	return &ResultsHandler{polls: service.NewPolls(db)}
}

// GetClosed handles GET /polls/closed?text=&from=&to=
// from and to accept RFC 3339 timestamps or YYYY-MM-DD dates
func (h *ResultsHandler) GetClosed(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := store.ClosedFilter{Text: q.Get("text")}

	var err error
	if filter.From, err = parseDateParam(q.Get("from")); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid from date: %v", err))
		return
	}
	if filter.To, err = parseDateParam(q.Get("to")); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, fmt.Sprintf("invalid to date: %v", err))
		return
	}

	polls, err := h.polls.Closed(r.Context(), filter)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, polls)
}

// GetClosedResult handles GET /polls/closed/{id}
// Polls still accepting votes are reported as not found
func (h *ResultsHandler) GetClosedResult(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	result, err := h.polls.ClosedResult(r.Context(), pollID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, result)
}

// parseDateParam returns nil for an empty value
func parseDateParam(v string) (*time.Time, error) {
	if v == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, fmt.Errorf("expected RFC 3339 or YYYY-MM-DD, got %q", v)
	}
	return &t, nil
}
