// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/pollbooth/auth"
	"github.com/danielhkuo/pollbooth/middleware"
	"github.com/danielhkuo/pollbooth/models"
	"github.com/danielhkuo/pollbooth/service"
)

type PollHandler struct {
	polls *service.Polls
}

func NewPollHandler(db *sql.DB) *PollHandler {
	return &PollHandler{polls: service.NewPolls(db)}
}

// GetActive handles GET /polls/active
func (h *PollHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	polls, err := h.polls.Active(r.Context(), auth.UserIDFrom(r.Context()))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, polls)
}

// GetPoll handles GET /polls/{id}
// The poll owner also receives the voter roster
func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	poll, err := h.polls.Detail(r.Context(), auth.UserIDFrom(r.Context()), pollID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, poll)
}

// GetMine handles GET /polls/mine
func (h *PollHandler) GetMine(w http.ResponseWriter, r *http.Request) {
	polls, err := h.polls.Mine(r.Context(), auth.UserIDFrom(r.Context()))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, polls)
}

// CreatePoll handles POST /polls/create
func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	id, err := h.polls.Create(r.Context(), auth.UserIDFrom(r.Context()), req)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CreatePollResponse{ID: id})
}

// ClosePoll handles POST /polls/{id}/close
// Only the owner may close a poll early
func (h *PollHandler) ClosePoll(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	poll, err := h.polls.Close(r.Context(), auth.UserIDFrom(r.Context()), pollID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, poll)
}
