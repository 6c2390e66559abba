// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/danielhkuo/pollbooth/auth"
	"github.com/danielhkuo/pollbooth/middleware"
	"github.com/danielhkuo/pollbooth/models"
	"github.com/danielhkuo/pollbooth/service"
	"github.com/danielhkuo/pollbooth/store"
)

type VotingHandler struct {
	polls *service.Polls
}

func NewVotingHandler(db *sql.DB) *VotingHandler {
	return &VotingHandler{polls: service.NewPolls(db)}
}

// castVoteFailures are reported to the client as 400 with the error text
var castVoteFailures = []error{
	store.ErrPollNotFound,
	store.ErrPollClosed,
	store.ErrPollNotStarted,
	store.ErrInvalidOption,
	store.ErrDuplicateVote,
}

// CastVote handles POST /votes
func (h *VotingHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req models.VoteRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	err := h.polls.Vote(r.Context(), auth.UserIDFrom(r.Context()), req)
	if err != nil {
		var ve *store.ValidationError
		if errors.As(err, &ve) {
			middleware.ErrorResponse(w, http.StatusBadRequest, ve.Message)
			return
		}
		for _, known := range castVoteFailures {
			if errors.Is(err, known) {
				middleware.ErrorResponse(w, http.StatusBadRequest, known.Error())
				return
			}
		}
		writeStoreError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetMyVotes handles GET /votes/mine
func (h *VotingHandler) GetMyVotes(w http.ResponseWriter, r *http.Request) {
	ids, err := h.polls.VotedPollIDs(r.Context(), auth.UserIDFrom(r.Context()))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.VotedPollsResponse{PollIDs: ids})
}
