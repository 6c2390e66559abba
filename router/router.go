// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/danielhkuo/pollbooth/auth"
	"github.com/danielhkuo/pollbooth/cliparse"
	"github.com/danielhkuo/pollbooth/handlers"
	"github.com/danielhkuo/pollbooth/middleware"
	"github.com/danielhkuo/pollbooth/session"
)

// NewRouter registers every endpoint. A nil revoker falls back to the
// database-backed revocation list.
func NewRouter(db *sql.DB, cfg cliparse.Config, revoker session.Revoker) *http.ServeMux {
	mux := http.NewServeMux()

	if revoker == nil {
		revoker = session.NewSQLStore(db)
	}
	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL)
	requireAuth := middleware.RequireAuth(tokens, revoker)

	// Initialize handlers
	pollHandler := handlers.NewPollHandler(db)
	votingHandler := handlers.NewVotingHandler(db)
	resultsHandler := handlers.NewResultsHandler(db)
	userHandler := handlers.NewUserHandler(db, tokens, revoker)

	// authed wraps a handler with logging and the bearer token check
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(requireAuth(h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// Accounts
	mux.HandleFunc("POST /users/register", middleware.WithLogging(userHandler.Register))
	mux.HandleFunc("POST /users/login", middleware.WithLogging(userHandler.Login))
	mux.HandleFunc("POST /users/logout", authed(userHandler.Logout))
	mux.HandleFunc("GET /users/me", authed(userHandler.GetMe))

	// Polls
	mux.HandleFunc("GET /polls/active", authed(pollHandler.GetActive))
	mux.HandleFunc("GET /polls/mine", authed(pollHandler.GetMine))
	mux.HandleFunc("GET /polls/{id}", authed(pollHandler.GetPoll))
	mux.HandleFunc("POST /polls/create", authed(pollHandler.CreatePoll))
	mux.HandleFunc("POST /polls/{id}/close", authed(pollHandler.ClosePoll))

	// Results
	mux.HandleFunc("GET /polls/closed", authed(resultsHandler.GetClosed))
	mux.HandleFunc("GET /polls/closed/{id}", authed(resultsHandler.GetClosedResult))

	// Voting
	mux.HandleFunc("POST /votes", authed(votingHandler.CastVote))
	mux.HandleFunc("GET /votes/mine", authed(votingHandler.GetMyVotes))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("pollbooth API v1"))
	})

	return mux
}
