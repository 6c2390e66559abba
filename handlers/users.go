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
	"github.com/danielhkuo/pollbooth/session"
)

type UserHandler struct {
	users *service.Users
}

func NewUserHandler(db *sql.DB, tokens *auth.Tokens, revoker session.Revoker) *UserHandler {
	return &UserHandler{users: service.NewUsers(db, tokens, revoker)}
}

// Register handles POST /users/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.Register(r.Context(), req)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusCreated, user)
}

// Login handles POST /users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !middleware.DecodeAndValidate(w, r, &req) {
		return
	}

	resp, err := h.users.Login(r.Context(), req)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}

// Logout handles POST /users/logout
// The presented token stays rejected until it would have expired
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Missing bearer token")
		return
	}

	if err := h.users.Logout(r.Context(), claims); err != nil {
		writeStoreError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetMe handles GET /users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.Me(r.Context(), auth.UserIDFrom(r.Context()))
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, user)
}
