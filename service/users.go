// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/pollbooth/auth"
	"github.com/danielhkuo/pollbooth/models"
	"github.com/danielhkuo/pollbooth/session"
	"github.com/danielhkuo/pollbooth/store"
)

// Users handles registration, login and logout
type Users struct {
	users   *store.Users
	tokens  *auth.Tokens
	revoker session.Revoker
	now     func() time.Time
}

func NewUsers(db *sql.DB, tokens *auth.Tokens, revoker session.Revoker) *Users {
	return &Users{
		users:   store.NewUsers(db),
		tokens:  tokens,
		revoker: revoker,
		now:     time.Now,
	}
}

// Register creates an account. The request is expected to be validated
// already; the store still rejects blank names and taken emails.
func (s *Users) Register(ctx context.Context, req models.RegisterRequest) (models.UserResponse, error) {
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return models.UserResponse{}, err
	}

	u, err := s.users.Create(ctx, req.Name, req.Email, hash, s.now())
	if err != nil {
		return models.UserResponse{}, err
	}

	slog.Info("user registered", "user_id", u.ID)
	return toUserResponse(u), nil
}

// Login checks credentials and issues an access token. Unknown emails and
// wrong passwords both return store.ErrInvalidCredentials.
func (s *Users) Login(ctx context.Context, req models.LoginRequest) (models.LoginResponse, error) {
	u, err := s.users.ByEmail(ctx, req.Email)
	if errors.Is(err, store.ErrNotFound) {
		return models.LoginResponse{}, store.ErrInvalidCredentials
	}
	if err != nil {
		return models.LoginResponse{}, err
	}

	if err := auth.CheckPassword(u.PasswordHash, req.Password); err != nil {
		slog.Warn("failed login", "user_id", u.ID)
		return models.LoginResponse{}, store.ErrInvalidCredentials
	}

	token, _, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return models.LoginResponse{}, fmt.Errorf("failed to issue token: %w", err)
	}
	refresh, err := auth.GenerateRefreshToken()
	if err != nil {
		return models.LoginResponse{}, err
	}

	slog.Info("user logged in", "user_id", u.ID)
	return models.LoginResponse{AuthToken: token, RefreshToken: refresh, UserID: u.ID}, nil
}

// Logout revokes the presented token until it would have expired
func (s *Users) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return auth.ErrInvalidToken
	}

	expires := s.now().Add(time.Hour)
	if claims.ExpiresAt != nil {
		expires = claims.ExpiresAt.Time
	}

	if err := s.revoker.Revoke(ctx, claims.ID, expires); err != nil {
		return err
	}

	slog.Info("user logged out", "user_id", claims.Subject)
	return nil
}

// Me returns the account behind userID
func (s *Users) Me(ctx context.Context, userID string) (models.UserResponse, error) {
	u, err := s.users.ByID(ctx, userID)
	if err != nil {
		return models.UserResponse{}, err
	}
	return toUserResponse(u), nil
}

func toUserResponse(u models.User) models.UserResponse {
	return models.UserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}
