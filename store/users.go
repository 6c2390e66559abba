// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/pollbooth/models"
)

const userColumns = `id, name, email, password_hash, created_at`

type Users struct {
	db *sql.DB
}

func NewUsers(db *sql.DB) *Users {
	return &Users{db: db}
}

// NormalizeEmail is the form emails are stored and looked up in
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create stores a new account. passwordHash must already be hashed.
func (s *Users) Create(ctx context.Context, name, email, passwordHash string, now time.Time) (models.User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if name == "" {
		return models.User{}, invalid("name", "name is required")
	}
	if email == "" {
		return models.User{}, invalid("email", "email is required")
	}

	u := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    normalize(now),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_user (id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("failed to insert user: %w", err)
	}

	return u, nil
}

// ByEmail returns ErrNotFound when no account uses email
func (s *Users) ByEmail(ctx context.Context, email string) (models.User, error) {
	return s.queryOne(ctx, `SELECT `+userColumns+` FROM app_user WHERE email = $1`, NormalizeEmail(email))
}

// ByID returns ErrNotFound when the account does not exist
func (s *Users) ByID(ctx context.Context, id string) (models.User, error) {
	return s.queryOne(ctx, `SELECT `+userColumns+` FROM app_user WHERE id = $1`, id)
}

// All lists every account ordered by email
func (s *Users) All(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := eachRow(ctx, s.db, `SELECT `+userColumns+` FROM app_user ORDER BY email`, nil, func(rows *sql.Rows) error {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt); err != nil {
			return err
		}
		u.CreatedAt = u.CreatedAt.UTC()
		users = append(users, u)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (s *Users) queryOne(ctx context.Context, query string, arg string) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, fmt.Errorf("failed to query user: %w", err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}
