// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/pollbooth/auth"
)

// DemoPassword is the password of both seeded accounts
const DemoPassword = "Demo123!"

type seedPoll struct {
	question string
	start    time.Duration
	end      time.Duration
	owned    bool
	options  []string
}

var seedPolls = []seedPoll{
	{"What is your favourite programming language?", -24 * time.Hour, 5 * 24 * time.Hour, true, []string{"Go", "Python", "JavaScript"}},
	{"Is it worth learning a new web framework this year?", -48 * time.Hour, 3 * 24 * time.Hour, false, []string{"Yes", "No"}},
	{"Tabs or spaces?", -72 * time.Hour, 7 * 24 * time.Hour, false, []string{"Tabs", "Spaces"}},
	{"Expired test question?", -72 * time.Hour, -48 * time.Hour, false, []string{"A", "B"}},
	{"Second expired test question?", -96 * time.Hour, -72 * time.Hour, false, []string{"A", "B", "C"}},
}

// Seed inserts two demo users and a handful of active and expired polls.
// Does nothing if any poll already exists.
func Seed(ctx context.Context, db *sql.DB, now time.Time) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM poll`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count polls: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(DemoPassword)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer tx.Rollback()

	now = now.UTC().Truncate(time.Second)
	ownerID := uuid.NewString()
	for i, email := range []string{"demo@example.com", "demo2@example.com"} {
		id := ownerID
		if i > 0 {
			id = uuid.NewString()
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO app_user (id, name, email, password_hash, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, id, fmt.Sprintf("Demo User %d", i+1), email, hash, now)
		if err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
	}

	for _, p := range seedPolls {
		pollID := uuid.NewString()
		var owner *string
		if p.owned {
			owner = &ownerID
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO poll (id, question, start_date, end_date, is_closed, created_by_user_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, pollID, p.question, now.Add(p.start), now.Add(p.end), false, owner, now)
		if err != nil {
			return fmt.Errorf("failed to seed poll: %w", err)
		}

		for pos, text := range p.options {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO poll_option (id, poll_id, text, position)
				VALUES ($1, $2, $3, $4)
			`, uuid.NewString(), pollID, text, pos)
			if err != nil {
				return fmt.Errorf("failed to seed option: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit seed: %w", err)
	}

	slog.Info("demo data seeded", "polls", len(seedPolls), "users", 2)
	return nil
}
