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

	"github.com/danielhkuo/pollbooth/lifecycle"
)

// Ledger records who voted in which poll. The vote row itself is anonymous;
// the voter row only proves participation.
type Ledger struct {
	db *sql.DB
}

func NewLedger(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

// CastVote records one anonymous vote and marks userID as a participant.
// The voter and vote rows are written in the same transaction, and the
// (user, poll) primary key on voter is what rejects a second vote.
func (l *Ledger) CastVote(ctx context.Context, pollID, optionID, userID string, now time.Time) error {
	if strings.TrimSpace(userID) == "" {
		return invalid("userId", "user id cannot be empty")
	}
	if pollID == "" {
		return invalid("pollId", "poll id is required")
	}
	if optionID == "" {
		return invalid("optionId", "option id is required")
	}

	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var start, end time.Time
	var closed bool
	err = tx.QueryRowContext(ctx, `
		SELECT start_date, end_date, is_closed FROM poll WHERE id = $1
	`, pollID).Scan(&start, &end, &closed)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPollNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query poll: %w", err)
	}

	switch lifecycle.Effective(start, end, closed, now) {
	case lifecycle.Closed:
		return ErrPollClosed
	case lifecycle.Future:
		return ErrPollNotStarted
	}

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM poll_option WHERE id = $1 AND poll_id = $2)
	`, optionID, pollID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check option: %w", err)
	}
	if !exists {
		return ErrInvalidOption
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO voter (user_id, poll_id) VALUES ($1, $2)
	`, userID, pollID)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateVote
		}
		// The poll row was read above, so only the user reference can fail
		if isForeignKeyViolation(err) {
			return ErrUnknownUser
		}
		return fmt.Errorf("failed to record voter: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO vote (id, poll_id, option_id) VALUES ($1, $2, $3)
	`, uuid.NewString(), pollID, optionID)
	if err != nil {
		return fmt.Errorf("failed to record vote: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateVote
		}
		return fmt.Errorf("failed to commit vote: %w", err)
	}

	return nil
}

// HasVoted reports whether userID has a voter row for pollID
func (l *Ledger) HasVoted(ctx context.Context, userID, pollID string) (bool, error) {
	var voted bool
	err := l.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM voter WHERE user_id = $1 AND poll_id = $2)
	`, userID, pollID).Scan(&voted)
	if err != nil {
		return false, fmt.Errorf("failed to check voter: %w", err)
	}
	return voted, nil
}

// VotedPollIDs lists every poll userID has participated in
func (l *Ledger) VotedPollIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	err := eachRow(ctx, l.db, `
		SELECT poll_id FROM voter WHERE user_id = $1 ORDER BY poll_id
	`, []interface{}{userID}, func(rows *sql.Rows) error {
		var id string
		if err := rows.Scan(&id); err != nil {
			return err
		}
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list voted polls: %w", err)
	}
	return ids, nil
}
