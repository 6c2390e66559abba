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

const pollColumns = `id, question, start_date, end_date, is_closed, created_by_user_id, created_at`

// include selects which child collections a snapshot query loads
type include int

const (
	withOptions include = 1 << iota
	withVotes
	withVoters
)

// NewPoll is the input to Create
type NewPoll struct {
	Question  string
	StartDate time.Time
	EndDate   time.Time
	Options   []string
	OwnerID   *string
}

// ClosedFilter narrows the closed poll listing. Text matches the question
// case-insensitively. From bounds the start date; To bounds the end date and
// includes the whole To day.
type ClosedFilter struct {
	Text string
	From *time.Time
	To   *time.Time
}

type Polls struct {
	db *sql.DB
}

func NewPolls(db *sql.DB) *Polls {
	return &Polls{db: db}
}

// ValidateNewPoll checks the creation invariants without touching storage
func ValidateNewPoll(p NewPoll) error {
	if strings.TrimSpace(p.Question) == "" {
		return invalid("question", "poll question cannot be empty")
	}
	if len(p.Options) < 2 {
		return invalid("options", "a poll must have at least 2 options")
	}
	for _, text := range p.Options {
		if strings.TrimSpace(text) == "" {
			return invalid("options", "poll options must have text")
		}
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return invalid("startDate", "start and end dates are required")
	}
	if p.StartDate.After(p.EndDate) {
		return invalid("startDate", "start date cannot be after end date")
	}
	return nil
}

// Create validates and stores a poll with its options in one transaction
func (s *Polls) Create(ctx context.Context, p NewPoll, now time.Time) (string, error) {
	if err := ValidateNewPoll(p); err != nil {
		return "", err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	pollID := uuid.NewString()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO poll (id, question, start_date, end_date, is_closed, created_by_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, pollID, p.Question, normalize(p.StartDate), normalize(p.EndDate), false, p.OwnerID, normalize(now))
	if err != nil {
		if isForeignKeyViolation(err) {
			return "", ErrUnknownUser
		}
		return "", fmt.Errorf("failed to insert poll: %w", err)
	}

	for pos, text := range p.Options {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_option (id, poll_id, text, position)
			VALUES ($1, $2, $3, $4)
		`, uuid.NewString(), pollID, text, pos)
		if err != nil {
			return "", fmt.Errorf("failed to insert option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit poll: %w", err)
	}

	return pollID, nil
}

// GetByID returns the poll with options, votes and voters loaded
func (s *Polls) GetByID(ctx context.Context, id string) (models.PollSnapshot, error) {
	polls, err := queryPolls(ctx, s.db, `SELECT `+pollColumns+` FROM poll WHERE id = $1`, id)
	if err != nil {
		return models.PollSnapshot{}, err
	}
	if len(polls) == 0 {
		return models.PollSnapshot{}, ErrNotFound
	}

	snaps, err := loadSnapshots(ctx, s.db, polls, withOptions|withVotes|withVoters)
	if err != nil {
		return models.PollSnapshot{}, err
	}
	return snaps[0], nil
}

// Active returns polls open at now, soonest-closing first, with options and
// voters loaded
func (s *Polls) Active(ctx context.Context, now time.Time) ([]models.PollSnapshot, error) {
	now = normalize(now)
	polls, err := queryPolls(ctx, s.db, `
		SELECT `+pollColumns+`
		FROM poll
		WHERE start_date <= $1 AND end_date >= $1 AND NOT is_closed
		ORDER BY end_date ASC, id ASC
	`, now)
	if err != nil {
		return nil, err
	}
	return loadSnapshots(ctx, s.db, polls, withOptions|withVoters)
}

// Closed returns polls whose end date has passed, most recently closed first
func (s *Polls) Closed(ctx context.Context, now time.Time, f ClosedFilter) ([]models.PollSnapshot, error) {
	query := `SELECT ` + pollColumns + ` FROM poll WHERE end_date < $1`
	args := []interface{}{normalize(now)}

	if f.From != nil {
		args = append(args, normalize(*f.From))
		query += fmt.Sprintf(" AND start_date >= $%d", len(args))
	}
	if f.To != nil {
		args = append(args, normalize(f.To.Add(24*time.Hour)))
		query += fmt.Sprintf(" AND end_date < $%d", len(args))
	}
	query += " ORDER BY end_date DESC, id ASC"

	polls, err := queryPolls(ctx, s.db, query, args...)
	if err != nil {
		return nil, err
	}

	if f.Text != "" {
		needle := strings.ToLower(f.Text)
		kept := polls[:0]
		for _, p := range polls {
			if strings.Contains(strings.ToLower(p.Question), needle) {
				kept = append(kept, p)
			}
		}
		polls = kept
	}

	return loadSnapshots(ctx, s.db, polls, withOptions)
}

// ByOwner returns the polls a user created with options and votes loaded
func (s *Polls) ByOwner(ctx context.Context, userID string) ([]models.PollSnapshot, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, invalid("userId", "user id cannot be empty")
	}

	polls, err := queryPolls(ctx, s.db, `
		SELECT `+pollColumns+`
		FROM poll
		WHERE created_by_user_id = $1
		ORDER BY end_date DESC, id ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	return loadSnapshots(ctx, s.db, polls, withOptions|withVotes)
}

// All returns every poll with its options
func (s *Polls) All(ctx context.Context) ([]models.PollSnapshot, error) {
	polls, err := queryPolls(ctx, s.db, `SELECT `+pollColumns+` FROM poll ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	return loadSnapshots(ctx, s.db, polls, withOptions)
}

// Close ends a poll early. The window is cut at now so that time-based
// classification agrees with the flag everywhere.
func (s *Polls) Close(ctx context.Context, pollID, userID string, now time.Time) (models.PollSnapshot, error) {
	now = normalize(now)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.PollSnapshot{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var start, end time.Time
	var closed bool
	var owner sql.NullString
	err = tx.QueryRowContext(ctx, `
		SELECT start_date, end_date, is_closed, created_by_user_id FROM poll WHERE id = $1
	`, pollID).Scan(&start, &end, &closed, &owner)
	if errors.Is(err, sql.ErrNoRows) {
		return models.PollSnapshot{}, ErrNotFound
	}
	if err != nil {
		return models.PollSnapshot{}, fmt.Errorf("failed to query poll: %w", err)
	}

	if !owner.Valid || owner.String != userID {
		return models.PollSnapshot{}, ErrNotOwner
	}
	if closed {
		return models.PollSnapshot{}, ErrPollClosed
	}

	newEnd := minTime(end.UTC(), now)
	newStart := minTime(start.UTC(), newEnd)

	// The is_closed guard makes a concurrent close lose cleanly
	res, err := tx.ExecContext(ctx, `
		UPDATE poll
		SET is_closed = TRUE, start_date = $1, end_date = $2
		WHERE id = $3 AND NOT is_closed
	`, newStart, newEnd, pollID)
	if err != nil {
		return models.PollSnapshot{}, fmt.Errorf("failed to close poll: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.PollSnapshot{}, ErrPollClosed
	}

	if err := tx.Commit(); err != nil {
		return models.PollSnapshot{}, fmt.Errorf("failed to commit close: %w", err)
	}

	return s.GetByID(ctx, pollID)
}

func scanPoll(rows *sql.Rows) (models.Poll, error) {
	var p models.Poll
	var owner sql.NullString
	err := rows.Scan(&p.ID, &p.Question, &p.StartDate, &p.EndDate, &p.IsClosed, &owner, &p.CreatedAt)
	if err != nil {
		return p, err
	}
	if owner.Valid {
		id := owner.String
		p.CreatedByUserID = &id
	}
	p.StartDate = p.StartDate.UTC()
	p.EndDate = p.EndDate.UTC()
	p.CreatedAt = p.CreatedAt.UTC()
	return p, nil
}

// queryPolls reads every matching poll row and closes the cursor before
// returning, so child queries can reuse the connection
func queryPolls(ctx context.Context, q queryer, query string, args ...interface{}) ([]models.Poll, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}
	defer rows.Close()

	polls := []models.Poll{}
	for rows.Next() {
		p, err := scanPoll(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read polls: %w", err)
	}
	return polls, nil
}

// loadSnapshots fetches the requested children for all polls with one query
// per collection
func loadSnapshots(ctx context.Context, q queryer, polls []models.Poll, inc include) ([]models.PollSnapshot, error) {
	snaps := make([]models.PollSnapshot, len(polls))
	index := make(map[string]int, len(polls))
	ids := make([]string, len(polls))
	for i, p := range polls {
		snaps[i] = models.PollSnapshot{Poll: p}
		index[p.ID] = i
		ids[i] = p.ID
	}
	if len(polls) == 0 {
		return snaps, nil
	}

	in := placeholders(1, len(ids))
	args := stringArgs(ids)

	if inc&withOptions != 0 {
		for i := range snaps {
			snaps[i].Options = []models.Option{}
		}
		err := eachRow(ctx, q, `
			SELECT id, poll_id, text, position FROM poll_option
			WHERE poll_id IN (`+in+`)
			ORDER BY poll_id, position
		`, args, func(rows *sql.Rows) error {
			var o models.Option
			if err := rows.Scan(&o.ID, &o.PollID, &o.Text, &o.Position); err != nil {
				return err
			}
			i := index[o.PollID]
			snaps[i].Options = append(snaps[i].Options, o)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load options: %w", err)
		}
	}

	if inc&withVotes != 0 {
		for i := range snaps {
			snaps[i].Votes = []models.Vote{}
		}
		err := eachRow(ctx, q, `
			SELECT id, poll_id, option_id FROM vote WHERE poll_id IN (`+in+`)
		`, args, func(rows *sql.Rows) error {
			var v models.Vote
			if err := rows.Scan(&v.ID, &v.PollID, &v.OptionID); err != nil {
				return err
			}
			i := index[v.PollID]
			snaps[i].Votes = append(snaps[i].Votes, v)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load votes: %w", err)
		}
	}

	if inc&withVoters != 0 {
		for i := range snaps {
			snaps[i].Voters = []models.Voter{}
		}
		err := eachRow(ctx, q, `
			SELECT user_id, poll_id FROM voter WHERE poll_id IN (`+in+`)
		`, args, func(rows *sql.Rows) error {
			var v models.Voter
			if err := rows.Scan(&v.UserID, &v.PollID); err != nil {
				return err
			}
			i := index[v.PollID]
			snaps[i].Voters = append(snaps[i].Voters, v)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to load voters: %w", err)
		}
	}

	return snaps, nil
}

func eachRow(ctx context.Context, q queryer, query string, args []interface{}, fn func(*sql.Rows) error) error {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := fn(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}
