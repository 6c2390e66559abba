// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"

	"github.com/danielhkuo/pollbooth/lifecycle"
	"github.com/danielhkuo/pollbooth/metrics"
	"github.com/danielhkuo/pollbooth/models"
	"github.com/danielhkuo/pollbooth/store"
	"github.com/danielhkuo/pollbooth/tally"
)

// Polls answers every poll question the API asks. The caller's user id is
// passed explicitly on each call.
type Polls struct {
	polls  *store.Polls
	ledger *store.Ledger
	users  *store.Users
	now    func() time.Time
}

func NewPolls(db *sql.DB) *Polls {
	return &Polls{
		polls:  store.NewPolls(db),
		ledger: store.NewLedger(db),
		users:  store.NewUsers(db),
		now:    time.Now,
	}
}

// WithClock returns a copy that reads the time from now
func (s *Polls) WithClock(now func() time.Time) *Polls {
	c := *s
	c.now = now
	return &c
}

// Active lists polls open right now, each marked with whether userID voted
func (s *Polls) Active(ctx context.Context, userID string) ([]models.PollResponse, error) {
	now := s.now()
	snaps, err := s.polls.Active(ctx, now)
	if err != nil {
		return nil, err
	}

	return lo.Map(snaps, func(snap models.PollSnapshot, _ int) models.PollResponse {
		resp := toPollResponse(snap, now)
		resp.HasVoted = snap.HasVoter(userID)
		return resp
	}), nil
}

// Detail returns one poll with vote counts. The owner also gets the voter
// roster: every user and whether they voted.
func (s *Polls) Detail(ctx context.Context, userID, pollID string) (models.PollResponse, error) {
	snap, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return models.PollResponse{}, err
	}
	return s.detail(ctx, userID, snap)
}

func (s *Polls) detail(ctx context.Context, userID string, snap models.PollSnapshot) (models.PollResponse, error) {
	resp := toPollResponse(snap, s.now())
	resp.Options = toOptionResponses(snap.Options, tally.Counts(snap.Votes))
	resp.HasVoted = snap.HasVoter(userID)

	if snap.OwnedBy(userID) {
		users, err := s.users.All(ctx)
		if err != nil {
			return models.PollResponse{}, err
		}
		resp.Voters = toRoster(users, snap.Voters)
	}

	return resp, nil
}

// Closed lists polls whose voting window has ended
func (s *Polls) Closed(ctx context.Context, filter store.ClosedFilter) ([]models.PollResponse, error) {
	now := s.now()
	snaps, err := s.polls.Closed(ctx, now, filter)
	if err != nil {
		return nil, err
	}

	return lo.Map(snaps, func(snap models.PollSnapshot, _ int) models.PollResponse {
		return toPollResponse(snap, now)
	}), nil
}

// ClosedResult tallies a closed poll. Polls that are missing or still
// accepting votes both report store.ErrNotFound.
func (s *Polls) ClosedResult(ctx context.Context, pollID string) (models.ClosedPollResponse, error) {
	snap, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return models.ClosedPollResponse{}, err
	}

	if lifecycle.Effective(snap.StartDate, snap.EndDate, snap.IsClosed, s.now()) != lifecycle.Closed {
		return models.ClosedPollResponse{}, store.ErrNotFound
	}

	result := tally.Compute(snap.Options, snap.Votes)
	return models.ClosedPollResponse{
		ID:         snap.ID,
		Question:   snap.Question,
		StartDate:  snap.StartDate,
		EndDate:    snap.EndDate,
		TotalVotes: result.TotalVotes,
		Options: lo.Map(result.Rows, func(row tally.Row, _ int) models.OptionResultResponse {
			return models.OptionResultResponse{
				ID:             row.OptionID,
				Text:           row.Text,
				VoteCount:      row.VoteCount,
				VotePercentage: row.VotePercentage,
			}
		}),
	}, nil
}

// Mine lists the polls userID created, with vote counts
func (s *Polls) Mine(ctx context.Context, userID string) ([]models.PollResponse, error) {
	now := s.now()
	snaps, err := s.polls.ByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}

	return lo.Map(snaps, func(snap models.PollSnapshot, _ int) models.PollResponse {
		resp := toPollResponse(snap, now)
		resp.Options = toOptionResponses(snap.Options, tally.Counts(snap.Votes))
		return resp
	}), nil
}

// Create stores a new poll owned by userID and returns its id
func (s *Polls) Create(ctx context.Context, userID string, req models.CreatePollRequest) (string, error) {
	p := store.NewPoll{
		Question:  req.Question,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		Options:   req.Options,
	}
	if userID != "" {
		p.OwnerID = lo.ToPtr(userID)
	}

	id, err := s.polls.Create(ctx, p, s.now())
	if err != nil {
		return "", err
	}

	slog.Info("poll created", "poll_id", id, "options", len(req.Options), "user_id", userID)
	return id, nil
}

// Close ends userID's poll now and returns its final state
func (s *Polls) Close(ctx context.Context, userID, pollID string) (models.PollResponse, error) {
	snap, err := s.polls.Close(ctx, pollID, userID, s.now())
	if err != nil {
		return models.PollResponse{}, err
	}

	slog.Info("poll closed early", "poll_id", pollID, "user_id", userID)
	return s.detail(ctx, userID, snap)
}

// Vote casts userID's single vote in a poll
func (s *Polls) Vote(ctx context.Context, userID string, req models.VoteRequest) error {
	err := s.ledger.CastVote(ctx, req.PollID, req.OptionID, userID, s.now())
	metrics.VotesCast.WithLabelValues(voteOutcome(err)).Inc()
	if err != nil {
		return err
	}

	slog.Info("vote cast", "poll_id", req.PollID, "user_id", userID)
	return nil
}

// VotedPollIDs lists the polls userID has voted in
func (s *Polls) VotedPollIDs(ctx context.Context, userID string) ([]string, error) {
	return s.ledger.VotedPollIDs(ctx, userID)
}

func voteOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeAccepted
	case errors.Is(err, store.ErrDuplicateVote):
		return metrics.OutcomeDuplicate
	case errors.Is(err, store.ErrPollClosed), errors.Is(err, store.ErrPollNotStarted):
		return metrics.OutcomeClosed
	case errors.Is(err, store.ErrPollNotFound), errors.Is(err, store.ErrInvalidOption), store.IsValidation(err):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}

func toPollResponse(snap models.PollSnapshot, now time.Time) models.PollResponse {
	status := lifecycle.Effective(snap.StartDate, snap.EndDate, snap.IsClosed, now)
	resp := models.PollResponse{
		ID:        snap.ID,
		Question:  snap.Question,
		StartDate: snap.StartDate,
		EndDate:   snap.EndDate,
		Status:    string(status),
		IsClosed:  snap.IsClosed,
		Options:   toOptionResponses(snap.Options, nil),
	}
	if status == lifecycle.Active {
		resp.EndsIn = humanize.RelTime(now, snap.EndDate, "left", "ago")
	}
	return resp
}

// toOptionResponses attaches counts only when counts is non-nil
func toOptionResponses(options []models.Option, counts map[string]int) []models.OptionResponse {
	return lo.Map(options, func(o models.Option, _ int) models.OptionResponse {
		resp := models.OptionResponse{ID: o.ID, Text: o.Text}
		if counts != nil {
			resp.VoteCount = lo.ToPtr(counts[o.ID])
		}
		return resp
	})
}

func toRoster(users []models.User, voters []models.Voter) []models.VoterStatus {
	voted := lo.SliceToMap(voters, func(v models.Voter) (string, bool) {
		return v.UserID, true
	})
	return lo.Map(users, func(u models.User, _ int) models.VoterStatus {
		return models.VoterStatus{UserID: u.ID, Email: u.Email, HasVoted: voted[u.ID]}
	})
}
