package models

import "time"

// Lifecycle status values reported to clients
const (
	StatusFuture = "future"
	StatusActive = "active"
	StatusClosed = "closed"
)

// Request types

type CreatePollRequest struct {
	Question  string    `json:"question" validate:"required"`
	StartDate time.Time `json:"startDate" validate:"required"`
	EndDate   time.Time `json:"endDate" validate:"required"`
	Options   []string  `json:"options" validate:"min=2,dive,required"`
}

type VoteRequest struct {
	PollID   string `json:"pollId" validate:"required"`
	OptionID string `json:"optionId" validate:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Response types

type CreatePollResponse struct {
	ID string `json:"id"`
}

// OptionResponse carries a vote count only where the caller may see one
type OptionResponse struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	VoteCount *int   `json:"voteCount,omitempty"`
}

type OptionResultResponse struct {
	ID             string  `json:"id"`
	Text           string  `json:"text"`
	VoteCount      int     `json:"voteCount"`
	VotePercentage float64 `json:"votePercentage"`
}

type VoterStatus struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	HasVoted bool   `json:"hasVoted"`
}

type PollResponse struct {
	ID        string           `json:"id"`
	Question  string           `json:"question"`
	StartDate time.Time        `json:"startDate"`
	EndDate   time.Time        `json:"endDate"`
	Status    string           `json:"status"`
	IsClosed  bool             `json:"isClosed"`
	EndsIn    string           `json:"endsIn,omitempty"`
	Options   []OptionResponse `json:"options"`
	Voters    []VoterStatus    `json:"voters,omitempty"`
	HasVoted  bool             `json:"hasVoted"`
}

type ClosedPollResponse struct {
	ID         string                 `json:"id"`
	Question   string                 `json:"question"`
	StartDate  time.Time              `json:"startDate"`
	EndDate    time.Time              `json:"endDate"`
	TotalVotes int                    `json:"totalVotes"`
	Options    []OptionResultResponse `json:"options"`
}

type VotedPollsResponse struct {
	PollIDs []string `json:"pollIds"`
}

type UserResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type LoginResponse struct {
	AuthToken    string `json:"authToken"`
	RefreshToken string `json:"refreshToken"`
	UserID       string `json:"userId"`
}

// Domain types

type Poll struct {
	ID              string
	Question        string
	StartDate       time.Time
	EndDate         time.Time
	IsClosed        bool
	CreatedByUserID *string
	CreatedAt       time.Time
}

// OwnedBy reports whether userID created the poll
func (p Poll) OwnedBy(userID string) bool {
	return p.CreatedByUserID != nil && userID != "" && *p.CreatedByUserID == userID
}

type Option struct {
	ID       string
	PollID   string
	Text     string
	Position int
}

// Vote carries no user identity; participation lives in Voter
type Vote struct {
	ID       string
	PollID   string
	OptionID string
}

type Voter struct {
	UserID string
	PollID string
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// PollSnapshot is a read-only copy of a poll and whichever child rows the
// query loaded. Unloaded collections are nil.
type PollSnapshot struct {
	Poll
	Options []Option
	Votes   []Vote
	Voters  []Voter
}

// HasVoter reports whether userID appears in the loaded voter set
func (s PollSnapshot) HasVoter(userID string) bool {
	for _, v := range s.Voters {
		if v.UserID == userID {
			return true
		}
	}
	return false
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
