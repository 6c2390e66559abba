// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/pollbooth/auth"
	"github.com/danielhkuo/pollbooth/cliparse"
	"github.com/danielhkuo/pollbooth/db"
)

// TestSecret signs every token issued in tests
const TestSecret = "test-jwt-secret"

// SetupTestDB creates a fresh sqlite database file with the full schema.
// The file lives in the test's temp dir and is removed with it.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := db.Open(db.DriverSQLite, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, db.DriverSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         3318,
		DatabaseURL:  "test.db",
		DatabaseType: db.DriverSQLite,
		JWTSecret:    TestSecret,
		JWTIssuer:    cliparse.DefaultIssuer,
		JWTAudience:  cliparse.DefaultAudience,
		TokenTTL:     time.Hour,
		CORSOrigin:   "*",
	}
}

// TestTokens returns a token issuer matching GetTestConfig
func TestTokens() *auth.Tokens {
	cfg := GetTestConfig()
	return auth.NewTokens(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.TokenTTL)
}

// CreateTestUser inserts a user whose password is "password123" and returns its ID
func CreateTestUser(t *testing.T, conn *sql.DB, email string) string {
	t.Helper()

	hash, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	userID := uuid.NewString()
	_, err = conn.Exec(`
		INSERT INTO app_user (id, name, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, userID, "Test User", email, hash, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return userID
}

// CreateTestPoll inserts a poll with the given window and returns its ID.
// ownerID may be empty for an unowned poll.
func CreateTestPoll(t *testing.T, conn *sql.DB, question string, start, end time.Time, ownerID string) string {
	t.Helper()

	var owner *string
	if ownerID != "" {
		owner = &ownerID
	}

	pollID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO poll (id, question, start_date, end_date, is_closed, created_by_user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, pollID, question, start.UTC(), end.UTC(), false, owner, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}

	return pollID
}

// CreateActivePoll inserts a poll open from an hour ago until a day from now
// with one option per label, returning the poll ID and option IDs in order
func CreateActivePoll(t *testing.T, conn *sql.DB, question, ownerID string, labels ...string) (string, []string) {
	t.Helper()

	now := time.Now().UTC()
	pollID := CreateTestPoll(t, conn, question, now.Add(-time.Hour), now.Add(24*time.Hour), ownerID)
	optionIDs := make([]string, len(labels))
	for i, label := range labels {
		optionIDs[i] = AddTestOption(t, conn, pollID, label, i)
	}
	return pollID, optionIDs
}

// AddTestOption adds an option to a poll and returns the option ID
func AddTestOption(t *testing.T, conn *sql.DB, pollID, text string, position int) string {
	t.Helper()

	optionID := uuid.NewString()
	_, err := conn.Exec(`
		INSERT INTO poll_option (id, poll_id, text, position)
		VALUES ($1, $2, $3, $4)
	`, optionID, pollID, text, position)
	if err != nil {
		t.Fatalf("Failed to create test option: %v", err)
	}

	return optionID
}

// CastTestVote writes the voter and vote rows directly, bypassing lifecycle
// checks, so fixtures can hold votes on polls that are already closed
func CastTestVote(t *testing.T, conn *sql.DB, userID, pollID, optionID string) {
	t.Helper()

	if _, err := conn.Exec(`INSERT INTO voter (user_id, poll_id) VALUES ($1, $2)`, userID, pollID); err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}
	_, err := conn.Exec(`
		INSERT INTO vote (id, poll_id, option_id) VALUES ($1, $2, $3)
	`, uuid.NewString(), pollID, optionID)
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
}

// AuthHeader returns an Authorization header carrying a fresh token for userID
func AuthHeader(t *testing.T, userID, email string) map[string]string {
	t.Helper()

	token, _, err := TestTokens().Issue(userID, email)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
