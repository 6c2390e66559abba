// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, driver string) error {
	_, err := db.Exec(schemaFor(driver))
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// schemaFor swaps in the timestamp type for the driver. Postgres needs a zoned
// type so comparisons against time parameters don't depend on the session
// TimeZone; sqlite only recognises TIMESTAMP for scanning into time.Time.
func schemaFor(driver string) string {
	ts := "TIMESTAMP"
	if driver == DriverPostgres {
		ts = "TIMESTAMPTZ"
	}
	return strings.ReplaceAll(schema, "{{ts}}", ts)
}

const schema = `
-- Users
CREATE TABLE IF NOT EXISTS app_user (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Polls
CREATE TABLE IF NOT EXISTS poll (
    id TEXT PRIMARY KEY,
    question TEXT NOT NULL CHECK (question <> ''),
    start_date {{ts}} NOT NULL,
    end_date {{ts}} NOT NULL,
    is_closed BOOLEAN NOT NULL DEFAULT FALSE,
    created_by_user_id TEXT REFERENCES app_user(id),
    created_at {{ts}} NOT NULL DEFAULT CURRENT_TIMESTAMP,
    CHECK (start_date <= end_date)
);

CREATE INDEX IF NOT EXISTS idx_poll_end_date ON poll(end_date);
CREATE INDEX IF NOT EXISTS idx_poll_created_by ON poll(created_by_user_id);

-- Options
CREATE TABLE IF NOT EXISTS poll_option (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id) ON DELETE CASCADE,
    text TEXT NOT NULL CHECK (text <> ''),
    position INTEGER NOT NULL,
    UNIQUE (poll_id, id)
);

CREATE INDEX IF NOT EXISTS idx_poll_option_poll_id ON poll_option(poll_id);

-- Votes (anonymous: no user column)
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES poll(id),
    option_id TEXT NOT NULL,
    FOREIGN KEY (poll_id, option_id) REFERENCES poll_option(poll_id, id)
);

CREATE INDEX IF NOT EXISTS idx_vote_poll_id ON vote(poll_id);

-- Voters (participation only: no option column)
CREATE TABLE IF NOT EXISTS voter (
    user_id TEXT NOT NULL REFERENCES app_user(id),
    poll_id TEXT NOT NULL REFERENCES poll(id),
    PRIMARY KEY (user_id, poll_id)
);

CREATE INDEX IF NOT EXISTS idx_voter_poll_id ON voter(poll_id);

-- Revoked bearer tokens (used when no redis is configured)
CREATE TABLE IF NOT EXISTS revoked_token (
    jti TEXT PRIMARY KEY,
    expires_at {{ts}} NOT NULL
);
`
