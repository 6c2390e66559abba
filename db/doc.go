// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and creates the schema.

# Connections

Open accepts "postgres" (lib/pq) or "sqlite" (modernc.org/sqlite) and pings
before returning:

	conn, err := db.Open(db.DriverSQLite, "pollbooth.db")

SQLite connections turn on foreign keys and a busy timeout, and the pool is
capped at one connection so writes serialize.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn, db.DriverSQLite); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.
Timestamps are TIMESTAMPTZ on postgres and TIMESTAMP on sqlite.

# Tables

  - app_user: accounts, unique email
  - poll: question, voting window, early-close flag, owner
  - poll_option: ordered options per poll
  - vote: one row per ballot, no user column
  - voter: (user_id, poll_id) participation, primary key enforces one vote
  - revoked_token: logged-out token ids until they expire

# Relationships

	app_user 1──* poll (created_by_user_id, nullable)
	poll 1──* poll_option
	poll 1──* vote ──1 poll_option (same poll)
	app_user *──* poll (via voter)

# Demo Data

Seed fills an empty database with two demo accounts and a mix of active and
expired polls.
*/
package db
