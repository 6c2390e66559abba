// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Pollbooth API server.

Pollbooth is a small voting service: registered users create polls with a
voting window, everyone else casts one anonymous vote per poll, and results
are published once the window ends or the owner closes the poll early.

# Starting the Server

The only required setting is the token signing secret. By default the server
uses a local SQLite file:

	JWT_SECRET=change-me go run .

Or against PostgreSQL with flags:

	go run . -t postgres -d "postgres://..." -jwt-secret change-me

A .env file in the working directory is loaded first when present.

# Configuration

Required settings:

  - JWT_SECRET (-jwt-secret): HMAC key for bearer tokens
  - DATABASE_URL (-d): required only when DATABASE_TYPE is postgres

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - REDIS_URL (-redis): keep revoked tokens in redis instead of the database
  - CORS_ORIGIN (-cors-origin): allowed origin (default: reflect the caller)
  - JWT_ISSUER, JWT_AUDIENCE, TOKEN_TTL: token claims and lifetime
  - SEED_DEMO (-seed): insert demo users and polls into an empty database

# Architecture

  - handlers: HTTP request handlers (polls, voting, results, users)
  - service: composes stores into response shapes
  - store: poll, vote and user persistence
  - lifecycle, tally: pure status and counting rules
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, auth, validation, JSON helpers
  - auth, session: passwords, tokens and revocation
  - metrics: Prometheus collectors
  - models: Request/response and domain types
  - db: Connection, schema creation and demo seed
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
