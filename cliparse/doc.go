// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags loads .env if present and returns a Config struct:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type (sqlite or postgres)
	-redis        Redis URL for token revocation
	-cors-origin  Allowed CORS origin
	-jwt-secret   Token signing secret
	-jwt-issuer   Token issuer
	-jwt-audience Token audience
	-token-ttl    Token lifetime
	-seed         Seed demo data

# Environment Variables

Flags fall back to environment variables:

	PORT          → -p
	DATABASE_URL  → -d
	DATABASE_TYPE → -t
	REDIS_URL     → -redis
	CORS_ORIGIN   → -cors-origin
	JWT_SECRET    → -jwt-secret
	JWT_ISSUER    → -jwt-issuer
	JWT_AUDIENCE  → -jwt-audience
	TOKEN_TTL     → -token-ttl
	SEED_DEMO     → -seed

CLI flags take precedence over environment variables.

# Validation

ParseFlags returns an error if:

  - JWT_SECRET is missing
  - DATABASE_TYPE is not sqlite or postgres
  - DATABASE_URL is missing for postgres (sqlite defaults to pollbooth.db)
*/
package cliparse
