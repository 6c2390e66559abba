// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Pollbooth API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, revoker)

Passing a nil revoker keeps revoked tokens in the database.

# Endpoints

Operational:

	GET /health  - Liveness check
	GET /metrics - Prometheus metrics

Accounts:

	POST /users/register - Create an account
	POST /users/login    - Exchange credentials for a bearer token
	POST /users/logout   - Revoke the presented token
	GET  /users/me       - Current user

Polls (bearer token required):

	GET  /polls/active      - Polls open for voting
	GET  /polls/mine        - Polls the caller created
	GET  /polls/closed      - Closed polls, filterable by text and dates
	GET  /polls/closed/{id} - Results of a closed poll
	GET  /polls/{id}        - Poll detail
	POST /polls/create      - Create a poll
	POST /polls/{id}/close  - Close a poll early (owner only)

Voting (bearer token required):

	POST /votes      - Cast a vote
	GET  /votes/mine - Ids of polls the caller voted in

# Middleware

Every API route is wrapped in middleware.WithLogging, which assigns a
request id and records request metrics. Protected routes add
middleware.RequireAuth inside that. CORS is applied around the whole mux
in main.
*/
package router
