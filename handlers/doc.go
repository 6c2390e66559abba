// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Pollbooth API.

# Handler Types

Each handler is a thin struct over a service:

  - PollHandler: active list, poll detail, own polls, create and close
  - VotingHandler: casting votes and listing the polls a user voted in
  - ResultsHandler: closed-poll search and per-poll results
  - UserHandler: registration, login, logout and the current user

Handlers are created via constructor functions that accept *sql.DB:

	pollHandler := handlers.NewPollHandler(db)
	userHandler := handlers.NewUserHandler(db, tokens, revoker)

# Identity

Every route except register and login runs behind middleware.RequireAuth,
which places the token claims on the request context. Handlers read the
caller with auth.UserIDFrom and never trust a user id from the body.

# Polls

	GET  /polls/active       → GetActive
	GET  /polls/mine         → GetMine
	GET  /polls/{id}         → GetPoll (owner also gets the voter roster)
	POST /polls/create       → CreatePoll
	POST /polls/{id}/close   → ClosePoll (owner only)

# Voting

	POST /votes       → CastVote (204 on success, 400 with the reason otherwise)
	GET  /votes/mine  → GetMyVotes

A user votes at most once per poll. The vote row carries no user id;
participation is recorded separately so ballots stay anonymous.

# Results

	GET /polls/closed       → GetClosed (?text=&from=&to=)
	GET /polls/closed/{id}  → GetClosedResult

Date filters take YYYY-MM-DD or RFC 3339. The to bound covers the whole day.

# Errors

Store errors are mapped in errors.go: validation → 400, missing → 404,
not the owner → 403, already closed or email taken → 409, and a token whose
user no longer exists → 401.
*/
package handlers
