// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON, with validate tags:

  - CreatePollRequest: question, startDate, endDate, options
  - VoteRequest: pollId, optionId
  - RegisterRequest: name, email, password
  - LoginRequest: email, password

# Response Types

  - PollResponse: poll with status, options and, for the owner, the voter roster
  - ClosedPollResponse: final counts and percentages
  - CreatePollResponse, VotedPollsResponse
  - UserResponse, LoginResponse
  - ErrorResponse: error, message

# Domain Types

  - Poll, Option, Vote, Voter, User: one per table
  - PollSnapshot: a poll with whichever related rows were loaded

# Constants

Status values:

	StatusFuture = "future"
	StatusActive = "active"
	StatusClosed = "closed"
*/
package models
