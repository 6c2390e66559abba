// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists polls, votes and users over database/sql.

Queries use $n placeholders, which both lib/pq and modernc.org/sqlite accept,
so the same SQL runs against either backend.

# Polls

Polls.Create validates a NewPoll and writes the poll and its options in one
transaction. Reads return models.PollSnapshot values with only the child
collections the caller needs:

	GetByID   options, votes, voters
	Active    options, voters
	Closed    options
	ByOwner   options, votes
	All       options

Children are fetched with one IN (...) query per collection, never per poll.

Polls.Close lets the owner end a poll early. It sets is_closed and moves
end_date back to the close time, so every query that classifies by time sees
the poll as closed too.

# Voting

Ledger.CastVote runs inside a transaction:

 1. the poll must exist (ErrPollNotFound)
 2. it must be active (ErrPollClosed, ErrPollNotStarted)
 3. the option must belong to it (ErrInvalidOption)
 4. the voter row is inserted; a primary key violation becomes ErrDuplicateVote
 5. the anonymous vote row is inserted

There is no "already voted?" pre-check. Two racing requests from one user both
reach step 4 and the database rejects the second.

# Errors

Callers match sentinels with errors.Is. Input problems are *ValidationError,
detected with IsValidation.
*/
package store
