// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package lifecycle classifies polls by comparing their voting window to a
// point in time. Nothing here is stored; status is recomputed on every read.
package lifecycle

import "time"

// Status is the derived state of a poll at a given instant
type Status string

const (
	Future Status = "future"
	Active Status = "active"
	Closed Status = "closed"
)

// Classify returns the status of the window [start, end] at now.
// Both bounds are inclusive: a poll is still active at exactly its end date.
func Classify(start, end, now time.Time) Status {
	switch {
	case now.Before(start):
		return Future
	case now.After(end):
		return Closed
	default:
		return Active
	}
}

// Effective applies the administrative close flag on top of Classify.
// A poll closed by its owner reports Closed regardless of its window.
func Effective(start, end time.Time, isClosed bool, now time.Time) Status {
	if isClosed {
		return Closed
	}
	return Classify(start, end, now)
}

// AcceptsVotes reports whether a ballot may be cast at now
func AcceptsVotes(start, end time.Time, isClosed bool, now time.Time) bool {
	return Effective(start, end, isClosed, now) == Active
}
