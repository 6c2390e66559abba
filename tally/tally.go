// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"github.com/shopspring/decimal"

	"github.com/danielhkuo/pollbooth/models"
)

var hundred = decimal.NewFromInt(100)

// Row is the tally for a single option
type Row struct {
	OptionID       string
	Text           string
	VoteCount      int
	VotePercentage float64
}

// Result holds per-option rows in option order and the poll total
type Result struct {
	TotalVotes int
	Rows       []Row
}

// Compute counts votes per option. TotalVotes is the number of vote rows for
// the poll, so the row counts always sum to it when every vote references one
// of the given options.
func Compute(options []models.Option, votes []models.Vote) Result {
	counts := Counts(votes)
	total := len(votes)
	rows := make([]Row, 0, len(options))
	for _, opt := range options {
		n := counts[opt.ID]
		rows = append(rows, Row{
			OptionID:       opt.ID,
			Text:           opt.Text,
			VoteCount:      n,
			VotePercentage: Percentage(n, total),
		})
	}

	return Result{TotalVotes: total, Rows: rows}
}

// Percentage returns count/total*100 rounded half-to-even to two decimals,
// or 0 when there are no votes
func Percentage(count, total int) float64 {
	if total <= 0 || count <= 0 {
		return 0
	}
	return decimal.NewFromInt(int64(count)).
		Mul(hundred).
		Div(decimal.NewFromInt(int64(total))).
		RoundBank(2).
		InexactFloat64()
}

// Counts returns only the per-option vote counts, keyed by option id
func Counts(votes []models.Vote) map[string]int {
	counts := make(map[string]int)
	for _, v := range votes {
		counts[v.OptionID]++
	}
	return counts
}
