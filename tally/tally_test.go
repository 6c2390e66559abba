// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/pollbooth/models"
)

func options(texts ...string) []models.Option {
	opts := make([]models.Option, len(texts))
	for i, text := range texts {
		opts[i] = models.Option{ID: fmt.Sprintf("opt-%d", i), PollID: "poll", Text: text, Position: i}
	}
	return opts
}

func votesFor(counts ...int) []models.Vote {
	var votes []models.Vote
	for i, n := range counts {
		for j := 0; j < n; j++ {
			votes = append(votes, models.Vote{
				ID:       fmt.Sprintf("vote-%d-%d", i, j),
				PollID:   "poll",
				OptionID: fmt.Sprintf("opt-%d", i),
			})
		}
	}
	return votes
}

func TestCompute_RedBlueSplit(t *testing.T) {
	result := Compute(options("Red", "Blue"), votesFor(1, 1))

	require.Len(t, result.Rows, 2)
	assert.Equal(t, 2, result.TotalVotes)
	assert.Equal(t, "Red", result.Rows[0].Text)
	assert.Equal(t, 1, result.Rows[0].VoteCount)
	assert.Equal(t, 50.0, result.Rows[0].VotePercentage)
	assert.Equal(t, "Blue", result.Rows[1].Text)
	assert.Equal(t, 1, result.Rows[1].VoteCount)
	assert.Equal(t, 50.0, result.Rows[1].VotePercentage)
}

func TestCompute_NoVotes(t *testing.T) {
	result := Compute(options("A", "B", "C"), nil)

	assert.Equal(t, 0, result.TotalVotes)
	for _, row := range result.Rows {
		assert.Equal(t, 0, row.VoteCount)
		assert.Equal(t, 0.0, row.VotePercentage)
	}
}

func TestCompute_SumsAndRounding(t *testing.T) {
	testCases := []struct {
		name     string
		counts   []int
		expected []float64
	}{
		{"thirds", []int{1, 1, 1}, []float64{33.33, 33.33, 33.33}},
		{"sevenths", []int{3, 2, 2}, []float64{42.86, 28.57, 28.57}},
		{"sixths", []int{1, 5}, []float64{16.67, 83.33}},
		{"eighth is exact", []int{1, 7}, []float64{12.5, 87.5}},
		{"one option takes all", []int{4, 0}, []float64{100, 0}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			texts := make([]string, len(tc.counts))
			for i := range texts {
				texts[i] = fmt.Sprintf("Option %d", i)
			}
			result := Compute(options(texts...), votesFor(tc.counts...))

			countSum := 0
			pctSum := 0.0
			for i, row := range result.Rows {
				assert.Equal(t, tc.counts[i], row.VoteCount)
				assert.InDelta(t, tc.expected[i], row.VotePercentage, 1e-9)
				countSum += row.VoteCount
				pctSum += row.VotePercentage
			}
			assert.Equal(t, result.TotalVotes, countSum)
			assert.InDelta(t, 100.0, pctSum, 0.1)
		})
	}
}

func TestPercentage(t *testing.T) {
	assert.Equal(t, 0.0, Percentage(0, 0))
	assert.Equal(t, 0.0, Percentage(3, 0))
	assert.Equal(t, 0.0, Percentage(0, 5))
	assert.Equal(t, 100.0, Percentage(5, 5))
	assert.Equal(t, 66.67, Percentage(2, 3))
}

func TestCounts(t *testing.T) {
	counts := Counts(votesFor(2, 0, 3))
	assert.Equal(t, 2, counts["opt-0"])
	assert.Equal(t, 0, counts["opt-1"])
	assert.Equal(t, 3, counts["opt-2"])
}
