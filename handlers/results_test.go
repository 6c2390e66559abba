// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielhkuo/pollbooth/models"
	"github.com/danielhkuo/pollbooth/testutil"
)

func TestGetClosed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewResultsHandler(db)

	day := func(d int) time.Time { return time.Date(2024, 3, d, 9, 0, 0, 0, time.UTC) }
	march := testutil.CreateTestPoll(t, db, "Spring PICNIC spot", day(1), day(5), "")
	later := testutil.CreateTestPoll(t, db, "Office party date", day(10), day(12), "")
	testutil.CreateActivePoll(t, db, "Picnic tomorrow?", "", "Yes", "No")

	testCases := []struct {
		name           string
		query          string
		expectedStatus int
		expectedIDs    []string
	}{
		{"all closed, newest first", "", http.StatusOK, []string{later, march}},
		{"text filter ignores case", "?text=picnic", http.StatusOK, []string{march}},
		{"from date", "?from=2024-03-02", http.StatusOK, []string{later}},
		{"to date is inclusive", "?to=2024-03-05", http.StatusOK, []string{march}},
		{"rfc3339 bounds", "?from=2024-03-01T00:00:00Z&to=2024-03-12T00:00:00Z", http.StatusOK, []string{later, march}},
		{"no match", "?text=zzz", http.StatusOK, []string{}},
		{"bad from", "?from=yesterday", http.StatusBadRequest, nil},
		{"bad to", "?to=03/05/2024", http.StatusBadRequest, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := asUser(httptest.NewRequest("GET", "/polls/closed"+tc.query, nil), "u1")
			w := httptest.NewRecorder()

			handler.GetClosed(w, req)

			testutil.AssertStatus(t, w, tc.expectedStatus)
			if tc.expectedStatus != http.StatusOK {
				return
			}

			var polls []models.PollResponse
			testutil.AssertJSON(t, w, &polls)
			if len(polls) != len(tc.expectedIDs) {
				t.Fatalf("Expected %d polls, got %d", len(tc.expectedIDs), len(polls))
			}
			for i, id := range tc.expectedIDs {
				if polls[i].ID != id {
					t.Errorf("Position %d: expected %s, got %s (%s)", i, id, polls[i].ID, polls[i].Question)
				}
				if polls[i].Status != models.StatusClosed {
					t.Errorf("Expected closed status, got %s", polls[i].Status)
				}
			}
		})
	}
}

func TestGetClosedResult(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewResultsHandler(db)

	now := time.Now()
	pollID := testutil.CreateTestPoll(t, db, "Red or Blue?", now.Add(-2*time.Hour), now.Add(-time.Hour), "")
	red := testutil.AddTestOption(t, db, pollID, "Red", 0)
	blue := testutil.AddTestOption(t, db, pollID, "Blue", 1)
	green := testutil.AddTestOption(t, db, pollID, "Green", 2)

	for i, option := range []string{red, red, blue} {
		user := testutil.CreateTestUser(t, db, string(rune('a'+i))+"@example.com")
		testutil.CastTestVote(t, db, user, pollID, option)
	}

	req := httptest.NewRequest("GET", "/polls/closed/"+pollID, nil)
	req.SetPathValue("id", pollID)
	w := httptest.NewRecorder()
	handler.GetClosedResult(w, asUser(req, "u1"))

	testutil.AssertStatus(t, w, http.StatusOK)

	var result models.ClosedPollResponse
	testutil.AssertJSON(t, w, &result)

	if result.TotalVotes != 3 {
		t.Errorf("Expected 3 votes, got %d", result.TotalVotes)
	}
	expected := []struct {
		id      string
		count   int
		percent float64
	}{
		{red, 2, 66.67},
		{blue, 1, 33.33},
		{green, 0, 0},
	}
	for i, e := range expected {
		got := result.Options[i]
		if got.ID != e.id || got.VoteCount != e.count || got.VotePercentage != e.percent {
			t.Errorf("Option %d: expected %s %d %.2f, got %s %d %.2f",
				i, e.id, e.count, e.percent, got.ID, got.VoteCount, got.VotePercentage)
		}
	}
}

func TestGetClosedResult_NotClosed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewResultsHandler(db)

	active, _ := testutil.CreateActivePoll(t, db, "Still running", "", "A", "B")

	for _, id := range []string{active, "missing"} {
		req := httptest.NewRequest("GET", "/polls/closed/"+id, nil)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()

		handler.GetClosedResult(w, asUser(req, "u1"))

		testutil.AssertStatus(t, w, http.StatusNotFound)
	}
}

func TestParseDateParam(t *testing.T) {
	testCases := []struct {
		in      string
		want    *time.Time
		wantErr bool
	}{
		{"", nil, false},
		{"2024-03-05", ptrTime(time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)), false},
		{"2024-03-05T10:30:00Z", ptrTime(time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC)), false},
		{"2024-13-01", nil, true},
		{"soon", nil, true},
	}

	for _, tc := range testCases {
		got, err := parseDateParam(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("%q: unexpected error state %v", tc.in, err)
			continue
		}
		if tc.want == nil {
			if got != nil {
				t.Errorf("%q: expected nil, got %v", tc.in, got)
			}
			continue
		}
		if got == nil || !got.Equal(*tc.want) {
			t.Errorf("%q: expected %v, got %v", tc.in, tc.want, got)
		}
	}
}

func ptrTime(t time.Time) *time.Time {
	return &t
}
