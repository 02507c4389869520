// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/election-results/db"
	"github.com/danielhkuo/election-results/live"
	"github.com/danielhkuo/election-results/models"
	"github.com/danielhkuo/election-results/parties"
	"github.com/danielhkuo/election-results/testutil"
)

func newTestCaptureHandler(t *testing.T, hub *live.Hub) (*CaptureHandler, *db.Pool) {
	t.Helper()
	pool := testutil.SetupTestDB(t)
	reg := parties.NewRegistry(parties.Defaults())
	return NewCaptureHandler(pool, testutil.GetTestConfig(), reg, hub), pool
}

func TestRegisterVoter(t *testing.T) {
	handler, _ := newTestCaptureHandler(t, nil)

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name:           "valid registration",
			requestBody:    models.RegisterVoterRequest{IDNumber: "8001015009087", FullName: "Thabo M", Province: "Gauteng"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "duplicate id number",
			requestBody:    models.RegisterVoterRequest{IDNumber: " 8001015009087 ", FullName: "Someone Else"},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "no province",
			requestBody:    models.RegisterVoterRequest{IDNumber: "9001015009088"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing id number",
			requestBody:    models.RegisterVoterRequest{FullName: "Nobody"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown province",
			requestBody:    models.RegisterVoterRequest{IDNumber: "7001015009089", Province: "Atlantis"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.RegisterVoter(w, testutil.MakeRequest("POST", "/api/election/voters", tt.requestBody, nil))

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusCreated {
				var resp models.RegisterVoterResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.VoterID == "" {
					t.Error("Expected non-empty voter_id")
				}
			}
		})
	}
}

func TestRegisterVoter_InvalidJSON(t *testing.T) {
	handler, _ := newTestCaptureHandler(t, nil)

	req := httptest.NewRequest("POST", "/api/election/voters", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	handler.RegisterVoter(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestCastVote(t *testing.T) {
	handler, pool := newTestCaptureHandler(t, nil)
	voter := testutil.CreateTestVoter(t, pool, "KwaZulu-Natal")

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name:           "valid national vote by alias",
			requestBody:    models.CastVoteRequest{VoterID: voter.ID, PartyName: "IFP", Category: models.CategoryNational},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "same voter other category",
			requestBody:    models.CastVoteRequest{VoterID: voter.ID, PartyName: "Inkatha Freedom Party", Category: models.CategoryProvincial},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "second vote in category",
			requestBody:    models.CastVoteRequest{VoterID: voter.ID, PartyName: "ANC", Category: models.CategoryNational},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "unknown voter",
			requestBody:    models.CastVoteRequest{VoterID: "no-such-voter", PartyName: "ANC", Category: models.CategoryNational},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "unknown category",
			requestBody:    models.CastVoteRequest{VoterID: voter.ID, PartyName: "ANC", Category: "Municipal"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing party",
			requestBody:    models.CastVoteRequest{VoterID: voter.ID, Category: models.CategoryRegional},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing voter",
			requestBody:    models.CastVoteRequest{PartyName: "ANC", Category: models.CategoryRegional},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "misspelled province",
			requestBody:    models.CastVoteRequest{VoterID: voter.ID, PartyName: "ANC", Category: models.CategoryRegional, Province: "Guateng"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "listed province",
			requestBody:    models.CastVoteRequest{VoterID: voter.ID, PartyName: "ANC", Category: models.CategoryRegional, Province: "KwaZulu-Natal", Region: "eThekwini"},
			expectedStatus: http.StatusCreated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.CastVote(w, testutil.MakeRequest("POST", "/api/election/votes", tt.requestBody, nil))

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusCreated {
				var resp models.CastVoteResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.VoteID == "" {
					t.Error("Expected non-empty vote_id")
				}
			}
		})
	}

	// the alias is stored under the configured party name
	tallies, err := db.Tallies(context.Background(), pool.Builder(), models.CategoryNational)
	if err != nil {
		t.Fatalf("Tallies failed: %v", err)
	}
	if len(tallies) != 1 || tallies[0].Party != "Inkatha Freedom Party" || tallies[0].Votes != 1 {
		t.Errorf("Expected one vote for Inkatha Freedom Party, got %+v", tallies)
	}
}

func TestCastVote_UnknownProvinceNotStored(t *testing.T) {
	handler, pool := newTestCaptureHandler(t, nil)
	voter := testutil.CreateTestVoter(t, pool, "Gauteng")

	w := httptest.NewRecorder()
	handler.CastVote(w, testutil.MakeRequest("POST", "/api/election/votes", models.CastVoteRequest{
		VoterID:   voter.ID,
		PartyName: "ANC",
		Category:  models.CategoryProvincial,
		Province:  "Gauteng ",
	}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	w = httptest.NewRecorder()
	handler.CastVote(w, testutil.MakeRequest("POST", "/api/election/votes", models.CastVoteRequest{
		VoterID:   voter.ID,
		PartyName: "DA",
		Category:  models.CategoryNational,
		Province:  "Guateng",
	}, nil))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	rows, err := db.ProvincialVotes(context.Background(), pool.Builder(), "")
	if err != nil {
		t.Fatalf("ProvincialVotes failed: %v", err)
	}
	if len(rows) != 1 || rows[0].Province != "Gauteng" {
		t.Errorf("Expected a single Gauteng row, got %+v", rows)
	}
}

func TestCastVote_NotifiesHub(t *testing.T) {
	hub := live.NewHub()
	handler, pool := newTestCaptureHandler(t, hub)
	voter := testutil.CreateTestVoter(t, pool, "Gauteng")

	var polls atomic.Int64
	source := func(ctx context.Context) (models.Summary, error) {
		polls.Add(1)
		return models.Summary{}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx, source, time.Hour)

	waitFor(t, func() bool { return polls.Load() >= 1 })

	w := httptest.NewRecorder()
	handler.CastVote(w, testutil.MakeRequest("POST", "/api/election/votes", models.CastVoteRequest{
		VoterID:   voter.ID,
		PartyName: "DA",
		Category:  models.CategoryNational,
	}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)

	waitFor(t, func() bool { return polls.Load() >= 2 })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("Timed out waiting for condition")
		}
		time.Sleep(time.Millisecond)
	}
}
