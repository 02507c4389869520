// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/danielhkuo/election-results/cliparse"
	"github.com/danielhkuo/election-results/db"
	"github.com/danielhkuo/election-results/models"
)

// SQLiteURL returns a connection string for a SQLite file with foreign keys
// enabled.
func SQLiteURL(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// SetupTestDB creates a fresh SQLite database in a temporary directory with
// the full schema. The pool is closed when the test ends.
func SetupTestDB(t *testing.T, opts ...db.Option) *db.Pool {
	t.Helper()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "election_test.db")

	pool, err := db.Open(ctx, db.TypeSQLite, SQLiteURL(path), opts...)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		pool.Close()
	})

	if err := pool.CreateSchema(ctx); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return pool
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         5000,
		DatabaseURL:  SQLiteURL("test.db"),
		DatabaseType: db.TypeSQLite,
		HouseSize:    400,
		Categories: cliparse.Categories{
			Seats:      models.CategoryNational,
			Provincial: models.CategoryProvincial,
			Regional:   models.CategoryRegional,
		},
		Provinces:       append([]string(nil), cliparse.DefaultProvinces...),
		RefreshInterval: time.Second,
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// FixedClock returns a clock that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

var voterSeq atomic.Int64

// CreateTestVoter registers a voter in the given province and returns it.
func CreateTestVoter(t *testing.T, pool *db.Pool, province string) models.Voter {
	t.Helper()

	seq := voterSeq.Add(1)
	voter, err := pool.RegisterVoter(context.Background(), models.RegisterVoterRequest{
		IDNumber: fmt.Sprintf("TEST-%08d", seq),
		FullName: fmt.Sprintf("Test Voter %d", seq),
		Province: province,
	})
	if err != nil {
		t.Fatalf("Failed to create test voter: %v", err)
	}

	return voter
}

// CastTestVotes registers n voters who each cast the given vote. The voter
// ID of the request is ignored.
func CastTestVotes(t *testing.T, pool *db.Pool, vote models.CastVoteRequest, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		voter := CreateTestVoter(t, pool, vote.Province)
		vote.VoterID = voter.ID
		if _, err := pool.CastVote(context.Background(), vote); err != nil {
			t.Fatalf("Failed to cast test vote: %v", err)
		}
	}
}

// CastNationalVotes casts votes per party in the National category, in the
// given order.
func CastNationalVotes(t *testing.T, pool *db.Pool, tallies []models.PartyTally) {
	t.Helper()

	for _, tally := range tallies {
		CastTestVotes(t, pool, models.CastVoteRequest{
			PartyName: tally.Party,
			Category:  models.CategoryNational,
		}, int(tally.Votes))
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
