// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pocketbase/dbx"

	"github.com/danielhkuo/election-results/models"
)

// The report queries take a dbx.Builder so they can run on the pool or inside
// a View transaction. Ties in vote counts are broken by party name so every
// ordering is deterministic.

// Summary counts registered voters, votes cast, the leading party and the
// number of parties with results. An empty category counts every category.
func Summary(ctx context.Context, b dbx.Builder, category string) (models.Summary, error) {
	var s models.Summary

	if err := b.NewQuery("SELECT COUNT(*) FROM voter").WithContext(ctx).Row(&s.RegisteredVoters); err != nil {
		return s, fmt.Errorf("count voters: %w", err)
	}

	cast := b.Select("COUNT(*) AS votes_cast", "COUNT(DISTINCT party_name) AS parties").From("vote")
	if category != "" {
		cast.Where(dbx.HashExp{"category": category})
	}
	if err := cast.WithContext(ctx).Row(&s.VotesCast, &s.ResultsCaptured); err != nil {
		return s, fmt.Errorf("count votes: %w", err)
	}

	var leader models.PartyTally
	err := talliesQuery(b, category).Limit(1).WithContext(ctx).One(&leader)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.LeadingParty = models.NoVotes
	case err != nil:
		return s, fmt.Errorf("leading party: %w", err)
	default:
		s.LeadingParty = leader.Party
		s.LeadingVotes = leader.Votes
	}

	return s, nil
}

// Tallies returns the vote count of every party in a category, highest first.
func Tallies(ctx context.Context, b dbx.Builder, category string) ([]models.PartyTally, error) {
	tallies := []models.PartyTally{}
	if err := talliesQuery(b, category).WithContext(ctx).All(&tallies); err != nil {
		return nil, fmt.Errorf("tally votes: %w", err)
	}
	if tallies == nil {
		tallies = []models.PartyTally{}
	}
	return tallies, nil
}

func talliesQuery(b dbx.Builder, category string) *dbx.SelectQuery {
	q := b.Select("party_name", "COUNT(*) AS votes").From("vote")
	if category != "" {
		q.Where(dbx.HashExp{"category": category})
	}
	return q.GroupBy("party_name").OrderBy("votes DESC", "party_name ASC")
}

// PartyStatistics returns total votes per party and the votes cast at or
// after since. An empty category counts every category.
func PartyStatistics(ctx context.Context, b dbx.Builder, category string, since time.Time) ([]models.PartyStatistic, error) {
	q := b.Select(
		"party_name",
		"COUNT(*) AS total_votes",
		"COUNT(CASE WHEN cast_at >= {:since} THEN 1 END) AS votes_today",
	).From("vote")
	if category != "" {
		q.Where(dbx.HashExp{"category": category})
	}
	q.GroupBy("party_name").
		OrderBy("total_votes DESC", "party_name ASC").
		Bind(dbx.Params{"since": since.UTC()})

	stats := []models.PartyStatistic{}
	if err := q.WithContext(ctx).All(&stats); err != nil {
		return nil, fmt.Errorf("party statistics: %w", err)
	}
	if stats == nil {
		stats = []models.PartyStatistic{}
	}
	return stats, nil
}

// ProvincialVotes returns the vote count per province and party in a
// category. Votes without a province are left out. An empty category counts
// every category.
func ProvincialVotes(ctx context.Context, b dbx.Builder, category string) ([]models.ProvincePartyVotes, error) {
	q := b.Select("province", "party_name", "COUNT(*) AS votes").
		From("vote").
		Where(dbx.Not(dbx.HashExp{"province": ""}))
	if category != "" {
		q.AndWhere(dbx.HashExp{"category": category})
	}

	rows := []models.ProvincePartyVotes{}
	err := q.GroupBy("province", "party_name").
		OrderBy("province ASC", "votes DESC", "party_name ASC").
		WithContext(ctx).
		All(&rows)
	if err != nil {
		return nil, fmt.Errorf("provincial votes: %w", err)
	}
	if rows == nil {
		rows = []models.ProvincePartyVotes{}
	}
	return rows, nil
}

// RegionalResults returns the vote count per region, party and candidate in
// a category, grouped by region with the strongest result first. An empty
// category counts every category.
func RegionalResults(ctx context.Context, b dbx.Builder, category string) ([]models.RegionalResult, error) {
	q := b.Select("region", "party_name", "candidate_name", "COUNT(*) AS vote_count").From("vote")
	if category != "" {
		q.Where(dbx.HashExp{"category": category})
	}

	results := []models.RegionalResult{}
	err := q.GroupBy("region", "party_name", "candidate_name").
		OrderBy("region ASC", "vote_count DESC", "party_name ASC", "candidate_name ASC").
		WithContext(ctx).
		All(&results)
	if err != nil {
		return nil, fmt.Errorf("regional results: %w", err)
	}
	if results == nil {
		results = []models.RegionalResult{}
	}
	return results, nil
}
