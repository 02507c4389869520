// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func (p *Pool) CreateSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := p.db.NewQuery(stmt).WithContext(ctx).Execute(); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// Statements run one at a time; not every driver accepts a multi-statement
// string. The DDL is the common subset of Postgres and SQLite.
var schema = []string{
	// Voters
	`CREATE TABLE IF NOT EXISTS voter (
    id TEXT PRIMARY KEY,
    id_number TEXT NOT NULL UNIQUE,
    full_name TEXT NOT NULL DEFAULT '',
    province TEXT NOT NULL DEFAULT '',
    registered_at TIMESTAMP NOT NULL
)`,

	// Votes: one per voter per ballot category
	`CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    voter_id TEXT NOT NULL REFERENCES voter(id) ON DELETE CASCADE,
    party_name TEXT NOT NULL,
    candidate_name TEXT NOT NULL DEFAULT '',
    category TEXT NOT NULL,
    province TEXT NOT NULL DEFAULT '',
    region TEXT NOT NULL DEFAULT '',
    cast_at TIMESTAMP NOT NULL,
    UNIQUE (voter_id, category)
)`,

	`CREATE INDEX IF NOT EXISTS idx_vote_category_party ON vote(category, party_name)`,
	`CREATE INDEX IF NOT EXISTS idx_vote_party ON vote(party_name)`,
	`CREATE INDEX IF NOT EXISTS idx_vote_cast_at ON vote(cast_at)`,
}
