// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db owns the database connection pool, the schema, and every query
the results service runs.

# Pool

Open connects to Postgres (lib/pq) or SQLite (modernc.org/sqlite) and wraps
the connection in a dbx.DB, which rewrites {:name} placeholders for the
driver in use:

	pool, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL,
		db.WithQueryObserver(m.ObserveQuery))
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

The pool is created once in main and handed to handlers. There is no
package-level connection.

# Transactions

View and Update run a function inside a transaction that is committed or
rolled back before they return, including when the function panics:

	err := pool.View(ctx, func(q dbx.Builder) error {
		summary, err = db.Summary(ctx, q, "")
		return err
	})

A report that runs several queries does so inside one View so all of them
read the same snapshot. SQLite is limited to one open connection; every
query issued inside View or Update must go through q.

# Schema Creation

CreateSchema initializes all required tables:

	if err := pool.CreateSchema(ctx); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - voter: Registered voters, unique by ID number
  - vote: One row per vote, at most one per voter per ballot category

A voter has many votes; deleting a voter deletes their votes.

# Queries

Report queries take a dbx.Builder so they run on the pool or in a
transaction:

  - Summary: voters, votes, leading party, parties with results
  - Tallies: votes per party in a category, highest first
  - PartyStatistics: total votes and votes since a cut-off per party
  - ProvincialVotes: votes per province and party
  - RegionalResults: votes per region, party and candidate

Ties in vote counts are ordered by party name.

# Capture

RegisterVoter and CastVote write through Update and translate constraint
failures into ErrDuplicateVoter, ErrDuplicateVote and ErrUnknownVoter on
both backends. Seed fills an empty database with demo data.
*/
package db
