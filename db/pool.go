// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
	"github.com/pocketbase/dbx"
	_ "modernc.org/sqlite"
)

// Supported database types
const (
	TypePostgres = "postgres"
	TypeSQLite   = "sqlite"
)

// QueryObserver receives the duration and outcome of every statement.
// kind is "query" or "exec".
type QueryObserver func(kind string, duration time.Duration, err error)

// Option configures a Pool.
type Option func(*Pool)

// WithQueryObserver reports statement timings, e.g. to Prometheus.
func WithQueryObserver(observer QueryObserver) Option {
	return func(p *Pool) {
		p.observer = observer
	}
}

// WithMaxOpenConns caps the number of open connections.
func WithMaxOpenConns(n int) Option {
	return func(p *Pool) {
		if n > 0 {
			p.maxOpen = n
		}
	}
}

// WithClock replaces time.Now for the timestamps of captured records.
func WithClock(now func() time.Time) Option {
	return func(p *Pool) {
		if now != nil {
			p.now = now
		}
	}
}

// Pool owns the database connections of the service. It is created once in
// main and passed to every component that needs the database.
type Pool struct {
	db       *dbx.DB
	driver   string
	maxOpen  int
	observer QueryObserver
	now      func() time.Time
}

// Open connects to a Postgres or SQLite database and verifies the connection.
func Open(ctx context.Context, dbType, url string, opts ...Option) (*Pool, error) {
	var driverName string
	switch dbType {
	case TypePostgres:
		driverName = "postgres"
	case TypeSQLite:
		driverName = "sqlite"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, dbType)
	}

	p := &Pool{driver: dbType, maxOpen: 10, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}

	sqlDB, err := sql.Open(driverName, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dbType, err)
	}

	// SQLite serializes writers; a single connection avoids SQLITE_BUSY.
	if dbType == TypeSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(p.maxOpen)
		sqlDB.SetMaxIdleConns(p.maxOpen)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	p.db = dbx.NewFromDB(sqlDB, driverName)
	p.db.QueryLogFunc = func(ctx context.Context, t time.Duration, query string, rows *sql.Rows, err error) {
		p.logStatement(ctx, "query", t, query, err)
	}
	p.db.ExecLogFunc = func(ctx context.Context, t time.Duration, query string, result sql.Result, err error) {
		p.logStatement(ctx, "exec", t, query, err)
	}

	return p, nil
}

func (p *Pool) logStatement(ctx context.Context, kind string, t time.Duration, query string, err error) {
	if p.observer != nil {
		p.observer(kind, t, err)
	}
	if err != nil {
		slog.DebugContext(ctx, "statement failed", "kind", kind, "sql", query, "duration_ms", t.Milliseconds(), "error", err)
		return
	}
	slog.DebugContext(ctx, "statement executed", "kind", kind, "sql", query, "duration_ms", t.Milliseconds())
}

// Type returns the database type the pool was opened with.
func (p *Pool) Type() string {
	return p.driver
}

// Builder returns the pool as a dbx.Builder for queries that need no
// transaction.
func (p *Pool) Builder() dbx.Builder {
	return p.db
}

// Ping verifies the database is reachable.
func (p *Pool) Ping(ctx context.Context) error {
	return p.db.DB().PingContext(ctx)
}

// Close releases all connections.
func (p *Pool) Close() error {
	return p.db.Close()
}

// View runs fn inside a transaction so every query of one report sees the
// same data. The transaction is always released when View returns.
func (p *Pool) View(ctx context.Context, fn func(q dbx.Builder) error) error {
	var opts *sql.TxOptions
	if p.driver == TypePostgres {
		opts = &sql.TxOptions{ReadOnly: true}
	}
	return p.db.TransactionalContext(ctx, opts, func(tx *dbx.Tx) error {
		return fn(tx)
	})
}

// Update runs fn inside a transaction that commits only if fn succeeds.
func (p *Pool) Update(ctx context.Context, fn func(q dbx.Builder) error) error {
	return p.db.TransactionalContext(ctx, nil, func(tx *dbx.Tx) error {
		return fn(tx)
	})
}
