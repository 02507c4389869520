// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the election results API server.

The server captures voter registrations and votes, reports national,
provincial and regional results, allocates National Assembly seats in
proportion to the national vote and pushes live summaries to dashboards.

# Starting the Server

With no configuration the server listens on port 5000 and stores data in a
local SQLite file:

	go run .

Seed demo data and use PostgreSQL:

	go run . -seed 500 -t postgres -d "postgres://..."

# Configuration

Settings come from, lowest precedence first: built-in defaults, a YAML file
(-c or ELECTION_CONFIG), ELECTION_* environment variables, plain environment
variables, and CLI flags. A .env file is loaded first if present.

  - PORT (-p): Server port (default: 5000)
  - DATABASE_URL (-d): Connection string, or DB_HOST/DB_PORT/DB_USER/DB_PASSWORD/DB_NAME
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - ELECTION_HOUSE_SIZE (-house-size): Seats to allocate (default: 400)
  - GEMINI_API_KEY (-gemini-key): Enables the election assistant
  - ELECTION_LOG_LEVEL (-log-level), ELECTION_LOG_FORMAT: Logging

Party colours, ballot category names, provinces and the live refresh
interval are set in the YAML file.

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (reports, capture, stream, assistant)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, metrics, JSON helpers
  - models: Request/response types
  - seats: Proportional seat allocation
  - report: Shares, rates and display formatting
  - parties: Party names, aliases and colours
  - live: Summary polling and fan-out to stream subscribers
  - assistant: Chat relay to the Gemini API
  - metrics: Prometheus collectors
  - db: Connection pool, schema, queries and capture
  - cliparse: Configuration parsing
  - docs: Embedded OpenAPI document

See package documentation for each component.
*/
package main
