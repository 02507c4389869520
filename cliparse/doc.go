// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 5000)
  - DatabaseURL: Postgres or SQLite connection string (default: election.db)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - HouseSize: Seats to distribute (default: 400)
  - Categories: Ballot categories read by the seat, provincial and regional reports
  - Provinces: Provinces listed by the provincial report, in display order
  - RefreshInterval: How often the live stream re-reads the summary (default: 30s)
  - Parties: Extra party colours and aliases on top of the built-in palette
  - Assistant: Gemini API key and model for the chat relay
  - LogLevel, LogFormat: slog level and text or json output
  - SeedVoters: Demo voters inserted at startup

# Sources

Settings are layered, later sources overriding earlier ones:

 1. Built-in defaults
 2. YAML file given by -c or ELECTION_CONFIG
 3. ELECTION_* environment variables (ELECTION_HOUSE_SIZE, ELECTION_ASSISTANT__MODEL)
 4. Plain environment variables (see below)
 5. CLI flags

A .env file in the working directory is loaded into the environment first.
Variables already set are not overwritten.

# CLI Flags

	-p            Server port
	-d            Database URL
	-t            Database type (sqlite or postgres)
	-c            YAML config file
	-house-size   Seats in the house
	-log-level    debug, info, warn or error
	-seed         Insert demo voters at startup
	-gemini-key   Gemini API key (prefer env)

# Environment Variables

	PORT           → -p
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	GEMINI_API_KEY → -gemini-key

When DATABASE_URL is unset, DB_HOST, DB_PORT, DB_USER, DB_PASSWORD and
DB_NAME build a Postgres URL instead.

# Example YAML

	house_size: 400
	refresh_interval: 30s
	categories:
	  seats: National
	parties:
	  - name: Rise Mzansi
	    aliases: [RISE]
	    color: "#ff6600"

# Validation

ParseFlags returns an error wrapping ErrInvalidConfig if:

  - the port is outside 1-65535
  - the database type is not sqlite or postgres
  - postgres is selected without a URL
  - the house size is not positive
  - the refresh interval is below one second
*/
package cliparse
