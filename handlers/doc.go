// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the election results API.

# Handler Types

Each handler is a struct holding its dependencies:

  - ElectionHandler: Result reports and seat allocation
  - CaptureHandler: Voter registration and vote capture
  - StreamHandler: Live summary over server-sent events
  - AssistantHandler: Election chat relay

Handlers are created via constructor functions:

	electionHandler := handlers.NewElectionHandler(pool, cfg, registry, m)

Every report runs its queries in one read transaction (db.Pool.View), so the
numbers of a single response are consistent with each other.

# Reports

	GET /api/election/summary          → GetSummary (?category= optional)
	GET /api/election/statistics       → GetStatistics (?category= optional)
	GET /api/election/provincial       → GetProvincial
	GET /api/election/regional         → GetRegional
	GET /api/election/seats            → GetSeats
	GET /api/election/seats/overview   → GetSeatOverview
	GET /api/parties                   → GetParties

Seats are allocated from the National tallies with seats.Allocate. Each
party is rounded independently, so the seat total may differ from the house
size; the overview reports that drift.

# Capture

	POST /api/election/voters → RegisterVoter (409 on a duplicate ID number)
	POST /api/election/votes  → CastVote (one vote per voter and category)

A successful vote asks the live hub to refresh immediately.

# Live Stream

	GET /api/election/stream → Stream

Sends "event: summary" frames with the JSON summary, first from the database
and then whenever the hub publishes a change, plus periodic keep-alive
comments.

# Assistant

	POST /api/assistant/chat → Chat

Returns 503 when no API key is configured and 502 with an apology message
when the upstream model fails.
*/
package handlers
