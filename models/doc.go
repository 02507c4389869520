// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Seat Allocation

  - PartyTally: party, votes (input to seats.Allocate)
  - SeatAssignment: party, seats, votes (output of seats.Allocate)
  - SeatOverview, PartySeats: house size, drift and per-party share

# Report Types

JSON field names follow the dashboard contract:

  - Summary: registeredVoters, votesCast, leadingParty, leadingVotes, resultsCaptured
  - PartyStatistic: party_name, total_votes, votes_today
  - ProvincialResult: province, leading_party, total_votes
  - RegionalResult: region, party_name, candidate_name, vote_count

Struct fields read from the database carry db tags for dbx scanning.

# Capture Types

  - Voter, RegisterVoterRequest, RegisterVoterResponse
  - Vote, CastVoteRequest, CastVoteResponse

# Assistant Types

  - ChatMessage: type ("user" or "assistant"), content
  - ChatRequest: message, history
  - ChatResponse: reply

# Constants

Ballot categories:

	CategoryNational   = "National"
	CategoryProvincial = "Provincial"
	CategoryRegional   = "Regional"
*/
package models
