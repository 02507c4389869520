package models

import "time"

// Ballot category constants
const (
	CategoryNational   = "National"
	CategoryProvincial = "Provincial"
	CategoryRegional   = "Regional"
)

// NoVotes is reported as the leading party before any vote is captured.
const NoVotes = "No votes"

// Seat allocation types

// PartyTally is the aggregated vote count of one party in one ballot category.
type PartyTally struct {
	Party string `json:"party" db:"party_name"`
	Votes int64  `json:"votes" db:"votes"`
}

type SeatAssignment struct {
	Party string `json:"party"`
	Seats int    `json:"seats"`
	Votes int64  `json:"votes"`
}

type SeatOverview struct {
	HouseSize      int          `json:"house_size"`
	TotalVotes     int64        `json:"total_votes"`
	AllocatedSeats int          `json:"allocated_seats"`
	Drift          int          `json:"drift"`
	Parties        []PartySeats `json:"parties"`
}

type PartySeats struct {
	Party string  `json:"party"`
	Seats int     `json:"seats"`
	Votes int64   `json:"votes"`
	Share float64 `json:"share"`
	Color string  `json:"color"`
}

// Report types (field names match the original dashboard API)

type Summary struct {
	RegisteredVoters int64   `json:"registeredVoters"`
	VotesCast        int64   `json:"votesCast"`
	LeadingParty     string  `json:"leadingParty"`
	LeadingVotes     int64   `json:"leadingVotes"`
	ResultsCaptured  int64   `json:"resultsCaptured"`
	Turnout          float64 `json:"turnout"`
	LeadingShare     float64 `json:"leadingShare"`
}

type PartyStatistic struct {
	PartyName    string `json:"party_name" db:"party_name"`
	TotalVotes   int64  `json:"total_votes" db:"total_votes"`
	VotesToday   int64  `json:"votes_today" db:"votes_today"`
	Percentage   string `json:"percentage" db:"-"`
	VotesDisplay string `json:"votes_display" db:"-"`
	Color        string `json:"color" db:"-"`
}

type ProvincialResult struct {
	Province     string  `json:"province"`
	LeadingParty *string `json:"leading_party"`
	TotalVotes   int64   `json:"total_votes"`
}

// ProvincePartyVotes is one row of the per-province vote breakdown.
type ProvincePartyVotes struct {
	Province  string `db:"province"`
	PartyName string `db:"party_name"`
	Votes     int64  `db:"votes"`
}

type RegionalResult struct {
	Region        string `json:"region" db:"region"`
	PartyName     string `json:"party_name" db:"party_name"`
	CandidateName string `json:"candidate_name" db:"candidate_name"`
	VoteCount     int64  `json:"vote_count" db:"vote_count"`
}

// Capture types

type Voter struct {
	ID           string    `json:"voter_id" db:"id"`
	IDNumber     string    `json:"id_number" db:"id_number"`
	FullName     string    `json:"full_name" db:"full_name"`
	Province     string    `json:"province" db:"province"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
}

type Vote struct {
	ID            string    `json:"vote_id" db:"id"`
	VoterID       string    `json:"voter_id" db:"voter_id"`
	PartyName     string    `json:"party_name" db:"party_name"`
	CandidateName string    `json:"candidate_name" db:"candidate_name"`
	Category      string    `json:"category" db:"category"`
	Province      string    `json:"province" db:"province"`
	Region        string    `json:"region" db:"region"`
	CastAt        time.Time `json:"cast_at" db:"cast_at"`
}

type RegisterVoterRequest struct {
	IDNumber string `json:"id_number"`
	FullName string `json:"full_name"`
	Province string `json:"province"`
}

type RegisterVoterResponse struct {
	VoterID string `json:"voter_id"`
}

type CastVoteRequest struct {
	VoterID       string `json:"voter_id"`
	PartyName     string `json:"party_name"`
	CandidateName string `json:"candidate_name"`
	Category      string `json:"category"`
	Province      string `json:"province"`
	Region        string `json:"region"`
}

type CastVoteResponse struct {
	VoteID string `json:"vote_id"`
}

// Party display types

type PartyStyle struct {
	Name      string   `json:"name"`
	Aliases   []string `json:"aliases,omitempty"`
	Color     string   `json:"color"`
	TextColor string   `json:"text_color"`
}

// Assistant types

// Chat message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
