// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package seats

import (
	"errors"
	"fmt"
	"math"

	"github.com/danielhkuo/election-results/models"
)

// DefaultHouseSize is the number of seats in the National Assembly.
const DefaultHouseSize = 400

// ErrNegativeVotes is returned by Allocate for a tally with fewer than zero votes.
var ErrNegativeVotes = errors.New("negative vote count")

// Allocate distributes houseSize seats proportionally to each tally's share
// of the total vote. Each party is rounded independently (half away from
// zero), so the seat sum may drift from houseSize; see Drift.
//
// The output has one entry per tally in input order. A zero vote total or a
// non-positive house size yields zero seats for every party.
func Allocate(tallies []models.PartyTally, houseSize int) ([]models.SeatAssignment, error) {
	var total int64
	for _, t := range tallies {
		if t.Votes < 0 {
			return nil, fmt.Errorf("%w: %s has %d", ErrNegativeVotes, t.Party, t.Votes)
		}
		total += t.Votes
	}

	assignments := make([]models.SeatAssignment, len(tallies))
	for i, t := range tallies {
		assignments[i] = models.SeatAssignment{Party: t.Party, Votes: t.Votes}
		if total == 0 || houseSize <= 0 {
			continue
		}
		assignments[i].Seats = int(math.Round(float64(t.Votes) / float64(total) * float64(houseSize)))
	}

	return assignments, nil
}

// Drift returns the allocated seat total minus houseSize.
func Drift(assignments []models.SeatAssignment, houseSize int) int {
	return Allocated(assignments) - houseSize
}

// Allocated sums the seats of all assignments.
func Allocated(assignments []models.SeatAssignment) int {
	sum := 0
	for _, a := range assignments {
		sum += a.Seats
	}
	return sum
}
