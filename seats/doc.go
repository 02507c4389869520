// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package seats converts party vote tallies into National Assembly seats.

# Allocation

Allocate assigns each party round(votes / total * houseSize) seats:

	assignments, err := seats.Allocate(tallies, seats.DefaultHouseSize)

Rounding is half away from zero (math.Round) and applied per party. The
result is not renormalized, so three equal parties in a 400 seat house get
133 seats each (399 in total).

# Degenerate Input

  - Empty tallies: empty result
  - Zero total votes: every party gets 0 seats
  - houseSize <= 0: every party gets 0 seats
  - Negative votes: ErrNegativeVotes

# Drift

Drift reports how far the allocation is from the house size:

	drift := seats.Drift(assignments, houseSize) // -1 for the example above

Allocate never sorts; callers pass tallies ordered by descending votes.
*/
package seats
