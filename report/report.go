// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package report

import (
	"fmt"
	"slices"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/election-results/models"
	"github.com/danielhkuo/election-results/parties"
)

// Percentage returns part as a percentage of whole, or 0 when whole is 0.
func Percentage(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// FormatPercent renders a percentage with one decimal, e.g. "40.1%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatVotes renders a vote count with thousands separators, e.g. "1,234,567".
func FormatVotes(n int64) string {
	return humanize.Comma(n)
}

// WithShares fills the display fields of party statistics: share of all
// votes, formatted vote count and party colour. The input slice is updated
// in place and returned.
func WithShares(stats []models.PartyStatistic, reg *parties.Registry) []models.PartyStatistic {
	var total int64
	for _, s := range stats {
		total += s.TotalVotes
	}

	for i := range stats {
		stats[i].Percentage = FormatPercent(Percentage(stats[i].TotalVotes, total))
		stats[i].VotesDisplay = FormatVotes(stats[i].TotalVotes)
		stats[i].Color = reg.Color(stats[i].PartyName)
	}
	return stats
}

// WithRates fills the derived turnout and leading share of a summary.
func WithRates(s models.Summary) models.Summary {
	s.Turnout = Percentage(s.VotesCast, s.RegisteredVoters)
	s.LeadingShare = Percentage(s.LeadingVotes, s.VotesCast)
	return s
}

// SeatOverview combines an allocation with its house size, drift and
// per-party vote share.
func SeatOverview(assignments []models.SeatAssignment, houseSize int, reg *parties.Registry) models.SeatOverview {
	overview := models.SeatOverview{
		HouseSize: houseSize,
		Parties:   make([]models.PartySeats, len(assignments)),
	}

	for _, a := range assignments {
		overview.TotalVotes += a.Votes
		overview.AllocatedSeats += a.Seats
	}
	overview.Drift = overview.AllocatedSeats - houseSize

	for i, a := range assignments {
		overview.Parties[i] = models.PartySeats{
			Party: a.Party,
			Seats: a.Seats,
			Votes: a.Votes,
			Share: Percentage(a.Votes, overview.TotalVotes),
			Color: reg.Color(a.Party),
		}
	}

	return overview
}

// ProvincialResults reduces per-province party counts to one row per
// province: the configured provinces first, in order, then any other
// province present in rows, alphabetically. Rows must be ordered by votes
// descending within a province; the first row of a province is its leader.
// Provinces without votes have no leading party.
func ProvincialResults(rows []models.ProvincePartyVotes, provinces []string) []models.ProvincialResult {
	tallies := make(map[string]*provinceTally)
	var seen []string

	for _, row := range rows {
		pt, ok := tallies[row.Province]
		if !ok {
			pt = &provinceTally{leader: row.PartyName}
			tallies[row.Province] = pt
			seen = append(seen, row.Province)
		}
		pt.total += row.Votes
	}

	results := make([]models.ProvincialResult, 0, len(provinces)+len(seen))
	listed := make(map[string]bool, len(provinces))
	for _, province := range provinces {
		listed[province] = true
		results = append(results, tallies[province].result(province))
	}

	slices.Sort(seen)
	for _, province := range seen {
		if !listed[province] {
			results = append(results, tallies[province].result(province))
		}
	}

	return results
}

type provinceTally struct {
	leader string
	total  int64
}

func (pt *provinceTally) result(province string) models.ProvincialResult {
	r := models.ProvincialResult{Province: province}
	if pt != nil && pt.total > 0 {
		leader := pt.leader
		r.LeadingParty = &leader
		r.TotalVotes = pt.total
	}
	return r
}

// StartOfDay returns local midnight of the day containing t, in UTC.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).UTC()
}
