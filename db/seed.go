// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/pocketbase/dbx"

	"github.com/danielhkuo/election-results/models"
)

// SeedOptions controls the demo data written by Seed.
type SeedOptions struct {
	Voters     int
	Parties    []string
	Provinces  []string
	Categories []string
	// Window spreads cast times over the period before now.
	Window time.Duration
	Rand   *rand.Rand
}

// regions per province used for regional ballots
var seedRegions = map[string][]string{
	"Eastern Cape":  {"Nelson Mandela Bay", "Buffalo City"},
	"Free State":    {"Mangaung"},
	"Gauteng":       {"Johannesburg", "Tshwane", "Ekurhuleni"},
	"KwaZulu-Natal": {"eThekwini", "uMgungundlovu"},
	"Limpopo":       {"Polokwane"},
	"Mpumalanga":    {"Mbombela"},
	"Northern Cape": {"Sol Plaatje"},
	"North West":    {"Rustenburg"},
	"Western Cape":  {"Cape Town", "Stellenbosch"},
}

// Seed inserts demo voters, each voting once in every category, and returns
// the number of votes written. Earlier parties are favoured so the results
// have a clear order. Everything is written in one transaction.
func (p *Pool) Seed(ctx context.Context, opts SeedOptions) (int, error) {
	if opts.Voters <= 0 || len(opts.Parties) == 0 || len(opts.Categories) == 0 {
		return 0, nil
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(p.now().UnixNano()), 0))
	}
	window := opts.Window
	if window <= 0 {
		window = 72 * time.Hour
	}
	now := p.now().UTC()

	votes := 0
	err := p.Update(ctx, func(q dbx.Builder) error {
		for i := 0; i < opts.Voters; i++ {
			voter := models.Voter{
				ID:           uuid.NewString(),
				IDNumber:     fmt.Sprintf("SEED-%s", uuid.NewString()[:13]),
				FullName:     fmt.Sprintf("Demo Voter %d", i+1),
				RegisteredAt: now.Add(-window),
			}
			if len(opts.Provinces) > 0 {
				voter.Province = opts.Provinces[rng.IntN(len(opts.Provinces))]
			}
			if err := insertVoter(ctx, q, voter); err != nil {
				return err
			}

			for _, category := range opts.Categories {
				party := weightedPick(rng, opts.Parties)
				vote := models.Vote{
					ID:        uuid.NewString(),
					VoterID:   voter.ID,
					PartyName: party,
					Category:  category,
					Province:  voter.Province,
					CastAt:    now.Add(-time.Duration(rng.Int64N(int64(window)))),
				}
				if regions := seedRegions[voter.Province]; len(regions) > 0 {
					vote.Region = regions[rng.IntN(len(regions))]
					vote.CandidateName = fmt.Sprintf("%s candidate, %s", party, vote.Region)
				}
				if err := insertVote(ctx, q, vote); err != nil {
					return err
				}
				votes++
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed: %w", err)
	}

	return votes, nil
}

// weightedPick picks item i with weight n-i.
func weightedPick(rng *rand.Rand, items []string) string {
	n := len(items)
	total := n * (n + 1) / 2
	r := rng.IntN(total)
	for i := range items {
		r -= n - i
		if r < 0 {
			return items[i]
		}
	}
	return items[n-1]
}
