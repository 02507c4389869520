// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pocketbase/dbx"

	"github.com/danielhkuo/election-results/models"
)

// RegisterVoter stores a new voter and returns it with its generated ID.
// A second registration of the same ID number returns ErrDuplicateVoter.
func (p *Pool) RegisterVoter(ctx context.Context, req models.RegisterVoterRequest) (models.Voter, error) {
	voter := models.Voter{
		ID:           uuid.NewString(),
		IDNumber:     strings.TrimSpace(req.IDNumber),
		FullName:     strings.TrimSpace(req.FullName),
		Province:     strings.TrimSpace(req.Province),
		RegisteredAt: p.now().UTC(),
	}

	err := p.Update(ctx, func(q dbx.Builder) error {
		return insertVoter(ctx, q, voter)
	})
	if err != nil {
		return models.Voter{}, err
	}

	return voter, nil
}

// CastVote records one vote. The vote inherits the voter's province when the
// request has none. Returns ErrUnknownVoter if the voter does not exist and
// ErrDuplicateVote if the voter already voted in the category.
func (p *Pool) CastVote(ctx context.Context, req models.CastVoteRequest) (models.Vote, error) {
	vote := models.Vote{
		ID:            uuid.NewString(),
		VoterID:       strings.TrimSpace(req.VoterID),
		PartyName:     strings.TrimSpace(req.PartyName),
		CandidateName: strings.TrimSpace(req.CandidateName),
		Category:      strings.TrimSpace(req.Category),
		Province:      strings.TrimSpace(req.Province),
		Region:        strings.TrimSpace(req.Region),
		CastAt:        p.now().UTC(),
	}

	err := p.Update(ctx, func(q dbx.Builder) error {
		var province string
		err := q.Select("province").
			From("voter").
			Where(dbx.HashExp{"id": vote.VoterID}).
			WithContext(ctx).
			Row(&province)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUnknownVoter
		}
		if err != nil {
			return fmt.Errorf("look up voter: %w", err)
		}

		if vote.Province == "" {
			vote.Province = province
		}

		return insertVote(ctx, q, vote)
	})
	if err != nil {
		return models.Vote{}, err
	}

	return vote, nil
}

func insertVoter(ctx context.Context, q dbx.Builder, v models.Voter) error {
	_, err := q.Insert("voter", dbx.Params{
		"id":            v.ID,
		"id_number":     v.IDNumber,
		"full_name":     v.FullName,
		"province":      v.Province,
		"registered_at": v.RegisteredAt.UTC(),
	}).WithContext(ctx).Execute()
	if isUniqueViolation(err) {
		return ErrDuplicateVoter
	}
	if err != nil {
		return fmt.Errorf("insert voter: %w", err)
	}
	return nil
}

func insertVote(ctx context.Context, q dbx.Builder, v models.Vote) error {
	_, err := q.Insert("vote", dbx.Params{
		"id":             v.ID,
		"voter_id":       v.VoterID,
		"party_name":     v.PartyName,
		"candidate_name": v.CandidateName,
		"category":       v.Category,
		"province":       v.Province,
		"region":         v.Region,
		"cast_at":        v.CastAt.UTC(),
	}).WithContext(ctx).Execute()
	switch {
	case isUniqueViolation(err):
		return ErrDuplicateVote
	case isForeignKeyViolation(err):
		return ErrUnknownVoter
	case err != nil:
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}
