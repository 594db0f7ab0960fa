// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Vote
// model.
//
// Votes are append-only. The unique index ux_votes_debate_voter enforces one
// vote per voter per debate; a duplicate insert propagates the driver's
// unique-constraint error for the service layer to translate.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/debateme/go-debate-backend/internal/domain"
)

// CreateVote inserts voterID's verdict on a debate.
func CreateVote(ctx context.Context, db *gorm.DB, debateID, voterID string, voteFor domain.VoteSide) (*domain.Vote, error) {
	v := &domain.Vote{
		ID:        uuid.NewString(),
		DebateID:  debateID,
		VoterID:   voterID,
		VoteFor:   voteFor,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(v).Error; err != nil {
		return nil, err
	}
	return v, nil
}

// CountVotes returns the total number of votes on a debate and how many of
// them favor the human side. Both counts come from the same snapshot when
// called inside a transaction.
func CountVotes(ctx context.Context, db *gorm.DB, debateID string) (total, human int64, err error) {
	q := db.WithContext(ctx).Model(&domain.Vote{}).Where("debate_id = ?", debateID)

	if err = q.Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if total == 0 {
		return 0, 0, nil
	}

	err = db.WithContext(ctx).
		Model(&domain.Vote{}).
		Where("debate_id = ? AND vote_for = ?", debateID, domain.VoteHuman).
		Count(&human).Error
	if err != nil {
		return 0, 0, err
	}
	return total, human, nil
}
