// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Round
// model.
//
// Rounds are append-only: there is no update or delete path. The unique
// index ux_rounds_debate_number makes CreateRound the authoritative
// at-most-once guard for a (debate, round number) slot; callers translate
// the resulting duplicate-key error into their own sentinel.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/debateme/go-debate-backend/internal/domain"
)

// CreateRound inserts one exchange for a debate. On a duplicate
// (debate_id, round_number) pair the driver's unique-constraint error is
// propagated unchanged.
func CreateRound(ctx context.Context, db *gorm.DB, debateID string, roundNumber int, userArgument, aiArgument string) (*domain.Round, error) {
	r := &domain.Round{
		ID:           uuid.NewString(),
		DebateID:     debateID,
		RoundNumber:  roundNumber,
		UserArgument: userArgument,
		AIArgument:   aiArgument,
		CreatedAt:    time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// ListRounds returns all rounds of a debate ordered by round number
// ascending. It returns an empty slice for a debate with no rounds.
func ListRounds(ctx context.Context, db *gorm.DB, debateID string) ([]domain.Round, error) {
	var out []domain.Round
	err := db.WithContext(ctx).
		Where("debate_id = ?", debateID).
		Order("round_number asc").
		Find(&out).Error
	return out, err
}
