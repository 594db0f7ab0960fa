// Package services – VoteService
//
// This file implements VoteService, which records spectator verdicts on
// completed debates and drives the batched rating recompute. Every fifth vote
// on a debate folds the current human-vote percentage into the owner's rating
// record; votes in between only accumulate.
//
// The whole operation — eligibility checks, the insert, the counts, and any
// recompute — runs in one transaction, so the counters the recompute reads
// always include the vote that triggered it.
package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/debateme/go-debate-backend/internal/domain"
	"github.com/debateme/go-debate-backend/internal/rating"
	"github.com/debateme/go-debate-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ratingBatchSize is how many votes accumulate between rating recomputes.
const ratingBatchSize = 5

// VoteService implements the use-cases around debate votes.
type VoteService struct {
	DB *gorm.DB
}

// VoteResult reports the tally after a successful vote.
type VoteResult struct {
	TotalVotes int64   `json:"total_votes"`
	HumanPct   float64 `json:"human_pct"`
	// RatingUpdated is true when this vote landed on a batch boundary and
	// the owner's rating record was recomputed.
	RatingUpdated bool `json:"rating_updated"`
}

// Cast records voterID's verdict on debateID.
//
// Semantics and validation:
//   - voteFor must be "human" or "ai"; otherwise ErrInvalidVoteSide.
//   - debateID must exist; otherwise ErrDebateNotFound.
//   - The debate must be completed; otherwise ErrDebateNotCompleted.
//   - The owner cannot vote on their own debate; otherwise ErrSelfVote.
//   - A user may vote at most once per debate; a second attempt yields
//     ErrDuplicateVote regardless of side.
//
// Concurrency & atomicity:
//   - The unique index on (debate_id, voter_id) is the authoritative
//     duplicate guard; the pre-checks and insert run in one transaction.
//   - When the post-insert total is a multiple of five, the owner's rating
//     record is recomputed from the fresh tally and written back in a single
//     UPDATE inside the same transaction.
func (s *VoteService) Cast(ctx context.Context, voterID, debateID string, voteFor domain.VoteSide) (*VoteResult, error) {
	tr := otel.Tracer("services/VoteService")
	ctx, span := tr.Start(ctx, "Cast",
		trace.WithAttributes(
			attribute.String("debate.id", debateID),
			attribute.String("voter.id", voterID),
			attribute.String("vote.for", string(voteFor)),
		),
	)
	defer span.End()

	if !voteFor.Valid() {
		return nil, ErrInvalidVoteSide
	}

	result := &VoteResult{}
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		debate, err := repo.GetDebate(ctx, tx, debateID)
		if err != nil {
			if isNotFound(err) {
				return ErrDebateNotFound
			}
			return err
		}
		if debate.Status != domain.StatusCompleted {
			return ErrDebateNotCompleted
		}
		if debate.UserID == voterID {
			return ErrSelfVote
		}

		if _, err := repo.CreateVote(ctx, tx, debateID, voterID, voteFor); err != nil {
			if isDuplicate(err) {
				return ErrDuplicateVote
			}
			return err
		}

		total, human, err := repo.CountVotes(ctx, tx, debateID)
		if err != nil {
			return err
		}
		result.TotalVotes = total
		if total > 0 {
			result.HumanPct = float64(human) / float64(total) * 100
		}

		if total%ratingBatchSize != 0 {
			return nil
		}

		owner, err := repo.GetUser(ctx, tx, debate.UserID)
		if err != nil {
			return err
		}
		rec := rating.ApplyOutcome(rating.Record{
			Rating:     owner.Rating,
			Wins:       owner.Wins,
			Losses:     owner.Losses,
			Streak:     owner.Streak,
			BestStreak: owner.BestStreak,
		}, result.HumanPct)
		if err := repo.UpdateUserRecord(ctx, tx, owner.ID, rec); err != nil {
			return err
		}
		result.RatingUpdated = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
