// Package services – RoundService
//
// This file implements RoundService, which owns round submission: validating
// the human argument, enforcing the 1→2→3 sequence, obtaining the generated
// counter-argument, and persisting the exchange atomically. The debate flips
// to completed in the same transaction that persists round 3, so no reader
// ever observes a completed debate with fewer than three rounds.
//
// Generation happens before the transaction opens. A generation failure
// therefore leaves no partial state: the round is not persisted and the
// debate status is untouched.
package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/debateme/go-debate-backend/internal/domain"
	"github.com/debateme/go-debate-backend/internal/genai"
	"github.com/debateme/go-debate-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// maxRounds is the fixed length of every debate.
	maxRounds = 3

	argumentMinRunes = 10
	argumentMaxWords = 150
)

// RoundService coordinates argument validation, counter-argument generation,
// and atomic persistence of one round.
type RoundService struct {
	DB        *gorm.DB
	Generator genai.Generator
}

// SubmitResult is the outcome of a round submission.
type SubmitResult struct {
	Round *domain.Round
	// Completed is true when this submission was round 3 and flipped the
	// debate to completed.
	Completed bool
}

// Submit validates and persists one round of debateID on behalf of userID.
//
// Validation, in order:
//   - roundNumber must be 1-3; otherwise ErrRoundOutOfRange.
//   - the trimmed argument must be at least 10 runes; otherwise
//     ErrArgumentTooShort.
//   - the argument must be at most 150 words; otherwise ErrArgumentTooLong.
//   - the debate must exist and be owned by userID; otherwise
//     ErrDebateNotFound. Someone else's debate is indistinguishable from a
//     missing one.
//   - the debate must still be active; otherwise ErrDebateCompleted.
//   - roundNumber must be exactly one past the persisted prefix: a filled
//     slot yields ErrDuplicateRound, a gap yields ErrRoundOutOfSequence.
//
// Concurrency & atomicity:
//   - The sequence pre-checks are advisory. The unique index on
//     (debate_id, round_number) is the authoritative guard: when two
//     submissions race for the same slot, the loser's insert fails and is
//     mapped to ErrDuplicateRound.
//   - Round 3 and the status flip commit in one transaction.
func (s *RoundService) Submit(ctx context.Context, userID, debateID string, roundNumber int, argument string) (*SubmitResult, error) {
	tr := otel.Tracer("services/RoundService")
	ctx, span := tr.Start(ctx, "Submit",
		trace.WithAttributes(
			attribute.String("debate.id", debateID),
			attribute.String("user.id", userID),
			attribute.Int("round.number", roundNumber),
		),
	)
	defer span.End()

	if roundNumber < 1 || roundNumber > maxRounds {
		return nil, ErrRoundOutOfRange
	}
	argument = strings.TrimSpace(argument)
	if utf8.RuneCountInString(argument) < argumentMinRunes {
		return nil, ErrArgumentTooShort
	}
	if len(strings.Fields(argument)) > argumentMaxWords {
		return nil, ErrArgumentTooLong
	}

	debate, err := repo.GetDebateOwned(ctx, s.DB, debateID, userID)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrDebateNotFound
		}
		return nil, err
	}
	if debate.Status != domain.StatusActive {
		return nil, ErrDebateCompleted
	}

	prior, err := repo.ListRounds(ctx, s.DB, debateID)
	if err != nil {
		return nil, err
	}
	if roundNumber <= len(prior) {
		return nil, ErrDuplicateRound
	}
	if roundNumber != len(prior)+1 {
		return nil, ErrRoundOutOfSequence
	}

	history := make([]genai.Exchange, 0, len(prior))
	for _, r := range prior {
		history = append(history, genai.Exchange{
			UserArgument: r.UserArgument,
			AIArgument:   r.AIArgument,
		})
	}
	counter, err := s.Generator.CounterArgument(ctx, genai.ArgumentRequest{
		Topic:        debate.Topic,
		RoundNumber:  roundNumber,
		History:      history,
		UserArgument: argument,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	result := &SubmitResult{}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		round, err := repo.CreateRound(ctx, tx, debateID, roundNumber, argument, counter)
		if err != nil {
			if isDuplicate(err) {
				return ErrDuplicateRound
			}
			return err
		}
		result.Round = round

		if roundNumber == maxRounds {
			if err := repo.CompleteDebate(ctx, tx, debateID); err != nil {
				// No active row left: a concurrent submission won the flip.
				if isNotFound(err) {
					return ErrDebateCompleted
				}
				return err
			}
			result.Completed = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
