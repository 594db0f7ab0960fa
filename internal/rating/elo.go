// Package rating implements the Elo skill computation for debate outcomes.
//
// The opponent is the generation model, but the outcome is decided by the
// community vote percentage on a completed debate: >50% for the human is a
// win (score 1), <50% a loss (score 0), exactly 50% a draw (score 0.5).
//
// Everything in this package is a pure function over primitives — no I/O, no
// clock, no randomness — so a given input always produces the same output.
package rating

import "math"

const (
	// KFactor is the rating step size (standard for new/active players).
	KFactor = 32

	// OpponentRating is the fixed strength assigned to the automated
	// opponent. Human ratings move against this constant baseline.
	OpponentRating = 1500

	// MinRating is the floor below which ratings never drop.
	MinRating = 100

	// DefaultRating is the population-mean entry rating for new users.
	DefaultRating = 1200
)

// Score is the match outcome expressed as an Elo score value.
type Score float64

const (
	Loss Score = 0
	Draw Score = 0.5
	Win  Score = 1
)

// ExpectedScore returns the probability-like expected score of a player
// rated a against an opponent rated b.
func ExpectedScore(a, b float64) float64 {
	return 1 / (1 + math.Pow(10, (b-a)/400))
}

// Outcome classifies a human-vote percentage (0–100) into a Score.
func Outcome(humanVotePct float64) Score {
	switch {
	case humanVotePct > 50:
		return Win
	case humanVotePct < 50:
		return Loss
	default:
		return Draw
	}
}

// NewRating computes the updated rating after a debate whose community vote
// split is humanVotePct. The result is rounded to the nearest integer and
// floored at MinRating.
func NewRating(current int, humanVotePct float64) int {
	expected := ExpectedScore(float64(current), OpponentRating)
	delta := KFactor * (float64(Outcome(humanVotePct)) - expected)
	updated := int(math.Round(float64(current) + delta))
	if updated < MinRating {
		return MinRating
	}
	return updated
}

// Record is a user's rating record as acted on by a recompute event.
type Record struct {
	Rating     int
	Wins       int
	Losses     int
	Streak     int
	BestStreak int
}

// ApplyOutcome folds one vote-derived outcome into a rating record and
// returns the successor record. Exactly one of Wins or Losses increments per
// event (a draw counts as a loss for the streak and win/loss tallies, since
// the human failed to take the crowd). The input record is not mutated.
func ApplyOutcome(rec Record, humanVotePct float64) Record {
	next := rec
	next.Rating = NewRating(rec.Rating, humanVotePct)

	if Outcome(humanVotePct) == Win {
		next.Wins++
		next.Streak++
	} else {
		next.Losses++
		next.Streak = 0
	}
	if next.Streak > next.BestStreak {
		next.BestStreak = next.Streak
	}
	return next
}
