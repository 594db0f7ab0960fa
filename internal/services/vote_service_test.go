package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/debateme/go-debate-backend/internal/domain"
	"github.com/debateme/go-debate-backend/internal/repo"
)

func newVoteFixture(t *testing.T) (*VoteService, *domain.Debate, *domain.User) {
	t.Helper()
	db := newTestDB(t)
	owner := seedUser(t, db, "owner")
	ctx := context.Background()
	d, err := repo.CreateDebate(ctx, db, owner.ID, "Pineapple belongs on pizza", "food")
	if err != nil {
		t.Fatalf("seed debate: %v", err)
	}
	if err := repo.CompleteDebate(ctx, db, d.ID); err != nil {
		t.Fatalf("complete debate: %v", err)
	}
	return &VoteService{DB: db}, d, owner
}

func TestVote_Cast_InvalidSide(t *testing.T) {
	svc, d, _ := newVoteFixture(t)
	if _, err := svc.Cast(context.Background(), "v1", d.ID, "draw"); !errors.Is(err, ErrInvalidVoteSide) {
		t.Fatalf("expected ErrInvalidVoteSide, got %v", err)
	}
}

func TestVote_Cast_DebateNotFound(t *testing.T) {
	svc, _, _ := newVoteFixture(t)
	if _, err := svc.Cast(context.Background(), "v1", "missing", domain.VoteHuman); !errors.Is(err, ErrDebateNotFound) {
		t.Fatalf("expected ErrDebateNotFound, got %v", err)
	}
}

func TestVote_Cast_ActiveDebateRejected(t *testing.T) {
	svc, _, owner := newVoteFixture(t)
	ctx := context.Background()
	active, err := repo.CreateDebate(ctx, svc.DB, owner.ID, "Still running", "life")
	if err != nil {
		t.Fatalf("seed active debate: %v", err)
	}
	if _, err := svc.Cast(ctx, "v1", active.ID, domain.VoteHuman); !errors.Is(err, ErrDebateNotCompleted) {
		t.Fatalf("expected ErrDebateNotCompleted, got %v", err)
	}
}

func TestVote_Cast_SelfVoteRejected(t *testing.T) {
	svc, d, owner := newVoteFixture(t)
	if _, err := svc.Cast(context.Background(), owner.ID, d.ID, domain.VoteHuman); !errors.Is(err, ErrSelfVote) {
		t.Fatalf("expected ErrSelfVote, got %v", err)
	}
}

func TestVote_Cast_DuplicateRejected(t *testing.T) {
	svc, d, _ := newVoteFixture(t)
	ctx := context.Background()

	if _, err := svc.Cast(ctx, "v1", d.ID, domain.VoteHuman); err != nil {
		t.Fatalf("first vote: %v", err)
	}
	// Switching sides does not help.
	if _, err := svc.Cast(ctx, "v1", d.ID, domain.VoteAI); !errors.Is(err, ErrDuplicateVote) {
		t.Fatalf("expected ErrDuplicateVote, got %v", err)
	}
}

func TestVote_Cast_TallyAccumulatesWithoutRecompute(t *testing.T) {
	svc, d, owner := newVoteFixture(t)
	ctx := context.Background()

	sides := []domain.VoteSide{domain.VoteHuman, domain.VoteAI, domain.VoteHuman}
	var res *VoteResult
	var err error
	for i, side := range sides {
		res, err = svc.Cast(ctx, fmt.Sprintf("v%d", i), d.ID, side)
		if err != nil {
			t.Fatalf("vote %d: %v", i, err)
		}
		if res.RatingUpdated {
			t.Fatalf("vote %d triggered recompute before batch boundary", i+1)
		}
	}
	if res.TotalVotes != 3 {
		t.Fatalf("total = %d; want 3", res.TotalVotes)
	}
	if res.HumanPct < 66.6 || res.HumanPct > 66.7 {
		t.Fatalf("human pct = %v; want ~66.67", res.HumanPct)
	}

	got, err := repo.GetUser(ctx, svc.DB, owner.ID)
	if err != nil || got.Rating != 1200 || got.Wins != 0 {
		t.Fatalf("owner record changed off-boundary: %+v (err %v)", got, err)
	}
}

func TestVote_Cast_FifthVoteRecomputesRating_Win(t *testing.T) {
	svc, d, owner := newVoteFixture(t)
	ctx := context.Background()

	// 4 human + 1 ai = 80% human at the boundary.
	sides := []domain.VoteSide{
		domain.VoteHuman, domain.VoteHuman, domain.VoteHuman, domain.VoteAI, domain.VoteHuman,
	}
	var res *VoteResult
	var err error
	for i, side := range sides {
		res, err = svc.Cast(ctx, fmt.Sprintf("v%d", i), d.ID, side)
		if err != nil {
			t.Fatalf("vote %d: %v", i, err)
		}
	}
	if !res.RatingUpdated || res.TotalVotes != 5 {
		t.Fatalf("boundary vote result = %+v; want RatingUpdated at total 5", res)
	}

	got, err := repo.GetUser(ctx, svc.DB, owner.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	// 1200 vs the fixed 1500 opponent, 80% human: expected score ≈ 0.151,
	// so the win lands 1200 + round(32 * 0.849) = 1227.
	if got.Rating != 1227 {
		t.Fatalf("rating = %d; want 1227", got.Rating)
	}
	if got.Wins != 1 || got.Losses != 0 || got.Streak != 1 || got.BestStreak != 1 {
		t.Fatalf("counters wrong: %+v", got)
	}
}

func TestVote_Cast_FifthVoteRecomputesRating_Loss(t *testing.T) {
	svc, d, owner := newVoteFixture(t)
	ctx := context.Background()

	// 2 human + 3 ai = 40% human at the boundary: a loss.
	sides := []domain.VoteSide{
		domain.VoteHuman, domain.VoteAI, domain.VoteAI, domain.VoteHuman, domain.VoteAI,
	}
	for i, side := range sides {
		if _, err := svc.Cast(ctx, fmt.Sprintf("v%d", i), d.ID, side); err != nil {
			t.Fatalf("vote %d: %v", i, err)
		}
	}

	got, err := repo.GetUser(ctx, svc.DB, owner.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Rating != 1195 {
		t.Fatalf("rating = %d; want 1195", got.Rating)
	}
	if got.Wins != 0 || got.Losses != 1 || got.Streak != 0 {
		t.Fatalf("counters wrong: %+v", got)
	}
}
