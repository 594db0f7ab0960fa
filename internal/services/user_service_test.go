package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/debateme/go-debate-backend/internal/auth"
	"github.com/debateme/go-debate-backend/internal/domain"
	"github.com/debateme/go-debate-backend/internal/rating"
	"github.com/debateme/go-debate-backend/internal/repo"
)

func newUserService(t *testing.T) *UserService {
	t.Helper()
	return &UserService{
		DB:     newTestDB(t),
		Tokens: auth.NewManager("test-secret", time.Hour),
	}
}

func TestUser_Register_Validation(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "ab", "password123"); !errors.Is(err, ErrInvalidUsername) {
		t.Fatalf("short username: expected ErrInvalidUsername, got %v", err)
	}
	if _, _, err := svc.Register(ctx, strings.Repeat("x", 33), "password123"); !errors.Is(err, ErrInvalidUsername) {
		t.Fatalf("long username: expected ErrInvalidUsername, got %v", err)
	}
	if _, _, err := svc.Register(ctx, "alice", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("weak password: expected ErrWeakPassword, got %v", err)
	}
}

func TestUser_Register_Success_AndDuplicate(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	u, token, err := svc.Register(ctx, "  alice  ", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Username != "alice" || u.Rating != rating.DefaultRating {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.PasswordHash == "password123" || u.PasswordHash == "" {
		t.Fatalf("password stored unhashed")
	}
	claims, err := svc.Tokens.Parse(token)
	if err != nil || claims.UserID != u.ID {
		t.Fatalf("token does not identify the new user: %v", err)
	}

	if _, _, err := svc.Register(ctx, "alice", "password456"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestUser_Login(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	reg, _, err := svc.Register(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	u, token, err := svc.Login(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.ID != reg.ID || token == "" {
		t.Fatalf("login returned wrong user or empty token")
	}

	if _, _, err := svc.Login(ctx, "alice", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUser_GetProfile(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	u, _, err := svc.Register(ctx, "alice", "password123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	var finished *domain.Debate
	for i := 0; i < 2; i++ {
		d, err := repo.CreateDebate(ctx, svc.DB, u.ID, fmt.Sprintf("Topic number %d", i), "life")
		if err != nil {
			t.Fatalf("seed debate: %v", err)
		}
		finished = d
	}
	if err := repo.CompleteDebate(ctx, svc.DB, finished.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	p, err := svc.GetProfile(ctx, "alice")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if p.User.ID != u.ID || p.Debates != 2 {
		t.Fatalf("profile = %+v; want user %s with 2 debates", p, u.ID)
	}
	// Only the completed debate shows up in the recent list.
	if len(p.RecentDebates) != 1 || p.RecentDebates[0].ID != finished.ID {
		t.Fatalf("recent debates = %+v; want just %s", p.RecentDebates, finished.ID)
	}

	if _, err := svc.GetProfile(ctx, "nobody"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUser_Leaderboard_DefaultsAndOrder(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	ratings := map[string]int{"low": 1100, "mid": 1400, "high": 1700}
	for name, r := range ratings {
		u, _, err := svc.Register(ctx, name+"user", "password123")
		if err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
		if err := repo.UpdateUserRecord(ctx, svc.DB, u.ID, rating.Record{Rating: r}); err != nil {
			t.Fatalf("rate %s: %v", name, err)
		}
	}

	top, err := svc.Leaderboard(ctx, 0) // default size
	if err != nil {
		t.Fatalf("Leaderboard: %v", err)
	}
	if len(top) != 3 || top[0].Username != "highuser" || top[2].Username != "lowuser" {
		t.Fatalf("unexpected leaderboard: %+v", top)
	}

	two, err := svc.Leaderboard(ctx, 2)
	if err != nil || len(two) != 2 {
		t.Fatalf("limit 2 = (%d users, %v)", len(two), err)
	}
}
