// Package services – UserService
//
// This file implements UserService, which owns account registration, login,
// public profiles, and the rating leaderboard. Passwords are hashed with
// bcrypt; successful registration and login both return a signed bearer
// token so the client can authenticate follow-up requests immediately.
package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/debateme/go-debate-backend/internal/auth"
	"github.com/debateme/go-debate-backend/internal/domain"
	"github.com/debateme/go-debate-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	usernameMinRunes = 3
	usernameMaxRunes = 32
	passwordMinRunes = 8

	defaultLeaderboardSize = 20
	maxLeaderboardSize     = 100

	profileRecentDebates = 10
)

// UserService implements the account use-cases.
type UserService struct {
	DB     *gorm.DB
	Tokens *auth.Manager
}

// Profile is the public view of a user: the account row (rating, win/loss
// counters, streaks), how many debates they have opened, and their most
// recent completed debates.
type Profile struct {
	User          domain.User     `json:"user"`
	Debates       int64           `json:"debates"`
	RecentDebates []domain.Debate `json:"recent_debates"`
}

// Register creates an account and returns the user with a signed token.
//
// Semantics and validation:
//   - username is trimmed and must be 3-32 runes; otherwise ErrInvalidUsername.
//   - password must be at least 8 runes; otherwise ErrWeakPassword.
//   - A taken username yields ErrUsernameTaken; the unique index on
//     usernames is the authoritative guard under concurrent registration.
func (s *UserService) Register(ctx context.Context, username, password string) (*domain.User, string, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "Register")
	defer span.End()

	username = strings.TrimSpace(username)
	if n := utf8.RuneCountInString(username); n < usernameMinRunes || n > usernameMaxRunes {
		return nil, "", ErrInvalidUsername
	}
	if utf8.RuneCountInString(password) < passwordMinRunes {
		return nil, "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	u, err := repo.CreateUser(ctx, s.DB, username, string(hash))
	if err != nil {
		if isDuplicate(err) {
			return nil, "", ErrUsernameTaken
		}
		return nil, "", err
	}

	token, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login verifies the credentials and returns the user with a signed token.
// Unknown usernames and wrong passwords both yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "Login")
	defer span.End()

	u, err := repo.GetUserByUsername(ctx, s.DB, strings.TrimSpace(username))
	if err != nil {
		if isNotFound(err) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// GetProfile returns the public profile for username, or ErrUserNotFound.
func (s *UserService) GetProfile(ctx context.Context, username string) (*Profile, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "GetProfile",
		trace.WithAttributes(attribute.String("user.name", username)),
	)
	defer span.End()

	u, err := repo.GetUserByUsername(ctx, s.DB, username)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var debates int64
	err = s.DB.WithContext(ctx).
		Model(&domain.Debate{}).
		Where("user_id = ?", u.ID).
		Count(&debates).Error
	if err != nil {
		return nil, err
	}

	recent, err := repo.ListRecentCompleted(ctx, s.DB, u.ID, profileRecentDebates)
	if err != nil {
		return nil, err
	}

	return &Profile{User: *u, Debates: debates, RecentDebates: recent}, nil
}

// Leaderboard returns up to limit users by rating descending. Non-positive
// limits default to 20; limits above 100 are clamped.
func (s *UserService) Leaderboard(ctx context.Context, limit int) ([]domain.User, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "Leaderboard",
		trace.WithAttributes(attribute.Int("limit", limit)),
	)
	defer span.End()

	if limit <= 0 {
		limit = defaultLeaderboardSize
	}
	if limit > maxLeaderboardSize {
		limit = maxLeaderboardSize
	}
	return repo.ListTopUsers(ctx, s.DB, limit)
}
