// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User
// model.
//
// Functions:
//
//   - CreateUser(ctx, db, username, passwordHash) -> *domain.User, error
//     Inserts a new user with UUID primary key and the default rating record.
//
//   - GetUser(ctx, db, id) -> *domain.User, error
//     Fetches a user by primary key, or ErrNotFound if missing.
//
//   - GetUserByUsername(ctx, db, username) -> *domain.User, error
//     Fetches a user by unique username, or ErrNotFound if missing.
//
//   - UpdateUserRecord(ctx, db, id, rec) -> error
//     Writes the full rating record in one UPDATE so readers never observe a
//     partially applied recompute.
//
//   - ListTopUsers(ctx, db, limit) -> []domain.User, error
//     Returns users ordered by rating descending for the leaderboard.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/debateme/go-debate-backend/internal/domain"
	"github.com/debateme/go-debate-backend/internal/rating"
)

// CreateUser inserts a new user row. On a duplicate username the driver's
// unique-constraint error is propagated unchanged.
func CreateUser(ctx context.Context, db *gorm.DB, username, passwordHash string) (*domain.User, error) {
	now := time.Now().UTC()
	u := &domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: passwordHash,
		Rating:       rating.DefaultRating,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := db.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// GetUser fetches a user by primary key, or ErrNotFound if missing.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByUsername fetches a user by unique username, or ErrNotFound if
// missing.
func GetUserByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUserRecord overwrites a user's rating record with rec in a single
// UPDATE statement. All five counters land atomically: concurrent readers see
// either the old record or the new one, never a mix. Returns ErrNotFound if
// the user does not exist.
func UpdateUserRecord(ctx context.Context, db *gorm.DB, id string, rec rating.Record) error {
	res := db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"rating":      rec.Rating,
			"wins":        rec.Wins,
			"losses":      rec.Losses,
			"streak":      rec.Streak,
			"best_streak": rec.BestStreak,
			"updated_at":  time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListTopUsers returns up to limit users ordered by rating descending, ties
// broken by username for a stable leaderboard.
func ListTopUsers(ctx context.Context, db *gorm.DB, limit int) ([]domain.User, error) {
	var out []domain.User
	err := db.WithContext(ctx).
		Order("rating desc").
		Order("username asc").
		Limit(limit).
		Find(&out).Error
	return out, err
}
