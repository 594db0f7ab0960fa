// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/debateme/go-debate-backend/internal/domain"
)

// DebatesStats returns aggregate metadata for the debate feed: the total
// number of rows matching the optional status/category filters and the
// maximum UpdatedAt timestamp among those rows.
//
// When no debate matches, the returned count is 0 and maxUpdatedAt is nil.
//
// Return values:
//   - count:        total matching debates
//   - maxUpdatedAt: pointer to the greatest UpdatedAt, or nil if no rows
//   - err:          database error, if any
func DebatesStats(ctx context.Context, db *gorm.DB, status, category string) (count int64, maxUpdatedAt *time.Time, err error) {
	q := debateFilter(db.WithContext(ctx).Model(&domain.Debate{}), status, category)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// LeaderboardStats returns aggregate metadata for the users table: the total
// number of rows and the maximum UpdatedAt timestamp among them. Rating
// recomputes touch UpdatedAt, so the pair changes whenever the leaderboard
// could have changed.
//
// When there are no users, the returned count is 0 and maxUpdatedAt is nil.
func LeaderboardStats(ctx context.Context, db *gorm.DB) (count int64, maxUpdatedAt *time.Time, err error) {
	q := db.WithContext(ctx).Model(&domain.User{})

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
