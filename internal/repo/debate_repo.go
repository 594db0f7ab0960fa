// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Debate
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a debate is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/debateme/go-debate-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateDebate inserts a new active Debate owned by userID. The debate ID is
// a randomly generated UUID (string), and CreatedAt is set to UTC.
func CreateDebate(ctx context.Context, db *gorm.DB, userID, topic, category string) (*domain.Debate, error) {
	now := time.Now().UTC()
	d := &domain.Debate{
		ID:        uuid.NewString(),
		UserID:    userID,
		Topic:     topic,
		Category:  category,
		Status:    domain.StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(d).Error; err != nil {
		return nil, err
	}
	return d, nil
}

// GetDebate fetches a single debate by its ID regardless of owner. If the
// record does not exist, it returns ErrNotFound.
func GetDebate(ctx context.Context, db *gorm.DB, id string) (*domain.Debate, error) {
	var d domain.Debate
	err := db.WithContext(ctx).
		Where("id = ?", id).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDebateOwned fetches a single debate by ID and owner (userID). If the
// record does not exist or belongs to someone else, it returns ErrNotFound.
func GetDebateOwned(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Debate, error) {
	var d domain.Debate
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// debateFilter composes the optional status/category predicates shared by the
// feed queries. Empty values mean "no filter".
func debateFilter(q *gorm.DB, status, category string) *gorm.DB {
	if status != "" {
		q = q.Where("status = ?", status)
	}
	if category != "" {
		q = q.Where("category = ?", category)
	}
	return q
}

// CountDebates returns the total number of debates matching the optional
// status and category filters.
func CountDebates(ctx context.Context, db *gorm.DB, status, category string) (int64, error) {
	var total int64
	err := debateFilter(db.WithContext(ctx).Model(&domain.Debate{}), status, category).
		Count(&total).Error
	return total, err
}

// ListDebatesPage returns a paginated slice of debates matching the optional
// status and category filters, ordered by creation time descending. Use
// CountDebates to obtain the total for pagination metadata.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListDebatesPage(ctx context.Context, db *gorm.DB, status, category string, offset, limit int) ([]domain.Debate, error) {
	var out []domain.Debate
	err := debateFilter(db.WithContext(ctx), status, category).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListRecentCompleted returns up to limit of userID's completed debates,
// newest first. Active debates are excluded; the profile view only shows
// finished work.
func ListRecentCompleted(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.Debate, error) {
	var out []domain.Debate
	err := db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, domain.StatusCompleted).
		Order("created_at desc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CompleteDebate flips a debate from active to completed. The status
// predicate makes the transition idempotent at the storage level: if the
// debate is missing or already completed, no row matches and ErrNotFound is
// returned, so a lost race surfaces instead of silently re-completing.
func CompleteDebate(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Model(&domain.Debate{}).
		Where("id = ? AND status = ?", id, domain.StatusActive).
		Updates(map[string]any{
			"status":     domain.StatusCompleted,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
