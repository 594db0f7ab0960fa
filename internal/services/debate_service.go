// Package services – DebateService
//
// This file implements DebateService, the application-level component that
// owns the debate lifecycle: opening a debate on a topic, serving the public
// feed, and assembling the full detail view (rounds plus vote tally) for a
// single debate.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include debate/user identifiers and pagination parameters where applicable.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"github.com/debateme/go-debate-backend/internal/domain"
	"github.com/debateme/go-debate-backend/internal/repo"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	topicMinRunes = 3
	topicMaxRunes = 200

	feedDefaultPageSize = 20
	feedMaxPageSize     = 50
)

// DebateService coordinates debate creation and read paths.
type DebateService struct {
	DB *gorm.DB
}

// Tally summarizes the votes on one debate.
type Tally struct {
	Total    int64   `json:"total"`
	Human    int64   `json:"human"`
	AI       int64   `json:"ai"`
	HumanPct float64 `json:"human_pct"`
}

// Detail is the full public view of a debate: its row, every round in order,
// and the current vote tally.
type Detail struct {
	Debate domain.Debate  `json:"debate"`
	Rounds []domain.Round `json:"rounds"`
	Tally  Tally          `json:"tally"`
}

// Create validates the topic, normalizes the category onto the closed set,
// and opens a new active debate owned by userID.
//
// Semantics and validation:
//   - topic is trimmed; an empty topic yields ErrMissingFields.
//   - trimmed topic must be 3-200 runes; otherwise ErrTopicLength.
//   - an unknown or empty category falls back to the default category
//     rather than failing.
func (s *DebateService) Create(ctx context.Context, userID, topic, category string) (*domain.Debate, error) {
	tr := otel.Tracer("services/DebateService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	topic = strings.TrimSpace(topic)
	if topic == "" {
		return nil, ErrMissingFields
	}
	if n := utf8.RuneCountInString(topic); n < topicMinRunes || n > topicMaxRunes {
		return nil, ErrTopicLength
	}
	category = domain.NormalizeCategory(strings.ToLower(strings.TrimSpace(category)))

	return repo.CreateDebate(ctx, s.DB, userID, topic, category)
}

// Get assembles the detail view for one debate: the debate row, its rounds in
// ascending order, and the vote tally. Returns ErrDebateNotFound when the
// debate does not exist.
func (s *DebateService) Get(ctx context.Context, id string) (*Detail, error) {
	tr := otel.Tracer("services/DebateService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("debate.id", id)),
	)
	defer span.End()

	d, err := repo.GetDebate(ctx, s.DB, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrDebateNotFound
		}
		return nil, err
	}

	rounds, err := repo.ListRounds(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}

	total, human, err := repo.CountVotes(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	tally := Tally{Total: total, Human: human, AI: total - human}
	if total > 0 {
		tally.HumanPct = float64(human) / float64(total) * 100
	}

	return &Detail{Debate: *d, Rounds: rounds, Tally: tally}, nil
}

// ListPage returns one page of the public debate feed, newest first, with the
// total count for pagination metadata.
//
// status filters on "active" or "completed" and defaults to "completed": the
// public feed shows finished debates unless the caller asks for active ones.
// category filters on the closed category set; unknown categories are
// ignored. pageSize defaults to 20 and is capped at 50.
func (s *DebateService) ListPage(ctx context.Context, status, category string, page, pageSize int) ([]domain.Debate, int64, error) {
	tr := otel.Tracer("services/DebateService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("filter.status", status),
			attribute.String("filter.category", category),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	status, category = NormalizeFeedFilters(status, category)

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = feedDefaultPageSize
	}
	if pageSize > feedMaxPageSize {
		pageSize = feedMaxPageSize
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountDebates(ctx, s.DB, status, category)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Debate{}, 0, nil
	}

	items, err := repo.ListDebatesPage(ctx, s.DB, status, category, offset, pageSize)
	return items, total, err
}

// NormalizeFeedFilters maps arbitrary feed query values onto the values the
// repository understands. Empty and unknown statuses fall back to
// "completed" (the default feed view); unknown categories become "no
// filter" so a misspelled category widens the feed instead of erroring.
func NormalizeFeedFilters(status, category string) (string, string) {
	switch domain.DebateStatus(status) {
	case domain.StatusActive, domain.StatusCompleted:
	default:
		status = string(domain.StatusCompleted)
	}
	if _, ok := domain.Categories[category]; !ok {
		category = ""
	}
	return status, category
}

// isNotFound treats repo-level not found sentinels as "not found" in a
// driver-agnostic way. It also checks gorm.ErrRecordNotFound for safety.
func isNotFound(err error) bool {
	if errors.Is(err, repo.ErrNotFound) {
		return true
	}
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// isDuplicate attempts to detect unique-constraint violations across drivers
// that may not map to gorm.ErrDuplicatedKey.
func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// SQLite typically: "UNIQUE constraint failed"
	// Postgres typically: "duplicate key value violates unique constraint"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
