// Debate HTTP handlers.
//
// This file exposes REST endpoints for debate resources:
//   - POST   /debates        (create)
//   - GET    /debates        (public feed, paginated, ETag support)
//   - GET    /debates/{id}   (detail: rounds + tally)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/debateme/go-debate-backend/internal/domain"
	"github.com/debateme/go-debate-backend/internal/http/middleware"
	"github.com/debateme/go-debate-backend/internal/repo"
	"github.com/debateme/go-debate-backend/internal/services"
	"github.com/debateme/go-debate-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// DebateService defines debate lifecycle operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type DebateService interface {
	// Create opens a new active debate for userID.
	Create(ctx context.Context, userID, topic, category string) (*domain.Debate, error)
	// Get returns the full detail view (debate, rounds, tally).
	Get(ctx context.Context, id string) (*services.Detail, error)
	// ListPage returns a page of the public feed and the total count.
	ListPage(ctx context.Context, status, category string, page, pageSize int) ([]domain.Debate, int64, error)
}

// RoundService defines round submission consumed by HTTP handlers.
type RoundService interface {
	// Submit validates, generates the counter-argument, and persists one round.
	Submit(ctx context.Context, userID, debateID string, roundNumber int, argument string) (*services.SubmitResult, error)
}

// VoteService defines vote casting consumed by HTTP handlers.
type VoteService interface {
	// Cast records a verdict on a completed debate.
	Cast(ctx context.Context, voterID, debateID string, voteFor domain.VoteSide) (*services.VoteResult, error)
}

// UserService defines account and profile operations consumed by HTTP handlers.
type UserService interface {
	// Register creates an account and returns it with a signed token.
	Register(ctx context.Context, username, password string) (*domain.User, string, error)
	// Login verifies credentials and returns the user with a signed token.
	Login(ctx context.Context, username, password string) (*domain.User, string, error)
	// GetProfile returns the public profile for a username.
	GetProfile(ctx context.Context, username string) (*services.Profile, error)
	// Leaderboard returns the top users by rating.
	Leaderboard(ctx context.Context, limit int) ([]domain.User, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for accounts, debates, rounds, and votes.
// It depends on abstract service interfaces to keep transport concerns
// separate from business logic.
type Handlers struct {
	debateSvc DebateService
	roundSvc  RoundService
	voteSvc   VoteService
	userSvc   UserService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(debateSvc DebateService, roundSvc RoundService, voteSvc VoteService, userSvc UserService) *Handlers {
	return &Handlers{debateSvc: debateSvc, roundSvc: roundSvc, voteSvc: voteSvc, userSvc: userSvc}
}

//
// DTOs
//

// CreateDebateRequest is the JSON payload for opening a debate.
type CreateDebateRequest struct {
	// Topic is the statement being debated (3-200 chars).
	Topic string `json:"topic" binding:"required" example:"Pineapple belongs on pizza"`
	// Category optionally files the debate under a known tag.
	Category string `json:"category" example:"food"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListDebatesResponse wraps a page of debates and pagination information.
type ListDebatesResponse struct {
	Debates    []domain.Debate `json:"debates"`
	Pagination Pagination      `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 50
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// isValidation reports whether err is a request-validation failure for the
// debate create path.
func isValidation(err error) bool {
	return errors.Is(err, services.ErrMissingFields) || errors.Is(err, services.ErrTopicLength)
}

// isNotFoundErr reports whether err means the requested debate does not exist.
func isNotFoundErr(err error) bool {
	return errors.Is(err, services.ErrDebateNotFound)
}

//
// Handlers
//

// CreateDebate godoc
// @ID          createDebate
// @Summary     Open a new debate
// @Description Opens an active debate on a topic for the authenticated user.
// @Tags        Debates
// @Accept      json
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       body           body    handlers.CreateDebateRequest  true  "Create debate payload"
//
// @Success     201  {object}  domain.Debate
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /debates [post]
func (h *Handlers) CreateDebate(c *gin.Context) {
	var req CreateDebateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	d, err := h.debateSvc.Create(c.Request.Context(), middleware.UserID(c), req.Topic, req.Category)
	if err != nil {
		switch {
		case isValidation(err):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, d)
}

// ListDebates godoc
// @ID          listDebates
// @Summary     Public debate feed (paginated)
// @Description Returns a page of debates, newest first. Defaults to completed debates; pass status=active for debates still running. Supports a weak ETag via If-None-Match (may return 304).
// @Tags        Debates
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       status         query   string  false "Filter: active|completed"  default(completed)
// @Param       category       query   string  false "Filter: category tag"
// @Param       page           query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"  minimum(1) maximum(50) default(20)
//
// @Success     200  {object} handlers.ListDebatesResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /debates [get]
func (h *Handlers) ListDebates(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)
	status, category := services.NormalizeFeedFilters(
		strings.ToLower(c.Query("status")),
		strings.ToLower(c.Query("category")),
	)

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, ok := h.debateSvc.(*services.DebateService); ok {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.DebatesStats(ctx, db, status, category)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"debates:%s:%s:%d:%d"`, status, category, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	// Fetch page.
	items, total, err := h.debateSvc.ListPage(ctx, status, category, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	resp := ListDebatesResponse{
		Debates: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	}
	ok(c, http.StatusOK, resp)
}

// GetDebate godoc
// @ID          getDebate
// @Summary     Debate detail
// @Description Returns one debate with its rounds in order and the current vote tally.
// @Tags        Debates
// @Produce     json
//
// @Param       id  path  string  true  "Debate ID (UUID)"  format(uuid)
//
// @Success     200  {object} services.Detail
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Debate not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /debates/{id} [get]
func (h *Handlers) GetDebate(c *gin.Context) {
	debateID := c.Param("id")
	if _, err := uuid.Parse(debateID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "debate id must be a UUID")
		return
	}

	detail, err := h.debateSvc.Get(c.Request.Context(), debateID)
	if err != nil {
		switch {
		case isNotFoundErr(err):
			fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, detail)
}
