// User profile and leaderboard HTTP handlers.
package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/debateme/go-debate-backend/internal/domain"
	"github.com/debateme/go-debate-backend/internal/repo"
	"github.com/debateme/go-debate-backend/internal/services"
	"github.com/debateme/go-debate-backend/internal/utils"
)

// LeaderboardResponse wraps the ranked users list.
type LeaderboardResponse struct {
	Users []domain.User `json:"users"`
}

// Leaderboard godoc
// @ID          leaderboard
// @Summary     Top users by rating
// @Description Returns users ranked by rating (ties broken by username). Supports a weak ETag via If-None-Match (may return 304).
// @Tags        Users
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       limit          query   int     false "Max entries"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.LeaderboardResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /leaderboard [get]
func (h *Handlers) Leaderboard(c *gin.Context) {
	ctx := c.Request.Context()
	limit := utils.AtoiDefault(c.Query("limit"), 0)

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, ok := h.userSvc.(*services.UserService); ok {
		db = svc.DB
	}
	if db != nil {
		count, maxTS, err := repo.LeaderboardStats(ctx, db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"leaderboard:%d:%d:%d"`, limit, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	users, err := h.userSvc.Leaderboard(ctx, limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, LeaderboardResponse{Users: users})
}

// GetProfile godoc
// @ID          getProfile
// @Summary     Public user profile
// @Description Returns a user's public record: rating, win/loss counters, streaks, and debate count.
// @Tags        Users
// @Produce     json
//
// @Param       username  path  string  true  "Username"
//
// @Success     200  {object} services.Profile
// @Failure     404  {object} handlers.ErrorResponse "User not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /users/{username} [get]
func (h *Handlers) GetProfile(c *gin.Context) {
	profile, err := h.userSvc.GetProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUserNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, profile)
}
