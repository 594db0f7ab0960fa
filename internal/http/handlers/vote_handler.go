// Vote casting HTTP handler.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/debateme/go-debate-backend/internal/domain"
	"github.com/debateme/go-debate-backend/internal/http/middleware"
	"github.com/debateme/go-debate-backend/internal/services"
)

// CastVoteRequest is the JSON payload for recording a verdict.
type CastVoteRequest struct {
	// VoteFor picks the winning side: "human" or "ai".
	VoteFor string `json:"vote_for" binding:"required" example:"human"`
}

// CastVote godoc
// @ID          castVote
// @Summary     Vote on a completed debate
// @Description Records one verdict per voter per debate. Voting on your own debate is forbidden; only completed debates accept votes. Every fifth vote recomputes the owner's rating.
// @Tags        Votes
// @Accept      json
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       id             path    string  true  "Debate ID (UUID)"  format(uuid)
// @Param       body           body    handlers.CastVoteRequest  true  "Vote payload"
//
// @Success     201  {object}  services.VoteResult
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid vote side"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     403  {object}  handlers.ErrorResponse  "Cannot vote on own debate"
// @Failure     404  {object}  handlers.ErrorResponse  "Debate not found or not completed"
// @Failure     409  {object}  handlers.ErrorResponse  "Already voted"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /debates/{id}/votes [post]
func (h *Handlers) CastVote(c *gin.Context) {
	debateID := c.Param("id")
	if _, err := uuid.Parse(debateID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "debate id must be a UUID")
		return
	}

	var req CastVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	res, err := h.voteSvc.Cast(c.Request.Context(), middleware.UserID(c), debateID, domain.VoteSide(req.VoteFor))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidVoteSide):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrSelfVote):
			fail(c, http.StatusForbidden, ErrCodeForbidden, err.Error())
		case errors.Is(err, services.ErrDebateNotFound), errors.Is(err, services.ErrDebateNotCompleted):
			fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
		case errors.Is(err, services.ErrDuplicateVote):
			fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, res)
}
