// Round submission HTTP handler.
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

// SubmitRoundRequest is the JSON payload for submitting one debate round.
type SubmitRoundRequest struct {
	// RoundNumber is the 1-based slot being filled (1..3).
	RoundNumber int `json:"round_number" binding:"required" example:"1"`
	// Argument is the user's side of the exchange (10 chars to 150 words).
	Argument string `json:"argument" binding:"required" example:"Sweetness balances the salt of the ham."`
}

// SubmitRoundResponse wraps the stored round and whether this submission
// completed the debate.
type SubmitRoundResponse struct {
	Round     *domain.Round `json:"round"`
	Completed bool          `json:"completed"`
}

// SubmitRound godoc
// @ID          submitRound
// @Summary     Submit a debate round
// @Description Submits the user's argument for the next round; the AI counter-argument is generated and stored with it. The third round completes the debate.
// @Tags        Rounds
// @Accept      json
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       id             path    string  true  "Debate ID (UUID)"  format(uuid)
// @Param       body           body    handlers.SubmitRoundRequest  true  "Round payload"
//
// @Success     201  {object}  handlers.SubmitRoundResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failure"
// @Failure     401  {object}  handlers.ErrorResponse  "Unauthorized"
// @Failure     404  {object}  handlers.ErrorResponse  "Debate not found or not owned"
// @Failure     409  {object}  handlers.ErrorResponse  "Completed, duplicate, or out-of-sequence round"
// @Failure     502  {object}  handlers.ErrorResponse  "Argument generation failed"
// @Router      /debates/{id}/rounds [post]
func (h *Handlers) SubmitRound(c *gin.Context) {
	debateID := c.Param("id")
	if _, err := uuid.Parse(debateID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "debate id must be a UUID")
		return
	}

	var req SubmitRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	res, err := h.roundSvc.Submit(c.Request.Context(), middleware.UserID(c), debateID, req.RoundNumber, req.Argument)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrRoundOutOfRange),
			errors.Is(err, services.ErrArgumentTooShort),
			errors.Is(err, services.ErrArgumentTooLong):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrDebateNotFound):
			fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
		case errors.Is(err, services.ErrDebateCompleted),
			errors.Is(err, services.ErrDuplicateRound),
			errors.Is(err, services.ErrRoundOutOfSequence):
			fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
		case errors.Is(err, services.ErrGeneration):
			fail(c, http.StatusBadGateway, ErrCodeUpstream, err.Error())
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, SubmitRoundResponse{Round: res.Round, Completed: res.Completed})
}
