package api

import (
	"net/http"

	reqdto "servicebay/internal/handler/dto/request"
	resdto "servicebay/internal/handler/dto/response"
	"servicebay/internal/handler/httperr"
	"servicebay/internal/usecase/commands"
	"servicebay/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type FeedbackHandler struct {
	cmds commands.FeedbackCommands
	q    queries.FeedbackQueries
}

func NewFeedbackHandler(cmds commands.FeedbackCommands, q queries.FeedbackQueries) *FeedbackHandler {
	return &FeedbackHandler{cmds: cmds, q: q}
}

// @Summary Submit feedback
// @Description Rate a completed booking; one feedback per booking
// @Tags feedback
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.SubmitFeedbackRequest true "Feedback"
// @Success 201 {object} resdto.FeedbackResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/feedback [post]
func (h *FeedbackHandler) Submit(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	var req reqdto.SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	if _, err := h.cmds.Submit(c.Request.Context(), session, req.ToCommand()); err != nil {
		httperr.AbortWithDomainError(c, err, "Submit feedback failed")
		return
	}
	view, err := h.q.GetByBooking(c.Request.Context(), session, req.BookingID)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Failed to load feedback")
		return
	}
	c.JSON(http.StatusCreated, resdto.FromFeedbackView(view))
}

// @Summary Get feedback by booking
// @Tags feedback
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.FeedbackResponse
// @Failure 404 {object} httperr.Response
// @Router /api/feedback/booking/{id} [get]
func (h *FeedbackHandler) GetByBooking(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.q.GetByBooking(c.Request.Context(), session, id)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Failed to load feedback")
		return
	}
	c.JSON(http.StatusOK, resdto.FromFeedbackView(view))
}
