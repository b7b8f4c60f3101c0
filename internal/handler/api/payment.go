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

type PaymentHandler struct {
	cmds     commands.PaymentCommands
	invoices queries.InvoiceQueries
}

func NewPaymentHandler(cmds commands.PaymentCommands, invoices queries.InvoiceQueries) *PaymentHandler {
	return &PaymentHandler{cmds: cmds, invoices: invoices}
}

// @Summary Capture payment
// @Description Capture payment for a PENDING booking. Replaying a reference returns the original payment with 200.
// @Tags payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CapturePaymentRequest true "Capture request"
// @Success 200 {object} resdto.CapturePaymentResponse
// @Success 201 {object} resdto.CapturePaymentResponse
// @Failure 400 {object} httperr.Response
// @Failure 402 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 504 {object} httperr.Response
// @Router /api/payments [post]
func (h *PaymentHandler) Capture(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	var req reqdto.CapturePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	result, err := h.cmds.Capture(c.Request.Context(), session, req.ToCommand())
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Capture failed")
		return
	}
	inv, err := h.invoices.GetByID(c.Request.Context(), session, result.InvoiceID)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Failed to load invoice")
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.CapturePaymentResponse{
		Payment: resdto.FromInvoicePayment(inv, result.Replayed),
		Invoice: resdto.FromInvoiceView(inv),
	})
}
