package api

import (
	"net/http"
	"strings"

	resdto "servicebay/internal/handler/dto/response"
	"servicebay/internal/handler/httperr"
	"servicebay/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type InvoiceHandler struct {
	q queries.InvoiceQueries
}

func NewInvoiceHandler(q queries.InvoiceQueries) *InvoiceHandler {
	return &InvoiceHandler{q: q}
}

// @Summary Get invoice
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Success 200 {object} resdto.InvoiceResponse
// @Failure 404 {object} httperr.Response
// @Router /api/invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), session, id)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Failed to load invoice")
		return
	}
	c.JSON(http.StatusOK, resdto.FromInvoiceView(view))
}

// @Summary Get invoice for a booking
// @Tags invoices
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.InvoiceResponse
// @Failure 404 {object} httperr.Response
// @Router /api/invoices/booking/{id} [get]
func (h *InvoiceHandler) GetByBooking(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	view, err := h.q.GetByBooking(c.Request.Context(), session, bookingID)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Failed to load invoice")
		return
	}
	c.JSON(http.StatusOK, resdto.FromInvoiceView(view))
}

// @Summary Download invoice PDF
// @Tags invoices
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Invoice ID"
// @Success 200 {file} binary
// @Failure 404 {object} httperr.Response
// @Router /api/invoices/{id}/pdf [get]
func (h *InvoiceHandler) PDF(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	doc, view, err := h.q.RenderPDF(c.Request.Context(), session, id)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Failed to render invoice")
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+strings.ReplaceAll(view.Number, "/", "-")+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", doc)
}
