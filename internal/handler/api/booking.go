package api

import (
	"net/http"
	"time"

	"servicebay/internal/domain/booking"
	reqdto "servicebay/internal/handler/dto/request"
	resdto "servicebay/internal/handler/dto/response"
	"servicebay/internal/handler/httperr"
	"servicebay/internal/usecase/commands"
	"servicebay/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	cmds     commands.BookingCommands
	q        queries.BookingQueries
	invoices queries.InvoiceQueries
}

func NewBookingHandler(cmds commands.BookingCommands, q queries.BookingQueries, invoices queries.InvoiceQueries) *BookingHandler {
	return &BookingHandler{cmds: cmds, q: q, invoices: invoices}
}

// @Summary Submit booking
// @Description Create a booking and capture its payment in one saga
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateBookingRequest true "Booking with payment instrument"
// @Success 201 {object} resdto.SubmitBookingResponse
// @Success 200 {object} resdto.SubmitBookingResponse "replayed reference"
// @Failure 400 {object} httperr.Response
// @Failure 402 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 504 {object} httperr.Response
// @Router /api/bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	var req reqdto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	p, _ := session.Principal()
	cmd, err := req.ToCommand(p.UserID)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Submit booking failed")
		return
	}

	ctx := c.Request.Context()
	result, err := h.cmds.Submit(ctx, session, cmd)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Submit booking failed")
		return
	}

	view, err := h.q.GetByID(ctx, session, result.BookingID)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Failed to load booking")
		return
	}
	saga, err := h.q.GetSaga(ctx, session, result.BookingID)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Failed to load saga")
		return
	}
	inv, err := h.invoices.GetByBooking(ctx, session, result.BookingID)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Failed to load invoice")
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	c.Header("Location", "/api/bookings/"+result.BookingID.String())
	c.JSON(status, resdto.SubmitBookingResponse{
		Booking: resdto.FromBookingView(view),
		Payment: resdto.FromInvoicePayment(inv, result.Replayed),
		Invoice: resdto.FromInvoiceView(inv),
		Saga:    resdto.FromSagaView(saga),
	})
}

// @Summary Get booking
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.BookingResponse
// @Failure 403 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/bookings/{id} [get]
func (h *BookingHandler) Get(c *gin.Context) {
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
		httperr.AbortWithDomainError(c, err, "Failed to load booking")
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary List bookings
// @Description Customers only see their own bookings; technicians see the ones assigned to them
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param customerId query string false "Customer ID (staff only)"
// @Param locationId query string false "Location ID"
// @Param status query string false "Booking status"
// @Param kind query string false "SERVICE or FUEL"
// @Param urgency query string false "Urgency"
// @Param from query string false "Start time lower bound (RFC3339)"
// @Param to query string false "Start time upper bound (RFC3339)"
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {array} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Router /api/bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	filter, ok := bookingFilter(c)
	if !ok {
		return
	}
	cursor, limit := pageParams(c)

	items, next, err := h.q.List(c.Request.Context(), session, filter, cursor, limit)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Internal error")
		return
	}
	resp := gin.H{"bookings": resdto.FromBookingList(items)}
	if next != nil {
		resp["next_cursor"] = next.After
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Edit booking
// @Description Only PENDING bookings can be edited; the quote is recomputed
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body reqdto.UpdateBookingRequest true "Fields to change"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/bookings/{id} [put]
func (h *BookingHandler) Update(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req reqdto.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	patch, err := req.ToPatch()
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Update failed")
		return
	}
	if err := h.cmds.Edit(c.Request.Context(), session, id, patch); err != nil {
		httperr.AbortWithDomainError(c, err, "Update failed")
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), session, id)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Failed to load booking")
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Cancel booking
// @Tags bookings
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 204 "No Content"
// @Failure 409 {object} httperr.Response
// @Router /api/bookings/{id} [delete]
func (h *BookingHandler) Cancel(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.cmds.Cancel(c.Request.Context(), session, id); err != nil {
		httperr.AbortWithDomainError(c, err, "Cancel failed")
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Advance booking status
// @Description Staff transition along the booking state machine
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param status query string true "Target status"
// @Success 200 {object} resdto.BookingResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/bookings/{id}/status [put]
func (h *BookingHandler) Advance(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	target := booking.Status(c.Query("status"))
	if err := h.cmds.Advance(c.Request.Context(), session, id, target); err != nil {
		httperr.AbortWithDomainError(c, err, "Status change failed")
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), session, id)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Failed to load booking")
		return
	}
	c.JSON(http.StatusOK, resdto.FromBookingView(view))
}

// @Summary Get booking saga
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.SagaResponse
// @Failure 404 {object} httperr.Response
// @Router /api/bookings/{id}/saga [get]
func (h *BookingHandler) GetSaga(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	saga, err := h.q.GetSaga(c.Request.Context(), session, id)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Failed to load saga")
		return
	}
	c.JSON(http.StatusOK, resdto.FromSagaView(saga))
}

// @Summary Resume booking saga
// @Description Finalizes a saga whose payment was captured but never recorded
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} resdto.SagaResponse
// @Failure 409 {object} httperr.Response
// @Router /api/bookings/{id}/saga/resume [post]
func (h *BookingHandler) ResumeSaga(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if _, err := h.cmds.ResumeSaga(c.Request.Context(), session, id); err != nil {
		httperr.AbortWithDomainError(c, err, "Resume failed")
		return
	}
	saga, err := h.q.GetSaga(c.Request.Context(), session, id)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Failed to load saga")
		return
	}
	c.JSON(http.StatusOK, resdto.FromSagaView(saga))
}

func bookingFilter(c *gin.Context) (queries.BookingFilter, bool) {
	var f queries.BookingFilter
	var ok bool
	if f.CustomerID, ok = queryUUID(c, "customerId"); !ok {
		return f, false
	}
	if f.LocationID, ok = queryUUID(c, "locationId"); !ok {
		return f, false
	}
	f.Status = queryString(c, "status")
	f.Kind = queryString(c, "kind")
	f.Urgency = queryString(c, "urgency")
	if f.From, ok = queryTime(c, "from"); !ok {
		return f, false
	}
	if f.To, ok = queryTime(c, "to"); !ok {
		return f, false
	}
	return f, true
}

func queryTime(c *gin.Context, name string) (*time.Time, bool) {
	v := c.Query(name)
	if v == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid query parameter", gin.H{"field": name, "reason": "must be RFC3339"})
		return nil, false
	}
	return &t, true
}

