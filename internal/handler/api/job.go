package api

import (
	"net/http"

	"servicebay/internal/domain/job"
	reqdto "servicebay/internal/handler/dto/request"
	resdto "servicebay/internal/handler/dto/response"
	"servicebay/internal/handler/httperr"
	"servicebay/internal/usecase/commands"
	"servicebay/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	cmds        commands.JobCommands
	q           queries.JobQueries
	technicians queries.TechnicianQueries
}

func NewJobHandler(cmds commands.JobCommands, q queries.JobQueries, technicians queries.TechnicianQueries) *JobHandler {
	return &JobHandler{cmds: cmds, q: q, technicians: technicians}
}

// @Summary Assign job
// @Description Assign a technician to a confirmed booking
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.AssignJobRequest true "Assignment"
// @Success 201 {object} resdto.JobResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/jobs [post]
func (h *JobHandler) Assign(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	var req reqdto.AssignJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	result, err := h.cmds.Assign(c.Request.Context(), session, req.ToCommand())
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Assign failed")
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), session, result.JobID)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Failed to load job")
		return
	}
	c.Header("Location", "/api/jobs/"+result.JobID.String())
	c.JSON(http.StatusCreated, resdto.FromJobView(view))
}

// @Summary Get job
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} resdto.JobResponse
// @Failure 404 {object} httperr.Response
// @Router /api/jobs/{id} [get]
func (h *JobHandler) Get(c *gin.Context) {
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
		httperr.AbortWithDomainError(c, err, "Failed to load job")
		return
	}
	c.JSON(http.StatusOK, resdto.FromJobView(view))
}

// @Summary List jobs
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param technicianId query string false "Technician ID"
// @Param bookingId query string false "Booking ID"
// @Param status query string false "Job status"
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {array} resdto.JobResponse
// @Router /api/jobs [get]
func (h *JobHandler) List(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	var filter queries.JobFilter
	if filter.TechnicianID, ok = queryUUID(c, "technicianId"); !ok {
		return
	}
	if filter.BookingID, ok = queryUUID(c, "bookingId"); !ok {
		return
	}
	filter.Status = queryString(c, "status")
	cursor, limit := pageParams(c)

	items, next, err := h.q.List(c.Request.Context(), session, filter, cursor, limit)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Internal error")
		return
	}
	resp := gin.H{"jobs": resdto.FromJobList(items)}
	if next != nil {
		resp["next_cursor"] = next.After
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Advance job status
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Param status query string true "Target status"
// @Success 200 {object} resdto.JobResponse
// @Failure 400 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/jobs/{id} [put]
func (h *JobHandler) Advance(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.cmds.Advance(c.Request.Context(), session, id, job.Status(c.Query("status"))); err != nil {
		httperr.AbortWithDomainError(c, err, "Status change failed")
		return
	}
	view, err := h.q.GetByID(c.Request.Context(), session, id)
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Failed to load job")
		return
	}
	c.JSON(http.StatusOK, resdto.FromJobView(view))
}

// @Summary List technicians
// @Description Technicians with their open job count and derived availability
// @Tags technicians
// @Produce json
// @Security BearerAuth
// @Param availability query string false "AVAILABLE or BUSY"
// @Success 200 {array} resdto.TechnicianResponse
// @Failure 400 {object} httperr.Response
// @Router /api/technicians [get]
func (h *JobHandler) ListTechnicians(c *gin.Context) {
	session, ok := requireSession(c)
	if !ok {
		return
	}
	items, err := h.technicians.List(c.Request.Context(), session, queryString(c, "availability"))
	if err != nil {
		httperr.AbortWithDomainError(c, err, "Internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"technicians": resdto.FromTechnicianList(items)})
}
