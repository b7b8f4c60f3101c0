package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"servicebay/internal/domain/auth"
	"servicebay/internal/handler/api"
	"servicebay/internal/handler/middleware"
	"servicebay/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type Handlers struct {
	Booking  *api.BookingHandler
	Payment  *api.PaymentHandler
	Job      *api.JobHandler
	Feedback *api.FeedbackHandler
	Invoice  *api.InvoiceHandler
}

func NewRouter(engine *gin.Engine, cfg config.Config, h Handlers, authMiddleware *middleware.AuthMiddleware, logger *slog.Logger) {
	setupMiddleware(engine, cfg, logger)
	setupRoutes(engine, h, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	// tracing sits outside the logger so request lines carry the trace id
	engine.Use(
		middleware.Recovery(logger),
		middleware.NewCORSMiddleware(cfg.CORS, logger),
		middleware.Tracing(cfg.Tracing.ServiceName),
		middleware.RequestLogger(logger),
		middleware.ErrorHandler(logger),
	)
}

func setupRoutes(engine *gin.Engine, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	staff := authMiddleware.RequireRole(auth.RoleStaff, auth.RoleAdmin)

	apiGroup := engine.Group("/api")
	apiGroup.Use(authMiddleware.RequireAuth())
	{
		bookings := apiGroup.Group("/bookings")
		addRoutes(bookings, []route{
			{Method: http.MethodPost, Path: "", Handler: h.Booking.Create},
			{Method: http.MethodGet, Path: "", Handler: h.Booking.List},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Booking.Get},
			{Method: http.MethodPut, Path: "/:id", Handler: h.Booking.Update},
			{Method: http.MethodDelete, Path: "/:id", Handler: h.Booking.Cancel},
			{Method: http.MethodPut, Path: "/:id/status", Handler: h.Booking.Advance, Mw: []gin.HandlerFunc{staff}},
			{Method: http.MethodGet, Path: "/:id/saga", Handler: h.Booking.GetSaga},
			{Method: http.MethodPost, Path: "/:id/saga/resume", Handler: h.Booking.ResumeSaga, Mw: []gin.HandlerFunc{staff}},
		})

		addRoutes(apiGroup.Group("/payments"), []route{
			{Method: http.MethodPost, Path: "", Handler: h.Payment.Capture},
		})

		addRoutes(apiGroup.Group("/jobs"), []route{
			{Method: http.MethodPost, Path: "", Handler: h.Job.Assign, Mw: []gin.HandlerFunc{staff}},
			{Method: http.MethodGet, Path: "", Handler: h.Job.List},
			{Method: http.MethodGet, Path: "/:id", Handler: h.Job.Get},
			{Method: http.MethodPut, Path: "/:id", Handler: h.Job.Advance},
		})

		addRoutes(apiGroup.Group("/technicians"), []route{
			{Method: http.MethodGet, Path: "", Handler: h.Job.ListTechnicians, Mw: []gin.HandlerFunc{staff}},
		})

		addRoutes(apiGroup.Group("/feedback"), []route{
			{Method: http.MethodPost, Path: "", Handler: h.Feedback.Submit},
			{Method: http.MethodGet, Path: "/booking/:id", Handler: h.Feedback.GetByBooking},
		})

		addRoutes(apiGroup.Group("/invoices"), []route{
			{Method: http.MethodGet, Path: "/:id", Handler: h.Invoice.Get},
			{Method: http.MethodGet, Path: "/booking/:id", Handler: h.Invoice.GetByBooking},
			{Method: http.MethodGet, Path: "/:id/pdf", Handler: h.Invoice.PDF},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
