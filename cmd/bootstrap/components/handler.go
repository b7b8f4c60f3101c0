package components

import (
	"servicebay/internal/handler"
	"servicebay/internal/handler/api"
	"servicebay/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewPaymentHandler,
		api.NewJobHandler,
		api.NewFeedbackHandler,
		api.NewInvoiceHandler,
		middleware.NewAuthMiddleware,
		NewHandlers,
	),
	fx.Invoke(handler.NewRouter),
)

func NewHandlers(
	booking *api.BookingHandler,
	payment *api.PaymentHandler,
	job *api.JobHandler,
	feedback *api.FeedbackHandler,
	invoice *api.InvoiceHandler,
) handler.Handlers {
	return handler.Handlers{
		Booking:  booking,
		Payment:  payment,
		Job:      job,
		Feedback: feedback,
		Invoice:  invoice,
	}
}
