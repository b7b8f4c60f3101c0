package httperr

import (
	"net/http"

	"servicebay/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

const internalMessage = "Internal server error"

// Response is the envelope of every JSON error reply.
type Response struct {
	Status int          `json:"-"`
	Error  ErrorMessage `json:"error"`
	Detail any          `json:"detail,omitempty"`
}

type ErrorMessage struct {
	Message string `json:"message"`
}

func NewResponse(status int, msg string, detail any) Response {
	return Response{Status: status, Error: ErrorMessage{Message: msg}, Detail: detail}
}

func Internal() Response {
	return NewResponse(http.StatusInternalServerError, internalMessage, nil)
}

// AbortWithError writes the envelope and records err on the context so the
// request log and the error middleware can see the cause.
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		err = errs.New(msg)
	}
	resp := NewResponse(status, msg, detail)
	_ = c.Error(err).SetType(gin.ErrorTypePublic).SetMeta(resp)
	c.AbortWithStatusJSON(status, resp)
}

// AbortWithDomainError classifies err through the errs taxonomy. Unclassified
// errors become a 500 carrying fallbackMsg.
func AbortWithDomainError(c *gin.Context, err error, fallbackMsg string) {
	status, msg, detail := Classify(err)
	if status == http.StatusInternalServerError {
		msg = fallbackMsg
	}
	AbortWithError(c, status, err, msg, detail)
}

func Classify(err error) (int, string, any) {
	var (
		validation *errs.ValidationError
		state      *errs.InvalidStateError
		transition *errs.IllegalTransitionError
		conflict   *errs.ConflictError
		notFound   *errs.NotFoundError
		payment    *errs.PaymentFailedError
		timeout    *errs.TimeoutError
	)

	switch {
	case errs.As(err, &payment):
		detail := gin.H{"bookingId": payment.BookingID, "reference": payment.Reference}
		if errs.Is(err, errs.ErrTimeout) {
			return http.StatusGatewayTimeout, "Payment gateway timed out", detail
		}
		return http.StatusPaymentRequired, "Payment failed", detail
	case errs.As(err, &validation):
		return http.StatusBadRequest, "Validation failed", gin.H{"field": validation.Field, "reason": validation.Reason}
	case errs.Is(err, errs.ErrForbidden):
		return http.StatusForbidden, "Forbidden", nil
	case errs.As(err, &notFound):
		return http.StatusNotFound, "Not found", gin.H{"entity": notFound.Entity, "id": notFound.ID}
	case errs.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, "Not found", nil
	case errs.As(err, &transition):
		return http.StatusConflict, "Illegal transition", gin.H{"entity": transition.Entity, "from": transition.From, "to": transition.To}
	case errs.As(err, &state):
		return http.StatusConflict, "Invalid state", gin.H{"operation": state.Operation, "current": state.Current}
	case errs.As(err, &conflict):
		return http.StatusConflict, "Conflict", gin.H{"reason": conflict.Reason}
	case errs.Is(err, errs.ErrConflict):
		return http.StatusConflict, "Conflict", nil
	case errs.As(err, &timeout):
		return http.StatusGatewayTimeout, "Upstream timed out", gin.H{"collaborator": timeout.Collaborator}
	default:
		return http.StatusInternalServerError, internalMessage, nil
	}
}
