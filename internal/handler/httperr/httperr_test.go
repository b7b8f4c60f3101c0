//go:build unit

package httperr_test

import (
	"net/http"
	"testing"

	"servicebay/internal/handler/httperr"
	"servicebay/internal/pkg/errs"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	timeout := errs.NewTimeout("payment gateway")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		wantDetail any
	}{
		{
			name:       "payment declined",
			err:        &errs.PaymentFailedError{BookingID: "b-1", Reference: "REF-1", Cause: errs.New("rejected")},
			wantStatus: http.StatusPaymentRequired,
			wantMsg:    "Payment failed",
			wantDetail: gin.H{"bookingId": "b-1", "reference": "REF-1"},
		},
		{
			name:       "payment gateway timeout",
			err:        &errs.PaymentFailedError{BookingID: "b-2", Reference: "REF-2", Cause: timeout},
			wantStatus: http.StatusGatewayTimeout,
			wantMsg:    "Payment gateway timed out",
			wantDetail: gin.H{"bookingId": "b-2", "reference": "REF-2"},
		},
		{
			name:       "wrapped validation",
			err:        errs.Wrap(errs.NewValidation("cvv", "must be 3 or 4 digits"), "submit"),
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Validation failed",
			wantDetail: gin.H{"field": "cvv", "reason": "must be 3 or 4 digits"},
		},
		{
			name:       "forbidden",
			err:        errs.NewForbidden("booking.edit"),
			wantStatus: http.StatusForbidden,
			wantMsg:    "Forbidden",
		},
		{
			name:       "not found",
			err:        errs.NewNotFound("booking", "42"),
			wantStatus: http.StatusNotFound,
			wantMsg:    "Not found",
			wantDetail: gin.H{"entity": "booking", "id": "42"},
		},
		{
			name:       "illegal transition",
			err:        errs.NewIllegalTransition("job", "DONE", "QUEUED"),
			wantStatus: http.StatusConflict,
			wantMsg:    "Illegal transition",
			wantDetail: gin.H{"entity": "job", "from": "DONE", "to": "QUEUED"},
		},
		{
			name:       "invalid state",
			err:        errs.NewInvalidState("edit booking", "CONFIRMED"),
			wantStatus: http.StatusConflict,
			wantMsg:    "Invalid state",
			wantDetail: gin.H{"operation": "edit booking", "current": "CONFIRMED"},
		},
		{
			name:       "conflict",
			err:        errs.NewConflict("reference already used"),
			wantStatus: http.StatusConflict,
			wantMsg:    "Conflict",
			wantDetail: gin.H{"reason": "reference already used"},
		},
		{
			name:       "collaborator timeout",
			err:        errs.Wrap(errs.NewTimeout("directory"), "quote"),
			wantStatus: http.StatusGatewayTimeout,
			wantMsg:    "Upstream timed out",
			wantDetail: gin.H{"collaborator": "directory"},
		},
		{
			name:       "unclassified",
			err:        errs.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg, detail := httperr.Classify(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantMsg, msg)
			if tt.wantDetail == nil {
				assert.Nil(t, detail)
			} else {
				assert.Equal(t, tt.wantDetail, detail)
			}
		})
	}
}
