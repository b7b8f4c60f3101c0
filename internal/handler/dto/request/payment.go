package request

import (
	"servicebay/internal/domain/payment"
	"servicebay/internal/usecase/commands"

	"github.com/google/uuid"
)

type CapturePaymentRequest struct {
	BookingID uuid.UUID `json:"bookingId" binding:"required"`
	Reference string    `json:"reference" binding:"max=64"`
	PaymentRequest
}

func (r *PaymentRequest) ToInput() payment.Input {
	return payment.Input{
		Method:     r.Method,
		Total:      r.Total,
		CardNumber: r.CardNumber,
		Expiry:     r.Expiry,
		CVV:        r.CVV,
		Token:      r.Token,
		CreatedBy:  r.CreatedBy,
		Notes:      r.Notes,
	}
}

func (r *CapturePaymentRequest) ToCommand() commands.CapturePaymentCommand {
	return commands.CapturePaymentCommand{
		BookingID: r.BookingID,
		Reference: r.Reference,
		Payment:   r.PaymentRequest.ToInput(),
	}
}
