package response

import (
	"time"

	"servicebay/internal/domain/pricing"
	"servicebay/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type PaymentResponse struct {
	ID        uuid.UUID `json:"id"`
	BookingID uuid.UUID `json:"bookingId"`
	Reference string    `json:"reference"`
	Method    string    `json:"method"`
	CardLast4 string    `json:"cardLast4,omitempty"`
	Amount    float64   `json:"amount"`
	Replayed  bool      `json:"isReplayed"`
}

// FromInvoicePayment derives the payment summary from the invoice read model,
// which carries the payment's method, reference and amount.
func FromInvoicePayment(v *queries.InvoiceView, replayed bool) *PaymentResponse {
	return &PaymentResponse{
		ID:        v.PaymentID,
		BookingID: v.BookingID,
		Reference: v.Reference,
		Method:    v.Method,
		CardLast4: v.CardLast4,
		Amount:    pricing.Money(v.TotalCents).Float64(),
		Replayed:  replayed,
	}
}

type InvoiceResponse struct {
	ID           uuid.UUID `json:"id"`
	Number       string    `json:"number"`
	BookingID    uuid.UUID `json:"bookingId"`
	PaymentID    uuid.UUID `json:"paymentId"`
	CustomerID   uuid.UUID `json:"customerId"`
	CustomerName string    `json:"customerName"`
	Kind         string    `json:"kind"`
	Subtotal     float64   `json:"subtotal"`
	Tax          float64   `json:"tax"`
	Total        float64   `json:"total"`
	IssuedAt     time.Time `json:"issuedAt"`
}

func FromInvoiceView(v *queries.InvoiceView) *InvoiceResponse {
	res := &InvoiceResponse{}
	_ = copier.Copy(res, v)
	res.Subtotal = pricing.Money(v.SubtotalCents).Float64()
	res.Tax = pricing.Money(v.TaxCents).Float64()
	res.Total = pricing.Money(v.TotalCents).Float64()
	return res
}

type CapturePaymentResponse struct {
	Payment *PaymentResponse `json:"payment"`
	Invoice *InvoiceResponse `json:"invoice"`
}
