//go:build unit || e2e

package builder

import (
	"time"

	"servicebay/internal/domain/payment"
	"servicebay/internal/domain/pricing"
	reqdto "servicebay/internal/handler/dto/request"
	"servicebay/internal/usecase/queries"

	"github.com/google/uuid"
)

type PaymentBuilder struct {
	Method     string
	Total      float64
	CardNumber string
	Expiry     string
	CVV        string
	Token      string
	CreatedBy  string
	Notes      string
}

func NewPaymentBuilder() *PaymentBuilder {
	return &PaymentBuilder{
		Method:     payment.MethodCard.String(),
		Total:      8596.25,
		CardNumber: "4111 1111 1111 1111",
		Expiry:     "12/30",
		CVV:        "123",
		CreatedBy:  "front-desk",
		Notes:      "",
	}
}

func (p *PaymentBuilder) With(mutate func(*PaymentBuilder)) *PaymentBuilder {
	mutate(p)
	return p
}

// Build methods
func (p *PaymentBuilder) BuildInput() payment.Input {
	return payment.Input{
		Method:     p.Method,
		Total:      p.Total,
		CardNumber: p.CardNumber,
		Expiry:     p.Expiry,
		CVV:        p.CVV,
		Token:      p.Token,
		CreatedBy:  p.CreatedBy,
		Notes:      p.Notes,
	}
}

func (p *PaymentBuilder) BuildRequestDTO() reqdto.PaymentRequest {
	return reqdto.PaymentRequest{
		Method:     p.Method,
		Total:      p.Total,
		CardNumber: p.CardNumber,
		Expiry:     p.Expiry,
		CVV:        p.CVV,
		Token:      p.Token,
		CreatedBy:  p.CreatedBy,
		Notes:      p.Notes,
	}
}

func (p *PaymentBuilder) BuildCaptureRequestDTO(bookingID uuid.UUID, reference string) reqdto.CapturePaymentRequest {
	return reqdto.CapturePaymentRequest{
		BookingID:      bookingID,
		Reference:      reference,
		PaymentRequest: p.BuildRequestDTO(),
	}
}

// BuildInvoiceView returns the invoice a capture of this instrument would produce.
func (p *PaymentBuilder) BuildInvoiceView(b *BookingBuilder) *queries.InvoiceView {
	q := b.Quote()
	v := &queries.InvoiceView{
		ID:            uuid.New(),
		Number:        payment.InvoiceNumber(b.CreatedAt),
		BookingID:     b.ID,
		PaymentID:     uuid.New(),
		CustomerID:    b.CustomerID,
		CustomerName:  "Nimal Perera",
		Kind:          b.Kind.String(),
		Method:        p.Method,
		Reference:     "BK-" + b.ID.String()[:8],
		SubtotalCents: q.Subtotal.Cents(),
		TaxCents:      q.Tax.Cents(),
		TotalCents:    q.Total.Cents(),
		IssuedAt:      b.CreatedAt.Add(time.Minute),
	}
	if p.Method == payment.MethodCard.String() && len(p.CardNumber) >= 4 {
		v.CardLast4 = p.CardNumber[len(p.CardNumber)-4:]
	}
	return v
}

// Fluent builder methods
func (p *PaymentBuilder) WithMethod(m payment.Method) *PaymentBuilder {
	p.Method = m.String()
	return p
}

func (p *PaymentBuilder) WithTotal(total float64) *PaymentBuilder {
	p.Total = total
	return p
}

func (p *PaymentBuilder) WithAmount(m pricing.Money) *PaymentBuilder {
	p.Total = m.Float64()
	return p
}

func (p *PaymentBuilder) AsCash() *PaymentBuilder {
	p.Method = payment.MethodCash.String()
	p.CardNumber, p.Expiry, p.CVV = "", "", ""
	return p
}

func (p *PaymentBuilder) AsOnline(token string) *PaymentBuilder {
	p.Method = payment.MethodOnline.String()
	p.CardNumber, p.Expiry, p.CVV = "", "", ""
	p.Token = token
	return p
}
