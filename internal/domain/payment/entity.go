package payment

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"servicebay/internal/domain/pricing"

	"github.com/google/uuid"
)

type Payment struct {
	id                uuid.UUID
	bookingID         uuid.UUID
	method            Method
	amount            pricing.Money
	reference         string
	providerPaymentID string
	cardLast4         string
	createdBy         string
	notes             string
	createdAt         time.Time
}

func NewPayment(bookingID uuid.UUID, ins Instrument, reference, providerPaymentID string, now time.Time) *Payment {
	return &Payment{
		id:                uuid.New(),
		bookingID:         bookingID,
		method:            ins.Method,
		amount:            ins.Amount,
		reference:         reference,
		providerPaymentID: providerPaymentID,
		cardLast4:         ins.CardLast4,
		createdBy:         ins.CreatedBy,
		notes:             ins.Notes,
		createdAt:         now,
	}
}

func ReconstructPayment(id, bookingID uuid.UUID, method Method, amount pricing.Money, reference, providerPaymentID, cardLast4, createdBy, notes string, createdAt time.Time) *Payment {
	return &Payment{
		id:                id,
		bookingID:         bookingID,
		method:            method,
		amount:            amount,
		reference:         reference,
		providerPaymentID: providerPaymentID,
		cardLast4:         cardLast4,
		createdBy:         createdBy,
		notes:             notes,
		createdAt:         createdAt,
	}
}

func (p *Payment) ID() uuid.UUID             { return p.id }
func (p *Payment) BookingID() uuid.UUID      { return p.bookingID }
func (p *Payment) Method() Method            { return p.method }
func (p *Payment) Amount() pricing.Money     { return p.amount }
func (p *Payment) Reference() string         { return p.reference }
func (p *Payment) ProviderPaymentID() string { return p.providerPaymentID }
func (p *Payment) CardLast4() string         { return p.cardLast4 }
func (p *Payment) CreatedBy() string         { return p.createdBy }
func (p *Payment) Notes() string             { return p.notes }
func (p *Payment) CreatedAt() time.Time      { return p.createdAt }

type Invoice struct {
	id        uuid.UUID
	bookingID uuid.UUID
	paymentID uuid.UUID
	number    string
	subtotal  pricing.Money
	tax       pricing.Money
	total     pricing.Money
	issuedAt  time.Time
}

// NewInvoice is only reachable with a persisted payment in hand.
func NewInvoice(p *Payment, quote pricing.Quote, now time.Time) *Invoice {
	return &Invoice{
		id:        uuid.New(),
		bookingID: p.BookingID(),
		paymentID: p.ID(),
		number:    InvoiceNumber(now),
		subtotal:  quote.Subtotal,
		tax:       quote.Tax,
		total:     quote.Total,
		issuedAt:  now,
	}
}

func ReconstructInvoice(id, bookingID, paymentID uuid.UUID, number string, subtotal, tax, total pricing.Money, issuedAt time.Time) *Invoice {
	return &Invoice{
		id:        id,
		bookingID: bookingID,
		paymentID: paymentID,
		number:    number,
		subtotal:  subtotal,
		tax:       tax,
		total:     total,
		issuedAt:  issuedAt,
	}
}

func (i *Invoice) ID() uuid.UUID           { return i.id }
func (i *Invoice) BookingID() uuid.UUID    { return i.bookingID }
func (i *Invoice) PaymentID() uuid.UUID    { return i.paymentID }
func (i *Invoice) Number() string          { return i.number }
func (i *Invoice) Subtotal() pricing.Money { return i.subtotal }
func (i *Invoice) Tax() pricing.Money      { return i.tax }
func (i *Invoice) Total() pricing.Money    { return i.total }
func (i *Invoice) IssuedAt() time.Time     { return i.issuedAt }

func InvoiceNumber(now time.Time) string {
	return fmt.Sprintf("INV-%s-%s", now.UTC().Format("20060102"), randomHex(3))
}

// NewReference builds the idempotency reference for a capture attempt.
func NewReference(bookingID uuid.UUID) string {
	return fmt.Sprintf("BK-%s-%s", bookingID.String()[:8], randomHex(6))
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("%0*x", n*2, time.Now().UnixNano())[:n*2]
	}
	return hex.EncodeToString(b)
}
