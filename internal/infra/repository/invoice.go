package repository

import (
	"context"
	"time"

	"servicebay/internal/domain/payment"
	"servicebay/internal/domain/pricing"
	"servicebay/internal/infra"
	"servicebay/internal/infra/db"

	"github.com/google/uuid"
)

const (
	insertInvoiceSQL = `
INSERT INTO invoices (id, number, booking_id, payment_id, subtotal_cents, tax_cents, total_cents, issued_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	selectInvoiceByPaymentSQL = `
SELECT id, number, booking_id, payment_id, subtotal_cents, tax_cents, total_cents, issued_at
FROM invoices WHERE payment_id = $1`
)

type InvoiceRepository struct {
	db db.DBTX
}

func NewInvoiceRepository(dbtx db.DBTX) *InvoiceRepository {
	return &InvoiceRepository{db: dbtx}
}

func (r *InvoiceRepository) Create(ctx context.Context, inv *payment.Invoice) error {
	_, err := r.db.Exec(ctx, insertInvoiceSQL,
		inv.ID(), inv.Number(), inv.BookingID(), inv.PaymentID(),
		inv.Subtotal().Cents(), inv.Tax().Cents(), inv.Total().Cents(), inv.IssuedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create invoice", err)
	}
	return nil
}

func (r *InvoiceRepository) FindByPaymentID(ctx context.Context, paymentID uuid.UUID) (*payment.Invoice, error) {
	var (
		id, bookingID, payID uuid.UUID
		number               string
		subtotal, tax, total int64
		issuedAt             time.Time
	)
	err := r.db.QueryRow(ctx, selectInvoiceByPaymentSQL, paymentID).Scan(
		&id, &number, &bookingID, &payID, &subtotal, &tax, &total, &issuedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("invoice not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get invoice by payment", err)
	}
	return payment.ReconstructInvoice(id, bookingID, payID, number,
		pricing.Money(subtotal), pricing.Money(tax), pricing.Money(total), issuedAt.UTC()), nil
}
