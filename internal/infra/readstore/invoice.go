package readstore

import (
	"context"

	"servicebay/internal/infra"
	"servicebay/internal/infra/db"
	"servicebay/internal/pkg/pgconv"
	"servicebay/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const invoiceViewSelect = `
SELECT i.id, i.number, i.booking_id, i.payment_id, b.customer_id, u.name, b.kind,
	p.method, p.reference, p.card_last4, i.subtotal_cents, i.tax_cents, i.total_cents, i.issued_at
FROM invoices i
JOIN payments p ON p.id = i.payment_id
JOIN bookings b ON b.id = i.booking_id
JOIN users u ON u.id = b.customer_id`

type InvoiceReadStore struct {
	db db.DBTX
}

func NewInvoiceReadStore(dbtx db.DBTX) *InvoiceReadStore {
	return &InvoiceReadStore{db: dbtx}
}

func (r *InvoiceReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.InvoiceView, error) {
	return r.findOne(ctx, invoiceViewSelect+` WHERE i.id = $1`, id)
}

func (r *InvoiceReadStore) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*queries.InvoiceView, error) {
	return r.findOne(ctx, invoiceViewSelect+` WHERE i.booking_id = $1`, bookingID)
}

func (r *InvoiceReadStore) findOne(ctx context.Context, query string, arg uuid.UUID) (*queries.InvoiceView, error) {
	var (
		v     queries.InvoiceView
		last4 pgtype.Text
	)
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&v.ID, &v.Number, &v.BookingID, &v.PaymentID, &v.CustomerID, &v.CustomerName, &v.Kind,
		&v.Method, &v.Reference, &last4, &v.SubtotalCents, &v.TaxCents, &v.TotalCents, &v.IssuedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("invoice not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get invoice view", err)
	}
	v.CardLast4 = pgconv.TextOrEmpty(last4)
	return &v, nil
}
