package repository

import (
	"context"
	"time"

	"servicebay/internal/domain/payment"
	"servicebay/internal/domain/pricing"
	"servicebay/internal/infra"
	"servicebay/internal/infra/db"
	"servicebay/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	insertPaymentSQL = `
INSERT INTO payments (id, booking_id, method, amount_cents, reference, provider_payment_id,
	card_last4, created_by, notes, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	paymentColumns = `id, booking_id, method, amount_cents, reference, provider_payment_id,
	card_last4, created_by, notes, created_at`

	selectPaymentByReferenceSQL = `SELECT ` + paymentColumns + ` FROM payments WHERE reference = $1`
	selectPaymentByBookingSQL   = `SELECT ` + paymentColumns + ` FROM payments WHERE booking_id = $1`
)

type PaymentRepository struct {
	db db.DBTX
}

func NewPaymentRepository(dbtx db.DBTX) *PaymentRepository {
	return &PaymentRepository{db: dbtx}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	_, err := r.db.Exec(ctx, insertPaymentSQL,
		p.ID(), p.BookingID(), p.Method().String(), p.Amount().Cents(), p.Reference(),
		pgconv.NullableText(p.ProviderPaymentID()), pgconv.NullableText(p.CardLast4()),
		p.CreatedBy(), p.Notes(), p.CreatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create payment", err)
	}
	return nil
}

func (r *PaymentRepository) FindByReference(ctx context.Context, reference string) (*payment.Payment, error) {
	return r.findOne(ctx, selectPaymentByReferenceSQL, reference)
}

func (r *PaymentRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*payment.Payment, error) {
	return r.findOne(ctx, selectPaymentByBookingSQL, bookingID)
}

func (r *PaymentRepository) findOne(ctx context.Context, query string, arg any) (*payment.Payment, error) {
	var (
		id, bookingID     uuid.UUID
		method, reference string
		amount            int64
		provider, last4   pgtype.Text
		createdBy, notes  string
		createdAt         time.Time
	)
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&id, &bookingID, &method, &amount, &reference, &provider, &last4, &createdBy, &notes, &createdAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("payment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get payment", err)
	}
	return payment.ReconstructPayment(
		id, bookingID, payment.Method(method), pricing.Money(amount), reference,
		pgconv.TextOrEmpty(provider), pgconv.TextOrEmpty(last4), createdBy, notes, createdAt.UTC(),
	), nil
}
