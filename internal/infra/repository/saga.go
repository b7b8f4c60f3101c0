package repository

import (
	"context"

	"servicebay/internal/domain/booking"
	"servicebay/internal/domain/pricing"
	"servicebay/internal/infra"
	"servicebay/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	upsertSagaSQL = `
INSERT INTO booking_sagas (booking_id, step, reference, method, amount_cents, provider_payment_id,
	card_last4, created_by, notes, last_error, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (booking_id) DO UPDATE
SET step = EXCLUDED.step,
	reference = EXCLUDED.reference,
	method = EXCLUDED.method,
	amount_cents = EXCLUDED.amount_cents,
	provider_payment_id = EXCLUDED.provider_payment_id,
	card_last4 = EXCLUDED.card_last4,
	created_by = EXCLUDED.created_by,
	notes = EXCLUDED.notes,
	last_error = EXCLUDED.last_error,
	updated_at = EXCLUDED.updated_at`

	selectSagaSQL = `
SELECT booking_id, step, reference, method, amount_cents, provider_payment_id,
	card_last4, created_by, notes, last_error, updated_at
FROM booking_sagas`

	selectSagaByBookingSQL   = selectSagaSQL + ` WHERE booking_id = $1`
	selectSagaByReferenceSQL = selectSagaSQL + ` WHERE reference = $1`
)

type SagaRepository struct {
	db db.DBTX
}

func NewSagaRepository(dbtx db.DBTX) *SagaRepository {
	return &SagaRepository{db: dbtx}
}

func (r *SagaRepository) Save(ctx context.Context, s booking.Saga) error {
	_, err := r.db.Exec(ctx, upsertSagaSQL,
		s.BookingID, s.Step.String(), s.Reference, s.Method, s.Amount.Cents(), s.ProviderPaymentID,
		s.CardLast4, s.CreatedBy, s.Notes, s.LastError, s.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save booking saga", err)
	}
	return nil
}

func (r *SagaRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*booking.Saga, error) {
	return r.findOne(ctx, selectSagaByBookingSQL, bookingID)
}

// FindByReference matches only non-empty references; the column is unique among those.
func (r *SagaRepository) FindByReference(ctx context.Context, reference string) (*booking.Saga, error) {
	if reference == "" {
		return nil, infra.WrapRepoErr("booking saga not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return r.findOne(ctx, selectSagaByReferenceSQL, reference)
}

func (r *SagaRepository) findOne(ctx context.Context, query string, arg any) (*booking.Saga, error) {
	var (
		s      booking.Saga
		step   string
		amount int64
	)
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&s.BookingID, &step, &s.Reference, &s.Method, &amount, &s.ProviderPaymentID,
		&s.CardLast4, &s.CreatedBy, &s.Notes, &s.LastError, &s.UpdatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking saga not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get booking saga", err)
	}
	s.Step = booking.SagaStep(step)
	s.Amount = pricing.Money(amount)
	s.UpdatedAt = s.UpdatedAt.UTC()
	return &s, nil
}
