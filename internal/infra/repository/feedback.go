package repository

import (
	"context"
	"time"

	"servicebay/internal/domain/feedback"
	"servicebay/internal/infra"
	"servicebay/internal/infra/db"

	"github.com/google/uuid"
)

const (
	// The status guard and the insert are one statement, so a booking that
	// leaves COMPLETED concurrently cannot receive feedback.
	insertFeedbackIfCompletedSQL = `
INSERT INTO feedback (id, booking_id, customer_id, rating, comment, created_at)
SELECT $1, b.id, $3, $4, $5, $6
FROM bookings b
WHERE b.id = $2 AND b.status = 'COMPLETED'
ON CONFLICT (booking_id) DO NOTHING`

	selectFeedbackByBookingSQL = `
SELECT id, booking_id, customer_id, rating, comment, created_at
FROM feedback WHERE booking_id = $1`
)

type FeedbackRepository struct {
	db db.DBTX
}

func NewFeedbackRepository(dbtx db.DBTX) *FeedbackRepository {
	return &FeedbackRepository{db: dbtx}
}

func (r *FeedbackRepository) InsertIfCompleted(ctx context.Context, f *feedback.Feedback) (bool, error) {
	tag, err := r.db.Exec(ctx, insertFeedbackIfCompletedSQL,
		f.ID(), f.BookingID(), f.CustomerID(), f.Rating().Value(), f.Comment().String(), f.CreatedAt(),
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to insert feedback", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *FeedbackRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*feedback.Feedback, error) {
	var (
		id, bID, customerID uuid.UUID
		rating              int16
		comment             string
		createdAt           time.Time
	)
	err := r.db.QueryRow(ctx, selectFeedbackByBookingSQL, bookingID).Scan(&id, &bID, &customerID, &rating, &comment, &createdAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("feedback not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get feedback by booking", err)
	}
	return feedback.ReconstructFeedback(id, bID, customerID, int(rating), comment, createdAt.UTC()), nil
}
