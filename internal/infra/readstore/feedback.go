package readstore

import (
	"context"

	"servicebay/internal/infra"
	"servicebay/internal/infra/db"
	"servicebay/internal/usecase/queries"

	"github.com/google/uuid"
)

const feedbackViewSelect = `
SELECT id, booking_id, customer_id, rating, comment, created_at
FROM feedback WHERE booking_id = $1`

type FeedbackReadStore struct {
	db db.DBTX
}

func NewFeedbackReadStore(dbtx db.DBTX) *FeedbackReadStore {
	return &FeedbackReadStore{db: dbtx}
}

func (r *FeedbackReadStore) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*queries.FeedbackView, error) {
	var (
		v      queries.FeedbackView
		rating int16
	)
	err := r.db.QueryRow(ctx, feedbackViewSelect, bookingID).Scan(&v.ID, &v.BookingID, &v.CustomerID, &rating, &v.Comment, &v.CreatedAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("feedback not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get feedback view", err)
	}
	v.Rating = int32(rating)
	return &v, nil
}
