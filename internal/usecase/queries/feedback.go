package queries

import (
	"context"

	"servicebay/internal/domain/auth"

	"github.com/google/uuid"
)

type FeedbackReadStore interface {
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*FeedbackView, error)
}

type FeedbackQueries interface {
	GetByBooking(ctx context.Context, s *auth.Session, bookingID uuid.UUID) (*FeedbackView, error)
}

type feedbackQueriesImpl struct {
	store    FeedbackReadStore
	bookings BookingReadStore
}

func NewFeedbackQueries(store FeedbackReadStore, bookings BookingReadStore) FeedbackQueries {
	return &feedbackQueriesImpl{store: store, bookings: bookings}
}

func (q *feedbackQueriesImpl) GetByBooking(ctx context.Context, s *auth.Session, bookingID uuid.UUID) (*FeedbackView, error) {
	b, err := q.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, "booking", bookingID)
	}
	if _, err := auth.Authorize(s, auth.ActionFeedbackRead, bookingResource(b)); err != nil {
		return nil, err
	}
	v, err := q.store.FindByBookingID(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, "feedback for booking", bookingID)
	}
	return v, nil
}
