package queries

import (
	"context"
	"time"

	"servicebay/internal/domain/auth"

	"github.com/google/uuid"
)

type BookingReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BookingView, error)
	List(ctx context.Context, filter BookingFilter, after *Keyset, limit int32) ([]*BookingView, error)
	FindSaga(ctx context.Context, bookingID uuid.UUID) (*SagaView, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, s *auth.Session, id uuid.UUID) (*BookingView, error)
	List(ctx context.Context, s *auth.Session, filter BookingFilter, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error)
	GetSaga(ctx context.Context, s *auth.Session, bookingID uuid.UUID) (*SagaView, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
}

func NewBookingQueries(store BookingReadStore) BookingQueries {
	return &bookingQueriesImpl{store: store}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, s *auth.Session, id uuid.UUID) (*BookingView, error) {
	v, err := q.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "booking", id)
	}
	if _, err := auth.Authorize(s, auth.ActionBookingRead, bookingResource(v)); err != nil {
		return nil, err
	}
	return v, nil
}

// List scopes customers to their own bookings and technicians to bookings they work on.
func (q *bookingQueriesImpl) List(ctx context.Context, s *auth.Session, filter BookingFilter, cursor *Cursor, limit int) ([]*BookingView, *Cursor, error) {
	p, err := auth.Authorize(s, auth.ActionBookingList, auth.Resource{})
	if err != nil {
		return nil, nil, err
	}
	switch p.Role {
	case auth.RoleCustomer:
		filter.CustomerID = &p.UserID
	case auth.RoleTechnician:
		filter.TechnicianID = &p.UserID
	}

	after, err := decodeCursor(cursor)
	if err != nil {
		return nil, nil, err
	}
	limit = ValidateLimit(limit)
	rows, err := q.store.List(ctx, filter, after, int32(limit+1))
	if err != nil {
		return nil, nil, err
	}
	rows, next := page(rows, limit, func(v *BookingView) (time.Time, uuid.UUID) { return v.CreatedAt, v.ID })
	return rows, next, nil
}

func (q *bookingQueriesImpl) GetSaga(ctx context.Context, s *auth.Session, bookingID uuid.UUID) (*SagaView, error) {
	if _, err := q.GetByID(ctx, s, bookingID); err != nil {
		return nil, err
	}
	v, err := q.store.FindSaga(ctx, bookingID)
	if err != nil {
		return nil, notFound(err, "booking saga", bookingID)
	}
	return v, nil
}

func bookingResource(v *BookingView) auth.Resource {
	r := auth.Resource{OwnerID: v.CustomerID}
	if v.AssignedTechnicianID != nil {
		r.AssigneeID = *v.AssignedTechnicianID
	}
	return r
}
