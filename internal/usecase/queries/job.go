package queries

import (
	"context"
	"time"

	"servicebay/internal/domain/auth"

	"github.com/google/uuid"
)

type JobReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*JobView, error)
	List(ctx context.Context, filter JobFilter, after *Keyset, limit int32) ([]*JobView, error)
}

type JobQueries interface {
	GetByID(ctx context.Context, s *auth.Session, id uuid.UUID) (*JobView, error)
	List(ctx context.Context, s *auth.Session, filter JobFilter, cursor *Cursor, limit int) ([]*JobView, *Cursor, error)
}

type jobQueriesImpl struct {
	store JobReadStore
}

func NewJobQueries(store JobReadStore) JobQueries {
	return &jobQueriesImpl{store: store}
}

func (q *jobQueriesImpl) GetByID(ctx context.Context, s *auth.Session, id uuid.UUID) (*JobView, error) {
	v, err := q.store.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "job", id)
	}
	if _, err := auth.Authorize(s, auth.ActionJobRead, auth.Resource{OwnerID: v.CustomerID, AssigneeID: v.TechnicianID}); err != nil {
		return nil, err
	}
	return v, nil
}

func (q *jobQueriesImpl) List(ctx context.Context, s *auth.Session, filter JobFilter, cursor *Cursor, limit int) ([]*JobView, *Cursor, error) {
	p, err := auth.Authorize(s, auth.ActionJobList, auth.Resource{})
	if err != nil {
		return nil, nil, err
	}
	if p.Role == auth.RoleTechnician {
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
	rows, next := page(rows, limit, func(v *JobView) (time.Time, uuid.UUID) { return v.AssignedAt, v.ID })
	return rows, next, nil
}
