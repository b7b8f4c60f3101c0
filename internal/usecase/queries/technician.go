package queries

import (
	"context"

	"servicebay/internal/domain/auth"
	"servicebay/internal/domain/job"
	"servicebay/internal/pkg/errs"
)

type TechnicianReadStore interface {
	List(ctx context.Context) ([]*TechnicianView, error)
}

type TechnicianQueries interface {
	List(ctx context.Context, s *auth.Session, availability *string) ([]*TechnicianView, error)
}

type technicianQueriesImpl struct {
	store TechnicianReadStore
}

func NewTechnicianQueries(store TechnicianReadStore) TechnicianQueries {
	return &technicianQueriesImpl{store: store}
}

// List derives availability from the open job count; availability filters the result.
func (q *technicianQueriesImpl) List(ctx context.Context, s *auth.Session, availability *string) ([]*TechnicianView, error) {
	if _, err := auth.Authorize(s, auth.ActionTechnicianList, auth.Resource{}); err != nil {
		return nil, err
	}
	if availability != nil {
		switch job.Availability(*availability) {
		case job.Available, job.Busy:
		default:
			return nil, errs.NewValidation("availability", "must be AVAILABLE or BUSY")
		}
	}

	rows, err := q.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*TechnicianView, 0, len(rows))
	for _, t := range rows {
		t.Availability = string(job.Available)
		if t.OpenJobs > 0 {
			t.Availability = string(job.Busy)
		}
		if availability != nil && t.Availability != *availability {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}
