package readstore

import (
	"context"

	"servicebay/internal/infra"
	"servicebay/internal/infra/db"
	"servicebay/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobViewSelect = `
SELECT j.id, j.booking_id, j.technician_id, u.name, b.customer_id, b.status,
	j.status, j.notes, j.version, j.assigned_at, j.updated_at
FROM jobs j
JOIN users u ON u.id = j.technician_id
JOIN bookings b ON b.id = j.booking_id`

type JobReadStore struct {
	db db.DBTX
}

func NewJobReadStore(dbtx db.DBTX) *JobReadStore {
	return &JobReadStore{db: dbtx}
}

func (r *JobReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.JobView, error) {
	v, err := scanJobView(r.db.QueryRow(ctx, jobViewSelect+` WHERE j.id = $1`, id))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("job not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get job view by id", err)
	}
	return v, nil
}

func (r *JobReadStore) List(ctx context.Context, f queries.JobFilter, after *queries.Keyset, limit int32) ([]*queries.JobView, error) {
	var w where
	if f.TechnicianID != nil {
		w.add("j.technician_id = $%d", *f.TechnicianID)
	}
	if f.BookingID != nil {
		w.add("j.booking_id = $%d", *f.BookingID)
	}
	if f.Status != nil {
		w.add("j.status = $%d", *f.Status)
	}
	w.keyset("j.assigned_at", "j.id", after)

	query := jobViewSelect + w.sql() + " ORDER BY j.assigned_at DESC, j.id DESC" + w.limit(limit)
	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list jobs", err)
	}
	defer rows.Close()

	var out []*queries.JobView
	for rows.Next() {
		v, err := scanJobView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan job view", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate jobs", err)
	}
	return out, nil
}

func scanJobView(row pgx.Row) (*queries.JobView, error) {
	var v queries.JobView
	if err := row.Scan(
		&v.ID, &v.BookingID, &v.TechnicianID, &v.TechnicianName, &v.CustomerID, &v.BookingStatus,
		&v.Status, &v.Notes, &v.Version, &v.AssignedAt, &v.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &v, nil
}
