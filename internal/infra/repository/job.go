package repository

import (
	"context"
	"time"

	"servicebay/internal/domain/auth"
	"servicebay/internal/domain/job"
	"servicebay/internal/infra"
	"servicebay/internal/infra/db"
	"servicebay/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	insertJobSQL = `
INSERT INTO jobs (id, booking_id, technician_id, status, notes, version, assigned_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	updateJobStatusSQL = `
UPDATE jobs
SET status = $2, version = version + 1, updated_at = $3
WHERE id = $1 AND status = $4 AND version = $5`

	jobColumns = `id, booking_id, technician_id, status, notes, version, assigned_at, updated_at`

	selectJobByIDSQL        = `SELECT ` + jobColumns + ` FROM jobs WHERE id = $1`
	selectJobByIDForUpdate  = selectJobByIDSQL + ` FOR UPDATE`
	selectJobByBookingIDSQL = `SELECT ` + jobColumns + ` FROM jobs WHERE booking_id = $1`

	countOpenJobsSQL = `
SELECT count(*) FROM jobs
WHERE technician_id = $1 AND status = ANY($2)`

	lockTechnicianSQL = `
SELECT id, name, role, is_active FROM users WHERE id = $1 FOR UPDATE`
)

type JobRepository struct {
	db   db.DBTX
	lock bool
}

func NewJobRepository(dbtx db.DBTX) *JobRepository {
	return &JobRepository{db: dbtx}
}

func NewLockingJobRepository(dbtx db.DBTX) *JobRepository {
	return &JobRepository{db: dbtx, lock: true}
}

func (r *JobRepository) Create(ctx context.Context, j *job.Job) error {
	_, err := r.db.Exec(ctx, insertJobSQL,
		j.ID(), j.BookingID(), j.TechnicianID(), j.Status().String(), j.Notes(), j.Version(), j.AssignedAt(), j.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create job", err)
	}
	return nil
}

func (r *JobRepository) UpdateStatus(ctx context.Context, j *job.Job, from job.Status, expectedVersion int32) (bool, error) {
	tag, err := r.db.Exec(ctx, updateJobStatusSQL, j.ID(), j.Status().String(), j.UpdatedAt(), from.String(), expectedVersion)
	if err != nil {
		return false, infra.WrapRepoErr("failed to update job status", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *JobRepository) FindByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	query := selectJobByIDSQL
	if r.lock {
		query = selectJobByIDForUpdate
	}
	return r.findOne(ctx, query, id)
}

func (r *JobRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*job.Job, error) {
	return r.findOne(ctx, selectJobByBookingIDSQL, bookingID)
}

func (r *JobRepository) CountOpenByTechnician(ctx context.Context, technicianID uuid.UUID) (int, error) {
	open := job.OpenStatuses()
	names := make([]string, len(open))
	for i, s := range open {
		names[i] = s.String()
	}
	var n int
	if err := r.db.QueryRow(ctx, countOpenJobsSQL, technicianID, names).Scan(&n); err != nil {
		return 0, infra.WrapRepoErr("failed to count open jobs", err)
	}
	return n, nil
}

func (r *JobRepository) LockTechnician(ctx context.Context, technicianID uuid.UUID) (*shared.TechnicianSnapshot, error) {
	var (
		snap shared.TechnicianSnapshot
		role string
	)
	err := r.db.QueryRow(ctx, lockTechnicianSQL, technicianID).Scan(&snap.ID, &snap.Name, &role, &snap.Active)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("technician not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to lock technician", err)
	}
	snap.Role = auth.Role(role)
	return &snap, nil
}

func (r *JobRepository) findOne(ctx context.Context, query string, arg any) (*job.Job, error) {
	var (
		id, bookingID, techID uuid.UUID
		status, notes         string
		version               int32
		assignedAt, updatedAt time.Time
	)
	err := r.db.QueryRow(ctx, query, arg).Scan(&id, &bookingID, &techID, &status, &notes, &version, &assignedAt, &updatedAt)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("job not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get job", err)
	}
	return job.ReconstructJob(id, bookingID, techID, job.Status(status), notes, version, assignedAt.UTC(), updatedAt.UTC()), nil
}
