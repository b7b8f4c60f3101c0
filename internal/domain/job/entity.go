package job

import (
	"strings"
	"time"

	"servicebay/internal/pkg/errs"

	"github.com/google/uuid"
)

const MaxNotesLength = 1000

type Job struct {
	id           uuid.UUID
	bookingID    uuid.UUID
	technicianID uuid.UUID
	status       Status
	notes        string
	version      int32
	assignedAt   time.Time
	updatedAt    time.Time
}

func NewJob(bookingID, technicianID uuid.UUID, notes string, now time.Time) (*Job, error) {
	if bookingID == uuid.Nil {
		return nil, errs.NewValidation("bookingId", "is required")
	}
	if technicianID == uuid.Nil {
		return nil, errs.NewValidation("technicianId", "is required")
	}
	notes = strings.TrimSpace(notes)
	if len(notes) > MaxNotesLength {
		return nil, errs.NewValidation("notes", "must be at most 1000 characters")
	}
	return &Job{
		id:           uuid.New(),
		bookingID:    bookingID,
		technicianID: technicianID,
		status:       StatusQueued,
		notes:        notes,
		version:      1,
		assignedAt:   now,
		updatedAt:    now,
	}, nil
}

func ReconstructJob(id, bookingID, technicianID uuid.UUID, status Status, notes string, version int32, assignedAt, updatedAt time.Time) *Job {
	return &Job{
		id:           id,
		bookingID:    bookingID,
		technicianID: technicianID,
		status:       status,
		notes:        notes,
		version:      version,
		assignedAt:   assignedAt,
		updatedAt:    updatedAt,
	}
}

func (j *Job) TransitionTo(target Status, now time.Time) error {
	if !target.IsValid() || !j.status.CanTransitionTo(target) {
		return errs.NewIllegalTransition("job", j.status.String(), target.String())
	}
	j.status = target
	j.updatedAt = now
	return nil
}

func (j *Job) ID() uuid.UUID           { return j.id }
func (j *Job) BookingID() uuid.UUID    { return j.bookingID }
func (j *Job) TechnicianID() uuid.UUID { return j.technicianID }
func (j *Job) Status() Status          { return j.status }
func (j *Job) Notes() string           { return j.notes }
func (j *Job) Version() int32          { return j.version }
func (j *Job) AssignedAt() time.Time   { return j.assignedAt }
func (j *Job) UpdatedAt() time.Time    { return j.updatedAt }
