//go:build unit || e2e

package builder

import (
	"time"

	"servicebay/internal/domain/job"
	reqdto "servicebay/internal/handler/dto/request"
	"servicebay/internal/usecase/queries"
	"servicebay/internal/usecase/shared"

	"github.com/google/uuid"
)

type JobBuilder struct {
	ID             uuid.UUID
	BookingID      uuid.UUID
	CustomerID     uuid.UUID
	TechnicianID   uuid.UUID
	TechnicianName string
	Status         job.Status
	Notes          string
	Version        int32
	AssignedAt     time.Time
}

func NewJobBuilder() *JobBuilder {
	return &JobBuilder{
		ID:             uuid.New(),
		BookingID:      uuid.New(),
		CustomerID:     uuid.New(),
		TechnicianID:   uuid.New(),
		TechnicianName: "Kasun Silva",
		Status:         job.StatusQueued,
		Notes:          "Check tyre pressure as well",
		Version:        1,
		AssignedAt:     time.Date(2026, time.March, 2, 8, 30, 0, 0, time.UTC),
	}
}

func (j *JobBuilder) With(mutate func(*JobBuilder)) *JobBuilder {
	mutate(j)
	return j
}

// Build methods
func (j *JobBuilder) BuildDomain() (*job.Job, error) {
	return job.NewJob(j.BookingID, j.TechnicianID, j.Notes, j.AssignedAt)
}

func (j *JobBuilder) Reconstruct() *job.Job {
	return job.ReconstructJob(j.ID, j.BookingID, j.TechnicianID, j.Status, j.Notes, j.Version, j.AssignedAt, j.AssignedAt)
}

func (j *JobBuilder) BuildAssignRequestDTO() reqdto.AssignJobRequest {
	return reqdto.AssignJobRequest{
		BookingID:    j.BookingID,
		TechnicianID: j.TechnicianID,
		Notes:        j.Notes,
	}
}

func (j *JobBuilder) BuildViewQuery() *queries.JobView {
	return &queries.JobView{
		ID:             j.ID,
		BookingID:      j.BookingID,
		TechnicianID:   j.TechnicianID,
		TechnicianName: j.TechnicianName,
		CustomerID:     j.CustomerID,
		BookingStatus:  "CONFIRMED",
		Status:         j.Status.String(),
		Notes:          j.Notes,
		Version:        j.Version,
		AssignedAt:     j.AssignedAt,
		UpdatedAt:      j.AssignedAt,
	}
}

func (j *JobBuilder) BuildTechnicianSnapshot() *shared.TechnicianSnapshot {
	return &shared.TechnicianSnapshot{
		ID:     j.TechnicianID,
		Name:   j.TechnicianName,
		Role:   "TECHNICIAN",
		Active: true,
	}
}

func (j *JobBuilder) BuildTechnicianView(openJobs int32) *queries.TechnicianView {
	availability := job.Available
	if openJobs > 0 {
		availability = job.Busy
	}
	return &queries.TechnicianView{
		ID:           j.TechnicianID,
		Name:         j.TechnicianName,
		Email:        "kasun@servicebay.local",
		Phone:        "+94 77 123 4567",
		OpenJobs:     openJobs,
		Availability: string(availability),
	}
}

// Fluent builder methods
func (j *JobBuilder) WithBookingID(id uuid.UUID) *JobBuilder {
	j.BookingID = id
	return j
}

func (j *JobBuilder) WithTechnicianID(id uuid.UUID) *JobBuilder {
	j.TechnicianID = id
	return j
}

func (j *JobBuilder) WithStatus(status job.Status) *JobBuilder {
	j.Status = status
	return j
}

func (j *JobBuilder) WithNotes(notes string) *JobBuilder {
	j.Notes = notes
	return j
}
