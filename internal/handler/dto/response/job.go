package response

import (
	"time"

	"servicebay/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type JobResponse struct {
	ID             uuid.UUID `json:"id"`
	BookingID      uuid.UUID `json:"bookingId"`
	TechnicianID   uuid.UUID `json:"technicianId"`
	TechnicianName string    `json:"technicianName"`
	BookingStatus  string    `json:"bookingStatus"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes"`
	Version        int32     `json:"version"`
	AssignedAt     time.Time `json:"assignedAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func FromJobView(v *queries.JobView) *JobResponse {
	res := &JobResponse{}
	_ = copier.Copy(res, v)
	return res
}

func FromJobList(items []*queries.JobView) []*JobResponse {
	res := make([]*JobResponse, len(items))
	for i, it := range items {
		res[i] = FromJobView(it)
	}
	return res
}

type TechnicianResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	OpenJobs     int32     `json:"openJobs"`
	Availability string    `json:"availability"`
}

func FromTechnicianList(items []*queries.TechnicianView) []*TechnicianResponse {
	res := make([]*TechnicianResponse, 0, len(items))
	if err := copier.Copy(&res, items); err != nil {
		return []*TechnicianResponse{}
	}
	return res
}
