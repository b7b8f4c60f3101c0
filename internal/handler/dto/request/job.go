package request

import (
	"servicebay/internal/usecase/commands"

	"github.com/google/uuid"
)

type AssignJobRequest struct {
	BookingID    uuid.UUID `json:"bookingId" binding:"required"`
	TechnicianID uuid.UUID `json:"technicianId" binding:"required"`
	Notes        string    `json:"notes" binding:"max=500"`
}

func (r *AssignJobRequest) ToCommand() commands.AssignJobCommand {
	return commands.AssignJobCommand{
		BookingID:    r.BookingID,
		TechnicianID: r.TechnicianID,
		Notes:        r.Notes,
	}
}
