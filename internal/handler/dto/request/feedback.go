package request

import (
	"servicebay/internal/usecase/commands"

	"github.com/google/uuid"
)

// Rating bounds are enforced by the domain so the error names the field.
type SubmitFeedbackRequest struct {
	BookingID uuid.UUID `json:"bookingId" binding:"required"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment" binding:"max=1000"`
}

func (r *SubmitFeedbackRequest) ToCommand() commands.SubmitFeedbackCommand {
	return commands.SubmitFeedbackCommand{
		BookingID: r.BookingID,
		Rating:    r.Rating,
		Comment:   r.Comment,
	}
}
