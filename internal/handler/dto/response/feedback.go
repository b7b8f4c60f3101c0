package response

import (
	"time"

	"servicebay/internal/usecase/queries"

	"github.com/google/uuid"
)

type FeedbackResponse struct {
	ID         uuid.UUID `json:"id"`
	BookingID  uuid.UUID `json:"bookingId"`
	CustomerID uuid.UUID `json:"customerId"`
	Rating     int32     `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

func FromFeedbackView(v *queries.FeedbackView) *FeedbackResponse {
	return &FeedbackResponse{
		ID:         v.ID,
		BookingID:  v.BookingID,
		CustomerID: v.CustomerID,
		Rating:     v.Rating,
		Comment:    v.Comment,
		CreatedAt:  v.CreatedAt,
	}
}
