//go:build unit || e2e

package builder

import (
	"time"

	"servicebay/internal/domain/feedback"
	reqdto "servicebay/internal/handler/dto/request"
	"servicebay/internal/usecase/queries"

	"github.com/google/uuid"
)

type FeedbackBuilder struct {
	BookingID  uuid.UUID
	CustomerID uuid.UUID
	Rating     int
	Comment    string
	CreatedAt  time.Time
}

func NewFeedbackBuilder() *FeedbackBuilder {
	return &FeedbackBuilder{
		BookingID:  uuid.New(),
		CustomerID: uuid.New(),
		Rating:     5,
		Comment:    "Quick and friendly service",
		CreatedAt:  time.Date(2026, time.March, 3, 12, 0, 0, 0, time.UTC),
	}
}

func (f *FeedbackBuilder) With(mutate func(*FeedbackBuilder)) *FeedbackBuilder {
	mutate(f)
	return f
}

// Build methods
func (f *FeedbackBuilder) BuildDomain() (*feedback.Feedback, error) {
	return feedback.NewFeedback(f.BookingID, f.CustomerID, f.Rating, f.Comment, f.CreatedAt)
}

func (f *FeedbackBuilder) BuildSubmitRequestDTO() reqdto.SubmitFeedbackRequest {
	return reqdto.SubmitFeedbackRequest{
		BookingID: f.BookingID,
		Rating:    f.Rating,
		Comment:   f.Comment,
	}
}

func (f *FeedbackBuilder) BuildViewQuery() *queries.FeedbackView {
	return &queries.FeedbackView{
		ID:         uuid.New(),
		BookingID:  f.BookingID,
		CustomerID: f.CustomerID,
		Rating:     int32(f.Rating),
		Comment:    f.Comment,
		CreatedAt:  f.CreatedAt,
	}
}

// Fluent builder methods
func (f *FeedbackBuilder) WithBookingID(id uuid.UUID) *FeedbackBuilder {
	f.BookingID = id
	return f
}

func (f *FeedbackBuilder) WithCustomerID(id uuid.UUID) *FeedbackBuilder {
	f.CustomerID = id
	return f
}

func (f *FeedbackBuilder) WithRating(rating int) *FeedbackBuilder {
	f.Rating = rating
	return f
}

func (f *FeedbackBuilder) WithComment(comment string) *FeedbackBuilder {
	f.Comment = comment
	return f
}
