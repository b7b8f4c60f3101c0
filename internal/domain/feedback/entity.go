package feedback

import (
	"time"

	"github.com/google/uuid"
)

type Feedback struct {
	id         uuid.UUID
	bookingID  uuid.UUID
	customerID uuid.UUID
	rating     Rating
	comment    Comment
	createdAt  time.Time
}

func NewFeedback(bookingID, customerID uuid.UUID, ratingValue int, commentText string, now time.Time) (*Feedback, error) {
	rating, err := NewRating(ratingValue)
	if err != nil {
		return nil, err
	}
	comment, err := NewComment(commentText)
	if err != nil {
		return nil, err
	}
	return &Feedback{
		id:         uuid.New(),
		bookingID:  bookingID,
		customerID: customerID,
		rating:     rating,
		comment:    comment,
		createdAt:  now,
	}, nil
}

func ReconstructFeedback(id, bookingID, customerID uuid.UUID, rating int, comment string, createdAt time.Time) *Feedback {
	return &Feedback{
		id:         id,
		bookingID:  bookingID,
		customerID: customerID,
		rating:     Rating{value: rating},
		comment:    Comment{text: comment},
		createdAt:  createdAt,
	}
}

func (f *Feedback) ID() uuid.UUID         { return f.id }
func (f *Feedback) BookingID() uuid.UUID  { return f.bookingID }
func (f *Feedback) CustomerID() uuid.UUID { return f.customerID }
func (f *Feedback) Rating() Rating        { return f.rating }
func (f *Feedback) Comment() Comment      { return f.comment }
func (f *Feedback) CreatedAt() time.Time  { return f.createdAt }
