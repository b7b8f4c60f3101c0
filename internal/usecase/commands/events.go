package commands

import (
	"time"

	"github.com/google/uuid"
)

type bookingEvent struct {
	BookingID  uuid.UUID `json:"bookingId"`
	CustomerID uuid.UUID `json:"customerId"`
	Status     string    `json:"status"`
	Previous   string    `json:"previousStatus,omitempty"`
	TotalCents int64     `json:"totalCents"`
	OccurredAt time.Time `json:"occurredAt"`
}

type paymentEvent struct {
	BookingID   uuid.UUID `json:"bookingId"`
	PaymentID   uuid.UUID `json:"paymentId"`
	InvoiceID   uuid.UUID `json:"invoiceId"`
	Reference   string    `json:"reference"`
	Method      string    `json:"method"`
	AmountCents int64     `json:"amountCents"`
	OccurredAt  time.Time `json:"occurredAt"`
}

type jobEvent struct {
	JobID        uuid.UUID `json:"jobId"`
	BookingID    uuid.UUID `json:"bookingId"`
	TechnicianID uuid.UUID `json:"technicianId"`
	Status       string    `json:"status"`
	Previous     string    `json:"previousStatus,omitempty"`
	OccurredAt   time.Time `json:"occurredAt"`
}

type feedbackEvent struct {
	FeedbackID uuid.UUID `json:"feedbackId"`
	BookingID  uuid.UUID `json:"bookingId"`
	Rating     int       `json:"rating"`
	OccurredAt time.Time `json:"occurredAt"`
}
