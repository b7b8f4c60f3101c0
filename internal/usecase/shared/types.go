package shared

import (
	"time"

	"servicebay/internal/domain/auth"

	"github.com/google/uuid"
)

type TechnicianSnapshot struct {
	ID     uuid.UUID
	Name   string
	Role   auth.Role
	Active bool
}

type OutboxEvent struct {
	ID       uuid.UUID
	Topic    string
	Payload  []byte
	Attempts int32
	RunAt    time.Time
}

// Outbox topics
const (
	TopicBookingCreated       = "booking.created"
	TopicBookingConfirmed     = "booking.confirmed"
	TopicBookingCancelled     = "booking.cancelled"
	TopicBookingStatusChanged = "booking.status_changed"
	TopicPaymentCaptured      = "payment.captured"
	TopicJobAssigned          = "job.assigned"
	TopicJobStatusChanged     = "job.status_changed"
	TopicFeedbackSubmitted    = "feedback.submitted"
)
