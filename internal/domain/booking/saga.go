package booking

import (
	"time"

	"servicebay/internal/domain/pricing"

	"github.com/google/uuid"
)

// SagaStep is the persisted marker of how far submission got.
type SagaStep string

const (
	SagaBookingCreated   SagaStep = "BOOKING_CREATED"
	SagaPaymentValidated SagaStep = "PAYMENT_VALIDATED"
	SagaPaymentCaptured  SagaStep = "PAYMENT_CAPTURED"
	SagaConfirmed        SagaStep = "CONFIRMED"
	SagaFailed           SagaStep = "FAILED"
	SagaCompensated      SagaStep = "COMPENSATED"
)

func (s SagaStep) String() string { return string(s) }

// Retryable reports whether a new capture attempt may start from this step.
func (s SagaStep) Retryable() bool {
	switch s {
	case SagaBookingCreated, SagaPaymentValidated, SagaFailed:
		return true
	default:
		return false
	}
}

type Saga struct {
	BookingID         uuid.UUID
	Step              SagaStep
	Reference         string
	Method            string
	Amount            pricing.Money
	ProviderPaymentID string
	CardLast4         string
	CreatedBy         string
	Notes             string
	LastError         string
	UpdatedAt         time.Time
}
