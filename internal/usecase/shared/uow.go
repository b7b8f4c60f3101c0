package shared

import (
	"context"
	"time"

	"servicebay/internal/domain/booking"
	"servicebay/internal/domain/feedback"
	"servicebay/internal/domain/job"
	"servicebay/internal/domain/payment"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within runs fn in one write transaction. fn may run more than once when
	// the database reports a serialization failure, so it must not call out.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// CommandReads are fresh, unlocked reads outside any transaction.
	CommandReads() CommandReads
}

// Tx exposes repositories bound to the running transaction.
type Tx interface {
	Bookings() BookingRepository
	Payments() PaymentRepository
	Invoices() InvoiceRepository
	Sagas() SagaRepository
	Jobs() JobRepository
	Feedback() FeedbackRepository
	Outbox() OutboxRepository
	Reads() CommandReads
}

type CommandReads interface {
	BookingByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	SagaByBookingID(ctx context.Context, bookingID uuid.UUID) (*booking.Saga, error)
	SagaByReference(ctx context.Context, reference string) (*booking.Saga, error)
	PaymentByReference(ctx context.Context, reference string) (*payment.Payment, error)
	PaymentByBookingID(ctx context.Context, bookingID uuid.UUID) (*payment.Payment, error)
	InvoiceByPaymentID(ctx context.Context, paymentID uuid.UUID) (*payment.Invoice, error)
	JobByID(ctx context.Context, id uuid.UUID) (*job.Job, error)
	FeedbackByBookingID(ctx context.Context, bookingID uuid.UUID) (*feedback.Feedback, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *booking.Booking) error
	// Update writes the editable fields and status when the stored row still
	// matches expectedStatus and expectedVersion.
	Update(ctx context.Context, b *booking.Booking, expectedStatus booking.Status, expectedVersion int32) (bool, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to booking.Status, now time.Time) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	ListStalePending(ctx context.Context, before time.Time, steps []booking.SagaStep, limit int32) ([]uuid.UUID, error)
}

type PaymentRepository interface {
	Create(ctx context.Context, p *payment.Payment) error
	FindByReference(ctx context.Context, reference string) (*payment.Payment, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*payment.Payment, error)
}

type InvoiceRepository interface {
	Create(ctx context.Context, inv *payment.Invoice) error
	FindByPaymentID(ctx context.Context, paymentID uuid.UUID) (*payment.Invoice, error)
}

type SagaRepository interface {
	Save(ctx context.Context, s booking.Saga) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*booking.Saga, error)
	FindByReference(ctx context.Context, reference string) (*booking.Saga, error)
}

type JobRepository interface {
	Create(ctx context.Context, j *job.Job) error
	UpdateStatus(ctx context.Context, j *job.Job, from job.Status, expectedVersion int32) (bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*job.Job, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*job.Job, error)
	CountOpenByTechnician(ctx context.Context, technicianID uuid.UUID) (int, error)
	// LockTechnician row-locks the technician until the transaction ends.
	LockTechnician(ctx context.Context, technicianID uuid.UUID) (*TechnicianSnapshot, error)
}

type FeedbackRepository interface {
	// InsertIfCompleted inserts only while the booking is COMPLETED and has no feedback yet.
	InsertIfCompleted(ctx context.Context, f *feedback.Feedback) (bool, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*feedback.Feedback, error)
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, topic string, payload any, runAt time.Time) error
	ClaimBatch(ctx context.Context, limit int32, now time.Time) ([]OutboxEvent, error)
	MarkSent(ctx context.Context, id uuid.UUID, now time.Time) error
	MarkFailed(ctx context.Context, id uuid.UUID, lastErr string, nextRun time.Time, dead bool) error
}
