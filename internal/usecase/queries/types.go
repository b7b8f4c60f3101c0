package queries

import (
	"time"

	"servicebay/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrInvalidCursor = errs.NewValidation("cursor", "malformed pagination cursor")

// BookingView is the read model for a booking with its quote and current assignee.
type BookingView struct {
	ID                   uuid.UUID  `json:"id"`
	CustomerID           uuid.UUID  `json:"customer_id"`
	VehicleID            uuid.UUID  `json:"vehicle_id"`
	LocationID           uuid.UUID  `json:"location_id"`
	Kind                 string     `json:"kind"`
	ServiceTypeID        *uuid.UUID `json:"service_type_id,omitempty"`
	FuelType             string     `json:"fuel_type,omitempty"`
	LitersMilli          int64      `json:"liters_milli,omitempty"`
	StartTime            time.Time  `json:"start_time"`
	EndTime              time.Time  `json:"end_time"`
	Status               string     `json:"status"`
	Description          string     `json:"description"`
	Urgency              string     `json:"urgency"`
	SubtotalCents        int64      `json:"subtotal_cents"`
	TaxCents             int64      `json:"tax_cents"`
	TotalCents           int64      `json:"total_cents"`
	Version              int32      `json:"version"`
	AssignedTechnicianID *uuid.UUID `json:"assigned_technician_id,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

type BookingFilter struct {
	CustomerID   *uuid.UUID
	TechnicianID *uuid.UUID
	LocationID   *uuid.UUID
	Status       *string
	Kind         *string
	Urgency      *string
	From         *time.Time
	To           *time.Time
}

type SagaView struct {
	BookingID         uuid.UUID `json:"booking_id"`
	Step              string    `json:"step"`
	Reference         string    `json:"reference"`
	Method            string    `json:"method"`
	AmountCents       int64     `json:"amount_cents"`
	ProviderPaymentID string    `json:"provider_payment_id,omitempty"`
	LastError         string    `json:"last_error,omitempty"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type JobView struct {
	ID             uuid.UUID `json:"id"`
	BookingID      uuid.UUID `json:"booking_id"`
	TechnicianID   uuid.UUID `json:"technician_id"`
	TechnicianName string    `json:"technician_name"`
	CustomerID     uuid.UUID `json:"customer_id"`
	BookingStatus  string    `json:"booking_status"`
	Status         string    `json:"status"`
	Notes          string    `json:"notes"`
	Version        int32     `json:"version"`
	AssignedAt     time.Time `json:"assigned_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type JobFilter struct {
	TechnicianID *uuid.UUID
	BookingID    *uuid.UUID
	Status       *string
}

type TechnicianView struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	OpenJobs     int32     `json:"open_jobs"`
	Availability string    `json:"availability"`
}

type InvoiceView struct {
	ID            uuid.UUID `json:"id"`
	Number        string    `json:"number"`
	BookingID     uuid.UUID `json:"booking_id"`
	PaymentID     uuid.UUID `json:"payment_id"`
	CustomerID    uuid.UUID `json:"customer_id"`
	CustomerName  string    `json:"customer_name"`
	Kind          string    `json:"kind"`
	Method        string    `json:"method"`
	Reference     string    `json:"reference"`
	CardLast4     string    `json:"card_last4,omitempty"`
	SubtotalCents int64     `json:"subtotal_cents"`
	TaxCents      int64     `json:"tax_cents"`
	TotalCents    int64     `json:"total_cents"`
	IssuedAt      time.Time `json:"issued_at"`
}

type FeedbackView struct {
	ID         uuid.UUID `json:"id"`
	BookingID  uuid.UUID `json:"booking_id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Rating     int32     `json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

func notFound(err error, entity string, id uuid.UUID) error {
	if errs.Is(err, errs.ErrNotFound) {
		return errs.NewNotFound(entity, id.String())
	}
	return err
}
