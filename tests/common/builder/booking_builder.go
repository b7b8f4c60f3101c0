//go:build unit || e2e

package builder

import (
	"time"

	"servicebay/internal/domain/booking"
	"servicebay/internal/domain/pricing"
	reqdto "servicebay/internal/handler/dto/request"
	"servicebay/internal/usecase/commands"
	"servicebay/internal/usecase/queries"

	"github.com/google/uuid"
)

// BookingBuilder defaults to 25 L of PETROL_92 at NORMAL urgency, quoted at 8596.25.
type BookingBuilder struct {
	ID            uuid.UUID
	CustomerID    uuid.UUID
	VehicleID     uuid.UUID
	LocationID    uuid.UUID
	Kind          pricing.Kind
	ServiceTypeID *uuid.UUID
	ServicePrice  pricing.Money
	FuelType      pricing.FuelType
	Liters        pricing.Liters
	Start         time.Time
	End           time.Time
	Description   string
	Urgency       pricing.Urgency
	Status        booking.Status
	Version       int32
	CreatedAt     time.Time
	Payment       *PaymentBuilder
}

func NewBookingBuilder() *BookingBuilder {
	start := time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)
	return &BookingBuilder{
		ID:           uuid.New(),
		CustomerID:   uuid.New(),
		VehicleID:    uuid.New(),
		LocationID:   uuid.New(),
		Kind:         pricing.KindFuel,
		ServicePrice: 10000,
		FuelType:     pricing.FuelPetrol92,
		Liters:       25000,
		Start:        start,
		End:          start.Add(time.Hour),
		Description:  "Fill up before the road trip",
		Urgency:      pricing.UrgencyNormal,
		Status:       booking.StatusPending,
		Version:      1,
		CreatedAt:    start.Add(-24 * time.Hour),
		Payment:      NewPaymentBuilder(),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *BookingBuilder) BuildDraft() booking.Draft {
	return booking.Draft{
		CustomerID:    b.CustomerID,
		VehicleID:     b.VehicleID,
		LocationID:    b.LocationID,
		Kind:          b.Kind,
		ServiceTypeID: b.ServiceTypeID,
		FuelType:      b.FuelType,
		Liters:        b.Liters,
		StartTime:     b.Start,
		EndTime:       b.End,
		Description:   b.Description,
		Urgency:       b.Urgency,
	}
}

func (b *BookingBuilder) Quote() pricing.Quote {
	var price *pricing.Money
	if b.Kind == pricing.KindService {
		p := b.ServicePrice
		price = &p
	}
	q, err := pricing.Price(b.BuildDraft().PricingRequest(price))
	if err != nil {
		return pricing.Quote{}
	}
	return q
}

func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	return booking.NewBooking(b.BuildDraft(), b.Quote(), b.CreatedAt)
}

// Reconstruct skips validation, the way rows come back from the database.
func (b *BookingBuilder) Reconstruct() *booking.Booking {
	return booking.ReconstructBooking(b.ID, b.BuildDraft(), b.Status, b.Quote(), b.Version, b.CreatedAt, b.CreatedAt)
}

func (b *BookingBuilder) BuildSubmitCommand() commands.SubmitBookingCommand {
	return commands.SubmitBookingCommand{
		Draft:   b.BuildDraft(),
		Payment: b.Payment.WithTotal(b.Quote().Total.Float64()).BuildInput(),
	}
}

func (b *BookingBuilder) BuildCreateRequestDTO() reqdto.CreateBookingRequest {
	customerID := b.CustomerID
	req := reqdto.CreateBookingRequest{
		CustomerID:    &customerID,
		VehicleID:     b.VehicleID,
		LocationID:    b.LocationID,
		Kind:          b.Kind.String(),
		ServiceTypeID: b.ServiceTypeID,
		StartTime:     b.Start,
		EndTime:       b.End,
		Description:   b.Description,
		Urgency:       b.Urgency.String(),
		Payment:       b.Payment.WithTotal(b.Quote().Total.Float64()).BuildRequestDTO(),
	}
	if b.Kind == pricing.KindFuel {
		req.FuelType = b.FuelType.String()
		req.LitersRequested = b.Liters.Float64()
	}
	return req
}

func (b *BookingBuilder) BuildViewQuery() *queries.BookingView {
	q := b.Quote()
	v := &queries.BookingView{
		ID:            b.ID,
		CustomerID:    b.CustomerID,
		VehicleID:     b.VehicleID,
		LocationID:    b.LocationID,
		Kind:          b.Kind.String(),
		ServiceTypeID: b.ServiceTypeID,
		StartTime:     b.Start,
		EndTime:       b.End,
		Status:        b.Status.String(),
		Description:   b.Description,
		Urgency:       b.Urgency.String(),
		SubtotalCents: q.Subtotal.Cents(),
		TaxCents:      q.Tax.Cents(),
		TotalCents:    q.Total.Cents(),
		Version:       b.Version,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.CreatedAt,
	}
	if b.Kind == pricing.KindFuel {
		v.FuelType = b.FuelType.String()
		v.LitersMilli = b.Liters.Milliliters()
	}
	return v
}

func (b *BookingBuilder) BuildSagaView(step booking.SagaStep) *queries.SagaView {
	return &queries.SagaView{
		BookingID:   b.ID,
		Step:        step.String(),
		Reference:   "BK-" + b.ID.String()[:8],
		Method:      b.Payment.Method,
		AmountCents: b.Quote().Total.Cents(),
		UpdatedAt:   b.CreatedAt,
	}
}

// Fluent builder methods
func (b *BookingBuilder) WithID(id uuid.UUID) *BookingBuilder {
	b.ID = id
	return b
}

func (b *BookingBuilder) WithCustomerID(id uuid.UUID) *BookingBuilder {
	b.CustomerID = id
	return b
}

func (b *BookingBuilder) WithVehicleID(id uuid.UUID) *BookingBuilder {
	b.VehicleID = id
	return b
}

func (b *BookingBuilder) WithLocationID(id uuid.UUID) *BookingBuilder {
	b.LocationID = id
	return b
}

func (b *BookingBuilder) WithStatus(status booking.Status) *BookingBuilder {
	b.Status = status
	return b
}

func (b *BookingBuilder) WithUrgency(u pricing.Urgency) *BookingBuilder {
	b.Urgency = u
	return b
}

func (b *BookingBuilder) WithWindow(start time.Time, d time.Duration) *BookingBuilder {
	b.Start = start
	b.End = start.Add(d)
	return b
}

func (b *BookingBuilder) WithPayment(p *PaymentBuilder) *BookingBuilder {
	b.Payment = p
	return b
}

// AsService switches to a SERVICE booking priced at ServicePrice.
func (b *BookingBuilder) AsService(serviceTypeID *uuid.UUID) *BookingBuilder {
	b.Kind = pricing.KindService
	b.ServiceTypeID = serviceTypeID
	b.FuelType = ""
	b.Liters = 0
	return b
}

func (b *BookingBuilder) AsFuel(fuel pricing.FuelType, liters pricing.Liters) *BookingBuilder {
	b.Kind = pricing.KindFuel
	b.ServiceTypeID = nil
	b.FuelType = fuel
	b.Liters = liters
	return b
}
