package booking

import (
	"time"

	"servicebay/internal/domain/pricing"
	"servicebay/internal/pkg/errs"

	"github.com/google/uuid"
)

type Booking struct {
	id            uuid.UUID
	customerID    uuid.UUID
	vehicleID     uuid.UUID
	locationID    uuid.UUID
	kind          pricing.Kind
	serviceTypeID *uuid.UUID
	fuelType      pricing.FuelType
	liters        pricing.Liters
	window        TimeWindow
	status        Status
	description   string
	urgency       pricing.Urgency
	quote         pricing.Quote
	version       int32
	createdAt     time.Time
	updatedAt     time.Time
}

func NewBooking(d Draft, quote pricing.Quote, now time.Time) (*Booking, error) {
	window, err := d.Validate()
	if err != nil {
		return nil, err
	}
	b := &Booking{
		id:          uuid.New(),
		customerID:  d.CustomerID,
		vehicleID:   d.VehicleID,
		locationID:  d.LocationID,
		kind:        d.Kind,
		window:      window,
		status:      StatusPending,
		description: d.Description,
		urgency:     d.Urgency,
		quote:       quote,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}
	b.setKindFields(d)
	return b, nil
}

func ReconstructBooking(
	id uuid.UUID,
	d Draft,
	status Status,
	quote pricing.Quote,
	version int32,
	createdAt, updatedAt time.Time,
) *Booking {
	b := &Booking{
		id:          id,
		customerID:  d.CustomerID,
		vehicleID:   d.VehicleID,
		locationID:  d.LocationID,
		kind:        d.Kind,
		window:      TimeWindow{start: d.StartTime, end: d.EndTime},
		status:      status,
		description: d.Description,
		urgency:     d.Urgency,
		quote:       quote,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
	b.setKindFields(d)
	return b
}

func (b *Booking) setKindFields(d Draft) {
	b.serviceTypeID, b.fuelType, b.liters = nil, "", 0
	if d.Kind == pricing.KindService && d.ServiceTypeID != nil {
		id := *d.ServiceTypeID
		b.serviceTypeID = &id
	}
	if d.Kind == pricing.KindFuel {
		b.fuelType = d.FuelType
		b.liters = d.Liters
	}
}

// Draft returns the booking's editable request fields.
func (b *Booking) Draft() Draft {
	return Draft{
		CustomerID:    b.customerID,
		VehicleID:     b.vehicleID,
		LocationID:    b.locationID,
		Kind:          b.kind,
		ServiceTypeID: b.serviceTypeID,
		FuelType:      b.fuelType,
		Liters:        b.liters,
		StartTime:     b.window.Start(),
		EndTime:       b.window.End(),
		Description:   b.description,
		Urgency:       b.urgency,
	}
}

// Edit replaces the request fields and quote. Only PENDING bookings are editable.
func (b *Booking) Edit(d Draft, quote pricing.Quote, now time.Time) error {
	if b.status != StatusPending {
		return errs.NewInvalidState("edit booking", b.status.String())
	}
	window, err := d.Validate()
	if err != nil {
		return err
	}
	b.vehicleID = d.VehicleID
	b.locationID = d.LocationID
	b.window = window
	b.description = d.Description
	b.urgency = d.Urgency
	b.quote = quote
	b.setKindFields(d)
	b.updatedAt = now
	return nil
}

// Cancel is the customer-facing cancellation and is limited to PENDING.
func (b *Booking) Cancel(now time.Time) error {
	if b.status != StatusPending {
		return errs.NewInvalidState("cancel booking", b.status.String())
	}
	b.status = StatusCancelled
	b.updatedAt = now
	return nil
}

// TransitionTo moves along the lifecycle table.
func (b *Booking) TransitionTo(target Status, now time.Time) error {
	if !b.status.CanTransitionTo(target) {
		return errs.NewIllegalTransition("booking", b.status.String(), target.String())
	}
	b.status = target
	b.updatedAt = now
	return nil
}

func (b *Booking) ID() uuid.UUID               { return b.id }
func (b *Booking) CustomerID() uuid.UUID       { return b.customerID }
func (b *Booking) VehicleID() uuid.UUID        { return b.vehicleID }
func (b *Booking) LocationID() uuid.UUID       { return b.locationID }
func (b *Booking) Kind() pricing.Kind          { return b.kind }
func (b *Booking) ServiceTypeID() *uuid.UUID   { return b.serviceTypeID }
func (b *Booking) FuelType() pricing.FuelType  { return b.fuelType }
func (b *Booking) Liters() pricing.Liters      { return b.liters }
func (b *Booking) Window() TimeWindow          { return b.window }
func (b *Booking) Status() Status              { return b.status }
func (b *Booking) Description() string         { return b.description }
func (b *Booking) Urgency() pricing.Urgency    { return b.urgency }
func (b *Booking) Quote() pricing.Quote        { return b.quote }
func (b *Booking) Version() int32              { return b.version }
func (b *Booking) CreatedAt() time.Time        { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time        { return b.updatedAt }
