package booking

import (
	"strings"
	"time"

	"servicebay/internal/domain/pricing"
	"servicebay/internal/pkg/errs"

	"github.com/google/uuid"
)

const MaxDescriptionLength = 1000

type TimeWindow struct {
	start time.Time
	end   time.Time
}

func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if start.IsZero() || end.IsZero() {
		return TimeWindow{}, errs.NewValidation("startTime", "start and end time are required")
	}
	if !end.After(start) {
		return TimeWindow{}, errs.NewValidation("endTime", "must be after startTime")
	}
	return TimeWindow{start: start.UTC(), end: end.UTC()}, nil
}

func (w TimeWindow) Start() time.Time        { return w.start }
func (w TimeWindow) End() time.Time          { return w.end }
func (w TimeWindow) Duration() time.Duration { return w.end.Sub(w.start) }

// Draft is a booking request before it is priced and persisted.
type Draft struct {
	CustomerID    uuid.UUID
	VehicleID     uuid.UUID
	LocationID    uuid.UUID
	Kind          pricing.Kind
	ServiceTypeID *uuid.UUID
	FuelType      pricing.FuelType
	Liters        pricing.Liters
	StartTime     time.Time
	EndTime       time.Time
	Description   string
	Urgency       pricing.Urgency
}

// Validate checks the shape of the draft; directory lookups happen elsewhere.
func (d Draft) Validate() (TimeWindow, error) {
	if d.CustomerID == uuid.Nil {
		return TimeWindow{}, errs.NewValidation("customerId", "is required")
	}
	if d.VehicleID == uuid.Nil {
		return TimeWindow{}, errs.NewValidation("vehicleId", "is required")
	}
	if d.LocationID == uuid.Nil {
		return TimeWindow{}, errs.NewValidation("locationId", "is required")
	}
	switch d.Kind {
	case pricing.KindService:
		if d.ServiceTypeID == nil || *d.ServiceTypeID == uuid.Nil {
			return TimeWindow{}, errs.NewValidation("serviceTypeId", "is required for SERVICE bookings")
		}
	case pricing.KindFuel:
		if !d.FuelType.IsValid() {
			return TimeWindow{}, errs.NewValidation("fuelType", "unknown fuel type "+d.FuelType.String())
		}
		if d.Liters <= 0 {
			return TimeWindow{}, errs.NewValidation("litersRequested", "must be greater than zero")
		}
	default:
		return TimeWindow{}, errs.NewValidation("kind", "must be SERVICE or FUEL")
	}
	if !d.Urgency.IsValid() {
		return TimeWindow{}, errs.NewValidation("urgency", "must be one of LOW, NORMAL, HIGH, URGENT")
	}
	if len(strings.TrimSpace(d.Description)) > MaxDescriptionLength {
		return TimeWindow{}, errs.NewValidation("description", "must be at most 1000 characters")
	}
	return NewTimeWindow(d.StartTime, d.EndTime)
}

func (d Draft) PricingRequest(servicePrice *pricing.Money) pricing.Request {
	return pricing.Request{
		Kind:         d.Kind,
		FuelType:     d.FuelType,
		Liters:       d.Liters,
		ServicePrice: servicePrice,
		Urgency:      d.Urgency,
	}
}

// Patch holds the editable fields of a PENDING booking; nil means unchanged.
type Patch struct {
	VehicleID     *uuid.UUID
	LocationID    *uuid.UUID
	ServiceTypeID *uuid.UUID
	FuelType      *pricing.FuelType
	Liters        *pricing.Liters
	StartTime     *time.Time
	EndTime       *time.Time
	Description   *string
	Urgency       *pricing.Urgency
}

func (p Patch) Apply(d Draft) Draft {
	d.VehicleID = coalesce(p.VehicleID, d.VehicleID)
	d.LocationID = coalesce(p.LocationID, d.LocationID)
	if p.ServiceTypeID != nil {
		id := *p.ServiceTypeID
		d.ServiceTypeID = &id
	}
	d.FuelType = coalesce(p.FuelType, d.FuelType)
	d.Liters = coalesce(p.Liters, d.Liters)
	d.StartTime = coalesce(p.StartTime, d.StartTime)
	d.EndTime = coalesce(p.EndTime, d.EndTime)
	d.Description = coalesce(p.Description, d.Description)
	d.Urgency = coalesce(p.Urgency, d.Urgency)
	return d
}

func coalesce[T any](ptr *T, fallback T) T {
	if ptr != nil {
		return *ptr
	}
	return fallback
}
