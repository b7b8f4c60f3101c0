package converter

import (
	"time"

	"servicebay/internal/domain/booking"
	"servicebay/internal/domain/pricing"
	"servicebay/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// BookingColumns is the select list every booking scan expects.
const BookingColumns = `id, customer_id, vehicle_id, location_id, kind, service_type_id, fuel_type,
	liters_milli, start_time, end_time, status, description, urgency,
	subtotal_cents, tax_cents, total_cents, version, created_at, updated_at`

type BookingParams struct {
	ID            uuid.UUID
	CustomerID    uuid.UUID
	VehicleID     uuid.UUID
	LocationID    uuid.UUID
	Kind          string
	ServiceTypeID pgtype.UUID
	FuelType      pgtype.Text
	LitersMilli   pgtype.Int8
	StartTime     time.Time
	EndTime       time.Time
	Status        string
	Description   string
	Urgency       string
	SubtotalCents int64
	TaxCents      int64
	TotalCents    int64
	Version       int32
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func BookingToInfra(b *booking.Booking) BookingParams {
	q := b.Quote()
	p := BookingParams{
		ID:            b.ID(),
		CustomerID:    b.CustomerID(),
		VehicleID:     b.VehicleID(),
		LocationID:    b.LocationID(),
		Kind:          b.Kind().String(),
		ServiceTypeID: pgconv.UUIDPtrToPgtype(b.ServiceTypeID()),
		FuelType:      pgconv.NullableText(b.FuelType().String()),
		LitersMilli:   pgconv.NullableInt64(b.Liters().Milliliters(), b.Kind() == pricing.KindFuel),
		StartTime:     b.Window().Start(),
		EndTime:       b.Window().End(),
		Status:        b.Status().String(),
		Description:   b.Description(),
		Urgency:       b.Urgency().String(),
		SubtotalCents: q.Subtotal.Cents(),
		TaxCents:      q.Tax.Cents(),
		TotalCents:    q.Total.Cents(),
		Version:       b.Version(),
		CreatedAt:     b.CreatedAt(),
		UpdatedAt:     b.UpdatedAt(),
	}
	return p
}

// BookingRow mirrors BookingColumns.
type BookingRow struct {
	BookingParams
}

func (r *BookingRow) ScanTargets() []any {
	p := &r.BookingParams
	return []any{
		&p.ID, &p.CustomerID, &p.VehicleID, &p.LocationID, &p.Kind, &p.ServiceTypeID, &p.FuelType,
		&p.LitersMilli, &p.StartTime, &p.EndTime, &p.Status, &p.Description, &p.Urgency,
		&p.SubtotalCents, &p.TaxCents, &p.TotalCents, &p.Version, &p.CreatedAt, &p.UpdatedAt,
	}
}

func BookingToDomain(r BookingRow) *booking.Booking {
	d := booking.Draft{
		CustomerID:    r.CustomerID,
		VehicleID:     r.VehicleID,
		LocationID:    r.LocationID,
		Kind:          pricing.Kind(r.Kind),
		ServiceTypeID: pgconv.UUIDPtrFromPgtype(r.ServiceTypeID),
		FuelType:      pricing.FuelType(pgconv.TextOrEmpty(r.FuelType)),
		Liters:        pricing.Liters(pgconv.Int64OrZero(r.LitersMilli)),
		StartTime:     r.StartTime.UTC(),
		EndTime:       r.EndTime.UTC(),
		Description:   r.Description,
		Urgency:       pricing.Urgency(r.Urgency),
	}
	quote := pricing.Quote{
		Subtotal: pricing.Money(r.SubtotalCents),
		Tax:      pricing.Money(r.TaxCents),
		Total:    pricing.Money(r.TotalCents),
	}
	return booking.ReconstructBooking(r.ID, d, booking.Status(r.Status), quote, r.Version, r.CreatedAt.UTC(), r.UpdatedAt.UTC())
}
