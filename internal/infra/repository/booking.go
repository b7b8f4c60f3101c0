package repository

import (
	"context"
	"time"

	"servicebay/internal/domain/booking"
	"servicebay/internal/infra"
	"servicebay/internal/infra/db"
	"servicebay/internal/infra/repository/converter"

	"github.com/google/uuid"
)

const (
	insertBookingSQL = `
INSERT INTO bookings (id, customer_id, vehicle_id, location_id, kind, service_type_id, fuel_type,
	liters_milli, start_time, end_time, status, description, urgency,
	subtotal_cents, tax_cents, total_cents, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	updateBookingSQL = `
UPDATE bookings
SET vehicle_id = $2, location_id = $3, service_type_id = $4, fuel_type = $5, liters_milli = $6,
	start_time = $7, end_time = $8, status = $9, description = $10, urgency = $11,
	subtotal_cents = $12, tax_cents = $13, total_cents = $14,
	version = version + 1, updated_at = $15
WHERE id = $1 AND status = $16 AND version = $17`

	updateBookingStatusSQL = `
UPDATE bookings
SET status = $3, version = version + 1, updated_at = $4
WHERE id = $1 AND status = $2`

	selectBookingSQL = `SELECT ` + converter.BookingColumns + ` FROM bookings WHERE id = $1`

	selectBookingForUpdateSQL = selectBookingSQL + ` FOR UPDATE`

	listStalePendingSQL = `
SELECT b.id
FROM bookings b
JOIN booking_sagas s ON s.booking_id = b.id
WHERE b.status = 'PENDING' AND b.created_at < $1 AND s.step = ANY($2)
ORDER BY b.created_at
LIMIT $3`
)

type BookingRepository struct {
	db db.DBTX
	// lock makes FindByID take a row lock; set inside write transactions.
	lock bool
}

func NewBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx}
}

func NewLockingBookingRepository(dbtx db.DBTX) *BookingRepository {
	return &BookingRepository{db: dbtx, lock: true}
}

func (r *BookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	p := converter.BookingToInfra(b)
	_, err := r.db.Exec(ctx, insertBookingSQL,
		p.ID, p.CustomerID, p.VehicleID, p.LocationID, p.Kind, p.ServiceTypeID, p.FuelType,
		p.LitersMilli, p.StartTime, p.EndTime, p.Status, p.Description, p.Urgency,
		p.SubtotalCents, p.TaxCents, p.TotalCents, p.Version, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create booking", err)
	}
	return nil
}

func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking, expectedStatus booking.Status, expectedVersion int32) (bool, error) {
	p := converter.BookingToInfra(b)
	tag, err := r.db.Exec(ctx, updateBookingSQL,
		p.ID, p.VehicleID, p.LocationID, p.ServiceTypeID, p.FuelType, p.LitersMilli,
		p.StartTime, p.EndTime, p.Status, p.Description, p.Urgency,
		p.SubtotalCents, p.TaxCents, p.TotalCents, p.UpdatedAt,
		expectedStatus.String(), expectedVersion,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to update booking", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to booking.Status, now time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, updateBookingStatusSQL, id, from.String(), to.String(), now)
	if err != nil {
		return false, infra.WrapRepoErr("failed to update booking status", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	query := selectBookingSQL
	if r.lock {
		query = selectBookingForUpdateSQL
	}
	var row converter.BookingRow
	if err := r.db.QueryRow(ctx, query, id).Scan(row.ScanTargets()...); err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get booking by id", err)
	}
	return converter.BookingToDomain(row), nil
}

func (r *BookingRepository) ListStalePending(ctx context.Context, before time.Time, steps []booking.SagaStep, limit int32) ([]uuid.UUID, error) {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.String()
	}
	rows, err := r.db.Query(ctx, listStalePendingSQL, before, names, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list stale pending bookings", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan stale booking id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate stale bookings", err)
	}
	return ids, nil
}
