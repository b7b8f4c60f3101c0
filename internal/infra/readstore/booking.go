package readstore

import (
	"context"

	"servicebay/internal/infra"
	"servicebay/internal/infra/db"
	"servicebay/internal/pkg/pgconv"
	"servicebay/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookingViewSelect = `
SELECT b.id, b.customer_id, b.vehicle_id, b.location_id, b.kind, b.service_type_id, b.fuel_type,
	b.liters_milli, b.start_time, b.end_time, b.status, b.description, b.urgency,
	b.subtotal_cents, b.tax_cents, b.total_cents, b.version, j.technician_id, b.created_at, b.updated_at
FROM bookings b
LEFT JOIN jobs j ON j.booking_id = b.id`

const sagaViewSelect = `
SELECT booking_id, step, reference, method, amount_cents, provider_payment_id, last_error, updated_at
FROM booking_sagas WHERE booking_id = $1`

type BookingReadStore struct {
	db db.DBTX
}

func NewBookingReadStore(dbtx db.DBTX) *BookingReadStore {
	return &BookingReadStore{db: dbtx}
}

func (r *BookingReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	row := r.db.QueryRow(ctx, bookingViewSelect+` WHERE b.id = $1`, id)
	v, err := scanBookingView(row)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get booking view by id", err)
	}
	return v, nil
}

func (r *BookingReadStore) List(ctx context.Context, f queries.BookingFilter, after *queries.Keyset, limit int32) ([]*queries.BookingView, error) {
	var w where
	if f.CustomerID != nil {
		w.add("b.customer_id = $%d", *f.CustomerID)
	}
	if f.TechnicianID != nil {
		w.add("j.technician_id = $%d", *f.TechnicianID)
	}
	if f.LocationID != nil {
		w.add("b.location_id = $%d", *f.LocationID)
	}
	if f.Status != nil {
		w.add("b.status = $%d", *f.Status)
	}
	if f.Kind != nil {
		w.add("b.kind = $%d", *f.Kind)
	}
	if f.Urgency != nil {
		w.add("b.urgency = $%d", *f.Urgency)
	}
	if from := utcPtr(f.From); from != nil {
		w.add("b.start_time >= $%d", *from)
	}
	if to := utcPtr(f.To); to != nil {
		w.add("b.start_time < $%d", *to)
	}
	w.keyset("b.created_at", "b.id", after)

	query := bookingViewSelect + w.sql() + " ORDER BY b.created_at DESC, b.id DESC" + w.limit(limit)
	rows, err := r.db.Query(ctx, query, w.args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings", err)
	}
	defer rows.Close()

	var out []*queries.BookingView
	for rows.Next() {
		v, err := scanBookingView(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking view", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate bookings", err)
	}
	return out, nil
}

func (r *BookingReadStore) FindSaga(ctx context.Context, bookingID uuid.UUID) (*queries.SagaView, error) {
	var v queries.SagaView
	err := r.db.QueryRow(ctx, sagaViewSelect, bookingID).Scan(
		&v.BookingID, &v.Step, &v.Reference, &v.Method, &v.AmountCents, &v.ProviderPaymentID, &v.LastError, &v.UpdatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking saga not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get booking saga view", err)
	}
	return &v, nil
}

func scanBookingView(row pgx.Row) (*queries.BookingView, error) {
	var (
		v           queries.BookingView
		serviceType pgtype.UUID
		fuelType    pgtype.Text
		liters      pgtype.Int8
		technician  pgtype.UUID
	)
	err := row.Scan(
		&v.ID, &v.CustomerID, &v.VehicleID, &v.LocationID, &v.Kind, &serviceType, &fuelType,
		&liters, &v.StartTime, &v.EndTime, &v.Status, &v.Description, &v.Urgency,
		&v.SubtotalCents, &v.TaxCents, &v.TotalCents, &v.Version, &technician, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	v.ServiceTypeID = pgconv.UUIDPtrFromPgtype(serviceType)
	v.FuelType = pgconv.TextOrEmpty(fuelType)
	v.LitersMilli = pgconv.Int64OrZero(liters)
	v.AssignedTechnicianID = pgconv.UUIDPtrFromPgtype(technician)
	return &v, nil
}
