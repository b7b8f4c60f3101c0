package directory

import (
	"context"

	"servicebay/internal/domain/pricing"
	"servicebay/internal/infra"
	"servicebay/internal/infra/db"

	"github.com/google/uuid"
)

const (
	vehicleOwnedSQL   = `SELECT EXISTS (SELECT 1 FROM vehicles WHERE id = $1 AND owner_id = $2)`
	locationActiveSQL = `SELECT EXISTS (SELECT 1 FROM locations WHERE id = $1 AND is_active)`
	servicePriceSQL   = `SELECT price_cents FROM service_types WHERE id = $1 AND is_active`
)

// Postgres answers directory questions from the vehicles, locations and
// service_types tables maintained by the account and catalog services.
type Postgres struct {
	db db.DBTX
}

func NewPostgres(dbtx db.DBTX) *Postgres {
	return &Postgres{db: dbtx}
}

func (d *Postgres) VehicleOwnedBy(ctx context.Context, vehicleID, customerID uuid.UUID) (bool, error) {
	var ok bool
	if err := d.db.QueryRow(ctx, vehicleOwnedSQL, vehicleID, customerID).Scan(&ok); err != nil {
		return false, infra.WrapRepoErr("failed to check vehicle ownership", err)
	}
	return ok, nil
}

func (d *Postgres) LocationActive(ctx context.Context, locationID uuid.UUID) (bool, error) {
	var ok bool
	if err := d.db.QueryRow(ctx, locationActiveSQL, locationID).Scan(&ok); err != nil {
		return false, infra.WrapRepoErr("failed to check location", err)
	}
	return ok, nil
}

func (d *Postgres) ServicePrice(ctx context.Context, serviceTypeID uuid.UUID) (pricing.Money, error) {
	var cents int64
	if err := d.db.QueryRow(ctx, servicePriceSQL, serviceTypeID).Scan(&cents); err != nil {
		if infra.IsNoRows(err) {
			return 0, infra.WrapRepoErr("service type not found", err, infra.KindNotFound)
		}
		return 0, infra.WrapRepoErr("failed to get service price", err)
	}
	return pricing.Money(cents), nil
}
