//go:build unit || e2e

package dbtest

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DBLike is satisfied by both *pgxpool.Pool and pgx.Tx.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// every table the schema owns; reference data is reseeded after a reset
var tables = []string{
	"outbox_events", "feedback", "jobs", "invoices", "payments", "booking_sagas",
	"bookings", "service_types", "locations", "vehicles", "users",
}

// CreateTestUser upserts by email; the display name is the local part.
func CreateTestUser(t *testing.T, db DBLike, email, role string) uuid.UUID {
	t.Helper()
	name, _, _ := strings.Cut(email, "@")

	var id uuid.UUID
	err := db.QueryRow(context.Background(), `
		INSERT INTO users (id, name, email, role, is_active) VALUES ($1, $2, $3, $4, true)
		ON CONFLICT (email) DO UPDATE SET role = EXCLUDED.role
		RETURNING id`,
		uuid.New(), name, email, role).Scan(&id)
	require.NoError(t, err)
	return id
}

func CreateTestVehicle(t *testing.T, db DBLike, ownerID uuid.UUID, plate string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO vehicles (id, owner_id, plate_number, make, model) VALUES ($1, $2, $3, 'Toyota', 'Axio')`,
		id, ownerID, plate)
	require.NoError(t, err)
	return id
}

func CreateTestLocation(t *testing.T, db DBLike, name string, active bool) uuid.UUID {
	t.Helper()
	id := uuid.New()
	_, err := db.Exec(context.Background(),
		`INSERT INTO locations (id, name, address, is_active) VALUES ($1, $2, '12 Galle Road', $3)`,
		id, name, active)
	require.NoError(t, err)
	return id
}

func SeedReferenceData(pool *pgxpool.Pool) error {
	_, err := pool.Exec(context.Background(), `
		INSERT INTO service_types (id, name, price_cents) VALUES
		    (gen_random_uuid(), 'Full Service', 10000),
		    (gen_random_uuid(), 'Oil Change', 4500)
		ON CONFLICT (name) DO NOTHING`)
	return err
}

func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := pool.Exec(ctx, "TRUNCATE "+strings.Join(tables, ", ")+" RESTART IDENTITY CASCADE"); err != nil {
		return err
	}
	return SeedReferenceData(pool)
}
