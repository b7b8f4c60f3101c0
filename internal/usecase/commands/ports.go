package commands

import (
	"context"

	"servicebay/internal/domain/payment"
	"servicebay/internal/domain/pricing"

	"github.com/google/uuid"
)

// Directory answers ownership and catalog questions owned by other services.
type Directory interface {
	VehicleOwnedBy(ctx context.Context, vehicleID, customerID uuid.UUID) (bool, error)
	LocationActive(ctx context.Context, locationID uuid.UUID) (bool, error)
	ServicePrice(ctx context.Context, serviceTypeID uuid.UUID) (pricing.Money, error)
}

type CaptureRequest struct {
	BookingID   uuid.UUID
	Reference   string
	Instrument  payment.Instrument
	Description string
}

type CaptureResult struct {
	ProviderPaymentID string
	Status            string
}

type PaymentGateway interface {
	Capture(ctx context.Context, req CaptureRequest) (CaptureResult, error)
}

// CaptureLock serializes capture attempts per booking across instances.
type CaptureLock interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}
