package response

import (
	"time"

	"servicebay/internal/domain/pricing"
	"servicebay/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID                   uuid.UUID  `json:"id"`
	CustomerID           uuid.UUID  `json:"customerId"`
	VehicleID            uuid.UUID  `json:"vehicleId"`
	LocationID           uuid.UUID  `json:"locationId"`
	Kind                 string     `json:"kind"`
	ServiceTypeID        *uuid.UUID `json:"serviceTypeId,omitempty"`
	FuelType             string     `json:"fuelType,omitempty"`
	LitersRequested      float64    `json:"litersRequested,omitempty"`
	StartTime            time.Time  `json:"startTime"`
	EndTime              time.Time  `json:"endTime"`
	Status               string     `json:"status"`
	Description          string     `json:"description"`
	Urgency              string     `json:"urgency"`
	Subtotal             float64    `json:"subtotal"`
	Tax                  float64    `json:"tax"`
	Total                float64    `json:"total"`
	Version              int32      `json:"version"`
	AssignedTechnicianID *uuid.UUID `json:"assignedTechnicianId,omitempty"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	res := &BookingResponse{}
	_ = copier.Copy(res, v)
	res.LitersRequested = float64(v.LitersMilli) / 1000
	res.Subtotal = pricing.Money(v.SubtotalCents).Float64()
	res.Tax = pricing.Money(v.TaxCents).Float64()
	res.Total = pricing.Money(v.TotalCents).Float64()
	return res
}

func FromBookingList(items []*queries.BookingView) []*BookingResponse {
	res := make([]*BookingResponse, len(items))
	for i, it := range items {
		res[i] = FromBookingView(it)
	}
	return res
}

type SagaResponse struct {
	BookingID         uuid.UUID `json:"bookingId"`
	Step              string    `json:"step"`
	Reference         string    `json:"reference"`
	Method            string    `json:"method"`
	Amount            float64   `json:"amount"`
	ProviderPaymentID string    `json:"providerPaymentId,omitempty"`
	LastError         string    `json:"lastError,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func FromSagaView(v *queries.SagaView) *SagaResponse {
	res := &SagaResponse{}
	_ = copier.Copy(res, v)
	res.Amount = pricing.Money(v.AmountCents).Float64()
	return res
}

// SubmitBookingResponse bundles everything a successful submit produced.
type SubmitBookingResponse struct {
	Booking *BookingResponse `json:"booking"`
	Payment *PaymentResponse `json:"payment"`
	Invoice *InvoiceResponse `json:"invoice"`
	Saga    *SagaResponse    `json:"saga"`
}
