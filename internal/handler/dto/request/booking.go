package request

import (
	"time"

	"servicebay/internal/domain/booking"
	"servicebay/internal/domain/pricing"
	"servicebay/internal/usecase/commands"

	"github.com/google/uuid"
)

type CreateBookingRequest struct {
	CustomerID      *uuid.UUID     `json:"customerId"`
	VehicleID       uuid.UUID      `json:"vehicleId" binding:"required"`
	LocationID      uuid.UUID      `json:"locationId" binding:"required"`
	Kind            string         `json:"kind" binding:"required"`
	ServiceTypeID   *uuid.UUID     `json:"serviceTypeId"`
	FuelType        string         `json:"fuelType"`
	LitersRequested float64        `json:"litersRequested"`
	StartTime       time.Time      `json:"startTime" binding:"required"`
	EndTime         time.Time      `json:"endTime" binding:"required"`
	Description     string         `json:"description" binding:"max=1000"`
	Urgency         string         `json:"urgency"`
	Reference       string         `json:"reference" binding:"max=64"`
	Payment         PaymentRequest `json:"payment"`
}

// PaymentRequest is the raw instrument; the domain validator normalizes it.
type PaymentRequest struct {
	Method     string  `json:"method" binding:"required"`
	Total      float64 `json:"total"`
	CardNumber string  `json:"cardNumber"`
	Expiry     string  `json:"expiry"`
	CVV        string  `json:"cvv"`
	Token      string  `json:"token"`
	CreatedBy  string  `json:"createdBy"`
	Notes      string  `json:"notes"`
}

// ToCommand defaults the customer to the caller when none is given.
func (r *CreateBookingRequest) ToCommand(caller uuid.UUID) (commands.SubmitBookingCommand, error) {
	customerID := caller
	if r.CustomerID != nil {
		customerID = *r.CustomerID
	}

	urgency := pricing.UrgencyNormal
	if r.Urgency != "" {
		urgency = pricing.Urgency(r.Urgency)
	}

	draft := booking.Draft{
		CustomerID:    customerID,
		VehicleID:     r.VehicleID,
		LocationID:    r.LocationID,
		Kind:          pricing.Kind(r.Kind),
		ServiceTypeID: r.ServiceTypeID,
		FuelType:      pricing.FuelType(r.FuelType),
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Description:   r.Description,
		Urgency:       urgency,
	}
	if draft.Kind == pricing.KindFuel {
		liters, err := pricing.LitersFromFloat(r.LitersRequested)
		if err != nil {
			return commands.SubmitBookingCommand{}, err
		}
		draft.Liters = liters
	}

	return commands.SubmitBookingCommand{
		Draft:     draft,
		Payment:   r.Payment.ToInput(),
		Reference: r.Reference,
	}, nil
}

type UpdateBookingRequest struct {
	VehicleID       *uuid.UUID `json:"vehicleId"`
	LocationID      *uuid.UUID `json:"locationId"`
	ServiceTypeID   *uuid.UUID `json:"serviceTypeId"`
	FuelType        *string    `json:"fuelType"`
	LitersRequested *float64   `json:"litersRequested"`
	StartTime       *time.Time `json:"startTime"`
	EndTime         *time.Time `json:"endTime"`
	Description     *string    `json:"description" binding:"omitempty,max=1000"`
	Urgency         *string    `json:"urgency"`
}

func (r *UpdateBookingRequest) ToPatch() (booking.Patch, error) {
	p := booking.Patch{
		VehicleID:     r.VehicleID,
		LocationID:    r.LocationID,
		ServiceTypeID: r.ServiceTypeID,
		StartTime:     r.StartTime,
		EndTime:       r.EndTime,
		Description:   r.Description,
	}
	if r.FuelType != nil {
		f := pricing.FuelType(*r.FuelType)
		p.FuelType = &f
	}
	if r.Urgency != nil {
		u := pricing.Urgency(*r.Urgency)
		p.Urgency = &u
	}
	if r.LitersRequested != nil {
		liters, err := pricing.LitersFromFloat(*r.LitersRequested)
		if err != nil {
			return booking.Patch{}, err
		}
		p.Liters = &liters
	}
	return p, nil
}
