package pricing

import (
	"servicebay/internal/pkg/errs"
)

const maxServicePriceCents = 10_000_000_000

type Request struct {
	Kind         Kind
	FuelType     FuelType
	Liters       Liters
	ServicePrice *Money
	Urgency      Urgency
}

type Quote struct {
	Base     Money
	Subtotal Money
	Tax      Money
	Total    Money
}

// Engine prices a booking request. It holds no state.
type Engine interface {
	Price(req Request) (Quote, error)
}

type engine struct{}

func NewEngine() Engine {
	return engine{}
}

func (engine) Price(req Request) (Quote, error) {
	return Price(req)
}

// Price computes the breakdown in exact integer arithmetic and rounds half-up to
// the cent once for the subtotal and once for the total. Tax is their difference
// so the three lines always add up.
func Price(req Request) (Quote, error) {
	if !req.Urgency.IsValid() {
		return Quote{}, errs.NewValidation("urgency", "unknown urgency "+req.Urgency.String())
	}

	// exact base = baseNum / baseDen cents
	var baseNum, baseDen int64
	switch req.Kind {
	case KindFuel:
		unit, ok := req.FuelType.UnitPrice()
		if !ok {
			return Quote{}, errs.NewValidation("fuelType", "unknown fuel type "+req.FuelType.String())
		}
		if req.Liters <= 0 {
			return Quote{}, errs.NewValidation("litersRequested", "must be greater than zero")
		}
		if req.Liters > MaxLiters*1000 {
			return Quote{}, errs.NewValidation("litersRequested", "exceeds maximum")
		}
		baseNum, baseDen = req.Liters.Milliliters()*unit.Cents(), 1000
	case KindService:
		if req.ServicePrice == nil {
			return Quote{}, errs.NewValidation("serviceTypeId", "service price is required")
		}
		if *req.ServicePrice < 0 || *req.ServicePrice > maxServicePriceCents {
			return Quote{}, errs.NewValidation("serviceTypeId", "service price out of range")
		}
		baseNum, baseDen = req.ServicePrice.Cents(), 1
	default:
		return Quote{}, errs.NewValidation("kind", "unknown booking kind "+req.Kind.String())
	}

	factor := 100 + req.Urgency.SurchargePercent()
	subtotalNum := baseNum * factor
	subtotalDen := baseDen * 100
	totalNum := subtotalNum * (100 + TaxPercent)
	totalDen := subtotalDen * 100

	subtotal := Money(roundHalfUp(subtotalNum, subtotalDen))
	total := Money(roundHalfUp(totalNum, totalDen))

	return Quote{
		Base:     Money(roundHalfUp(baseNum, baseDen)),
		Subtotal: subtotal,
		Tax:      total - subtotal,
		Total:    total,
	}, nil
}
