package pricing

import (
	"fmt"
	"math"

	"servicebay/internal/pkg/errs"
)

// Money is an amount in cents.
type Money int64

func (m Money) Cents() int64 { return int64(m) }

func (m Money) Float64() float64 { return float64(m) / 100 }

func (m Money) String() string {
	sign := ""
	v := int64(m)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MoneyFromFloat rejects amounts that are not finite, not positive, or carry more than two decimals.
func MoneyFromFloat(field string, v float64) (Money, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errs.NewValidation(field, "must be a finite number")
	}
	if v <= 0 {
		return 0, errs.NewValidation(field, "must be greater than zero")
	}
	scaled := v * 100
	cents := math.Round(scaled)
	if math.Abs(scaled-cents) > 1e-6 {
		return 0, errs.NewValidation(field, "must have at most 2 decimal places")
	}
	if cents > math.MaxInt64/1000 {
		return 0, errs.NewValidation(field, "is too large")
	}
	return Money(int64(cents)), nil
}

// Liters is a fuel quantity in milliliters.
type Liters int64

const MaxLiters = 10000

func LitersFromFloat(v float64) (Liters, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, errs.NewValidation("litersRequested", "must be greater than zero")
	}
	if v > MaxLiters {
		return 0, errs.NewValidation("litersRequested", fmt.Sprintf("must not exceed %d", MaxLiters))
	}
	scaled := v * 1000
	ml := math.Round(scaled)
	if math.Abs(scaled-ml) > 1e-6 {
		return 0, errs.NewValidation("litersRequested", "must have at most 3 decimal places")
	}
	return Liters(int64(ml)), nil
}

func (l Liters) Milliliters() int64 { return int64(l) }

func (l Liters) Float64() float64 { return float64(l) / 1000 }

// roundHalfUp divides n by d rounding halves away from zero. Both must be non-negative.
func roundHalfUp(n, d int64) int64 {
	return (2*n + d) / (2 * d)
}
