package payment

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"servicebay/internal/domain/pricing"
	"servicebay/internal/pkg/clock"
	"servicebay/internal/pkg/errs"
)

// Input is the raw instrument as received from the caller.
type Input struct {
	Method     string
	Total      float64
	CardNumber string
	Expiry     string
	CVV        string
	Token      string
	CreatedBy  string
	Notes      string
}

// Instrument is the normalized, validated payment instrument.
type Instrument struct {
	Method      Method
	Amount      pricing.Money
	CardNumber  string
	CardLast4   string
	ExpiryMonth int
	ExpiryYear  int
	CVV         string
	Token       string
	CreatedBy   string
	Notes       string
}

type Validator struct {
	clock clock.Clock
}

func NewValidator(clk clock.Clock) *Validator {
	return &Validator{clock: clk}
}

// Validate applies the rules in order and returns the first failure.
func (v *Validator) Validate(in Input) (Instrument, error) {
	method := Method(strings.ToUpper(strings.TrimSpace(in.Method)))
	if !method.IsValid() {
		return Instrument{}, errs.NewValidation("method", "must be one of CARD, CASH, ONLINE")
	}

	amount, err := pricing.MoneyFromFloat("total", in.Total)
	if err != nil {
		return Instrument{}, err
	}

	out := Instrument{Method: method, Amount: amount}

	if method == MethodCard {
		digits, err := normalizeCardNumber(in.CardNumber)
		if err != nil {
			return Instrument{}, err
		}
		month, year, err := parseExpiry(in.Expiry, v.clock.Now())
		if err != nil {
			return Instrument{}, err
		}
		cvv := strings.TrimSpace(in.CVV)
		if !isDigits(cvv) || len(cvv) < 3 || len(cvv) > 4 {
			return Instrument{}, errs.NewValidation("cvv", "must be 3 or 4 digits")
		}
		out.CardNumber = digits
		out.CardLast4 = digits[len(digits)-4:]
		out.ExpiryMonth = month
		out.ExpiryYear = year
		out.CVV = cvv
	}
	if method.RequiresGateway() {
		out.Token = strings.TrimSpace(in.Token)
	}

	createdBy := strings.TrimSpace(in.CreatedBy)
	if len(createdBy) > MaxCreatedByLength {
		return Instrument{}, errs.NewValidation("createdBy", "must be at most 50 characters")
	}
	if utf8.RuneCountInString(in.Notes) > MaxNotesLength {
		return Instrument{}, errs.NewValidation("notes", "must be at most 500 characters")
	}
	out.CreatedBy = createdBy
	out.Notes = in.Notes

	return out, nil
}

func normalizeCardNumber(raw string) (string, error) {
	digits := strings.NewReplacer(" ", "", "-", "").Replace(raw)
	if !isDigits(digits) || len(digits) < 13 || len(digits) > 19 {
		return "", errs.NewValidation("cardNumber", "must contain 13 to 19 digits")
	}
	return digits, nil
}

func parseExpiry(raw string, now time.Time) (int, int, error) {
	raw = strings.TrimSpace(raw)
	mm, yy, ok := strings.Cut(raw, "/")
	if !ok || len(mm) != 2 || len(yy) != 2 || !isDigits(mm) || !isDigits(yy) {
		return 0, 0, errs.NewValidation("expiry", "must be in MM/YY format")
	}
	month, _ := strconv.Atoi(mm)
	year, _ := strconv.Atoi(yy)
	if month < 1 || month > 12 {
		return 0, 0, errs.NewValidation("expiry", "month must be between 01 and 12")
	}
	year += 2000
	if year < now.Year() || (year == now.Year() && month < int(now.Month())) {
		return 0, 0, errs.NewValidation("expiry", "card has expired")
	}
	return month, year, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
