package pricing

type Kind string

const (
	KindService Kind = "SERVICE"
	KindFuel    Kind = "FUEL"
)

func (k Kind) String() string { return string(k) }

func (k Kind) IsValid() bool {
	switch k {
	case KindService, KindFuel:
		return true
	default:
		return false
	}
}

type FuelType string

const (
	FuelPetrol92    FuelType = "PETROL_92"
	FuelPetrol95    FuelType = "PETROL_95"
	FuelAutoDiesel  FuelType = "AUTO_DIESEL"
	FuelSuperDiesel FuelType = "SUPER_DIESEL"
)

func (f FuelType) String() string { return string(f) }

// Unit prices in cents per liter.
var fuelUnitPrices = map[FuelType]int64{
	FuelPetrol92:    29900,
	FuelPetrol95:    36100,
	FuelAutoDiesel:  28300,
	FuelSuperDiesel: 31300,
}

func (f FuelType) IsValid() bool {
	_, ok := fuelUnitPrices[f]
	return ok
}

func (f FuelType) UnitPrice() (Money, bool) {
	p, ok := fuelUnitPrices[f]
	return Money(p), ok
}

type Urgency string

const (
	UrgencyLow    Urgency = "LOW"
	UrgencyNormal Urgency = "NORMAL"
	UrgencyHigh   Urgency = "HIGH"
	UrgencyUrgent Urgency = "URGENT"
)

// Surcharge percentages applied to the base price.
var urgencySurcharges = map[Urgency]int64{
	UrgencyLow:    -10,
	UrgencyNormal: 0,
	UrgencyHigh:   20,
	UrgencyUrgent: 30,
}

func (u Urgency) String() string { return string(u) }

func (u Urgency) IsValid() bool {
	_, ok := urgencySurcharges[u]
	return ok
}

func (u Urgency) SurchargePercent() int64 {
	return urgencySurcharges[u]
}

const TaxPercent int64 = 15
