package booking

import (
	"math"

	"neatly/models"
)

// RateTable maps service types to base hourly rates in GBP. Rates are
// service-level defaults and can be overridden via PricingCalculator.
type RateTable map[models.ServiceType]float64

// DefaultRates returns the standard base hourly rates.
func DefaultRates() RateTable {
	return RateTable{
		models.ServiceRegular:      25,
		models.ServiceDeep:         35,
		models.ServiceEndOfTenancy: 45,
		models.ServiceOffice:       28,
		models.ServiceMoveIn:       40,
		models.ServiceMoveOut:      40,
		models.ServiceOneTime:      30,
	}
}

// frequencyMultipliers discount recurring bookings. They compose
// multiplicatively with the duration discount.
var frequencyMultipliers = map[models.Frequency]float64{
	models.FrequencyOneTime:  1.0,
	models.FrequencyWeekly:   0.90,
	models.FrequencyBiweekly: 0.95,
}

// MaxDurationHours is the sanity ceiling used across the booking flow.
const MaxDurationHours = 12

// PricingCalculator converts (service type, duration, frequency) into a
// total price. It is a pure function over its rate table: no I/O, no state.
type PricingCalculator struct {
	rates RateTable
}

// NewPricingCalculator builds a calculator; a nil table gets the defaults.
func NewPricingCalculator(rates RateTable) *PricingCalculator {
	if rates == nil {
		rates = DefaultRates()
	}
	return &PricingCalculator{rates: rates}
}

// Quote computes the total price for a booking request.
// Duration discounts: 6+ hours 10% off, 4-5 hours 5% off. The frequency
// multiplier is applied on top, then the result is rounded to pence.
func (p *PricingCalculator) Quote(serviceType models.ServiceType, durationHours int, frequency models.Frequency) (float64, error) {
	baseRate, ok := p.rates[serviceType]
	if !ok {
		return 0, NewValidationError("service_type", "unknown service type "+string(serviceType))
	}
	if durationHours < 1 || durationHours > MaxDurationHours {
		return 0, NewValidationError("duration_hours", "duration must be between 1 and 12 hours")
	}
	if frequency == "" {
		frequency = models.FrequencyOneTime
	}
	freqMult, ok := frequencyMultipliers[frequency]
	if !ok {
		return 0, NewValidationError("frequency", "unknown frequency "+string(frequency))
	}

	durationMult := 1.0
	switch {
	case durationHours >= 6:
		durationMult = 0.90
	case durationHours >= 4:
		durationMult = 0.95
	}

	total := baseRate * durationMult * freqMult * float64(durationHours)
	return math.Round(total*100) / 100, nil
}
