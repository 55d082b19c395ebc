package booking

import (
	"fmt"
	"math"
)

// ComputePrice prices a session request against the station's rate schedule.
// Duration-priced stations charge the hourly rate valid at r.Start times the
// duration in hours; energy-priced stations charge the per-kWh rate times
// the requested energy. Pure and deterministic.
func ComputePrice(st *Station, r Range, energyKWh *float64) (float64, error) {
	if energyKWh != nil && *energyKWh <= 0 {
		return 0, fmt.Errorf("%w: energy_kwh must be positive", ErrInvalidRequest)
	}

	rate, ok := st.RateAt(r.Start)
	if !ok {
		return 0, fmt.Errorf("%w: station %s at %s", ErrNoApplicablePricing, st.ID, r.Start.Format("2006-01-02 15:04"))
	}

	switch st.PricingModel {
	case PricePerHour:
		return roundToCents(rate * r.Hours()), nil
	case PricePerKWh:
		if energyKWh == nil {
			return 0, fmt.Errorf("%w: station %s is priced per kWh, energy_kwh is required", ErrInvalidRequest, st.ID)
		}
		return roundToCents(rate * *energyKWh), nil
	default:
		return 0, fmt.Errorf("%w: unknown pricing model %q", ErrInvalidRequest, st.PricingModel)
	}
}

// roundToCents rounds half-up to the currency's minor unit. Applied exactly
// once, at the end of a price computation.
func roundToCents(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
