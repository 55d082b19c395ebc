package booking

import (
	"time"

	"github.com/google/uuid"
)

// PricingModel selects how a station charges for a session.
type PricingModel string

const (
	PricePerHour PricingModel = "per_hour"
	PricePerKWh  PricingModel = "per_kwh"
)

// RateEntry is a time-bounded price rule. ValidTo == nil means open-ended.
// Entries of one station never overlap.
type RateEntry struct {
	Rate      float64
	ValidFrom time.Time
	ValidTo   *time.Time
}

// Covers reports whether t falls inside the entry's validity interval.
func (e RateEntry) Covers(t time.Time) bool {
	if t.Before(e.ValidFrom) {
		return false
	}
	return e.ValidTo == nil || t.Before(*e.ValidTo)
}

// Station is the read-only view of a charging station consumed by the
// reservation engine. The station catalog itself is owned elsewhere.
type Station struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Name         string
	IsActive     bool
	PowerKW      float64
	PricingModel PricingModel
	RateSchedule []RateEntry
}

// RateAt returns the rate of the schedule entry whose validity interval
// contains t.
func (s *Station) RateAt(t time.Time) (float64, bool) {
	for _, e := range s.RateSchedule {
		if e.Covers(t) {
			return e.Rate, true
		}
	}
	return 0, false
}
