package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"voltbook/internal/auth"
	"voltbook/internal/booking"
)

// Receipt is a read-only document derived from a completed booking. It is
// built from stored values only; in particular the amount is the booking's
// immutable total price, never a recomputation.
type Receipt struct {
	BookingID   uuid.UUID
	StationName string
	RenterID    uuid.UUID
	StartTime   time.Time
	EndTime     time.Time
	EnergyKWh   *float64
	TotalPrice  float64
	Currency    string
	IssuedAt    time.Time
}

// Receipt builds the receipt document for a completed booking. Bookings in
// any other status have nothing to export.
func (s *BookingService) Receipt(ctx context.Context, ident auth.Identity, bookingID uuid.UUID) (*Receipt, error) {
	b, err := s.Get(ctx, ident, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != booking.StatusCompleted {
		return nil, fmt.Errorf("%w: receipts exist only for completed bookings, booking %s is %s",
			booking.ErrInvalidRequest, b.ID, b.Status)
	}

	st, err := s.getStation(ctx, b.StationID)
	if err != nil {
		return nil, err
	}

	return &Receipt{
		BookingID:   b.ID,
		StationName: st.Name,
		RenterID:    b.RenterID,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		EnergyKWh:   b.EnergyKWh,
		TotalPrice:  b.TotalPrice,
		Currency:    "EUR",
		IssuedAt:    s.now(),
	}, nil
}
