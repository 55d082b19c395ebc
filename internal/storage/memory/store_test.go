package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltbook/internal/booking"
)

func storedBooking(t *testing.T, s *Store, status booking.Status) *booking.Booking {
	t.Helper()
	now := time.Now().UTC()
	b := &booking.Booking{
		ID:         uuid.New(),
		StationID:  uuid.New(),
		RenterID:   uuid.New(),
		StartTime:  now.Add(time.Hour),
		EndTime:    now.Add(2 * time.Hour),
		TotalPrice: 10,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, s.CreateIfFree(context.Background(), b))
	return b
}

func TestUpdateStatusLosesStaleCompareAndSet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	b := storedBooking(t, s, booking.StatusPending)
	stale := b.Clone()

	// first writer moves the booking away from pending
	accepted := b.Clone()
	accepted.Status = booking.StatusAccepted
	require.NoError(t, s.UpdateStatus(ctx, accepted, booking.StatusPending))

	// a writer still expecting pending must lose, not double-apply
	stale.Status = booking.StatusCancelled
	stale.TerminatedBy = booking.RoleRenter
	err := s.UpdateStatus(ctx, stale, booking.StatusPending)
	assert.ErrorIs(t, err, booking.ErrInvalidTransition)

	current, err := s.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusAccepted, current.Status)
	assert.Empty(t, current.TerminatedBy)
}

func TestGetStationDoesNotAliasRateSchedule(t *testing.T) {
	s := NewStore()
	st := &booking.Station{
		ID:           uuid.New(),
		OwnerID:      uuid.New(),
		Name:         "Borne Quai Sud",
		IsActive:     true,
		PowerKW:      22,
		PricingModel: booking.PricePerHour,
		RateSchedule: []booking.RateEntry{
			{Rate: 10, ValidFrom: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
	s.PutStation(st)

	got, err := s.GetStation(context.Background(), st.ID)
	require.NoError(t, err)
	got.RateSchedule[0].Rate = 999

	again, err := s.GetStation(context.Background(), st.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, again.RateSchedule[0].Rate)
}
