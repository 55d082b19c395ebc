package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voltbook/internal/booking"
)

func seedBooking(t *testing.T, f *fixture, status booking.Status, start, end time.Time) *booking.Booking {
	t.Helper()
	b := &booking.Booking{
		ID:         uuid.New(),
		StationID:  f.station.ID,
		RenterID:   f.renter.UserID,
		StartTime:  start,
		EndTime:    end,
		TotalPrice: 10,
		Status:     status,
		CreatedAt:  start.Add(-time.Hour),
		UpdatedAt:  start.Add(-time.Hour),
	}
	require.NoError(t, f.store.CreateIfFree(context.Background(), b))
	return b
}

func TestSweepDueBookings(t *testing.T) {
	f := newFixture(t)
	jobs := NewJobService(zap.NewNop(), f.store, f.engine)
	now := time.Now().UTC()

	ended := seedBooking(t, f, booking.StatusAccepted, now.Add(-3*time.Hour), now.Add(-2*time.Hour))
	running := seedBooking(t, f, booking.StatusAccepted, now.Add(-30*time.Minute), now.Add(30*time.Minute))
	endedInProgress := seedBooking(t, f, booking.StatusInProgress, now.Add(-5*time.Hour), now.Add(-4*time.Hour))
	notStarted := seedBooking(t, f, booking.StatusAccepted, now.Add(2*time.Hour), now.Add(3*time.Hour))

	jobs.SweepDueBookings()

	assertStatus := func(id uuid.UUID, want booking.Status) {
		b, err := f.store.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, want, b.Status)
	}
	assertStatus(ended.ID, booking.StatusCompleted)
	assertStatus(running.ID, booking.StatusInProgress)
	assertStatus(endedInProgress.ID, booking.StatusCompleted)
	assertStatus(notStarted.ID, booking.StatusAccepted)
}

func TestSweepIsHarmlessWhenNothingIsDue(t *testing.T) {
	f := newFixture(t)
	jobs := NewJobService(zap.NewNop(), f.store, f.engine)

	jobs.SweepDueBookings() // empty store

	b := seedBooking(t, f, booking.StatusPending,
		time.Now().UTC().Add(time.Hour), time.Now().UTC().Add(2*time.Hour))
	jobs.SweepDueBookings()

	stored, err := f.store.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPending, stored.Status)
}
