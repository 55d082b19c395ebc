package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"voltbook/internal/booking"
)

func TestBookingReportSumsStoredPrices(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	// stored prices are authoritative, whatever today's rate schedule says
	seedBooking(t, f, booking.StatusCompleted, now.Add(-6*time.Hour), now.Add(-5*time.Hour))
	seedBooking(t, f, booking.StatusCompleted, now.Add(-4*time.Hour), now.Add(-3*time.Hour))

	refused := seedBooking(t, f, booking.StatusRefused, now.Add(4*time.Hour), now.Add(5*time.Hour))
	refused.TerminatedBy = booking.RoleOwner
	require.NoError(t, f.store.UpdateStatus(ctx, refused, booking.StatusRefused))

	seedBooking(t, f, booking.StatusPending, now.Add(6*time.Hour), now.Add(7*time.Hour))

	svc := NewReportService(zap.NewNop(), f.store)
	rep, err := svc.BookingReport(ctx, f.admin)
	require.NoError(t, err)

	assert.Equal(t, 4, rep.TotalBookings)
	assert.Equal(t, 2, rep.CompletedCount)
	assert.Equal(t, 20.00, rep.CompletedRevenue)
	assert.Equal(t, 1, rep.ByStatus[booking.StatusPending])
	assert.Equal(t, 1, rep.Terminations["refused_by_owner"])

	_, err = svc.BookingReport(ctx, f.renter)
	assert.ErrorIs(t, err, booking.ErrNotAuthorized)
}

func TestReceiptOnlyForCompletedBookings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	b := seedBooking(t, f, booking.StatusCompleted, now.Add(-3*time.Hour), now.Add(-2*time.Hour))

	rcpt, err := f.engine.Receipt(ctx, f.renter, b.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, rcpt.BookingID)
	assert.Equal(t, f.station.Name, rcpt.StationName)
	assert.Equal(t, b.TotalPrice, rcpt.TotalPrice)
	assert.Equal(t, "EUR", rcpt.Currency)

	pending := seedBooking(t, f, booking.StatusPending, now.Add(2*time.Hour), now.Add(3*time.Hour))
	_, err = f.engine.Receipt(ctx, f.renter, pending.ID)
	assert.ErrorIs(t, err, booking.ErrInvalidRequest)

	// a stranger cannot pull someone else's receipt
	stranger := f.admin
	stranger.Roles = nil
	_, err = f.engine.Receipt(ctx, stranger, b.ID)
	assert.ErrorIs(t, err, booking.ErrNotAuthorized)
}
