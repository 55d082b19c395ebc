package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltbook/internal/booking"
	"voltbook/internal/service"
)

func TestBuildReceiptPDF(t *testing.T) {
	energy := 14.5
	pdf, err := BuildReceiptPDF(&service.Receipt{
		BookingID:   uuid.New(),
		StationName: "Borne Gare Nord",
		RenterID:    uuid.New(),
		StartTime:   time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		EndTime:     time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC),
		EnergyKWh:   &energy,
		TotalPrice:  20.00,
		Currency:    "EUR",
		IssuedAt:    time.Date(2026, 3, 10, 11, 5, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
}

func TestBuildReportXLSX(t *testing.T) {
	rep := booking.NewReport()
	rep.Add(&booking.Booking{Status: booking.StatusCompleted, TotalPrice: 20})
	rep.Add(&booking.Booking{Status: booking.StatusPending})
	rep.Add(&booking.Booking{Status: booking.StatusCancelled, TerminatedBy: booking.RoleRenter})

	out, err := BuildReportXLSX(rep)
	require.NoError(t, err)
	// xlsx files are zip archives
	assert.True(t, bytes.HasPrefix(out, []byte("PK")))
}
