package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"

	"voltbook/internal/service"
)

// BuildReceiptPDF renders the receipt document for a completed booking.
func BuildReceiptPDF(rcpt *service.Receipt) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Charging Session Receipt")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Booking: %s", rcpt.BookingID))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Station: %s", rcpt.StationName))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Start: %s", rcpt.StartTime.Format(time.RFC1123)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("End: %s", rcpt.EndTime.Format(time.RFC1123)))
	pdf.Ln(5)
	if rcpt.EnergyKWh != nil {
		pdf.Cell(0, 6, fmt.Sprintf("Energy: %.2f kWh", *rcpt.EnergyKWh))
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Issued: %s", rcpt.IssuedAt.Format(time.RFC1123)))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Total: %.2f %s", rcpt.TotalPrice, rcpt.Currency))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
