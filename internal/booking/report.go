package booking

import "fmt"

// Report is the admin reporting projection: counts per status, terminal
// outcomes broken down by the actor that triggered them, and revenue over
// completed bookings. Revenue is a sum of stored prices only; a report
// never re-prices anything.
type Report struct {
	TotalBookings    int
	ByStatus         map[Status]int
	Terminations     map[string]int
	CompletedCount   int
	CompletedRevenue float64
}

func NewReport() *Report {
	return &Report{
		ByStatus:     make(map[Status]int),
		Terminations: make(map[string]int),
	}
}

// Add folds one booking into the report.
func (r *Report) Add(b *Booking) {
	r.TotalBookings++
	r.ByStatus[b.Status]++

	if b.TerminatedBy != "" {
		r.Terminations[fmt.Sprintf("%s_by_%s", b.Status, b.TerminatedBy)]++
	}
	if b.Status == StatusCompleted {
		r.CompletedCount++
		r.CompletedRevenue += b.TotalPrice
	}
}
