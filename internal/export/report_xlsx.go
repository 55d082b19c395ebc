package export

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/xuri/excelize/v2"

	"voltbook/internal/booking"
)

// BuildReportXLSX renders the admin booking report as a workbook with a
// summary sheet and a breakdown of terminal outcomes by actor.
func BuildReportXLSX(rep *booking.Report) ([]byte, error) {
	f := excelize.NewFile()
	summarySheet := "summary"
	outcomesSheet := "outcomes"
	f.SetSheetName("Sheet1", summarySheet)
	f.NewSheet(outcomesSheet)

	_ = f.SetCellValue(summarySheet, "A1", "Booking Report")
	_ = f.SetCellValue(summarySheet, "A3", "Total bookings")
	_ = f.SetCellValue(summarySheet, "B3", rep.TotalBookings)
	_ = f.SetCellValue(summarySheet, "A4", "Completed bookings")
	_ = f.SetCellValue(summarySheet, "B4", rep.CompletedCount)
	_ = f.SetCellValue(summarySheet, "A5", "Completed revenue (EUR)")
	_ = f.SetCellValue(summarySheet, "B5", rep.CompletedRevenue)

	row := 7
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), "Status")
	_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), "Count")
	for _, status := range sortedStatuses(rep.ByStatus) {
		row++
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), string(status))
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), rep.ByStatus[status])
	}

	_ = f.SetCellValue(outcomesSheet, "A1", "Outcome")
	_ = f.SetCellValue(outcomesSheet, "B1", "Count")
	keys := make([]string, 0, len(rep.Terminations))
	for k := range rep.Terminations {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for i, k := range keys {
		_ = f.SetCellValue(outcomesSheet, fmt.Sprintf("A%d", i+2), k)
		_ = f.SetCellValue(outcomesSheet, fmt.Sprintf("B%d", i+2), rep.Terminations[k])
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func sortedStatuses(m map[booking.Status]int) []booking.Status {
	out := make([]booking.Status, 0, len(m))
	for s := range m {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
