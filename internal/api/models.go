package api

import (
	"time"

	"voltbook/internal/booking"
)

// Request DTOs are explicitly shaped and decoded strictly: unknown fields
// are rejected rather than passed through.

type CreateBookingRequest struct {
	StationID string    `json:"station_id"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	EnergyKWh *float64  `json:"energy_kwh,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}

type BookingResponse struct {
	ID                string    `json:"id"`
	StationID         string    `json:"station_id"`
	RenterID          string    `json:"renter_id"`
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	EnergyKWh         *float64  `json:"energy_kwh,omitempty"`
	TotalPrice        float64   `json:"total_price"`
	Status            string    `json:"status"`
	TerminatedBy      *string   `json:"terminated_by"`
	TerminationReason *string   `json:"termination_reason"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type RenterBookingsResponse struct {
	Upcoming []BookingResponse `json:"upcoming"`
	Past     []BookingResponse `json:"past"`
}

type ReportResponse struct {
	TotalBookings    int            `json:"total_bookings"`
	ByStatus         map[string]int `json:"by_status"`
	Terminations     map[string]int `json:"terminations"`
	CompletedCount   int            `json:"completed_count"`
	CompletedRevenue float64        `json:"completed_revenue"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	resp := BookingResponse{
		ID:         b.ID.String(),
		StationID:  b.StationID.String(),
		RenterID:   b.RenterID.String(),
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		EnergyKWh:  b.EnergyKWh,
		TotalPrice: b.TotalPrice,
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
		UpdatedAt:  b.UpdatedAt,
	}
	if b.TerminatedBy != "" {
		by := string(b.TerminatedBy)
		resp.TerminatedBy = &by
	}
	if b.TerminationReason != "" {
		reason := b.TerminationReason
		resp.TerminationReason = &reason
	}
	return resp
}

func toBookingResponses(list []*booking.Booking) []BookingResponse {
	out := make([]BookingResponse, 0, len(list))
	for _, b := range list {
		out = append(out, toBookingResponse(b))
	}
	return out
}

func toReportResponse(rep *booking.Report) ReportResponse {
	resp := ReportResponse{
		TotalBookings:    rep.TotalBookings,
		ByStatus:         make(map[string]int, len(rep.ByStatus)),
		Terminations:     rep.Terminations,
		CompletedCount:   rep.CompletedCount,
		CompletedRevenue: rep.CompletedRevenue,
	}
	for s, n := range rep.ByStatus {
		resp.ByStatus[string(s)] = n
	}
	if resp.Terminations == nil {
		resp.Terminations = map[string]int{}
	}
	return resp
}
