package api

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"voltbook/internal/auth"
	"voltbook/internal/booking"
	"voltbook/internal/export"
	"voltbook/internal/service"
)

type BookingHandler struct {
	Service *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	ident, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	stationID, err := uuid.Parse(req.StationID)
	if err != nil {
		respondError(w, fmt.Errorf("%w: station_id is not a valid id", booking.ErrInvalidRequest))
		return
	}

	b, err := h.Service.Create(r.Context(), ident, service.CreateBookingInput{
		StationID: stationID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		EnergyKWh: req.EnergyKWh,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toBookingResponse(b))
}

func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	ident, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	b, err := h.Service.Get(r.Context(), ident, id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBookingResponse(b))
}

// MyBookings returns the caller's bookings partitioned into upcoming and
// past as of now.
func (h *BookingHandler) MyBookings(w http.ResponseWriter, r *http.Request) {
	ident, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	upcoming, past, err := h.Service.RenterBookings(r.Context(), ident)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, RenterBookingsResponse{
		Upcoming: toBookingResponses(upcoming),
		Past:     toBookingResponses(past),
	})
}

func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ident, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	b, err := h.Service.Transition(r.Context(), ident, id, booking.Status(req.Status), req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBookingResponse(b))
}

// CancelBooking is the renter-facing shortcut for the cancelled transition.
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	ident, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req CancelBookingRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	b, err := h.Service.Transition(r.Context(), ident, id, booking.StatusCancelled, req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBookingResponse(b))
}

func (h *BookingHandler) StationBookings(w http.ResponseWriter, r *http.Request) {
	ident, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	stationID, ok := pathID(w, r, "stationID")
	if !ok {
		return
	}

	list, err := h.Service.StationBookings(r.Context(), ident, stationID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toBookingResponses(list))
}

// Receipt streams the PDF receipt of a completed booking.
func (h *BookingHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	ident, ok := callerIdentity(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	rcpt, err := h.Service.Receipt(r.Context(), ident, id)
	if err != nil {
		respondError(w, err)
		return
	}
	pdf, err := export.BuildReceiptPDF(rcpt)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", rcpt.BookingID))
	w.Write(pdf)
}

func callerIdentity(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	ident, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return auth.Identity{}, false
	}
	return ident, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(mux.Vars(r)[name])
	if err != nil {
		respondError(w, fmt.Errorf("%w: %s is not a valid id", booking.ErrInvalidRequest, name))
		return uuid.Nil, false
	}
	return id, true
}
