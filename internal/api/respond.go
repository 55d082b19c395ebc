package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"voltbook/internal/booking"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError translates the domain error taxonomy to HTTP. Every failure
// reaches the caller as a rejected operation with a readable reason; nothing
// is swallowed.
func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, booking.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, booking.ErrNotAuthorized):
		status = http.StatusForbidden
	case errors.Is(err, booking.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, booking.ErrConflict), errors.Is(err, booking.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, booking.ErrStationInactive), errors.Is(err, booking.ErrNoApplicablePricing):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, booking.ErrPersistenceTimeout):
		w.Header().Set("Retry-After", "1")
		status = http.StatusServiceUnavailable
	}
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

// decodeJSON rejects malformed bodies and unknown fields.
func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", booking.ErrInvalidRequest, err)
	}
	return nil
}

// decodeOptionalJSON is decodeJSON for endpoints whose body may be absent.
// An empty body leaves dst untouched; a present body is decoded strictly.
func decodeOptionalJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %v", booking.ErrInvalidRequest, err)
	}
	return nil
}
