package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voltbook/internal/auth"
)

// NewRouter wires the HTTP boundary: the booking API behind the identity
// middleware, the admin surface behind the admin role, plus metrics and
// health probes.
func NewRouter(bookings *BookingHandler, admin *AdminHandler) *mux.Router {
	r := mux.NewRouter()

	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")

	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(auth.Middleware)
	apiRouter.HandleFunc("/bookings", bookings.CreateBooking).Methods("POST")
	apiRouter.HandleFunc("/bookings/my", bookings.MyBookings).Methods("GET")
	apiRouter.HandleFunc("/bookings/station/{stationID}", bookings.StationBookings).Methods("GET")
	apiRouter.HandleFunc("/bookings/{id}", bookings.GetBooking).Methods("GET")
	apiRouter.HandleFunc("/bookings/{id}/status", bookings.UpdateStatus).Methods("PATCH")
	apiRouter.HandleFunc("/bookings/{id}/cancel", bookings.CancelBooking).Methods("PATCH")
	apiRouter.HandleFunc("/bookings/{id}/receipt", bookings.Receipt).Methods("GET")

	adminRouter := r.PathPrefix("/admin").Subrouter()
	adminRouter.Use(auth.Middleware, auth.RequireRole(auth.RoleAdmin))
	adminRouter.HandleFunc("/reports/bookings", admin.BookingReport).Methods("GET")
	adminRouter.HandleFunc("/reports/bookings/export", admin.ExportBookingReport).Methods("GET")

	return r
}
