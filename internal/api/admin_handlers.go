package api

import (
	"net/http"
	"time"

	"voltbook/internal/export"
	"voltbook/internal/service"
)

type AdminHandler struct {
	Reports *service.ReportService
}

func NewAdminHandler(reports *service.ReportService) *AdminHandler {
	return &AdminHandler{Reports: reports}
}

func (h *AdminHandler) BookingReport(w http.ResponseWriter, r *http.Request) {
	ident, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	rep, err := h.Reports.BookingReport(r.Context(), ident)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toReportResponse(rep))
}

func (h *AdminHandler) ExportBookingReport(w http.ResponseWriter, r *http.Request) {
	ident, ok := callerIdentity(w, r)
	if !ok {
		return
	}

	rep, err := h.Reports.BookingReport(r.Context(), ident)
	if err != nil {
		respondError(w, err)
		return
	}
	xlsx, err := export.BuildReportXLSX(rep)
	if err != nil {
		respondError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		"attachment; filename=booking-report-"+time.Now().UTC().Format("2006-01-02")+".xlsx")
	w.Write(xlsx)
}
