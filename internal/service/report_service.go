package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"voltbook/internal/auth"
	"voltbook/internal/booking"
)

// ReportStore aggregates persisted bookings into the admin projection.
type ReportStore interface {
	Report(ctx context.Context) (*booking.Report, error)
}

type ReportService struct {
	log     *zap.Logger
	store   ReportStore
	timeout time.Duration
}

func NewReportService(log *zap.Logger, store ReportStore) *ReportService {
	return &ReportService{log: log, store: store, timeout: defaultStoreTimeout}
}

// BookingReport returns the reporting projection for admins.
func (s *ReportService) BookingReport(ctx context.Context, ident auth.Identity) (*booking.Report, error) {
	if !ident.HasRole(auth.RoleAdmin) {
		return nil, fmt.Errorf("%w: reporting is admin-only", booking.ErrNotAuthorized)
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	rep, err := s.store.Report(cctx)
	if err != nil {
		return nil, storeErr(err)
	}
	return rep, nil
}
