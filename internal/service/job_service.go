package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"voltbook/internal/auth"
	"voltbook/internal/booking"
)

// JobService hosts the scheduled sweep that advances sessions as the clock
// passes their boundaries, acting as the system actor through the regular
// transition path so the state machine stays the single gatekeeper.
type JobService struct {
	log      *zap.Logger
	bookings BookingStore
	engine   *BookingService
	now      func() time.Time
}

func NewJobService(log *zap.Logger, bookings BookingStore, engine *BookingService) *JobService {
	return &JobService{
		log:      log,
		bookings: bookings,
		engine:   engine,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// SweepDueBookings moves accepted bookings past their start time to
// in_progress and accepted or in-progress bookings past their end time to
// completed. A booking that races with a user-triggered transition simply
// loses the compare-and-set and is picked up again on the next run.
func (s *JobService) SweepDueBookings() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	now := s.now()
	candidates, err := s.bookings.ListSweepCandidates(ctx, now)
	if err != nil {
		s.log.Warn("sweep: listing due bookings failed", zap.Error(err))
		return
	}
	if len(candidates) == 0 {
		return
	}

	system := auth.SystemIdentity()
	var advanced int
	for _, b := range candidates {
		target := sweepTarget(b, now)
		if target == "" {
			continue
		}
		if _, err := s.engine.Transition(ctx, system, b.ID, target, ""); err != nil {
			if errors.Is(err, booking.ErrInvalidTransition) {
				continue // lost a race, next run will see the new status
			}
			s.log.Warn("sweep: transition failed",
				zap.String("booking_id", b.ID.String()),
				zap.String("target", string(target)),
				zap.Error(err))
			continue
		}
		advanced++
	}
	if advanced > 0 {
		s.log.Info("sweep: advanced bookings", zap.Int("count", advanced))
	}
}

func sweepTarget(b *booking.Booking, now time.Time) booking.Status {
	switch b.Status {
	case booking.StatusAccepted:
		if !now.Before(b.EndTime) {
			return booking.StatusCompleted
		}
		if !now.Before(b.StartTime) {
			return booking.StatusInProgress
		}
	case booking.StatusInProgress:
		if !now.Before(b.EndTime) {
			return booking.StatusCompleted
		}
	}
	return ""
}
