package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"voltbook/internal/auth"
	"voltbook/internal/booking"
	"voltbook/internal/metrics"
)

const defaultStoreTimeout = 5 * time.Second

// BookingStore persists bookings. CreateIfFree must perform the conflict
// check and the insert as one atomic unit with respect to concurrent calls
// for the same station. UpdateStatus must apply the new status only if the
// stored status still equals expected, so two racing transitions cannot
// both succeed.
type BookingStore interface {
	CreateIfFree(ctx context.Context, b *booking.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	UpdateStatus(ctx context.Context, b *booking.Booking, expected booking.Status) error
	ListByRenter(ctx context.Context, renterID uuid.UUID) ([]*booking.Booking, error)
	ListByStation(ctx context.Context, stationID uuid.UUID) ([]*booking.Booking, error)
	ListSweepCandidates(ctx context.Context, now time.Time) ([]*booking.Booking, error)
}

// StationStore is the read-only station catalog boundary.
type StationStore interface {
	GetStation(ctx context.Context, id uuid.UUID) (*booking.Station, error)
}

// Notifier is told about actor-triggered status changes. Implementations
// must not block the request path.
type Notifier interface {
	BookingStatusChanged(b *booking.Booking)
}

type noopNotifier struct{}

func (noopNotifier) BookingStatusChanged(*booking.Booking) {}

// BookingService orchestrates pricing, conflict detection and the status
// state machine behind the HTTP boundary.
type BookingService struct {
	log      *zap.Logger
	bookings BookingStore
	stations StationStore
	notifier Notifier
	timeout  time.Duration
	now      func() time.Time
}

func NewBookingService(log *zap.Logger, bookings BookingStore, stations StationStore) *BookingService {
	return &BookingService{
		log:      log,
		bookings: bookings,
		stations: stations,
		notifier: noopNotifier{},
		timeout:  defaultStoreTimeout,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithNotifier installs the status-change notifier.
func (s *BookingService) WithNotifier(n Notifier) *BookingService {
	s.notifier = n
	return s
}

type CreateBookingInput struct {
	StationID uuid.UUID
	StartTime time.Time
	EndTime   time.Time
	EnergyKWh *float64
}

// Create validates the request, prices it and inserts a pending booking
// atomically with the conflict check. The total price is computed exactly
// once here and never changes afterwards.
func (s *BookingService) Create(ctx context.Context, ident auth.Identity, in CreateBookingInput) (*booking.Booking, error) {
	started := s.now()
	b, err := s.create(ctx, ident, in)
	metrics.ObserveCreate(err, s.now().Sub(started))
	if err != nil {
		s.log.Info("booking create rejected",
			zap.String("station_id", in.StationID.String()),
			zap.String("renter_id", ident.UserID.String()),
			zap.Error(err))
		return nil, err
	}
	s.log.Info("booking created",
		zap.String("booking_id", b.ID.String()),
		zap.String("station_id", b.StationID.String()),
		zap.Float64("total_price", b.TotalPrice))
	return b, nil
}

func (s *BookingService) create(ctx context.Context, ident auth.Identity, in CreateBookingInput) (*booking.Booking, error) {
	if !ident.HasRole(auth.RoleClient) && !ident.HasRole(auth.RoleAdmin) {
		return nil, fmt.Errorf("%w: only clients can book a station", booking.ErrNotAuthorized)
	}

	now := s.now()
	if !in.StartTime.Before(in.EndTime) {
		return nil, fmt.Errorf("%w: start_time must be before end_time", booking.ErrInvalidRequest)
	}
	if !in.StartTime.After(now) {
		return nil, fmt.Errorf("%w: start_time must be in the future", booking.ErrInvalidRequest)
	}
	if in.EnergyKWh != nil && *in.EnergyKWh <= 0 {
		return nil, fmt.Errorf("%w: energy_kwh must be positive", booking.ErrInvalidRequest)
	}

	st, err := s.getStation(ctx, in.StationID)
	if err != nil {
		return nil, err
	}
	if !st.IsActive {
		return nil, fmt.Errorf("%w: station %s", booking.ErrStationInactive, st.ID)
	}

	rng := booking.Range{Start: in.StartTime, End: in.EndTime}
	price, err := booking.ComputePrice(st, rng, in.EnergyKWh)
	if err != nil {
		return nil, err
	}

	b := &booking.Booking{
		ID:         uuid.New(),
		StationID:  st.ID,
		RenterID:   ident.UserID,
		StartTime:  in.StartTime,
		EndTime:    in.EndTime,
		EnergyKWh:  in.EnergyKWh,
		TotalPrice: price,
		Status:     booking.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.bookings.CreateIfFree(cctx, b); err != nil {
		return nil, storeErr(err)
	}
	return b, nil
}

// Transition moves a booking to target if the state-machine table allows the
// caller to do so. The write is a compare-and-set on the previous status; a
// lost race surfaces as ErrInvalidTransition rather than a second silent
// apply.
func (s *BookingService) Transition(ctx context.Context, ident auth.Identity, bookingID uuid.UUID, target booking.Status, reason string) (*booking.Booking, error) {
	started := s.now()
	b, err := s.transition(ctx, ident, bookingID, target, reason)
	metrics.ObserveTransition(string(target), err, s.now().Sub(started))
	if err != nil {
		return nil, err
	}

	s.log.Info("booking status changed",
		zap.String("booking_id", b.ID.String()),
		zap.String("status", string(b.Status)),
		zap.String("terminated_by", string(b.TerminatedBy)))
	s.notifier.BookingStatusChanged(b.Clone())
	return b, nil
}

func (s *BookingService) transition(ctx context.Context, ident auth.Identity, bookingID uuid.UUID, target booking.Status, reason string) (*booking.Booking, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	st, err := s.getStation(ctx, b.StationID)
	if err != nil {
		return nil, err
	}

	actor := booking.Actor{
		ID:       ident.UserID,
		IsRenter: !ident.System && ident.UserID == b.RenterID,
		IsOwner:  !ident.System && ident.UserID == st.OwnerID,
		IsAdmin:  ident.HasRole(auth.RoleAdmin),
		IsSystem: ident.System,
	}

	previous := b.Status
	if err := booking.Transition(b, target, actor, reason, s.now()); err != nil {
		return nil, err
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.bookings.UpdateStatus(cctx, b, previous); err != nil {
		return nil, storeErr(err)
	}
	return b, nil
}

// Get returns a single booking to its renter, the station owner or an admin.
func (s *BookingService) Get(ctx context.Context, ident auth.Identity, bookingID uuid.UUID) (*booking.Booking, error) {
	b, err := s.getBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := s.authorizeRead(ctx, ident, b); err != nil {
		return nil, err
	}
	return b, nil
}

// RenterBookings partitions the renter's bookings into upcoming and past at
// call time. The partition is a point-in-time view: a booking drifts from
// upcoming to past purely by the clock, without any status change.
func (s *BookingService) RenterBookings(ctx context.Context, ident auth.Identity) (upcoming, past []*booking.Booking, err error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	all, err := s.bookings.ListByRenter(cctx, ident.UserID)
	if err != nil {
		return nil, nil, storeErr(err)
	}

	now := s.now()
	for _, b := range all {
		if b.EndTime.After(now) && b.Status != booking.StatusCancelled && b.Status != booking.StatusRefused {
			upcoming = append(upcoming, b)
		} else {
			past = append(past, b)
		}
	}
	return upcoming, past, nil
}

// StationBookings returns every booking referencing the station, for the
// owning operator (or an admin).
func (s *BookingService) StationBookings(ctx context.Context, ident auth.Identity, stationID uuid.UUID) ([]*booking.Booking, error) {
	st, err := s.getStation(ctx, stationID)
	if err != nil {
		return nil, err
	}
	if st.OwnerID != ident.UserID && !ident.HasRole(auth.RoleAdmin) {
		return nil, fmt.Errorf("%w: station %s is not operated by caller", booking.ErrNotAuthorized, stationID)
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	list, err := s.bookings.ListByStation(cctx, stationID)
	if err != nil {
		return nil, storeErr(err)
	}
	return list, nil
}

func (s *BookingService) authorizeRead(ctx context.Context, ident auth.Identity, b *booking.Booking) error {
	if ident.System || ident.HasRole(auth.RoleAdmin) || ident.UserID == b.RenterID {
		return nil
	}
	st, err := s.getStation(ctx, b.StationID)
	if err != nil {
		return err
	}
	if st.OwnerID == ident.UserID {
		return nil
	}
	return fmt.Errorf("%w: booking %s does not belong to caller", booking.ErrNotAuthorized, b.ID)
}

func (s *BookingService) getBooking(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	b, err := s.bookings.GetByID(cctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return b, nil
}

func (s *BookingService) getStation(ctx context.Context, id uuid.UUID) (*booking.Station, error) {
	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	st, err := s.stations.GetStation(cctx, id)
	if err != nil {
		return nil, storeErr(err)
	}
	return st, nil
}

// storeErr maps storage faults to the domain taxonomy. A deadline hit is the
// one retryable kind; retries must re-run the whole atomic operation.
func storeErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", booking.ErrPersistenceTimeout, err)
	}
	return err
}
