// Package memory backs the reservation engine with an in-process store.
// It mirrors the transactional guarantees of the Postgres store: the
// conflict check and insert happen under one lock, and status updates are
// compare-and-set. Used by the test suite and as a fallback when no
// DATABASE_URL is configured.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"voltbook/internal/auth"
	"voltbook/internal/booking"
)

type Store struct {
	mu       sync.RWMutex
	bookings map[uuid.UUID]*booking.Booking
	stations map[uuid.UUID]*booking.Station
	contacts map[uuid.UUID]auth.Contact
}

func NewStore() *Store {
	return &Store{
		bookings: make(map[uuid.UUID]*booking.Booking),
		stations: make(map[uuid.UUID]*booking.Station),
		contacts: make(map[uuid.UUID]auth.Contact),
	}
}

// PutStation seeds or replaces a station record.
func (s *Store) PutStation(st *booking.Station) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stations[st.ID] = st
}

// PutContact seeds renter contact details for the notification sender.
func (s *Store) PutContact(userID uuid.UUID, c auth.Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[userID] = c
}

func (s *Store) GetStation(ctx context.Context, id uuid.UUID) (*booking.Station, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stations[id]
	if !ok {
		return nil, fmt.Errorf("%w: station %s", booking.ErrNotFound, id)
	}
	cp := *st
	cp.RateSchedule = append([]booking.RateEntry(nil), st.RateSchedule...)
	return &cp, nil
}

func (s *Store) ContactFor(ctx context.Context, userID uuid.UUID) (auth.Contact, error) {
	if err := ctx.Err(); err != nil {
		return auth.Contact{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.contacts[userID]
	if !ok {
		return auth.Contact{}, fmt.Errorf("%w: contact for user %s", booking.ErrNotFound, userID)
	}
	return c, nil
}

// CreateIfFree checks for overlap and inserts under one lock, so two
// concurrent creates on the same station can never both pass the check.
func (s *Store) CreateIfFree(ctx context.Context, b *booking.Booking) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make([]*booking.Booking, 0)
	for _, eb := range s.bookings {
		if eb.StationID == b.StationID {
			existing = append(existing, eb)
		}
	}
	if booking.HasConflict(existing, b.Range()) {
		return fmt.Errorf("%w: station %s, range %s-%s", booking.ErrConflict,
			b.StationID, b.StartTime.Format(time.RFC3339), b.EndTime.Format(time.RFC3339))
	}

	s.bookings[b.ID] = b.Clone()
	return nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, fmt.Errorf("%w: booking %s", booking.ErrNotFound, id)
	}
	return b.Clone(), nil
}

// UpdateStatus applies b's status and audit fields only if the stored status
// still equals expected.
func (s *Store) UpdateStatus(ctx context.Context, b *booking.Booking, expected booking.Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.bookings[b.ID]
	if !ok {
		return fmt.Errorf("%w: booking %s", booking.ErrNotFound, b.ID)
	}
	if stored.Status != expected {
		return fmt.Errorf("%w: booking %s moved to %s concurrently", booking.ErrInvalidTransition, b.ID, stored.Status)
	}

	stored.Status = b.Status
	stored.TerminatedBy = b.TerminatedBy
	stored.TerminationReason = b.TerminationReason
	stored.UpdatedAt = b.UpdatedAt
	return nil
}

func (s *Store) ListByRenter(ctx context.Context, renterID uuid.UUID) ([]*booking.Booking, error) {
	return s.list(ctx, func(b *booking.Booking) bool { return b.RenterID == renterID })
}

func (s *Store) ListByStation(ctx context.Context, stationID uuid.UUID) ([]*booking.Booking, error) {
	return s.list(ctx, func(b *booking.Booking) bool { return b.StationID == stationID })
}

// ListSweepCandidates returns accepted and in-progress bookings whose start
// time has passed, for the scheduled completion sweep.
func (s *Store) ListSweepCandidates(ctx context.Context, now time.Time) ([]*booking.Booking, error) {
	return s.list(ctx, func(b *booking.Booking) bool {
		if b.Status != booking.StatusAccepted && b.Status != booking.StatusInProgress {
			return false
		}
		return !b.StartTime.After(now)
	})
}

func (s *Store) list(ctx context.Context, keep func(*booking.Booking) bool) ([]*booking.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*booking.Booking
	for _, b := range s.bookings {
		if keep(b) {
			out = append(out, b.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out, nil
}

// Report aggregates the stored bookings for the admin surface. Revenue is
// the sum of stored prices of completed bookings; prices are never
// recomputed here.
func (s *Store) Report(ctx context.Context) (*booking.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	rep := booking.NewReport()
	for _, b := range s.bookings {
		rep.Add(b)
	}
	return rep, nil
}
