package booking

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusRefused    Status = "refused"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRefused, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal statuses admit no further transitions.
func (s Status) Terminal() bool {
	return s == StatusRefused || s == StatusCompleted || s == StatusCancelled
}

// HoldsSlot reports whether a booking in this status occupies the station's
// time slot for conflict purposes.
func (s Status) HoldsSlot() bool {
	return s == StatusPending || s == StatusAccepted || s == StatusInProgress
}

// Role is the capacity in which an actor triggers a transition. It is also
// what gets recorded in the audit fields of terminated bookings.
type Role string

const (
	RoleRenter Role = "renter"
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleSystem Role = "system"
)

// Range is a half-open time interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) Hours() float64 {
	return r.End.Sub(r.Start).Hours()
}

type Booking struct {
	ID         uuid.UUID
	StationID  uuid.UUID
	RenterID   uuid.UUID
	StartTime  time.Time
	EndTime    time.Time
	EnergyKWh  *float64
	TotalPrice float64
	Status     Status

	// Audit fields, set only when the booking reached cancelled or refused
	// through an actor-triggered transition.
	TerminatedBy      Role
	TerminationReason string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (b *Booking) Range() Range {
	return Range{Start: b.StartTime, End: b.EndTime}
}

// Clone returns a deep copy. Stores hand out clones so that callers never
// alias the stored record.
func (b *Booking) Clone() *Booking {
	cp := *b
	if b.EnergyKWh != nil {
		e := *b.EnergyKWh
		cp.EnergyKWh = &e
	}
	return &cp
}
