package booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Actor is the resolved identity attempting a transition. The relationship
// flags are computed by the caller from the booking and its station; the
// state machine itself stays pure.
type Actor struct {
	ID       uuid.UUID
	IsRenter bool // actor is the booking's renter
	IsOwner  bool // actor owns the booking's station
	IsAdmin  bool
	IsSystem bool
}

func (a Actor) has(r Role) bool {
	switch r {
	case RoleRenter:
		return a.IsRenter
	case RoleOwner:
		return a.IsOwner
	case RoleAdmin:
		return a.IsAdmin
	case RoleSystem:
		return a.IsSystem
	}
	return false
}

type guardFunc func(b *Booking, now time.Time) error

func beforeStart(b *Booking, now time.Time) error {
	if !now.Before(b.StartTime) {
		return fmt.Errorf("%w: an accepted booking can only be cancelled before its start time", ErrInvalidTransition)
	}
	return nil
}

func afterStart(b *Booking, now time.Time) error {
	if now.Before(b.StartTime) {
		return fmt.Errorf("%w: booking has not started yet", ErrInvalidTransition)
	}
	return nil
}

func afterEnd(b *Booking, now time.Time) error {
	if now.Before(b.EndTime) {
		return fmt.Errorf("%w: booking has not ended yet", ErrInvalidTransition)
	}
	return nil
}

// rule is one way to take an edge: a set of capacities allowed to use it,
// an optional time guard and whether a reason must accompany it. Admin-only
// rules carry no time guard, which is the admin override.
type rule struct {
	roles       []Role
	guard       guardFunc
	needsReason bool
}

func (r rule) actingRole(a Actor) (Role, bool) {
	for _, role := range r.roles {
		if a.has(role) {
			return role, true
		}
	}
	return "", false
}

var transitions = map[Status]map[Status][]rule{
	StatusPending: {
		StatusAccepted: {
			{roles: []Role{RoleOwner, RoleAdmin}},
		},
		StatusRefused: {
			{roles: []Role{RoleOwner, RoleAdmin}, needsReason: true},
		},
		StatusCancelled: {
			{roles: []Role{RoleRenter}},
			{roles: []Role{RoleAdmin}, needsReason: true},
		},
	},
	StatusAccepted: {
		StatusCancelled: {
			{roles: []Role{RoleRenter}, guard: beforeStart},
			{roles: []Role{RoleAdmin}, needsReason: true},
		},
		StatusInProgress: {
			{roles: []Role{RoleSystem, RoleOwner}, guard: afterStart},
		},
		StatusCompleted: {
			{roles: []Role{RoleSystem, RoleOwner}, guard: afterEnd},
			{roles: []Role{RoleAdmin}},
		},
	},
	StatusInProgress: {
		StatusCompleted: {
			{roles: []Role{RoleSystem, RoleOwner}, guard: afterEnd},
			{roles: []Role{RoleAdmin}},
		},
		StatusCancelled: {
			{roles: []Role{RoleAdmin}, needsReason: true},
		},
	},
}

// Transition mutates b to the target status if the edge exists, the actor is
// allowed to take it and its guard holds. The status only ever moves forward
// along the table; terminal statuses admit nothing.
func Transition(b *Booking, target Status, actor Actor, reason string, now time.Time) error {
	if !target.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidRequest, target)
	}
	if b.Status.Terminal() {
		return fmt.Errorf("%w: booking is already %s", ErrInvalidTransition, b.Status)
	}
	rules, ok := transitions[b.Status][target]
	if !ok {
		return fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidTransition, b.Status, target)
	}

	reason = strings.TrimSpace(reason)
	var lastErr error
	authorized := false
	for _, r := range rules {
		role, ok := r.actingRole(actor)
		if !ok {
			continue
		}
		authorized = true
		if r.needsReason && reason == "" {
			lastErr = fmt.Errorf("%w: a reason is required to move a booking to %s", ErrInvalidRequest, target)
			continue
		}
		if r.guard != nil {
			if err := r.guard(b, now); err != nil {
				lastErr = err
				continue
			}
		}

		b.Status = target
		b.UpdatedAt = now
		if target == StatusCancelled || target == StatusRefused {
			b.TerminatedBy = role
			b.TerminationReason = reason
		}
		return nil
	}

	if !authorized {
		return fmt.Errorf("%w: actor %s may not move booking %s from %s to %s",
			ErrNotAuthorized, actor.ID, b.ID, b.Status, target)
	}
	return lastErr
}
