package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	renterActor = Actor{ID: uuid.New(), IsRenter: true}
	ownerActor  = Actor{ID: uuid.New(), IsOwner: true}
	adminActor  = Actor{ID: uuid.New(), IsAdmin: true}
	systemActor = Actor{IsSystem: true}
)

func pendingBooking(start, end time.Time) *Booking {
	return &Booking{
		ID:        uuid.New(),
		StationID: uuid.New(),
		RenterID:  uuid.New(),
		StartTime: start,
		EndTime:   end,
		Status:    StatusPending,
	}
}

func TestOwnerAcceptsThenNoWayBack(t *testing.T) {
	now := at(8, 0)
	b := pendingBooking(at(10, 0), at(11, 0))

	require.NoError(t, Transition(b, StatusAccepted, ownerActor, "", now))
	assert.Equal(t, StatusAccepted, b.Status)

	// no edge leads back to pending, for anyone
	for _, actor := range []Actor{renterActor, ownerActor, adminActor, systemActor} {
		err := Transition(b.Clone(), StatusPending, actor, "", now)
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
}

func TestRenterMayNotAccept(t *testing.T) {
	b := pendingBooking(at(10, 0), at(11, 0))
	err := Transition(b, StatusAccepted, renterActor, "", at(8, 0))
	assert.ErrorIs(t, err, ErrNotAuthorized)
	assert.Equal(t, StatusPending, b.Status)
}

func TestRefuseRequiresReason(t *testing.T) {
	b := pendingBooking(at(10, 0), at(11, 0))
	err := Transition(b, StatusRefused, ownerActor, "  ", at(8, 0))
	assert.ErrorIs(t, err, ErrInvalidRequest)

	require.NoError(t, Transition(b, StatusRefused, ownerActor, "charger under maintenance", at(8, 0)))
	assert.Equal(t, RoleOwner, b.TerminatedBy)
	assert.Equal(t, "charger under maintenance", b.TerminationReason)
}

func TestRenterCancelGuardedByStartTime(t *testing.T) {
	b := pendingBooking(at(10, 0), at(11, 0))
	require.NoError(t, Transition(b, StatusAccepted, ownerActor, "", at(8, 0)))

	// after the start time the renter is too late
	late := b.Clone()
	err := Transition(late, StatusCancelled, renterActor, "", at(10, 30))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	// an admin overrides the guard, with a reason
	require.NoError(t, Transition(late, StatusCancelled, adminActor, "station damaged", at(10, 30)))
	assert.Equal(t, RoleAdmin, late.TerminatedBy)

	// before the start time the renter cancels freely
	early := b.Clone()
	require.NoError(t, Transition(early, StatusCancelled, renterActor, "", at(9, 0)))
	assert.Equal(t, RoleRenter, early.TerminatedBy)
}

func TestSystemLifecycleGuards(t *testing.T) {
	b := pendingBooking(at(10, 0), at(11, 0))
	require.NoError(t, Transition(b, StatusAccepted, ownerActor, "", at(8, 0)))

	// too early to start
	err := Transition(b.Clone(), StatusInProgress, systemActor, "", at(9, 59))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, Transition(b, StatusInProgress, systemActor, "", at(10, 0)))

	// too early to complete
	err = Transition(b.Clone(), StatusCompleted, systemActor, "", at(10, 30))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, Transition(b, StatusCompleted, systemActor, "", at(11, 0)))
	assert.Equal(t, StatusCompleted, b.Status)
	assert.Empty(t, b.TerminatedBy)
}

func TestOnlySystemOrOwnerStartsSession(t *testing.T) {
	b := pendingBooking(at(10, 0), at(11, 0))
	require.NoError(t, Transition(b, StatusAccepted, ownerActor, "", at(8, 0)))

	for _, actor := range []Actor{renterActor, adminActor} {
		err := Transition(b.Clone(), StatusInProgress, actor, "", at(10, 30))
		assert.ErrorIs(t, err, ErrNotAuthorized)
	}
}

func TestAcceptedCompletesDirectly(t *testing.T) {
	// a session nobody marked in_progress still completes once it is over
	b := pendingBooking(at(10, 0), at(11, 0))
	require.NoError(t, Transition(b, StatusAccepted, ownerActor, "", at(8, 0)))
	require.NoError(t, Transition(b, StatusCompleted, ownerActor, "", at(11, 15)))
}

func TestTerminalStatesAreFinal(t *testing.T) {
	targets := []Status{StatusPending, StatusAccepted, StatusRefused, StatusInProgress, StatusCompleted, StatusCancelled}

	for _, terminal := range []Status{StatusRefused, StatusCompleted, StatusCancelled} {
		b := pendingBooking(at(10, 0), at(11, 0))
		b.Status = terminal
		for _, target := range targets {
			err := Transition(b.Clone(), target, adminActor, "because", at(12, 0))
			assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s must be rejected", terminal, target)
		}
	}
}

func TestAdminCancelAnyNonTerminalNeedsReason(t *testing.T) {
	for _, from := range []Status{StatusPending, StatusAccepted, StatusInProgress} {
		b := pendingBooking(at(10, 0), at(11, 0))
		b.Status = from

		err := Transition(b.Clone(), StatusCancelled, adminActor, "", at(9, 0))
		assert.ErrorIs(t, err, ErrInvalidRequest, "from %s", from)

		withReason := b.Clone()
		require.NoError(t, Transition(withReason, StatusCancelled, adminActor, "fraud report", at(9, 0)))
		assert.Equal(t, RoleAdmin, withReason.TerminatedBy)
		assert.Equal(t, "fraud report", withReason.TerminationReason)
	}
}

func TestUnknownTargetStatus(t *testing.T) {
	b := pendingBooking(at(10, 0), at(11, 0))
	err := Transition(b, Status("archived"), adminActor, "x", at(9, 0))
	assert.ErrorIs(t, err, ErrInvalidRequest)
}
