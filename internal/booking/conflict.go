package booking

// Overlaps reports whether two half-open ranges [s1,e1) and [s2,e2) overlap.
// Touching endpoints do not conflict: a booking ending exactly when another
// starts is legal.
func Overlaps(a, b Range) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// HasConflict decides whether candidate collides with any existing booking
// that still holds its slot. Cancelled, refused and completed bookings never
// block. The caller is responsible for evaluating this atomically with the
// insert.
func HasConflict(existing []*Booking, candidate Range) bool {
	for _, b := range existing {
		if !b.Status.HoldsSlot() {
			continue
		}
		if Overlaps(b.Range(), candidate) {
			return true
		}
	}
	return false
}
