package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"voltbook/internal/booking"
)

const bookingColumns = `id, station_id, renter_id, start_time, end_time, energy_kwh, total_price, status, terminated_by, termination_reason, created_at, updated_at`

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{DB: db}
}

// CreateIfFree runs the conflict check and the insert in one transaction,
// serialized per station by locking the station row. The exclusion
// constraint on active ranges is the backstop for anything that slips past.
func (r *BookingRepository) CreateIfFree(ctx context.Context, b *booking.Booking) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create transaction: %w", err)
	}
	defer tx.Rollback()

	var stationID uuid.UUID
	err = tx.QueryRowContext(ctx, `SELECT id FROM stations WHERE id = $1 FOR UPDATE`, b.StationID).Scan(&stationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: station %s", booking.ErrNotFound, b.StationID)
		}
		return fmt.Errorf("lock station row: %w", err)
	}

	var conflict bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE station_id = $1
			  AND status IN ('pending', 'accepted', 'in_progress')
			  AND start_time < $3
			  AND end_time > $2
		)`, b.StationID, b.StartTime, b.EndTime).Scan(&conflict)
	if err != nil {
		return fmt.Errorf("check overlap: %w", err)
	}
	if conflict {
		return fmt.Errorf("%w: station %s, range %s-%s", booking.ErrConflict,
			b.StationID, b.StartTime.Format(time.RFC3339), b.EndTime.Format(time.RFC3339))
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		b.ID, b.StationID, b.RenterID, b.StartTime, b.EndTime,
		nullFloat(b.EnergyKWh), b.TotalPrice, b.Status,
		nullString(string(b.TerminatedBy)), nullString(b.TerminationReason),
		b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return translateErr(err)
	}

	if err := tx.Commit(); err != nil {
		return translateErr(err)
	}
	return nil
}

func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %s", booking.ErrNotFound, id)
		}
		return nil, fmt.Errorf("query booking: %w", err)
	}
	return b, nil
}

// UpdateStatus is an optimistic compare-and-set: the row is updated only if
// its status still equals expected, so a racing transition loses cleanly
// instead of silently double-applying.
func (r *BookingRepository) UpdateStatus(ctx context.Context, b *booking.Booking, expected booking.Status) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE bookings
		SET status = $1, terminated_by = $2, termination_reason = $3, updated_at = $4
		WHERE id = $5 AND status = $6`,
		b.Status, nullString(string(b.TerminatedBy)), nullString(b.TerminationReason),
		b.UpdatedAt, b.ID, expected,
	)
	if err != nil {
		return translateErr(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		current, err := r.GetByID(ctx, b.ID)
		if err != nil {
			return err
		}
		return fmt.Errorf("%w: booking %s moved to %s concurrently", booking.ErrInvalidTransition, b.ID, current.Status)
	}
	return nil
}

func (r *BookingRepository) ListByRenter(ctx context.Context, renterID uuid.UUID) ([]*booking.Booking, error) {
	return r.listWhere(ctx, `renter_id = $1`, renterID)
}

func (r *BookingRepository) ListByStation(ctx context.Context, stationID uuid.UUID) ([]*booking.Booking, error) {
	return r.listWhere(ctx, `station_id = $1`, stationID)
}

// ListSweepCandidates returns accepted and in-progress bookings whose start
// time has passed, for the scheduled completion sweep.
func (r *BookingRepository) ListSweepCandidates(ctx context.Context, now time.Time) ([]*booking.Booking, error) {
	return r.listWhere(ctx, `status IN ('accepted', 'in_progress') AND start_time <= $1`, now)
}

func (r *BookingRepository) listWhere(ctx context.Context, where string, args ...interface{}) ([]*booking.Booking, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE `+where+` ORDER BY start_time`, args...)
	if err != nil {
		return nil, fmt.Errorf("query bookings: %w", err)
	}
	defer rows.Close()

	var out []*booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}
	return out, nil
}

// Report aggregates counts and completed revenue server-side. Revenue sums
// the stored total_price column only.
func (r *BookingRepository) Report(ctx context.Context) (*booking.Report, error) {
	rep := booking.NewReport()

	rows, err := r.DB.QueryContext(ctx, `
		SELECT status, COALESCE(terminated_by, ''), COUNT(*), COALESCE(SUM(total_price), 0)
		FROM bookings
		GROUP BY status, terminated_by`)
	if err != nil {
		return nil, fmt.Errorf("query booking report: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status       booking.Status
			terminatedBy string
			count        int
			sum          float64
		)
		if err := rows.Scan(&status, &terminatedBy, &count, &sum); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		rep.TotalBookings += count
		rep.ByStatus[status] += count
		if terminatedBy != "" {
			rep.Terminations[fmt.Sprintf("%s_by_%s", status, terminatedBy)] += count
		}
		if status == booking.StatusCompleted {
			rep.CompletedCount += count
			rep.CompletedRevenue += sum
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report rows: %w", err)
	}
	return rep, nil
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row scannable) (*booking.Booking, error) {
	var (
		b            booking.Booking
		energy       sql.NullFloat64
		terminatedBy sql.NullString
		reason       sql.NullString
	)
	err := row.Scan(
		&b.ID, &b.StationID, &b.RenterID, &b.StartTime, &b.EndTime,
		&energy, &b.TotalPrice, &b.Status, &terminatedBy, &reason,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if energy.Valid {
		b.EnergyKWh = &energy.Float64
	}
	b.TerminatedBy = booking.Role(terminatedBy.String)
	b.TerminationReason = reason.String
	return &b, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// translateErr maps storage-level conflicts to the domain taxonomy. The
// exclusion constraint firing on an overlapping insert is a booking
// conflict, not a generic fault.
func translateErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23P01", "23505": // exclusion_violation, unique_violation
			return fmt.Errorf("%w: %v", booking.ErrConflict, err)
		}
	}
	return err
}
