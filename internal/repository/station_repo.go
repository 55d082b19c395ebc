package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"voltbook/internal/auth"
	"voltbook/internal/booking"
)

// StationRepository reads the station catalog. The catalog is owned by the
// station-management subsystem; the reservation engine only ever reads it.
type StationRepository struct {
	DB *sql.DB
}

func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{DB: db}
}

func (r *StationRepository) GetStation(ctx context.Context, id uuid.UUID) (*booking.Station, error) {
	var st booking.Station
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, owner_id, name, is_active, power_kw, pricing_model
		FROM stations WHERE id = $1`, id).
		Scan(&st.ID, &st.OwnerID, &st.Name, &st.IsActive, &st.PowerKW, &st.PricingModel)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: station %s", booking.ErrNotFound, id)
		}
		return nil, fmt.Errorf("query station: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT rate, valid_from, valid_to
		FROM station_rates WHERE station_id = $1
		ORDER BY valid_from`, id)
	if err != nil {
		return nil, fmt.Errorf("query station rates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			e       booking.RateEntry
			validTo sql.NullTime
		)
		if err := rows.Scan(&e.Rate, &e.ValidFrom, &validTo); err != nil {
			return nil, fmt.Errorf("scan rate entry: %w", err)
		}
		if validTo.Valid {
			t := validTo.Time
			e.ValidTo = &t
		}
		st.RateSchedule = append(st.RateSchedule, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate station rates: %w", err)
	}
	return &st, nil
}

// ContactFor reads renter contact details from the user directory table.
func (r *StationRepository) ContactFor(ctx context.Context, userID uuid.UUID) (auth.Contact, error) {
	var c auth.Contact
	err := r.DB.QueryRowContext(ctx, `
		SELECT full_name, email, COALESCE(phone, '')
		FROM users WHERE id = $1`, userID).
		Scan(&c.Name, &c.Email, &c.Phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.Contact{}, fmt.Errorf("%w: user %s", booking.ErrNotFound, userID)
		}
		return auth.Contact{}, fmt.Errorf("query user contact: %w", err)
	}
	return c, nil
}
