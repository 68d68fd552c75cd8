package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rumbocarpool/backend/internal/domain/trip"
	apperrors "github.com/rumbocarpool/backend/pkg/errors"
	"github.com/rumbocarpool/backend/pkg/database"
)

// tripColumns renders date and time as the wire strings the API exposes
// (YYYY-MM-DD, HH24:MI:SS) instead of driver-dependent scan types.
const tripColumns = `id, driver_id, created_by_user_id, origin, destination,
	to_char(date, 'YYYY-MM-DD') AS date,
	to_char(time, 'HH24:MI:SS') AS time,
	available_seats, price_per_person, vehicle,
	music, pets, children, luggage, notes, state, created_at, updated_at`

// TripRepository persists trips in PostgreSQL
type TripRepository struct {
	db *sqlx.DB
}

// NewTripRepository returns a TripRepository bound to the given pool
func NewTripRepository(db *sqlx.DB) *TripRepository {
	return &TripRepository{db: db}
}

// BeginTx starts a new transaction
func (r *TripRepository) BeginTx(ctx context.Context) (database.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}

// Create inserts a trip and populates its generated timestamps
func (r *TripRepository) Create(ctx context.Context, t *trip.Trip) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	const q = `
		INSERT INTO trips (
			id, driver_id, created_by_user_id, origin, destination, date, time,
			available_seats, price_per_person, vehicle,
			music, pets, children, luggage, notes, state
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, q,
		t.ID, t.DriverID, t.CreatedByUserID, t.Origin, t.Destination, t.Date, t.Time,
		t.AvailableSeats, t.PricePerPerson, t.Vehicle,
		t.Music, t.Pets, t.Children, t.Luggage, t.Notes, t.State,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert trip: %w", err)
	}
	return nil
}

// GetByID returns the trip or (nil, nil) when absent
func (r *TripRepository) GetByID(ctx context.Context, id uuid.UUID) (*trip.Trip, error) {
	q := fmt.Sprintf(`SELECT %s FROM trips WHERE id = $1`, tripColumns)
	var t trip.Trip
	if err := r.db.GetContext(ctx, &t, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	return &t, nil
}

// GetByIDForUpdate loads the trip inside tx with a row lock. Concurrent
// reservations on the same trip block here until the first commits, so the
// seat check always sees the latest committed count.
func (r *TripRepository) GetByIDForUpdate(ctx context.Context, tx database.Tx, id uuid.UUID) (*trip.Trip, error) {
	stx, err := sqlxTx(tx)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT %s FROM trips WHERE id = $1 FOR UPDATE`, tripColumns)
	var t trip.Trip
	if err := stx.GetContext(ctx, &t, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to lock trip: %w", err)
	}
	return &t, nil
}

// List returns every trip in stable chronological order
func (r *TripRepository) List(ctx context.Context) ([]*trip.Trip, error) {
	q := fmt.Sprintf(`SELECT %s FROM trips ORDER BY date ASC, time ASC`, tripColumns)
	var trips []*trip.Trip
	if err := r.db.SelectContext(ctx, &trips, q); err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	return trips, nil
}

// ListByDriver returns the user's driven trips, newest first
func (r *TripRepository) ListByDriver(ctx context.Context, userID uuid.UUID) ([]*trip.Trip, error) {
	q := fmt.Sprintf(`SELECT %s FROM trips WHERE driver_id = $1 ORDER BY date DESC, time DESC`, tripColumns)
	var trips []*trip.Trip
	if err := r.db.SelectContext(ctx, &trips, q, userID); err != nil {
		return nil, fmt.Errorf("failed to list trips by driver: %w", err)
	}
	return trips, nil
}

// GetLastByUser returns the most recent trip where the user is the driver or
// the publisher, or (nil, nil) when there is none
func (r *TripRepository) GetLastByUser(ctx context.Context, userID uuid.UUID) (*trip.Trip, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM trips
		WHERE driver_id = $1 OR created_by_user_id = $1
		ORDER BY date DESC, time DESC, created_at DESC
		LIMIT 1`, tripColumns)
	var t trip.Trip
	if err := r.db.GetContext(ctx, &t, q, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last trip: %w", err)
	}
	return &t, nil
}

// UpdateSeats persists the post-decrement seat count inside tx
func (r *TripRepository) UpdateSeats(ctx context.Context, tx database.Tx, id uuid.UUID, seats int) error {
	stx, err := sqlxTx(tx)
	if err != nil {
		return err
	}
	const q = `UPDATE trips SET available_seats = $1, updated_at = NOW() WHERE id = $2`
	if _, err := stx.ExecContext(ctx, q, seats, id); err != nil {
		return fmt.Errorf("failed to update trip seats: %w", err)
	}
	return nil
}

// UpdateState moves the trip to its next state, guarded by the state the
// caller validated against. Zero rows means a concurrent transition won.
func (r *TripRepository) UpdateState(ctx context.Context, id uuid.UUID, from, to trip.State) error {
	const q = `UPDATE trips SET state = $1, updated_at = NOW() WHERE id = $2 AND state = $3`
	result, err := r.db.ExecContext(ctx, q, to, id, from)
	if err != nil {
		return fmt.Errorf("failed to update trip state: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrInvalidTransition
	}
	return nil
}

// Delete removes the trip; selections cascade at the schema level
func (r *TripRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = $1`
	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTripNotFound
	}
	return nil
}
