package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rumbocarpool/backend/internal/domain/trip"
	"github.com/rumbocarpool/backend/pkg/database"
)

// SelectionRepository persists trip selections in PostgreSQL
type SelectionRepository struct {
	db *sqlx.DB
}

// NewSelectionRepository returns a SelectionRepository bound to the given pool
func NewSelectionRepository(db *sqlx.DB) *SelectionRepository {
	return &SelectionRepository{db: db}
}

// CreateTx inserts a selection inside tx. The caller owns commit/rollback.
func (r *SelectionRepository) CreateTx(ctx context.Context, tx database.Tx, s *trip.Selection) error {
	stx, err := sqlxTx(tx)
	if err != nil {
		return err
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	const q = `
		INSERT INTO trip_selections (id, trip_id, user_id, seats)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`
	if err := stx.QueryRowxContext(ctx, q, s.ID, s.TripID, s.UserID, s.Seats).Scan(&s.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert selection: %w", err)
	}
	return nil
}

// ListByTrip returns all selections on a trip, oldest first
func (r *SelectionRepository) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*trip.Selection, error) {
	const q = `
		SELECT id, trip_id, user_id, seats, created_at
		FROM trip_selections
		WHERE trip_id = $1
		ORDER BY created_at ASC`
	var selections []*trip.Selection
	if err := r.db.SelectContext(ctx, &selections, q, tripID); err != nil {
		return nil, fmt.Errorf("failed to list selections: %w", err)
	}
	return selections, nil
}

// ListTripsByUser returns the trips the user reserved seats on, newest first
func (r *SelectionRepository) ListTripsByUser(ctx context.Context, userID uuid.UUID) ([]*trip.Trip, error) {
	q := fmt.Sprintf(`
		SELECT %s FROM trips
		WHERE id IN (SELECT trip_id FROM trip_selections WHERE user_id = $1)
		ORDER BY date DESC, time DESC`, tripColumns)
	var trips []*trip.Trip
	if err := r.db.SelectContext(ctx, &trips, q, userID); err != nil {
		return nil, fmt.Errorf("failed to list trips by passenger: %w", err)
	}
	return trips, nil
}

// ListAllWithDriver returns the flat reservation projection for
// administrative listing
func (r *SelectionRepository) ListAllWithDriver(ctx context.Context) ([]*trip.ReservationSummary, error) {
	const q = `
		SELECT s.id AS reservation_id, s.user_id AS passenger_id, t.driver_id
		FROM trip_selections s
		JOIN trips t ON t.id = s.trip_id
		ORDER BY s.created_at ASC`
	var summaries []*trip.ReservationSummary
	if err := r.db.SelectContext(ctx, &summaries, q); err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return summaries, nil
}
