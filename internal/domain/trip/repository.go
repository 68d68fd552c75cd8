package trip

import (
	"context"

	"github.com/google/uuid"
	"github.com/rumbocarpool/backend/pkg/database"
)

// Repository defines the interface for trip data access. Lookups return
// (nil, nil) when no row matches; mutations report a missing trip through
// their error.
type Repository interface {
	// BeginTx opens a transaction for multi-statement seat mutations
	BeginTx(ctx context.Context) (database.Tx, error)

	// Create persists a new trip
	Create(ctx context.Context, t *Trip) error

	// GetByID retrieves a trip by ID
	GetByID(ctx context.Context, id uuid.UUID) (*Trip, error)

	// GetByIDForUpdate retrieves a trip inside tx, locking its row so
	// concurrent seat decrements serialize
	GetByIDForUpdate(ctx context.Context, tx database.Tx, id uuid.UUID) (*Trip, error)

	// List returns all trips ordered by date then time, ascending
	List(ctx context.Context) ([]*Trip, error)

	// ListByDriver returns trips driven by the user, newest first
	ListByDriver(ctx context.Context, userID uuid.UUID) ([]*Trip, error)

	// GetLastByUser returns the most recent trip where the user is the
	// driver or the publisher
	GetLastByUser(ctx context.Context, userID uuid.UUID) (*Trip, error)

	// UpdateSeats persists a new seat count inside tx
	UpdateSeats(ctx context.Context, tx database.Tx, id uuid.UUID, seats int) error

	// UpdateState persists to only when the row still holds from
	UpdateState(ctx context.Context, id uuid.UUID, from, to State) error

	// Delete removes a trip and cascades its selections
	Delete(ctx context.Context, id uuid.UUID) error
}

// SelectionRepository defines the interface for reservation data access
type SelectionRepository interface {
	// CreateTx inserts a selection inside tx
	CreateTx(ctx context.Context, tx database.Tx, s *Selection) error

	// ListByTrip returns all selections on a trip
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*Selection, error)

	// ListTripsByUser returns the trips the user reserved seats on,
	// newest first
	ListTripsByUser(ctx context.Context, userID uuid.UUID) ([]*Trip, error)

	// ListAllWithDriver returns every selection joined with its trip's driver
	ListAllWithDriver(ctx context.Context) ([]*ReservationSummary, error)
}
