// Package trips implements the trip lifecycle engine: publishing, seat
// reservation, cancellation, the state machine and the read-side
// projections built on trips and their selections.
package trips

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rumbocarpool/backend/internal/domain/trip"
	"github.com/rumbocarpool/backend/internal/domain/user"
	apperrors "github.com/rumbocarpool/backend/pkg/errors"
	"github.com/rumbocarpool/backend/pkg/logger"
)

// Service orchestrates trip operations over the repositories
type Service struct {
	trips      trip.Repository
	selections trip.SelectionRepository
	users      user.Repository
	logger     *logger.Logger
}

// NewService creates a trip service
func NewService(trips trip.Repository, selections trip.SelectionRepository, users user.Repository, log *logger.Logger) *Service {
	return &Service{
		trips:      trips,
		selections: selections,
		users:      users,
		logger:     log,
	}
}

// CreateTripInput carries the already-validated fields for a new trip
type CreateTripInput struct {
	DriverID        uuid.UUID
	CreatedByUserID *uuid.UUID
	Origin          string
	Destination     string
	Date            string
	Time            string
	AvailableSeats  int
	PricePerPerson  float64
	Vehicle         string
	Music           bool
	Pets            bool
	Children        bool
	Luggage         bool
	Notes           *string
}

// CreateTrip publishes a new trip in the pending state
func (s *Service) CreateTrip(ctx context.Context, input CreateTripInput) (*trip.Trip, error) {
	t := &trip.Trip{
		DriverID:        input.DriverID,
		CreatedByUserID: input.CreatedByUserID,
		Origin:          input.Origin,
		Destination:     input.Destination,
		Date:            input.Date,
		Time:            input.Time,
		AvailableSeats:  input.AvailableSeats,
		PricePerPerson:  input.PricePerPerson,
		Vehicle:         input.Vehicle,
		Music:           input.Music,
		Pets:            input.Pets,
		Children:        input.Children,
		Luggage:         input.Luggage,
		Notes:           input.Notes,
		State:           trip.StatePending,
	}

	if err := s.trips.Create(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info("Trip published",
		logger.String("trip_id", t.ID.String()),
		logger.String("origin", t.Origin),
		logger.String("destination", t.Destination),
		logger.Int("available_seats", t.AvailableSeats),
	)

	return t, nil
}

// GetPublishedTrips returns every trip in chronological order, regardless
// of lifecycle state
func (s *Service) GetPublishedTrips(ctx context.Context) ([]*trip.Trip, error) {
	return s.trips.List(ctx)
}

// SelectTrip reserves seats on a trip. The selection insert and the seat
// decrement happen in one transaction over a locked trip row, so two
// concurrent reservations can never oversell. The returned trip carries the
// in-memory post-decrement count; it is not re-read from storage.
//
// There is no per-reservation cancellation: seats only return to a trip
// when the whole trip is cancelled.
func (s *Service) SelectTrip(ctx context.Context, tripID, userID uuid.UUID, seats int) (*trip.Trip, error) {
	if seats < 1 {
		return nil, apperrors.Validation("El campo seats debe ser mayor a 0.", nil)
	}

	tx, err := s.trips.BeginTx(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to begin reservation transaction")
	}
	defer func() { _ = tx.Rollback() }()

	t, err := s.trips.GetByIDForUpdate(ctx, tx, tripID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperrors.ErrTripNotFound
	}

	if seats > t.AvailableSeats {
		return nil, apperrors.ErrInsufficientSeats
	}

	selection := &trip.Selection{
		TripID: tripID,
		UserID: userID,
		Seats:  seats,
	}
	if err := s.selections.CreateTx(ctx, tx, selection); err != nil {
		return nil, err
	}

	remaining := t.AvailableSeats - seats
	if err := s.trips.UpdateSeats(ctx, tx, tripID, remaining); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Wrap(err, "failed to commit reservation")
	}

	t.AvailableSeats = remaining

	s.logger.Info("Seats reserved",
		logger.String("trip_id", tripID.String()),
		logger.String("user_id", userID.String()),
		logger.Int("seats", seats),
		logger.Int("remaining", remaining),
	)

	return t, nil
}

// CancelTrip deletes the trip; its selections cascade with it
func (s *Service) CancelTrip(ctx context.Context, tripID uuid.UUID) error {
	if err := s.trips.Delete(ctx, tripID); err != nil {
		return err
	}
	s.logger.Info("Trip cancelled", logger.String("trip_id", tripID.String()))
	return nil
}

// GetTripByID returns the trip, or nil when it does not exist. Callers
// must treat nil as "not found", not as an error.
func (s *Service) GetTripByID(ctx context.Context, tripID uuid.UUID) (*trip.Trip, error) {
	return s.trips.GetByID(ctx, tripID)
}

// GetLastTripByUser returns the most recent trip where the user is the
// driver or the publisher, or nil when there is none
func (s *Service) GetLastTripByUser(ctx context.Context, userID uuid.UUID) (*trip.Trip, error) {
	return s.trips.GetLastByUser(ctx, userID)
}

// GetTripsByUser returns the trips where the user participates, as driver
// or as passenger, each trip exactly once. Driver trips keep positional
// precedence over the passenger copies.
func (s *Service) GetTripsByUser(ctx context.Context, userID uuid.UUID) ([]*trip.Trip, error) {
	driven, err := s.trips.ListByDriver(ctx, userID)
	if err != nil {
		return nil, err
	}

	reserved, err := s.selections.ListTripsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool, len(driven)+len(reserved))
	unique := make([]*trip.Trip, 0, len(driven)+len(reserved))
	for _, t := range append(driven, reserved...) {
		if seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		unique = append(unique, t)
	}

	return unique, nil
}

// GetAllReservations returns the flat administrative projection of every
// reservation joined with its trip's driver
func (s *Service) GetAllReservations(ctx context.Context) ([]*trip.ReservationSummary, error) {
	return s.selections.ListAllWithDriver(ctx)
}

// GetPassengersByTrip returns the passenger profile and seat count for every
// reservation on the trip. Reservations whose user has since been deleted
// are silently dropped.
func (s *Service) GetPassengersByTrip(ctx context.Context, tripID uuid.UUID) ([]*trip.Passenger, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperrors.ErrTripNotFound
	}

	selections, err := s.selections.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if len(selections) == 0 {
		return []*trip.Passenger{}, nil
	}

	ids := make([]uuid.UUID, 0, len(selections))
	for _, sel := range selections {
		ids = append(ids, sel.UserID)
	}
	users, err := s.users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*user.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	passengers := make([]*trip.Passenger, 0, len(selections))
	for _, sel := range selections {
		u, ok := byID[sel.UserID]
		if !ok {
			continue
		}
		passengers = append(passengers, &trip.Passenger{
			ID:    u.ID,
			Name:  u.Name,
			Email: u.Email,
			Phone: u.Phone,
			DNI:   u.DNI,
			Seats: sel.Seats,
		})
	}

	return passengers, nil
}

// UpdateTripState drives the lifecycle machine. Only pending→in_progress
// and in_progress→completed succeed; everything else, including same-state
// requests, fails with an invalid transition.
func (s *Service) UpdateTripState(ctx context.Context, tripID uuid.UUID, newState trip.State) (*trip.Trip, error) {
	if !newState.IsValid() {
		return nil, apperrors.ErrInvalidTransition
	}

	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, apperrors.ErrTripNotFound
	}

	if !t.State.CanTransitionTo(newState) {
		return nil, apperrors.ErrInvalidTransition
	}

	if err := s.trips.UpdateState(ctx, tripID, t.State, newState); err != nil {
		return nil, err
	}

	s.logger.Info("Trip state changed",
		logger.String("trip_id", tripID.String()),
		logger.String("from", string(t.State)),
		logger.String("to", string(newState)),
	)

	t.State = newState
	t.UpdatedAt = time.Now()
	return t, nil
}
