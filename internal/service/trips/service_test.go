package trips

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumbocarpool/backend/internal/domain/trip"
	"github.com/rumbocarpool/backend/internal/domain/user"
	"github.com/rumbocarpool/backend/pkg/database"
	apperrors "github.com/rumbocarpool/backend/pkg/errors"
	"github.com/rumbocarpool/backend/pkg/logger"
)

// In-memory doubles for the repository interfaces. They mirror the storage
// semantics the postgres implementations provide: locked reads hand back a
// snapshot, seat updates persist the given count, guarded state updates
// fail when the stored state moved.

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit() error   { t.committed = true; return nil }
func (t *fakeTx) Rollback() error { t.rolledBack = true; return nil }

type fakeTripRepo struct {
	trips map[uuid.UUID]*trip.Trip
	order []uuid.UUID
}

func newFakeTripRepo(trips ...*trip.Trip) *fakeTripRepo {
	r := &fakeTripRepo{trips: make(map[uuid.UUID]*trip.Trip)}
	for _, t := range trips {
		r.trips[t.ID] = t
		r.order = append(r.order, t.ID)
	}
	return r
}

func (r *fakeTripRepo) BeginTx(ctx context.Context) (database.Tx, error) {
	return &fakeTx{}, nil
}

func (r *fakeTripRepo) Create(ctx context.Context, t *trip.Trip) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.trips[t.ID] = t
	r.order = append(r.order, t.ID)
	return nil
}

func (r *fakeTripRepo) GetByID(ctx context.Context, id uuid.UUID) (*trip.Trip, error) {
	t, ok := r.trips[id]
	if !ok {
		return nil, nil
	}
	snapshot := *t
	return &snapshot, nil
}

func (r *fakeTripRepo) GetByIDForUpdate(ctx context.Context, tx database.Tx, id uuid.UUID) (*trip.Trip, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeTripRepo) List(ctx context.Context) ([]*trip.Trip, error) {
	out := make([]*trip.Trip, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.trips[id])
	}
	return out, nil
}

func (r *fakeTripRepo) ListByDriver(ctx context.Context, userID uuid.UUID) ([]*trip.Trip, error) {
	var out []*trip.Trip
	for _, id := range r.order {
		if r.trips[id].DriverID == userID {
			out = append(out, r.trips[id])
		}
	}
	return out, nil
}

func (r *fakeTripRepo) GetLastByUser(ctx context.Context, userID uuid.UUID) (*trip.Trip, error) {
	for i := len(r.order) - 1; i >= 0; i-- {
		t := r.trips[r.order[i]]
		if t.DriverID == userID || (t.CreatedByUserID != nil && *t.CreatedByUserID == userID) {
			snapshot := *t
			return &snapshot, nil
		}
	}
	return nil, nil
}

func (r *fakeTripRepo) UpdateSeats(ctx context.Context, tx database.Tx, id uuid.UUID, seats int) error {
	r.trips[id].AvailableSeats = seats
	return nil
}

func (r *fakeTripRepo) UpdateState(ctx context.Context, id uuid.UUID, from, to trip.State) error {
	t, ok := r.trips[id]
	if !ok || t.State != from {
		return apperrors.ErrInvalidTransition
	}
	t.State = to
	return nil
}

func (r *fakeTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.trips[id]; !ok {
		return apperrors.ErrTripNotFound
	}
	delete(r.trips, id)
	return nil
}

type fakeSelectionRepo struct {
	selections []*trip.Selection
	tripsByID  map[uuid.UUID]*trip.Trip
}

func (r *fakeSelectionRepo) CreateTx(ctx context.Context, tx database.Tx, s *trip.Selection) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.selections = append(r.selections, s)
	return nil
}

func (r *fakeSelectionRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]*trip.Selection, error) {
	var out []*trip.Selection
	for _, s := range r.selections {
		if s.TripID == tripID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSelectionRepo) ListTripsByUser(ctx context.Context, userID uuid.UUID) ([]*trip.Trip, error) {
	seen := make(map[uuid.UUID]bool)
	var out []*trip.Trip
	for _, s := range r.selections {
		if s.UserID != userID || seen[s.TripID] {
			continue
		}
		seen[s.TripID] = true
		if t, ok := r.tripsByID[s.TripID]; ok {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeSelectionRepo) ListAllWithDriver(ctx context.Context) ([]*trip.ReservationSummary, error) {
	var out []*trip.ReservationSummary
	for _, s := range r.selections {
		t, ok := r.tripsByID[s.TripID]
		if !ok {
			continue
		}
		out = append(out, &trip.ReservationSummary{
			ReservationID: s.ID,
			PassengerID:   s.UserID,
			DriverID:      t.DriverID,
		})
	}
	return out, nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error { return nil }
func (r *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return u, nil
}
func (r *fakeUserRepo) GetByIDTx(ctx context.Context, tx database.Tx, id uuid.UUID) (*user.User, error) {
	return r.GetByID(ctx, id)
}
func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, nil
}
func (r *fakeUserRepo) GetByDNI(ctx context.Context, dni string) (*user.User, error) {
	return nil, nil
}
func (r *fakeUserRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*user.User, error) {
	var out []*user.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}
func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, credential string) error {
	return nil
}
func (r *fakeUserRepo) UpdateAverageTx(ctx context.Context, tx database.Tx, id uuid.UUID, average float64) error {
	return nil
}

func newService(tripRepo *fakeTripRepo, selectionRepo *fakeSelectionRepo, userRepo *fakeUserRepo) *Service {
	if selectionRepo == nil {
		selectionRepo = &fakeSelectionRepo{tripsByID: tripRepo.trips}
	}
	if userRepo == nil {
		userRepo = &fakeUserRepo{users: map[uuid.UUID]*user.User{}}
	}
	return NewService(tripRepo, selectionRepo, userRepo, logger.NewNop())
}

func pendingTrip(seats int) *trip.Trip {
	return &trip.Trip{
		ID:             uuid.New(),
		DriverID:       uuid.New(),
		Origin:         "Córdoba",
		Destination:    "Rosario",
		Date:           "2025-07-01",
		Time:           "08:30:00",
		AvailableSeats: seats,
		PricePerPerson: 1500,
		Vehicle:        "Ford Focus",
		State:          trip.StatePending,
	}
}

// TestSelectTrip_SeatInventory walks the reservation scenario: 3 seats,
// reserve 2, overbook fails, reserve the last one.
func TestSelectTrip_SeatInventory(t *testing.T) {
	tr := pendingTrip(3)
	tripRepo := newFakeTripRepo(tr)
	selectionRepo := &fakeSelectionRepo{tripsByID: tripRepo.trips}
	svc := newService(tripRepo, selectionRepo, nil)

	userA := uuid.New()
	userB := uuid.New()
	ctx := context.Background()

	got, err := svc.SelectTrip(ctx, tr.ID, userA, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, got.AvailableSeats)
	assert.Equal(t, 1, tripRepo.trips[tr.ID].AvailableSeats)

	_, err = svc.SelectTrip(ctx, tr.ID, userB, 2)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientSeats)
	// A failed reservation must leave everything untouched
	assert.Equal(t, 1, tripRepo.trips[tr.ID].AvailableSeats)
	assert.Len(t, selectionRepo.selections, 1)

	got, err = svc.SelectTrip(ctx, tr.ID, userB, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, got.AvailableSeats)
	assert.Len(t, selectionRepo.selections, 2)
}

func TestSelectTrip_Errors(t *testing.T) {
	tr := pendingTrip(2)
	tripRepo := newFakeTripRepo(tr)
	svc := newService(tripRepo, nil, nil)
	ctx := context.Background()

	_, err := svc.SelectTrip(ctx, uuid.New(), uuid.New(), 1)
	assert.ErrorIs(t, err, apperrors.ErrTripNotFound)

	_, err = svc.SelectTrip(ctx, tr.ID, uuid.New(), 0)
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}

// TestUpdateTripState exercises the full transition table through the
// service, including skip-ahead and same-state requests
func TestUpdateTripState(t *testing.T) {
	tests := []struct {
		name    string
		from    trip.State
		to      trip.State
		wantErr error
	}{
		{"pending to in_progress", trip.StatePending, trip.StateInProgress, nil},
		{"in_progress to completed", trip.StateInProgress, trip.StateCompleted, nil},
		{"pending to completed skips", trip.StatePending, trip.StateCompleted, apperrors.ErrInvalidTransition},
		{"pending to pending", trip.StatePending, trip.StatePending, apperrors.ErrInvalidTransition},
		{"in_progress to pending", trip.StateInProgress, trip.StatePending, apperrors.ErrInvalidTransition},
		{"completed is terminal", trip.StateCompleted, trip.StateInProgress, apperrors.ErrInvalidTransition},
		{"completed to completed", trip.StateCompleted, trip.StateCompleted, apperrors.ErrInvalidTransition},
		{"unknown state", trip.StatePending, trip.State("cancelled"), apperrors.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := pendingTrip(2)
			tr.State = tt.from
			tripRepo := newFakeTripRepo(tr)
			svc := newService(tripRepo, nil, nil)

			got, err := svc.UpdateTripState(context.Background(), tr.ID, tt.to)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, tt.from, tripRepo.trips[tr.ID].State)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, got.State)
			assert.Equal(t, tt.to, tripRepo.trips[tr.ID].State)
		})
	}
}

func TestUpdateTripState_NotFound(t *testing.T) {
	svc := newService(newFakeTripRepo(), nil, nil)
	_, err := svc.UpdateTripState(context.Background(), uuid.New(), trip.StateInProgress)
	assert.ErrorIs(t, err, apperrors.ErrTripNotFound)
}

// TestGetTripsByUser_Deduplicates checks a trip appears exactly once when
// the user is both its driver and a passenger, with driver trips first
func TestGetTripsByUser_Deduplicates(t *testing.T) {
	userID := uuid.New()

	driven := pendingTrip(2)
	driven.DriverID = userID
	other := pendingTrip(3)

	tripRepo := newFakeTripRepo(driven, other)
	selectionRepo := &fakeSelectionRepo{tripsByID: tripRepo.trips}
	svc := newService(tripRepo, selectionRepo, nil)
	ctx := context.Background()

	// The user reserves seats on their own trip and on another one
	_, err := svc.SelectTrip(ctx, driven.ID, userID, 1)
	require.NoError(t, err)
	_, err = svc.SelectTrip(ctx, other.ID, userID, 1)
	require.NoError(t, err)

	got, err := svc.GetTripsByUser(ctx, userID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, driven.ID, got[0].ID)
	assert.Equal(t, other.ID, got[1].ID)
}

func TestGetPassengersByTrip(t *testing.T) {
	tr := pendingTrip(5)
	tripRepo := newFakeTripRepo(tr)
	selectionRepo := &fakeSelectionRepo{tripsByID: tripRepo.trips}

	alive := &user.User{ID: uuid.New(), Name: "Ana", Email: "ana@example.com", Phone: "+54 11 5555-0001", DNI: "30111222"}
	userRepo := &fakeUserRepo{users: map[uuid.UUID]*user.User{alive.ID: alive}}
	svc := newService(tripRepo, selectionRepo, userRepo)
	ctx := context.Background()

	deletedUserID := uuid.New()
	_, err := svc.SelectTrip(ctx, tr.ID, alive.ID, 2)
	require.NoError(t, err)
	_, err = svc.SelectTrip(ctx, tr.ID, deletedUserID, 1)
	require.NoError(t, err)

	passengers, err := svc.GetPassengersByTrip(ctx, tr.ID)
	require.NoError(t, err)
	// The reservation whose user no longer exists is silently dropped
	require.Len(t, passengers, 1)
	assert.Equal(t, alive.ID, passengers[0].ID)
	assert.Equal(t, "Ana", passengers[0].Name)
	assert.Equal(t, 2, passengers[0].Seats)
}

func TestGetPassengersByTrip_Errors(t *testing.T) {
	tr := pendingTrip(4)
	tripRepo := newFakeTripRepo(tr)
	svc := newService(tripRepo, nil, nil)
	ctx := context.Background()

	_, err := svc.GetPassengersByTrip(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrTripNotFound)

	passengers, err := svc.GetPassengersByTrip(ctx, tr.ID)
	require.NoError(t, err)
	assert.Empty(t, passengers)
}

func TestCancelTrip(t *testing.T) {
	tr := pendingTrip(2)
	tripRepo := newFakeTripRepo(tr)
	svc := newService(tripRepo, nil, nil)
	ctx := context.Background()

	require.NoError(t, svc.CancelTrip(ctx, tr.ID))
	assert.ErrorIs(t, svc.CancelTrip(ctx, tr.ID), apperrors.ErrTripNotFound)
}

func TestCreateTrip_DefaultsToPending(t *testing.T) {
	tripRepo := newFakeTripRepo()
	svc := newService(tripRepo, nil, nil)

	got, err := svc.CreateTrip(context.Background(), CreateTripInput{
		DriverID:       uuid.New(),
		Origin:         "Mendoza",
		Destination:    "San Luis",
		Date:           "2025-08-10",
		Time:           "09:00",
		AvailableSeats: 4,
		PricePerPerson: 2000,
		Vehicle:        "Peugeot 208",
	})
	require.NoError(t, err)
	assert.Equal(t, trip.StatePending, got.State)
	assert.NotEqual(t, uuid.Nil, got.ID)
}

func TestGetAllReservations(t *testing.T) {
	tr := pendingTrip(3)
	tripRepo := newFakeTripRepo(tr)
	selectionRepo := &fakeSelectionRepo{tripsByID: tripRepo.trips}
	svc := newService(tripRepo, selectionRepo, nil)
	ctx := context.Background()

	passenger := uuid.New()
	_, err := svc.SelectTrip(ctx, tr.ID, passenger, 1)
	require.NoError(t, err)

	got, err := svc.GetAllReservations(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, passenger, got[0].PassengerID)
	assert.Equal(t, tr.DriverID, got[0].DriverID)
}
