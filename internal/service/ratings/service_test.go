package ratings

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rumbocarpool/backend/internal/domain/rating"
	"github.com/rumbocarpool/backend/internal/domain/user"
	"github.com/rumbocarpool/backend/pkg/database"
	apperrors "github.com/rumbocarpool/backend/pkg/errors"
	"github.com/rumbocarpool/backend/pkg/logger"
)

type fakeTx struct {
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit() error   { t.committed = true; return nil }
func (t *fakeTx) Rollback() error { t.rolledBack = true; return nil }

// fakeRatingRepo stages inserts on the transaction and only makes them
// durable on commit, mirroring the transactional behavior the service
// depends on.
type fakeRatingRepo struct {
	committed []*rating.Rating
	staged    []*rating.Rating
	lastTx    *fakeTx
}

func (r *fakeRatingRepo) BeginTx(ctx context.Context) (database.Tx, error) {
	r.lastTx = &fakeTx{}
	r.staged = nil
	return &commitHook{tx: r.lastTx, repo: r}, nil
}

// commitHook folds the staged ratings into the durable set on commit
type commitHook struct {
	tx   *fakeTx
	repo *fakeRatingRepo
}

func (c *commitHook) Commit() error {
	c.repo.committed = append(c.repo.committed, c.repo.staged...)
	c.repo.staged = nil
	return c.tx.Commit()
}

func (c *commitHook) Rollback() error {
	c.repo.staged = nil
	return c.tx.Rollback()
}

func (r *fakeRatingRepo) CreateTx(ctx context.Context, tx database.Tx, rec *rating.Rating) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	r.staged = append(r.staged, rec)
	return nil
}

func (r *fakeRatingRepo) AggregateForUserTx(ctx context.Context, tx database.Tx, userID uuid.UUID) (float64, int, error) {
	var sum float64
	var count int
	for _, rec := range append(append([]*rating.Rating{}, r.committed...), r.staged...) {
		if rec.RatedUserID == userID {
			sum += rec.Score
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return sum / float64(count), count, nil
}

func (r *fakeRatingRepo) CountForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, rec := range r.committed {
		if rec.RatedUserID == userID {
			count++
		}
	}
	return count, nil
}

type fakeUserRepo struct {
	users    map[uuid.UUID]*user.User
	averages map[uuid.UUID]float64
}

func newFakeUserRepo(users ...*user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]*user.User), averages: make(map[uuid.UUID]float64)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
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
	return nil, nil
}
func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, credential string) error {
	return nil
}
func (r *fakeUserRepo) UpdateAverageTx(ctx context.Context, tx database.Tx, id uuid.UUID, average float64) error {
	r.averages[id] = average
	return nil
}

func TestAddRating_AveragesAcrossRatings(t *testing.T) {
	rated := &user.User{ID: uuid.New(), Name: "Bruno"}
	userRepo := newFakeUserRepo(rated)
	ratingRepo := &fakeRatingRepo{}
	svc := NewService(ratingRepo, userRepo, logger.NewNop())
	ctx := context.Background()

	res, err := svc.AddRating(ctx, AddRatingInput{RatedUserID: rated.ID, Score: 5})
	require.NoError(t, err)
	assert.Equal(t, 1, res.RatingsCount)
	assert.Equal(t, 5.0, res.User.CalificacionPromedio)

	res, err = svc.AddRating(ctx, AddRatingInput{RatedUserID: rated.ID, Score: 3})
	require.NoError(t, err)
	assert.Equal(t, 2, res.RatingsCount)
	assert.Equal(t, 4.0, res.User.CalificacionPromedio)
	assert.Equal(t, 4.0, userRepo.averages[rated.ID])
	assert.Len(t, ratingRepo.committed, 2)
}

// TestAddRating_ScoreRounding checks the round-then-validate order: a raw
// score just under 1 that rounds to 1.0 is accepted, one that rounds to
// 0.99 is not. Same at the top of the range.
func TestAddRating_ScoreRounding(t *testing.T) {
	tests := []struct {
		name      string
		score     float64
		wantErr   bool
		wantScore float64
	}{
		{"rounds up into range", 0.996, false, 1.0},
		{"rounds below range", 0.99, true, 0},
		{"rounds down into range", 5.004, false, 5.0},
		{"rounds above range", 5.01, true, 0},
		{"mid-range keeps decimals", 3.456, false, 3.46},
		{"zero", 0, true, 0},
		{"negative", -2, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rated := &user.User{ID: uuid.New()}
			svc := NewService(&fakeRatingRepo{}, newFakeUserRepo(rated), logger.NewNop())

			res, err := svc.AddRating(context.Background(), AddRatingInput{RatedUserID: rated.ID, Score: tt.score})
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidScore)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, res.Rating.Score)
		})
	}
}

func TestAddRating_UnknownRatedUser(t *testing.T) {
	ratingRepo := &fakeRatingRepo{}
	svc := NewService(ratingRepo, newFakeUserRepo(), logger.NewNop())

	_, err := svc.AddRating(context.Background(), AddRatingInput{RatedUserID: uuid.New(), Score: 4})
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
	assert.Empty(t, ratingRepo.committed)
	assert.True(t, ratingRepo.lastTx.rolledBack)
}

func TestAddRating_UnknownAuthorRollsBack(t *testing.T) {
	rated := &user.User{ID: uuid.New()}
	ratingRepo := &fakeRatingRepo{}
	svc := NewService(ratingRepo, newFakeUserRepo(rated), logger.NewNop())

	ghost := uuid.New()
	_, err := svc.AddRating(context.Background(), AddRatingInput{
		RatedUserID: rated.ID,
		Score:       4,
		AuthorID:    &ghost,
	})
	assert.ErrorIs(t, err, apperrors.ErrAuthorNotFound)
	// Nothing may survive a failed rating, not even the insert
	assert.Empty(t, ratingRepo.committed)
	assert.True(t, ratingRepo.lastTx.rolledBack)
	assert.False(t, ratingRepo.lastTx.committed)
}

func TestAddRating_CommentNormalization(t *testing.T) {
	rated := &user.User{ID: uuid.New()}
	svc := NewService(&fakeRatingRepo{}, newFakeUserRepo(rated), logger.NewNop())
	ctx := context.Background()

	blank := "   "
	res, err := svc.AddRating(ctx, AddRatingInput{RatedUserID: rated.ID, Score: 4, Comment: &blank})
	require.NoError(t, err)
	assert.Nil(t, res.Rating.Comment)

	padded := "  muy buen viaje  "
	res, err = svc.AddRating(ctx, AddRatingInput{RatedUserID: rated.ID, Score: 4, Comment: &padded})
	require.NoError(t, err)
	require.NotNil(t, res.Rating.Comment)
	assert.Equal(t, "muy buen viaje", *res.Rating.Comment)
}

func TestAddRating_WithAuthor(t *testing.T) {
	rated := &user.User{ID: uuid.New()}
	author := &user.User{ID: uuid.New()}
	svc := NewService(&fakeRatingRepo{}, newFakeUserRepo(rated, author), logger.NewNop())

	res, err := svc.AddRating(context.Background(), AddRatingInput{
		RatedUserID: rated.ID,
		Score:       5,
		AuthorID:    &author.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, res.Rating.AuthorID)
	assert.Equal(t, author.ID, *res.Rating.AuthorID)
}

func TestGetRatingsCount(t *testing.T) {
	rated := &user.User{ID: uuid.New()}
	ratingRepo := &fakeRatingRepo{}
	svc := NewService(ratingRepo, newFakeUserRepo(rated), logger.NewNop())
	ctx := context.Background()

	count, err := svc.GetRatingsCount(ctx, rated.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	_, err = svc.AddRating(ctx, AddRatingInput{RatedUserID: rated.ID, Score: 4})
	require.NoError(t, err)

	count, err = svc.GetRatingsCount(ctx, rated.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
