package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/rumbocarpool/backend/internal/domain/rating"
	"github.com/rumbocarpool/backend/pkg/database"
)

// RatingRepository persists ratings in PostgreSQL
type RatingRepository struct {
	db *sqlx.DB
}

// NewRatingRepository returns a RatingRepository bound to the given pool
func NewRatingRepository(db *sqlx.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// BeginTx starts the transaction scoping a rating insert plus the
// aggregate recompute
func (r *RatingRepository) BeginTx(ctx context.Context) (database.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}

// CreateTx inserts a rating inside tx
func (r *RatingRepository) CreateTx(ctx context.Context, tx database.Tx, rt *rating.Rating) error {
	stx, err := sqlxTx(tx)
	if err != nil {
		return err
	}
	if rt.ID == uuid.Nil {
		rt.ID = uuid.New()
	}
	const q = `
		INSERT INTO ratings (id, score, comment, rated_user_id, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`
	if err := stx.QueryRowxContext(ctx, q, rt.ID, rt.Score, rt.Comment, rt.RatedUserID, rt.AuthorID).Scan(&rt.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert rating: %w", err)
	}
	return nil
}

// AggregateForUserTx returns the mean score and count of all ratings
// referencing the user, evaluated inside tx so it sees the row the same
// transaction just inserted
func (r *RatingRepository) AggregateForUserTx(ctx context.Context, tx database.Tx, userID uuid.UUID) (float64, int, error) {
	stx, err := sqlxTx(tx)
	if err != nil {
		return 0, 0, err
	}
	const q = `SELECT COALESCE(AVG(score), 0), COUNT(*) FROM ratings WHERE rated_user_id = $1`
	var avg float64
	var count int
	if err := stx.QueryRowxContext(ctx, q, userID).Scan(&avg, &count); err != nil {
		return 0, 0, fmt.Errorf("failed to aggregate ratings: %w", err)
	}
	return avg, count, nil
}

// CountForUser returns the number of ratings referencing the user
func (r *RatingRepository) CountForUser(ctx context.Context, userID uuid.UUID) (int, error) {
	const q = `SELECT COUNT(*) FROM ratings WHERE rated_user_id = $1`
	var count int
	if err := r.db.QueryRowxContext(ctx, q, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count ratings: %w", err)
	}
	return count, nil
}
