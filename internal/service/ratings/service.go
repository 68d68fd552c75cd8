// Package ratings implements the rating aggregation engine. Recording a
// rating and recomputing the subject's rolling average commit or roll back
// as one transaction, so readers never observe a rating without its
// average or the other way around.
package ratings

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/rumbocarpool/backend/internal/domain/rating"
	"github.com/rumbocarpool/backend/internal/domain/user"
	apperrors "github.com/rumbocarpool/backend/pkg/errors"
	"github.com/rumbocarpool/backend/pkg/logger"
)

// Service orchestrates rating operations over the repositories
type Service struct {
	ratings rating.Repository
	users   user.Repository
	logger  *logger.Logger
}

// NewService creates a rating service
func NewService(ratings rating.Repository, users user.Repository, log *logger.Logger) *Service {
	return &Service{
		ratings: ratings,
		users:   users,
		logger:  log,
	}
}

// AddRatingInput carries a rating request
type AddRatingInput struct {
	RatedUserID uuid.UUID
	Score       float64
	Comment     *string
	AuthorID    *uuid.UUID
}

// AddRatingResult is the outcome of a committed rating
type AddRatingResult struct {
	Rating       *rating.Rating `json:"rating"`
	User         *user.User     `json:"user"`
	RatingsCount int            `json:"ratingsCount"`
}

// AddRating records a rating and recomputes the subject's average. The
// score is rounded to 2 decimals before validation; the existence checks,
// the insert, the aggregate and the average write-back all run inside one
// transaction.
func (s *Service) AddRating(ctx context.Context, input AddRatingInput) (*AddRatingResult, error) {
	score := round2(input.Score)
	if score < 1 || score > 5 {
		return nil, apperrors.ErrInvalidScore
	}

	tx, err := s.ratings.BeginTx(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to begin rating transaction")
	}
	defer func() { _ = tx.Rollback() }()

	ratedUser, err := s.users.GetByIDTx(ctx, tx, input.RatedUserID)
	if err != nil {
		return nil, err
	}
	if ratedUser == nil {
		return nil, apperrors.ErrUserNotFound
	}

	if input.AuthorID != nil {
		author, err := s.users.GetByIDTx(ctx, tx, *input.AuthorID)
		if err != nil {
			return nil, err
		}
		if author == nil {
			return nil, apperrors.ErrAuthorNotFound
		}
	}

	var comment *string
	if input.Comment != nil {
		if trimmed := strings.TrimSpace(*input.Comment); trimmed != "" {
			comment = &trimmed
		}
	}

	r := &rating.Rating{
		Score:       score,
		Comment:     comment,
		RatedUserID: input.RatedUserID,
		AuthorID:    input.AuthorID,
	}
	if err := s.ratings.CreateTx(ctx, tx, r); err != nil {
		return nil, err
	}

	mean, count, err := s.ratings.AggregateForUserTx(ctx, tx, input.RatedUserID)
	if err != nil {
		return nil, err
	}

	// Cannot be zero right after the insert, but a zeroed average beats a
	// division artifact if it ever is.
	average := 0.0
	if count > 0 {
		average = round2(mean)
	}

	if err := s.users.UpdateAverageTx(ctx, tx, input.RatedUserID, average); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, apperrors.Wrap(err, "failed to commit rating")
	}

	ratedUser.CalificacionPromedio = average

	s.logger.Info("Rating recorded",
		logger.String("rated_user_id", input.RatedUserID.String()),
		logger.Float64("score", score),
		logger.Float64("average", average),
		logger.Int("count", count),
	)

	return &AddRatingResult{
		Rating:       r,
		User:         ratedUser,
		RatingsCount: count,
	}, nil
}

// GetRatingsCount returns the number of ratings the user has received
func (s *Service) GetRatingsCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.ratings.CountForUser(ctx, userID)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
