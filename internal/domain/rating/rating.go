package rating

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rumbocarpool/backend/pkg/database"
)

// Rating is a 1-5 score one user gives another. Ratings cascade-delete
// with the rated user; AuthorID goes null when the author is deleted.
type Rating struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Score       float64    `json:"score" db:"score"`
	Comment     *string    `json:"comment,omitempty" db:"comment"`
	RatedUserID uuid.UUID  `json:"ratedUserId" db:"rated_user_id"`
	AuthorID    *uuid.UUID `json:"authorId,omitempty" db:"author_id"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
}

// Repository defines the interface for rating data access
type Repository interface {
	// BeginTx opens the transaction that scopes insert plus aggregation
	BeginTx(ctx context.Context) (database.Tx, error)

	// CreateTx inserts a rating inside tx
	CreateTx(ctx context.Context, tx database.Tx, r *Rating) error

	// AggregateForUserTx returns the mean score and count of all ratings
	// referencing the user, inside tx. A user with no ratings yields (0, 0).
	AggregateForUserTx(ctx context.Context, tx database.Tx, userID uuid.UUID) (float64, int, error)

	// CountForUser returns the number of ratings referencing the user
	CountForUser(ctx context.Context, userID uuid.UUID) (int, error)
}
