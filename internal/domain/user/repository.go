package user

import (
	"context"

	"github.com/google/uuid"
	"github.com/rumbocarpool/backend/pkg/database"
)

// Repository defines the interface for user data access. Lookups return
// (nil, nil) when no row matches.
type Repository interface {
	// Create persists a new user
	Create(ctx context.Context, u *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByIDTx retrieves a user inside tx
	GetByIDTx(ctx context.Context, tx database.Tx, id uuid.UUID) (*User, error)

	// GetByEmail retrieves a user by exact (already lowercased) email
	GetByEmail(ctx context.Context, email string) (*User, error)

	// GetByDNI retrieves a user by trimmed dni
	GetByDNI(ctx context.Context, dni string) (*User, error)

	// ListByIDs retrieves the users whose IDs are in ids
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*User, error)

	// UpdatePassword replaces the stored credential
	UpdatePassword(ctx context.Context, id uuid.UUID, credential string) error

	// UpdateAverageTx persists the rolling average inside tx
	UpdateAverageTx(ctx context.Context, tx database.Tx, id uuid.UUID, average float64) error
}
