package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/rumbocarpool/backend/internal/domain/user"
	"github.com/rumbocarpool/backend/pkg/database"
	apperrors "github.com/rumbocarpool/backend/pkg/errors"
)

const userColumns = `id, name, email, phone, password, dni, calificacion_promedio, created_at, updated_at`

// uniqueViolation is the postgres error code for unique constraint breaches
const uniqueViolation = "23505"

// UserRepository persists users in PostgreSQL
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository returns a UserRepository bound to the given pool
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a user. The service checks uniqueness first; the constraint
// mapping here is the backstop for races between check and insert.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	const q = `
		INSERT INTO users (id, name, email, phone, password, dni)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING calificacion_promedio, created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, q, u.ID, u.Name, u.Email, u.Phone, u.Password, u.DNI).
		Scan(&u.CalificacionPromedio, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			if strings.Contains(pqErr.Constraint, "dni") {
				return apperrors.ErrDNITaken
			}
			return apperrors.ErrEmailTaken
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetByID returns the user or (nil, nil) when absent
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	q := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	var u user.User
	if err := r.db.GetContext(ctx, &u, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// GetByIDTx returns the user inside tx or (nil, nil) when absent
func (r *UserRepository) GetByIDTx(ctx context.Context, tx database.Tx, id uuid.UUID) (*user.User, error) {
	stx, err := sqlxTx(tx)
	if err != nil {
		return nil, err
	}
	q := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, userColumns)
	var u user.User
	if err := stx.GetContext(ctx, &u, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

// GetByEmail returns the user with the given (lowercased) email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	q := fmt.Sprintf(`SELECT %s FROM users WHERE email = $1`, userColumns)
	var u user.User
	if err := r.db.GetContext(ctx, &u, q, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, nil
}

// GetByDNI returns the user with the given dni
func (r *UserRepository) GetByDNI(ctx context.Context, dni string) (*user.User, error) {
	q := fmt.Sprintf(`SELECT %s FROM users WHERE dni = $1`, userColumns)
	var u user.User
	if err := r.db.GetContext(ctx, &u, q, dni); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by dni: %w", err)
	}
	return &u, nil
}

// ListByIDs returns the users whose IDs are in ids. Missing IDs are simply
// absent from the result.
func (r *UserRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*user.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q, args, err := sqlx.In(fmt.Sprintf(`SELECT %s FROM users WHERE id IN (?)`, userColumns), ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build users query: %w", err)
	}
	q = r.db.Rebind(q)
	var users []*user.User
	if err := r.db.SelectContext(ctx, &users, q, args...); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdatePassword replaces the stored credential
func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, credential string) error {
	const q = `UPDATE users SET password = $1, updated_at = NOW() WHERE id = $2`
	result, err := r.db.ExecContext(ctx, q, credential, id)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// UpdateAverageTx persists the rolling average inside tx
func (r *UserRepository) UpdateAverageTx(ctx context.Context, tx database.Tx, id uuid.UUID, average float64) error {
	stx, err := sqlxTx(tx)
	if err != nil {
		return err
	}
	const q = `UPDATE users SET calificacion_promedio = $1, updated_at = NOW() WHERE id = $2`
	if _, err := stx.ExecContext(ctx, q, average, id); err != nil {
		return fmt.Errorf("failed to update average: %w", err)
	}
	return nil
}
