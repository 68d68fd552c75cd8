package user

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. Password holds the bcrypt
// credential, never the plaintext, and is excluded from serialization.
type User struct {
	ID                   uuid.UUID `json:"id" db:"id"`
	Name                 string    `json:"name" db:"name"`
	Email                string    `json:"email" db:"email"`
	Phone                string    `json:"phone" db:"phone"`
	Password             string    `json:"-" db:"password"`
	DNI                  string    `json:"dni" db:"dni"`
	CalificacionPromedio float64   `json:"calificacionPromedio" db:"calificacion_promedio"`
	CreatedAt            time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time `json:"updatedAt" db:"updated_at"`
}
