package trip

import (
	"time"

	"github.com/google/uuid"
)

// State represents a trip's lifecycle state
type State string

const (
	StatePending    State = "pending"
	StateInProgress State = "in_progress"
	StateCompleted  State = "completed"
)

// allowedTransitions is the full lifecycle table. Same-state, backward and
// skip-ahead requests are all rejected.
var allowedTransitions = map[State][]State{
	StatePending:    {StateInProgress},
	StateInProgress: {StateCompleted},
	StateCompleted:  {},
}

// IsValid validates the state
func (s State) IsValid() bool {
	switch s {
	case StatePending, StateInProgress, StateCompleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle allows moving to next
func (s State) CanTransitionTo(next State) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Trip represents a published ride offer with fixed seat capacity and price
type Trip struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	DriverID        uuid.UUID  `json:"driverId" db:"driver_id"`
	CreatedByUserID *uuid.UUID `json:"createdByUserId,omitempty" db:"created_by_user_id"`
	Origin          string     `json:"origin" db:"origin"`
	Destination     string     `json:"destination" db:"destination"`
	Date            string     `json:"date" db:"date"` // YYYY-MM-DD
	Time            string     `json:"time" db:"time"` // HH:mm[:ss]
	AvailableSeats  int        `json:"availableSeats" db:"available_seats"`
	PricePerPerson  float64    `json:"pricePerPerson" db:"price_per_person"`
	Vehicle         string     `json:"vehicle" db:"vehicle"`
	Music           bool       `json:"music" db:"music"`
	Pets            bool       `json:"pets" db:"pets"`
	Children        bool       `json:"children" db:"children"`
	Luggage         bool       `json:"luggage" db:"luggage"`
	Notes           *string    `json:"notes,omitempty" db:"notes"`
	State           State      `json:"state" db:"state"`
	CreatedAt       time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time  `json:"updatedAt" db:"updated_at"`
}
