package trip

import (
	"time"

	"github.com/google/uuid"
)

// Selection is a passenger's claim on N seats of a trip. Selections are
// lifecycle-bound to their trip and removed with it.
type Selection struct {
	ID        uuid.UUID `json:"id" db:"id"`
	TripID    uuid.UUID `json:"tripId" db:"trip_id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	Seats     int       `json:"seats" db:"seats"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ReservationSummary is the flat administrative projection of a selection
// joined with its trip.
type ReservationSummary struct {
	ReservationID uuid.UUID `json:"idReserva" db:"reservation_id"`
	PassengerID   uuid.UUID `json:"idPasajero" db:"passenger_id"`
	DriverID      uuid.UUID `json:"idConductor" db:"driver_id"`
}

// Passenger is the joined passenger profile plus reserved seat count
// returned when listing a trip's passengers.
type Passenger struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone string    `json:"phone"`
	DNI   string    `json:"dni"`
	Seats int       `json:"seats"`
}
