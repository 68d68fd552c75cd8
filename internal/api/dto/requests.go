package dto

// Request bodies bind loosely typed fields on purpose: the API accepts the
// original client's coercible forms (numeric strings, "yes"/"no" flags) and
// produces field-level errors, so pointer and interface types distinguish
// absent values from malformed ones before validation coerces them.

// CreateTripRequest represents a request to publish a trip
type CreateTripRequest struct {
	DriverID        *string     `json:"driverId"`
	CreatedByUserID *string     `json:"createdByUserId"`
	Origin          *string     `json:"origin"`
	Destination     *string     `json:"destination"`
	Date            *string     `json:"date"`
	Time            *string     `json:"time"`
	AvailableSeats  interface{} `json:"availableSeats"`
	PricePerPerson  interface{} `json:"pricePerPerson"`
	Vehicle         *string     `json:"vehicle"`
	Music           interface{} `json:"music"`
	Pets            interface{} `json:"pets"`
	Children        interface{} `json:"children"`
	Luggage         interface{} `json:"luggage"`
	Notes           *string     `json:"notes"`
}

// SelectTripRequest represents a seat reservation on a trip
type SelectTripRequest struct {
	UserID *string     `json:"userId"`
	Seats  interface{} `json:"seats"`
}

// CreateUserRequest represents a registration request
type CreateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
	DNI      *string `json:"dni"`
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// UpdatePasswordRequest represents a password change
type UpdatePasswordRequest struct {
	Password *string `json:"password"`
}

// AddRatingRequest represents a rating of a user
type AddRatingRequest struct {
	Score    interface{} `json:"score"`
	Comment  *string     `json:"comment"`
	AuthorID *string     `json:"authorId"`
}
