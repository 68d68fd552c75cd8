package handlers

import (
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rumbocarpool/backend/internal/api/dto"
	"github.com/rumbocarpool/backend/internal/domain/trip"
	"github.com/rumbocarpool/backend/internal/service/trips"
	"github.com/rumbocarpool/backend/internal/validation"
	apperrors "github.com/rumbocarpool/backend/pkg/errors"
)

// CreateTrip handles POST /v1/trips
func (h *Handlers) CreateTrip(c *gin.Context) {
	var req dto.CreateTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Validation("El cuerpo de la petición es inválido.", err))
		return
	}

	var missing []string
	for _, f := range []struct {
		name    string
		present bool
	}{
		{"driverId", req.DriverID != nil},
		{"origin", req.Origin != nil},
		{"destination", req.Destination != nil},
		{"date", req.Date != nil},
		{"time", req.Time != nil},
		{"availableSeats", req.AvailableSeats != nil},
		{"pricePerPerson", req.PricePerPerson != nil},
		{"vehicle", req.Vehicle != nil},
	} {
		if !f.present {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		h.respondError(c, apperrors.Validation(
			fmt.Sprintf("Faltan los siguientes campos requeridos: %s", strings.Join(missing, ", ")), nil))
		return
	}

	seatsNum, err := validation.ParseNumber(req.AvailableSeats, "availableSeats")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if seatsNum != math.Trunc(seatsNum) {
		h.respondError(c, apperrors.Validation("El campo availableSeats debe ser un número entero.", nil))
		return
	}
	if seatsNum <= 0 {
		h.respondError(c, apperrors.Validation("El campo availableSeats debe ser mayor a 0.", nil))
		return
	}

	price, err := validation.ParseNumber(req.PricePerPerson, "pricePerPerson")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if price < 0 {
		h.respondError(c, apperrors.Validation("El campo pricePerPerson no puede ser negativo.", nil))
		return
	}

	driverRaw, err := validation.ParseString(*req.DriverID, "driverId")
	if err != nil {
		h.respondError(c, err)
		return
	}
	driverID, err := uuid.Parse(driverRaw)
	if err != nil {
		h.respondError(c, apperrors.Validation("El campo driverId es inválido.", err))
		return
	}

	var createdBy *uuid.UUID
	if req.CreatedByUserID != nil {
		raw, err := validation.ParseString(*req.CreatedByUserID, "createdByUserId")
		if err != nil {
			h.respondError(c, err)
			return
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			h.respondError(c, apperrors.Validation("El campo createdByUserId es inválido.", err))
			return
		}
		createdBy = &id
	}

	origin, err := validation.ParseString(*req.Origin, "origin")
	if err != nil {
		h.respondError(c, err)
		return
	}
	destination, err := validation.ParseString(*req.Destination, "destination")
	if err != nil {
		h.respondError(c, err)
		return
	}
	date, err := validation.ValidateDate(strings.TrimSpace(*req.Date))
	if err != nil {
		h.respondError(c, err)
		return
	}
	departure, err := validation.ValidateTime(strings.TrimSpace(*req.Time))
	if err != nil {
		h.respondError(c, err)
		return
	}
	vehicle, err := validation.ParseString(*req.Vehicle, "vehicle")
	if err != nil {
		h.respondError(c, err)
		return
	}

	// Amenity flags default to false when absent
	flags := make(map[string]bool, 4)
	for field, raw := range map[string]interface{}{
		"music":    req.Music,
		"pets":     req.Pets,
		"children": req.Children,
		"luggage":  req.Luggage,
	} {
		parsed, err := validation.ParseBool(raw)
		if err != nil {
			h.respondError(c, err)
			return
		}
		flags[field] = parsed != nil && *parsed
	}

	created, err := h.Trips.CreateTrip(c.Request.Context(), trips.CreateTripInput{
		DriverID:        driverID,
		CreatedByUserID: createdBy,
		Origin:          origin,
		Destination:     destination,
		Date:            date,
		Time:            departure,
		AvailableSeats:  int(seatsNum),
		PricePerPerson:  price,
		Vehicle:         vehicle,
		Music:           flags["music"],
		Pets:            flags["pets"],
		Children:        flags["children"],
		Luggage:         flags["luggage"],
		Notes:           req.Notes,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Monitor.RecordTripPublished(created.Origin, created.Destination, created.AvailableSeats)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Viaje creado correctamente.",
		"data":    created,
	})
}

// GetPublishedTrips handles GET /v1/trips
func (h *Handlers) GetPublishedTrips(c *gin.Context) {
	trips, err := h.Trips.GetPublishedTrips(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Viajes publicados obtenidos correctamente.",
		"data":    trips,
	})
}

// GetTripByID handles GET /v1/trips/:tripId
func (h *Handlers) GetTripByID(c *gin.Context) {
	tripID, err := parseUUIDParam(c, "tripId")
	if err != nil {
		h.respondError(c, err)
		return
	}

	t, err := h.Trips.GetTripByID(c.Request.Context(), tripID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if t == nil {
		h.respondError(c, apperrors.ErrTripNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": t})
}

// SelectTrip handles POST /v1/trips/:tripId/select
func (h *Handlers) SelectTrip(c *gin.Context) {
	tripID, err := parseUUIDParam(c, "tripId")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req dto.SelectTripRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Validation("El cuerpo de la petición es inválido.", err))
		return
	}
	if req.UserID == nil || req.Seats == nil {
		h.respondError(c, apperrors.Validation("Faltan los siguientes campos requeridos: userId, seats", nil))
		return
	}

	userID, err := uuid.Parse(strings.TrimSpace(*req.UserID))
	if err != nil {
		h.respondError(c, apperrors.Validation("El campo userId es inválido.", err))
		return
	}

	seatsNum, err := validation.ParseNumber(req.Seats, "seats")
	if err != nil {
		h.respondError(c, err)
		return
	}
	if seatsNum != math.Trunc(seatsNum) {
		h.respondError(c, apperrors.Validation("El campo seats debe ser un número entero.", nil))
		return
	}

	t, err := h.Trips.SelectTrip(c.Request.Context(), tripID, userID, int(seatsNum))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Monitor.RecordSeatsReserved(t.ID.String(), int(seatsNum), t.AvailableSeats)

	c.JSON(http.StatusOK, gin.H{
		"message": "Reserva realizada correctamente.",
		"data":    t,
	})
}

// CancelTrip handles DELETE /v1/trips/:tripId
func (h *Handlers) CancelTrip(c *gin.Context) {
	tripID, err := parseUUIDParam(c, "tripId")
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.Trips.CancelTrip(c.Request.Context(), tripID); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Viaje cancelado correctamente."})
}

// StartTrip handles PATCH /v1/trips/:tripId/start
func (h *Handlers) StartTrip(c *gin.Context) {
	h.updateState(c, trip.StateInProgress)
}

// CompleteTrip handles PATCH /v1/trips/:tripId/complete
func (h *Handlers) CompleteTrip(c *gin.Context) {
	h.updateState(c, trip.StateCompleted)
}

func (h *Handlers) updateState(c *gin.Context, target trip.State) {
	tripID, err := parseUUIDParam(c, "tripId")
	if err != nil {
		h.respondError(c, err)
		return
	}

	t, err := h.Trips.UpdateTripState(c.Request.Context(), tripID, target)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Estado del viaje actualizado correctamente.",
		"data":    t,
	})
}

// GetLastTripByUser handles GET /v1/trips/users/:userId/last
func (h *Handlers) GetLastTripByUser(c *gin.Context) {
	userID, err := parseUUIDParam(c, "userId")
	if err != nil {
		h.respondError(c, err)
		return
	}

	t, err := h.Trips.GetLastTripByUser(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	// No trip yet is a normal answer here, not a 404
	c.JSON(http.StatusOK, gin.H{"data": t})
}

// GetTripsByUser handles GET /v1/trips/users/:userId/trips
func (h *Handlers) GetTripsByUser(c *gin.Context) {
	userID, err := parseUUIDParam(c, "userId")
	if err != nil {
		h.respondError(c, err)
		return
	}

	trips, err := h.Trips.GetTripsByUser(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": trips})
}

// GetAllReservations handles GET /v1/trips/reservations
func (h *Handlers) GetAllReservations(c *gin.Context) {
	reservations, err := h.Trips.GetAllReservations(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reservations})
}

// GetPassengersByTrip handles GET /v1/trips/:tripId/passengers
func (h *Handlers) GetPassengersByTrip(c *gin.Context) {
	tripID, err := parseUUIDParam(c, "tripId")
	if err != nil {
		h.respondError(c, err)
		return
	}

	passengers, err := h.Trips.GetPassengersByTrip(c.Request.Context(), tripID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": passengers})
}
