package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rumbocarpool/backend/internal/service/ratings"
	"github.com/rumbocarpool/backend/internal/service/trips"
	"github.com/rumbocarpool/backend/internal/service/users"
	apperrors "github.com/rumbocarpool/backend/pkg/errors"
	"github.com/rumbocarpool/backend/pkg/logger"
	"github.com/rumbocarpool/backend/pkg/monitoring"
)

// Handlers holds all handler dependencies
type Handlers struct {
	Trips   *trips.Service
	Ratings *ratings.Service
	Users   *users.Service
	Logger  *logger.Logger
	Monitor *monitoring.NewRelicApp
}

// NewHandlers creates a new Handlers instance
func NewHandlers(tripSvc *trips.Service, ratingSvc *ratings.Service, userSvc *users.Service, log *logger.Logger, monitor *monitoring.NewRelicApp) *Handlers {
	return &Handlers{
		Trips:   tripSvc,
		Ratings: ratingSvc,
		Users:   userSvc,
		Logger:  log,
		Monitor: monitor,
	}
}

// respondError maps a domain error onto its HTTP status. Unexpected errors
// get logged and collapse into a 500 without leaking details.
func (h *Handlers) respondError(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)
	if appErr.Status >= 500 {
		h.Logger.Error("Request failed",
			logger.String("path", c.FullPath()),
			logger.Err(err),
		)
	}
	c.JSON(appErr.Status, gin.H{"code": appErr.Code, "message": appErr.Message})
}

// parseUUIDParam reads a path parameter as a UUID
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.Validation(fmt.Sprintf("El campo %s es inválido.", name), err)
	}
	return id, nil
}
