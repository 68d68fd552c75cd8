package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rumbocarpool/backend/internal/api/dto"
	"github.com/rumbocarpool/backend/internal/service/ratings"
	"github.com/rumbocarpool/backend/internal/validation"
	apperrors "github.com/rumbocarpool/backend/pkg/errors"
)

// AddRating handles POST /v1/users/:userId/ratings
func (h *Handlers) AddRating(c *gin.Context) {
	ratedUserID, err := parseUUIDParam(c, "userId")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req dto.AddRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Validation("El cuerpo de la petición es inválido.", err))
		return
	}
	if req.Score == nil {
		h.respondError(c, apperrors.Validation("El campo score es requerido.", nil))
		return
	}

	score, err := validation.ParseNumber(req.Score, "score")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var authorID *uuid.UUID
	if req.AuthorID != nil {
		id, err := uuid.Parse(strings.TrimSpace(*req.AuthorID))
		if err != nil {
			h.respondError(c, apperrors.Validation("El campo authorId es inválido.", err))
			return
		}
		authorID = &id
	}

	result, err := h.Ratings.AddRating(c.Request.Context(), ratings.AddRatingInput{
		RatedUserID: ratedUserID,
		Score:       score,
		Comment:     req.Comment,
		AuthorID:    authorID,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.Monitor.RecordRatingAdded(result.Rating.Score)

	c.JSON(http.StatusCreated, gin.H{
		"rating":       result.Rating,
		"user":         result.User,
		"ratingsCount": result.RatingsCount,
	})
}

// GetRatingsCount handles GET /v1/users/:userId/ratings/count
func (h *Handlers) GetRatingsCount(c *gin.Context) {
	userID, err := parseUUIDParam(c, "userId")
	if err != nil {
		h.respondError(c, err)
		return
	}

	count, err := h.Ratings.GetRatingsCount(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"userId": userID, "ratingsCount": count})
}
