package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rumbocarpool/backend/internal/api/dto"
	"github.com/rumbocarpool/backend/internal/service/users"
	"github.com/rumbocarpool/backend/internal/validation"
	apperrors "github.com/rumbocarpool/backend/pkg/errors"
)

// CreateUser handles POST /v1/users
func (h *Handlers) CreateUser(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Validation("El cuerpo de la petición es inválido.", err))
		return
	}

	var missing []string
	for _, f := range []struct {
		name    string
		present bool
	}{
		{"name", req.Name != nil},
		{"email", req.Email != nil},
		{"phone", req.Phone != nil},
		{"password", req.Password != nil},
		{"dni", req.DNI != nil},
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

	name, err := validation.ParseString(*req.Name, "name")
	if err != nil {
		h.respondError(c, err)
		return
	}
	emailRaw, err := validation.ParseString(*req.Email, "email")
	if err != nil {
		h.respondError(c, err)
		return
	}
	email, err := validation.ValidateEmail(emailRaw)
	if err != nil {
		h.respondError(c, err)
		return
	}
	phoneRaw, err := validation.ParseString(*req.Phone, "phone")
	if err != nil {
		h.respondError(c, err)
		return
	}
	phone, err := validation.ValidatePhone(phoneRaw)
	if err != nil {
		h.respondError(c, err)
		return
	}
	passwordRaw, err := validation.ParseString(*req.Password, "password")
	if err != nil {
		h.respondError(c, err)
		return
	}
	password, err := validation.ValidatePassword(passwordRaw)
	if err != nil {
		h.respondError(c, err)
		return
	}
	dni, err := validation.ParseString(*req.DNI, "dni")
	if err != nil {
		h.respondError(c, err)
		return
	}

	u, err := h.Users.CreateUser(c.Request.Context(), users.CreateUserInput{
		Name:     name,
		Email:    email,
		Phone:    phone,
		Password: password,
		DNI:      dni,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": u})
}

// Login handles POST /v1/users/login
func (h *Handlers) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Validation("El cuerpo de la petición es inválido.", err))
		return
	}
	if req.Email == nil || req.Password == nil {
		h.respondError(c, apperrors.Validation("Faltan los siguientes campos requeridos: email, password", nil))
		return
	}

	u, token, err := h.Users.Login(c.Request.Context(), *req.Email, *req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": u, "token": token})
}

// GetUserByID handles GET /v1/users/:userId
func (h *Handlers) GetUserByID(c *gin.Context) {
	userID, err := parseUUIDParam(c, "userId")
	if err != nil {
		h.respondError(c, err)
		return
	}

	u, count, err := h.Users.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": u, "ratingsCount": count})
}

// UpdatePassword handles PATCH /v1/users/:userId/password
func (h *Handlers) UpdatePassword(c *gin.Context) {
	userID, err := parseUUIDParam(c, "userId")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var req dto.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, apperrors.Validation("El cuerpo de la petición es inválido.", err))
		return
	}
	if req.Password == nil {
		h.respondError(c, apperrors.Validation("El campo password es requerido.", nil))
		return
	}
	password, err := validation.ValidatePassword(*req.Password)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if err := h.Users.UpdatePassword(c.Request.Context(), userID, password); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Contraseña actualizada correctamente."})
}
