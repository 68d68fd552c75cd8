// Package validation turns untrusted request values into typed, constrained
// ones. Every failure is a field-level validation error ready for the
// boundary to return as-is.
package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	apperrors "github.com/rumbocarpool/backend/pkg/errors"
)

var (
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern  = regexp.MustCompile(`^\d{2}:\d{2}(:\d{2})?$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^[+\d][\d\s-]{6,}$`)
)

// MinPasswordLength is the minimum accepted password length
const MinPasswordLength = 8

// ParseBool coerces a JSON value into a bool. Absent values (nil) return
// (nil, nil); booleans pass through; the string forms true/1/yes and
// false/0/no are accepted.
func ParseBool(value interface{}) (*bool, error) {
	if value == nil {
		return nil, nil
	}
	switch v := value.(type) {
	case bool:
		return &v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes":
			t := true
			return &t, nil
		case "false", "0", "no":
			f := false
			return &f, nil
		}
	}
	return nil, apperrors.Validation("El valor debe ser booleano.", nil)
}

// ParseNumber coerces a JSON value into a finite float64
func ParseNumber(value interface{}, field string) (float64, error) {
	switch v := value.(type) {
	case float64:
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return v, nil
		}
	case int:
		return float64(v), nil
	case json.Number:
		if parsed, err := v.Float64(); err == nil {
			return parsed, nil
		}
	case string:
		if strings.TrimSpace(v) != "" {
			if parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && !math.IsNaN(parsed) && !math.IsInf(parsed, 0) {
				return parsed, nil
			}
		}
	}
	return 0, apperrors.Validation(fmt.Sprintf("El campo %s debe ser numérico.", field), nil)
}

// ParseString requires a non-blank string and returns it trimmed
func ParseString(value interface{}, field string) (string, error) {
	if s, ok := value.(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s), nil
	}
	return "", apperrors.Validation(fmt.Sprintf("El campo %s es requerido.", field), nil)
}

// ValidateDate requires the YYYY-MM-DD format
func ValidateDate(value string) (string, error) {
	if !datePattern.MatchString(value) {
		return "", apperrors.Validation("El campo date debe tener el formato YYYY-MM-DD.", nil)
	}
	return value, nil
}

// ValidateTime requires the HH:mm or HH:mm:ss format
func ValidateTime(value string) (string, error) {
	if !timePattern.MatchString(value) {
		return "", apperrors.Validation("El campo time debe tener el formato HH:mm o HH:mm:ss.", nil)
	}
	return value, nil
}

// ValidateEmail checks the address shape and returns it lowercased
func ValidateEmail(email string) (string, error) {
	if !emailPattern.MatchString(email) {
		return "", apperrors.Validation("El formato del email es inválido.", nil)
	}
	return strings.ToLower(email), nil
}

// ValidatePhone checks the phone number shape
func ValidatePhone(phone string) (string, error) {
	if !phonePattern.MatchString(phone) {
		return "", apperrors.Validation("El formato del teléfono es inválido.", nil)
	}
	return phone, nil
}

// ValidatePassword enforces the minimum length
func ValidatePassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", apperrors.Validation("La contraseña debe tener al menos 8 caracteres.", nil)
	}
	return password, nil
}
