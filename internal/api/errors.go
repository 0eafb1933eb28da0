package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/hanzi-strokes/internal/api/shared"
	"github.com/phrazzld/hanzi-strokes/internal/domain"
	"github.com/phrazzld/hanzi-strokes/internal/domain/srs"
	"github.com/phrazzld/hanzi-strokes/internal/service/practice"
	"github.com/phrazzld/hanzi-strokes/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, practice.ErrCardNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, shared.ErrBodyTooLarge):
		return http.StatusRequestEntityTooLarge

	// Bad request errors
	case errors.Is(err, practice.ErrInvalidCharacter),
		errors.Is(err, practice.ErrStrokeIndexOutOfRange),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidRating),
		errors.Is(err, domain.ErrInvalidProfile),
		errors.Is(err, domain.ErrEmptyCardID),
		errors.Is(err, srs.ErrInvalidDays),
		errors.Is(err, store.ErrInvalidSnapshot),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, practice.ErrCardNotFound),
		errors.Is(err, store.ErrNotFound):
		return "Card not found"

	case errors.Is(err, shared.ErrBodyTooLarge):
		return "Request body too large"

	case errors.Is(err, practice.ErrInvalidCharacter):
		return "Expected exactly one character"

	case errors.Is(err, practice.ErrStrokeIndexOutOfRange):
		return "Stroke index out of range"

	case errors.Is(err, domain.ErrInvalidInput):
		return "Invalid stroke input"

	case errors.Is(err, domain.ErrInvalidRating):
		return "Invalid rating"

	case errors.Is(err, domain.ErrInvalidProfile):
		return "Invalid tolerance profile"

	case errors.Is(err, domain.ErrEmptyCardID):
		return "Card ID is required"

	case errors.Is(err, srs.ErrInvalidDays):
		return "Postpone days must be at least 1"

	case errors.Is(err, store.ErrInvalidSnapshot),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid backup data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status code and safe message for err. A
// non-empty fallback replaces the generic message of unmapped errors so the
// client learns which operation failed.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'RateRequest.Rating' Error:Field validation for 'Rating' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min", "gt", "gte":
		return "too small"
	case "max", "lt", "lte":
		return "too large"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}
