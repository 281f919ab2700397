package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ovoline/stockroom/pkg/apperrors"
	"github.com/ovoline/stockroom/pkg/auth"
	"github.com/ovoline/stockroom/pkg/models"
)

// ApiResponse is the standard envelope for successful responses.
type ApiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// errorStatus maps known service errors onto HTTP statuses. An empty code
// means the error is not one of ours.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, apperrors.ErrNotInScope), errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperrors.ErrNoCurrentDatabase):
		return http.StatusConflict, "no_current_database"
	case errors.Is(err, apperrors.ErrAlreadyMember):
		return http.StatusConflict, "already_member"
	case errors.Is(err, apperrors.ErrUsernameTaken):
		return http.StatusConflict, "username_taken"
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid_credentials"
	case errors.Is(err, apperrors.ErrInvalidRole):
		return http.StatusBadRequest, "invalid_role"
	case errors.Is(err, auth.ErrShortPassword),
		errors.Is(err, models.ErrEmptyProductName),
		errors.Is(err, models.ErrNegativeQuantity),
		errors.Is(err, models.ErrNegativePrice):
		return http.StatusBadRequest, "validation_error"
	default:
		return http.StatusInternalServerError, ""
	}
}

// ServiceErrorResponse writes the mapped error response for a service error,
// falling back to a 500 with the given code for anything unrecognized.
func ServiceErrorResponse(w http.ResponseWriter, logger *zap.Logger, err error, fallbackCode string) {
	status, code := errorStatus(err)
	if code == "" {
		code = fallbackCode
	}
	if werr := ErrorResponse(w, status, code, err.Error()); werr != nil {
		logger.Error("Failed to write error response", zap.Error(werr))
	}
}

// RequestUserID pulls the authenticated user from the request context. Writes
// a 401 and returns false if the auth middleware did not run.
func RequestUserID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	userID, ok := auth.GetUserID(r.Context())
	if !ok {
		if err := ErrorResponse(w, http.StatusUnauthorized, "unauthorized", "Authentication required"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return userID, true
}
