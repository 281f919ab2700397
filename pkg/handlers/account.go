package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/ovoline/stockroom/pkg/auth"
	"github.com/ovoline/stockroom/pkg/services"
)

// UpdateProfileRequest for PUT /api/account
type UpdateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// ChangePasswordRequest for POST /api/account/password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// AccountHandler handles the signed-in user's profile.
type AccountHandler struct {
	accounts services.AccountService
	logger   *zap.Logger
}

// NewAccountHandler creates a new account handler.
func NewAccountHandler(accounts services.AccountService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{accounts: accounts, logger: logger}
}

// RegisterRoutes registers the account handler's routes on the given mux.
func (h *AccountHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, connMiddleware TenantMiddleware) {
	mux.HandleFunc("GET /api/account", authMiddleware.RequireAuth(connMiddleware(h.Get)))
	mux.HandleFunc("PUT /api/account", authMiddleware.RequireAuth(connMiddleware(h.Update)))
	mux.HandleFunc("POST /api/account/password", authMiddleware.RequireAuth(connMiddleware(h.ChangePassword)))
}

// Get handles GET /api/account
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequestUserID(w, r, h.logger)
	if !ok {
		return
	}

	user, err := h.accounts.Get(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to load account",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		ServiceErrorResponse(w, h.logger, err, "get_account_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: user}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/account
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	user, err := h.accounts.UpdateProfile(r.Context(), userID, req.FirstName, req.LastName, req.Email)
	if err != nil {
		h.logger.Error("Failed to update profile",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		ServiceErrorResponse(w, h.logger, err, "update_profile_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: user}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ChangePassword handles POST /api/account/password
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		ServiceErrorResponse(w, h.logger, err, "change_password_failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
