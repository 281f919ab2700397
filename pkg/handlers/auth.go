package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovoline/stockroom/pkg/auth"
	"github.com/ovoline/stockroom/pkg/services"
)

// RegisterRequest for POST /api/auth/register
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest for POST /api/auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthHandler handles registration, login and logout.
type AuthHandler struct {
	accounts services.AccountService
	sessions *auth.SessionStore
	logger   *zap.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(accounts services.AccountService, sessions *auth.SessionStore, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessions: sessions, logger: logger}
}

// RegisterRoutes registers the auth handler's routes on the given mux.
// These routes are unauthenticated by nature; they still need a database
// connection scope for the credential store.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, connMiddleware TenantMiddleware) {
	mux.HandleFunc("POST /api/auth/register", connMiddleware(h.Register))
	mux.HandleFunc("POST /api/auth/login", connMiddleware(h.Login))
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", "Username and email are required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	user, err := h.accounts.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.logger.Warn("Registration failed",
			zap.String("username", req.Username),
			zap.Error(err))
		ServiceErrorResponse(w, h.logger, err, "register_failed")
		return
	}

	// A fresh account is signed in right away.
	if err := h.sessions.SignIn(w, r, user.ID); err != nil {
		h.logger.Error("Failed to establish session", zap.Error(err))
		ServiceErrorResponse(w, h.logger, err, "session_failed")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: user}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	user, err := h.accounts.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		ServiceErrorResponse(w, h.logger, err, "login_failed")
		return
	}

	if err := h.sessions.SignIn(w, r, user.ID); err != nil {
		h.logger.Error("Failed to establish session", zap.Error(err))
		ServiceErrorResponse(w, h.logger, err, "session_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: user}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.SignOut(w, r); err != nil {
		h.logger.Error("Failed to clear session", zap.Error(err))
		ServiceErrorResponse(w, h.logger, err, "logout_failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
