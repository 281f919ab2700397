package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ovoline/stockroom/pkg/auth"
	"github.com/ovoline/stockroom/pkg/services"
)

// TenantMiddleware wraps a handler with per-request tenant scoping.
type TenantMiddleware func(http.HandlerFunc) http.HandlerFunc

// CreateDatabaseRequest for POST /api/databases
type CreateDatabaseRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// SwitchDatabaseRequest for PUT /api/databases/current
type SwitchDatabaseRequest struct {
	Database string `json:"database"`
}

// AddMemberRequest for POST /api/databases/{id}/members
type AddMemberRequest struct {
	UserID uuid.UUID `json:"user_id"`
	Role   string    `json:"role"`
}

// DatabaseHandler handles database (tenant) HTTP requests.
type DatabaseHandler struct {
	databases services.DatabaseService
	logger    *zap.Logger
}

// NewDatabaseHandler creates a new database handler.
func NewDatabaseHandler(databases services.DatabaseService, logger *zap.Logger) *DatabaseHandler {
	return &DatabaseHandler{databases: databases, logger: logger}
}

// RegisterRoutes registers the database handler's routes on the given mux.
func (h *DatabaseHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, connMiddleware TenantMiddleware) {
	mux.HandleFunc("GET /api/databases", authMiddleware.RequireAuth(connMiddleware(h.List)))
	mux.HandleFunc("POST /api/databases", authMiddleware.RequireAuth(connMiddleware(h.Create)))
	mux.HandleFunc("GET /api/databases/current", authMiddleware.RequireAuth(connMiddleware(h.Current)))
	mux.HandleFunc("PUT /api/databases/current", authMiddleware.RequireAuth(connMiddleware(h.Switch)))
	mux.HandleFunc("POST /api/databases/{id}/members", authMiddleware.RequireAuth(connMiddleware(h.AddMember)))
}

// List handles GET /api/databases
func (h *DatabaseHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequestUserID(w, r, h.logger)
	if !ok {
		return
	}

	memberships, err := h.databases.ListForUser(r.Context(), userID)
	if err != nil {
		h.logger.Error("Failed to list databases",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		ServiceErrorResponse(w, h.logger, err, "list_databases_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: memberships}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/databases
func (h *DatabaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req CreateDatabaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Type = strings.TrimSpace(req.Type)
	if req.Name == "" || req.Type == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", "Name and type are required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	db, err := h.databases.Create(r.Context(), userID, req.Name, req.Type)
	if err != nil {
		h.logger.Error("Failed to create database",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		ServiceErrorResponse(w, h.logger, err, "create_database_failed")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: db}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Current handles GET /api/databases/current
func (h *DatabaseHandler) Current(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequestUserID(w, r, h.logger)
	if !ok {
		return
	}

	db, err := h.databases.Current(r.Context(), userID)
	if err != nil {
		ServiceErrorResponse(w, h.logger, err, "get_current_database_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: db}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Switch handles PUT /api/databases/current
func (h *DatabaseHandler) Switch(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req SwitchDatabaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if strings.TrimSpace(req.Database) == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", "Database reference is required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	db, err := h.databases.SwitchCurrent(r.Context(), userID, req.Database)
	if err != nil {
		ServiceErrorResponse(w, h.logger, err, "switch_database_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: db}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// AddMember handles POST /api/databases/{id}/members
func (h *DatabaseHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequestUserID(w, r, h.logger)
	if !ok {
		return
	}

	databaseID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_database_id", "Invalid database ID"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.databases.AddMember(r.Context(), userID, databaseID, req.UserID, req.Role); err != nil {
		ServiceErrorResponse(w, h.logger, err, "add_member_failed")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
