package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovoline/stockroom/pkg/auth"
	"github.com/ovoline/stockroom/pkg/services"
)

// ContactRequest for POST /api/contact
type ContactRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ContactHandler handles contact-form submissions.
type ContactHandler struct {
	contact services.ContactService
	logger  *zap.Logger
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(contact services.ContactService, logger *zap.Logger) *ContactHandler {
	return &ContactHandler{contact: contact, logger: logger}
}

// RegisterRoutes registers the contact handler's routes on the given mux.
func (h *ContactHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, connMiddleware TenantMiddleware) {
	mux.HandleFunc("POST /api/contact", authMiddleware.RequireAuth(connMiddleware(h.Send)))
}

// Send handles POST /api/contact
func (h *ContactHandler) Send(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Message) == "" {
		if err := ErrorResponse(w, http.StatusBadRequest, "validation_error", "Subject and message are required"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := h.contact.Send(r.Context(), userID, req.Subject, req.Message); err != nil {
		h.logger.Error("Failed to forward contact message",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		ServiceErrorResponse(w, h.logger, err, "contact_failed")
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
