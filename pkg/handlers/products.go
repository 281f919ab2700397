package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ovoline/stockroom/pkg/auth"
	"github.com/ovoline/stockroom/pkg/services"
)

// ProductRequest for POST /api/products and PUT /api/products/{id}.
// Updates replace the whole record; omitted fields become zero values.
type ProductRequest struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// ProductHandler handles product HTTP requests.
type ProductHandler struct {
	products services.ProductService
	logger   *zap.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(products services.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{products: products, logger: logger}
}

// RegisterRoutes registers the product handler's routes on the given mux.
func (h *ProductHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, tenantMiddleware TenantMiddleware) {
	mux.HandleFunc("GET /api/products", authMiddleware.RequireAuth(tenantMiddleware(h.List)))
	mux.HandleFunc("POST /api/products", authMiddleware.RequireAuth(tenantMiddleware(h.Create)))
	mux.HandleFunc("GET /api/products/{id}", authMiddleware.RequireAuth(tenantMiddleware(h.Get)))
	mux.HandleFunc("PUT /api/products/{id}", authMiddleware.RequireAuth(tenantMiddleware(h.Update)))
}

// List handles GET /api/products?page=N
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequestUserID(w, r, h.logger)
	if !ok {
		return
	}

	page, err := h.products.List(r.Context(), userID, r.URL.Query().Get("page"))
	if err != nil {
		h.logger.Error("Failed to list products",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		ServiceErrorResponse(w, h.logger, err, "list_products_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: page}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Create handles POST /api/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequestUserID(w, r, h.logger)
	if !ok {
		return
	}

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	product, err := h.products.Create(r.Context(), userID, req.Name, req.Quantity, req.Price)
	if err != nil {
		ServiceErrorResponse(w, h.logger, err, "create_product_failed")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: product}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequestUserID(w, r, h.logger)
	if !ok {
		return
	}

	productID, ok := parseProductID(w, r, h.logger)
	if !ok {
		return
	}

	product, err := h.products.Get(r.Context(), userID, productID)
	if err != nil {
		ServiceErrorResponse(w, h.logger, err, "get_product_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: product}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/products/{id}
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := RequestUserID(w, r, h.logger)
	if !ok {
		return
	}

	productID, ok := parseProductID(w, r, h.logger)
	if !ok {
		return
	}

	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	product, err := h.products.Update(r.Context(), userID, productID, req.Name, req.Quantity, req.Price)
	if err != nil {
		ServiceErrorResponse(w, h.logger, err, "update_product_failed")
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: product}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// parseProductID extracts and validates the {id} path segment.
func parseProductID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	productID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_product_id", "Invalid product ID"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return uuid.Nil, false
	}
	return productID, true
}
