package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ovoline/stockroom/pkg/apperrors"
	"github.com/ovoline/stockroom/pkg/models"
	"github.com/ovoline/stockroom/pkg/repositories"
)

// ProductService defines the interface for product lifecycle operations.
// All operations run against the requester's current database.
//
// Mutations follow a fixed two-step check: first confirm the target product
// belongs to the current database (ErrNotInScope), then confirm the
// requester holds a mutating role on that database (ErrForbidden). The
// permission check is intentionally evaluated against the current database
// and not against the product's owning database; the scope check is what
// keeps the two aligned.
type ProductService interface {
	Create(ctx context.Context, userID uuid.UUID, name string, quantity int, price decimal.Decimal) (*models.Product, error)
	Update(ctx context.Context, userID, productID uuid.UUID, name string, quantity int, price decimal.Decimal) (*models.Product, error)
	// Get returns a product in the requester's current database. Reads are
	// not gated by role; any user whose current database contains the
	// product may view it.
	Get(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error)
	// List returns one page of the current database's products. rawPage is
	// the raw query parameter: non-numeric values resolve to the first page
	// and out-of-range values to the last, never an error. Users with no
	// current database get an empty first page.
	List(ctx context.Context, userID uuid.UUID, rawPage string) (*models.ProductPage, error)
}

// productService implements ProductService.
type productService struct {
	productRepo repositories.ProductRepository
	userRepo    repositories.UserRepository
	access      AccessService
	logger      *zap.Logger
}

// NewProductService creates a new product service with dependencies.
func NewProductService(productRepo repositories.ProductRepository, userRepo repositories.UserRepository, access AccessService, logger *zap.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		userRepo:    userRepo,
		access:      access,
		logger:      logger,
	}
}

// Create allocates a product inside the requester's current database.
func (s *productService) Create(ctx context.Context, userID uuid.UUID, name string, quantity int, price decimal.Decimal) (*models.Product, error) {
	current, err := s.access.CurrentDatabase(ctx, userID)
	if err != nil {
		return nil, err
	}

	canMutate, err := s.access.CanMutate(ctx, userID, current.ID)
	if err != nil {
		return nil, err
	}
	if !canMutate {
		return nil, apperrors.ErrForbidden
	}

	product := &models.Product{
		DatabaseID: current.ID,
		Name:       name,
		Quantity:   quantity,
		Price:      price,
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Debug("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("database_id", current.ID.String()))

	return product, nil
}

// Update overwrites a product's fields in place. A field omitted by the
// caller becomes its zero value; there is no partial-update merge.
func (s *productService) Update(ctx context.Context, userID, productID uuid.UUID, name string, quantity int, price decimal.Decimal) (*models.Product, error) {
	current, err := s.access.CurrentDatabase(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Scope first: the target must live in the current database.
	product, err := s.productRepo.GetByDatabase(ctx, current.ID, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotInScope
		}
		return nil, err
	}

	// Then permission, evaluated against the current database.
	canMutate, err := s.access.CanMutate(ctx, userID, current.ID)
	if err != nil {
		return nil, err
	}
	if !canMutate {
		return nil, apperrors.ErrForbidden
	}

	product.Name = name
	product.Quantity = quantity
	product.Price = price
	if err := product.Validate(); err != nil {
		return nil, err
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Get returns a product from the requester's current database.
func (s *productService) Get(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error) {
	current, err := s.access.CurrentDatabase(ctx, userID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetByDatabase(ctx, current.ID, productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotInScope
		}
		return nil, err
	}

	return product, nil
}

// List returns one page of the current database's products.
func (s *productService) List(ctx context.Context, userID uuid.UUID, rawPage string) (*models.ProductPage, error) {
	current, err := s.access.CurrentDatabase(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoCurrentDatabase) {
			return &models.ProductPage{
				Items:      []*models.Product{},
				Page:       1,
				PageSize:   models.ProductPageSize,
				TotalPages: 1,
			}, nil
		}
		return nil, err
	}

	total, err := s.productRepo.CountByDatabase(ctx, current.ID)
	if err != nil {
		return nil, err
	}

	page, totalPages := models.ResolvePage(rawPage, total, models.ProductPageSize)

	items, err := s.productRepo.ListByDatabase(ctx, current.ID,
		models.ProductPageSize, (page-1)*models.ProductPageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	if items == nil {
		items = []*models.Product{}
	}

	return &models.ProductPage{
		Items:      items,
		Page:       page,
		PageSize:   models.ProductPageSize,
		TotalPages: totalPages,
		TotalItems: total,
	}, nil
}

// Ensure productService implements ProductService at compile time.
var _ ProductService = (*productService)(nil)
