package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ovoline/stockroom/pkg/apperrors"
	"github.com/ovoline/stockroom/pkg/database"
	"github.com/ovoline/stockroom/pkg/models"
)

// ProductRepository defines the interface for product data access.
// Reads and writes are always keyed by the owning database so that a product
// can never be reached from outside its tenant.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	// GetByDatabase retrieves a product only if it belongs to the given
	// database. Returns ErrNotFound otherwise.
	GetByDatabase(ctx context.Context, databaseID, productID uuid.UUID) (*models.Product, error)
	// Update overwrites name, quantity and price in place (full replace).
	Update(ctx context.Context, product *models.Product) error
	ListByDatabase(ctx context.Context, databaseID uuid.UUID, limit, offset int) ([]*models.Product, error)
	CountByDatabase(ctx context.Context, databaseID uuid.UUID) (int, error)
}

// productRepository implements ProductRepository using PostgreSQL.
type productRepository struct{}

// NewProductRepository creates a new product repository.
func NewProductRepository() ProductRepository {
	return &productRepository{}
}

// Create inserts a product into its database's collection.
func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no connection scope in context")
	}

	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now

	query := `
		INSERT INTO products (id, database_id, name, quantity, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := scope.Conn.Exec(ctx, query,
		product.ID,
		product.DatabaseID,
		product.Name,
		product.Quantity,
		product.Price,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}

	return nil
}

// GetByDatabase retrieves a product scoped to its owning database.
func (r *productRepository) GetByDatabase(ctx context.Context, databaseID, productID uuid.UUID) (*models.Product, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no connection scope in context")
	}

	query := `
		SELECT id, database_id, name, quantity, price, created_at, updated_at
		FROM products
		WHERE database_id = $1 AND id = $2`

	var p models.Product
	err := scope.Conn.QueryRow(ctx, query, databaseID, productID).Scan(
		&p.ID,
		&p.DatabaseID,
		&p.Name,
		&p.Quantity,
		&p.Price,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &p, nil
}

// Update overwrites the product's fields in place.
func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no connection scope in context")
	}

	product.UpdatedAt = time.Now()

	query := `
		UPDATE products
		SET name = $1, quantity = $2, price = $3, updated_at = $4
		WHERE database_id = $5 AND id = $6`

	result, err := scope.Conn.Exec(ctx, query,
		product.Name,
		product.Quantity,
		product.Price,
		product.UpdatedAt,
		product.DatabaseID,
		product.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// ListByDatabase returns one page of a database's products, oldest first.
func (r *productRepository) ListByDatabase(ctx context.Context, databaseID uuid.UUID, limit, offset int) ([]*models.Product, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no connection scope in context")
	}

	query := `
		SELECT id, database_id, name, quantity, price, created_at, updated_at
		FROM products
		WHERE database_id = $1
		ORDER BY created_at, id
		LIMIT $2 OFFSET $3`

	rows, err := scope.Conn.Query(ctx, query, databaseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		var p models.Product
		err := rows.Scan(
			&p.ID,
			&p.DatabaseID,
			&p.Name,
			&p.Quantity,
			&p.Price,
			&p.CreatedAt,
			&p.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// CountByDatabase returns the number of products in a database.
func (r *productRepository) CountByDatabase(ctx context.Context, databaseID uuid.UUID) (int, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return 0, fmt.Errorf("no connection scope in context")
	}

	query := `SELECT COUNT(*) FROM products WHERE database_id = $1`

	var count int
	if err := scope.Conn.QueryRow(ctx, query, databaseID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}

	return count, nil
}

// Ensure productRepository implements ProductRepository at compile time.
var _ ProductRepository = (*productRepository)(nil)
