//go:build integration

package repositories

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovoline/stockroom/pkg/apperrors"
	"github.com/ovoline/stockroom/pkg/models"
	"github.com/ovoline/stockroom/pkg/testhelpers"
)

func createTestDatabase(t *testing.T, ctx context.Context) *models.Database {
	t.Helper()
	repo := NewDatabaseRepository()
	db := &models.Database{Name: "products-" + uuid.NewString()[:8], Type: "postgres"}
	require.NoError(t, repo.Create(ctx, db))
	return db
}

func TestProductRepository_CreateAndGet(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	ctx := scopedContext(t, testDB.DB)
	repo := NewProductRepository()
	db := createTestDatabase(t, ctx)

	product := &models.Product{
		DatabaseID: db.ID,
		Name:       "Widget",
		Quantity:   5,
		Price:      decimal.RequireFromString("9.99"),
	}
	require.NoError(t, repo.Create(ctx, product))

	t.Run("inside its database", func(t *testing.T) {
		got, err := repo.GetByDatabase(ctx, db.ID, product.ID)
		require.NoError(t, err)
		assert.Equal(t, "Widget", got.Name)
		assert.Equal(t, 5, got.Quantity)
		assert.True(t, got.Price.Equal(decimal.RequireFromString("9.99")))
	})

	t.Run("through another database", func(t *testing.T) {
		other := createTestDatabase(t, ctx)
		_, err := repo.GetByDatabase(ctx, other.ID, product.ID)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestProductRepository_Update(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	ctx := scopedContext(t, testDB.DB)
	repo := NewProductRepository()
	db := createTestDatabase(t, ctx)

	product := &models.Product{
		DatabaseID: db.ID,
		Name:       "Widget",
		Quantity:   5,
		Price:      decimal.RequireFromString("9.99"),
	}
	require.NoError(t, repo.Create(ctx, product))

	product.Name = "Gadget"
	product.Quantity = 7
	product.Price = decimal.RequireFromString("12.50")
	require.NoError(t, repo.Update(ctx, product))

	got, err := repo.GetByDatabase(ctx, db.ID, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Gadget", got.Name)
	assert.Equal(t, 7, got.Quantity)

	t.Run("update outside its database", func(t *testing.T) {
		other := createTestDatabase(t, ctx)
		stray := *product
		stray.DatabaseID = other.ID
		err := repo.Update(ctx, &stray)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestProductRepository_ListAndCount(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	ctx := scopedContext(t, testDB.DB)
	repo := NewProductRepository()
	db := createTestDatabase(t, ctx)

	for i := 0; i < 12; i++ {
		p := &models.Product{
			DatabaseID: db.ID,
			Name:       fmt.Sprintf("Item %02d", i),
			Quantity:   i,
			Price:      decimal.New(int64(i), 0),
		}
		require.NoError(t, repo.Create(ctx, p))
	}

	count, err := repo.CountByDatabase(ctx, db.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, count)

	t.Run("insertion order with limit and offset", func(t *testing.T) {
		items, err := repo.ListByDatabase(ctx, db.ID, 9, 0)
		require.NoError(t, err)
		require.Len(t, items, 9)
		assert.Equal(t, "Item 00", items[0].Name)

		rest, err := repo.ListByDatabase(ctx, db.ID, 9, 9)
		require.NoError(t, err)
		require.Len(t, rest, 3)
		assert.Equal(t, "Item 09", rest[0].Name)
	})

	t.Run("empty database", func(t *testing.T) {
		other := createTestDatabase(t, ctx)
		items, err := repo.ListByDatabase(ctx, other.ID, 9, 0)
		require.NoError(t, err)
		assert.Empty(t, items)

		count, err := repo.CountByDatabase(ctx, other.ID)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
