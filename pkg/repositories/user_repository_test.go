//go:build integration

package repositories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovoline/stockroom/pkg/apperrors"
	"github.com/ovoline/stockroom/pkg/database"
	"github.com/ovoline/stockroom/pkg/models"
	"github.com/ovoline/stockroom/pkg/testhelpers"
)

// scopedContext acquires an unscoped connection and stores it in the context
// the way the database middleware does for live requests.
func scopedContext(t *testing.T, db *database.DB) context.Context {
	t.Helper()
	ctx := context.Background()
	scope, err := db.WithoutCurrentDatabase(ctx)
	require.NoError(t, err)
	t.Cleanup(scope.Close)
	return database.SetTenantScope(ctx, scope)
}

func newTestUser(username string) *models.User {
	return &models.User{
		Username:     username + "-" + uuid.NewString()[:8],
		Email:        username + "@example.com",
		PasswordHash: "$2a$10$notarealhashnotarealhashnotarealhash",
	}
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	ctx := scopedContext(t, testDB.DB)
	repo := NewUserRepository()

	user := newTestUser("alice")
	require.NoError(t, repo.Create(ctx, user))
	require.NotEqual(t, uuid.Nil, user.ID)

	t.Run("by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Username, got.Username)
		assert.Nil(t, got.CurrentDatabaseID)
	})

	t.Run("by username", func(t *testing.T) {
		got, err := repo.GetByUsername(ctx, user.Username)
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup := &models.User{Username: user.Username, Email: "dup@example.com", PasswordHash: "x"}
		err := repo.Create(ctx, dup)
		assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)
	})
}

func TestUserRepository_Updates(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	ctx := scopedContext(t, testDB.DB)
	repo := NewUserRepository()

	user := newTestUser("bob")
	require.NoError(t, repo.Create(ctx, user))

	t.Run("profile", func(t *testing.T) {
		require.NoError(t, repo.UpdateProfile(ctx, user.ID, "Bob", "Builder", "bob@example.org"))
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "Bob Builder", got.FullName())
		assert.Equal(t, "bob@example.org", got.Email)
	})

	t.Run("password", func(t *testing.T) {
		require.NoError(t, repo.UpdatePassword(ctx, user.ID, "new-hash"))
		got, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", got.PasswordHash)
	})

	t.Run("unknown user", func(t *testing.T) {
		err := repo.UpdateProfile(ctx, uuid.New(), "X", "Y", "z@example.com")
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestUserRepository_SetCurrentDatabase(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	ctx := scopedContext(t, testDB.DB)
	users := NewUserRepository()
	dbs := NewDatabaseRepository()

	user := newTestUser("carol")
	require.NoError(t, users.Create(ctx, user))

	db := &models.Database{Name: "carol-inventory-" + uuid.NewString()[:8], Type: "postgres"}
	require.NoError(t, dbs.Create(ctx, db))

	require.NoError(t, users.SetCurrentDatabase(ctx, user.ID, db.ID))

	got, err := users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CurrentDatabaseID)
	assert.Equal(t, db.ID, *got.CurrentDatabaseID)
}
