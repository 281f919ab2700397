//go:build integration

package repositories

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovoline/stockroom/pkg/apperrors"
	"github.com/ovoline/stockroom/pkg/models"
	"github.com/ovoline/stockroom/pkg/testhelpers"
)

func TestDatabaseRepository_CreateAndGet(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	ctx := scopedContext(t, testDB.DB)
	repo := NewDatabaseRepository()

	name := "inventory-" + uuid.NewString()[:8]
	db := &models.Database{Name: name, Type: "postgres"}
	require.NoError(t, repo.Create(ctx, db))

	t.Run("by id", func(t *testing.T) {
		got, err := repo.GetByID(ctx, db.ID)
		require.NoError(t, err)
		assert.Equal(t, name, got.Name)
	})

	t.Run("by name", func(t *testing.T) {
		got, err := repo.GetByName(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, db.ID, got.ID)
	})

	t.Run("duplicate name resolves to the oldest", func(t *testing.T) {
		later := &models.Database{Name: name, Type: "postgres"}
		require.NoError(t, repo.Create(ctx, later))

		got, err := repo.GetByName(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, db.ID, got.ID)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := repo.GetByName(ctx, "missing-"+uuid.NewString())
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestDatabaseRepository_Membership(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	ctx := scopedContext(t, testDB.DB)
	repo := NewDatabaseRepository()
	users := NewUserRepository()

	user := newTestUser("dave")
	require.NoError(t, users.Create(ctx, user))

	db := &models.Database{Name: "members-" + uuid.NewString()[:8], Type: "postgres"}
	require.NoError(t, repo.Create(ctx, db))

	t.Run("role lookup before membership", func(t *testing.T) {
		role, err := repo.GetRole(ctx, db.ID, user.ID)
		require.NoError(t, err)
		assert.Empty(t, role)
	})

	t.Run("add and read back", func(t *testing.T) {
		require.NoError(t, repo.AddMember(ctx, db.ID, user.ID, models.RoleEditor))

		role, err := repo.GetRole(ctx, db.ID, user.ID)
		require.NoError(t, err)
		assert.Equal(t, models.RoleEditor, role)
	})

	t.Run("second grant is rejected", func(t *testing.T) {
		err := repo.AddMember(ctx, db.ID, user.ID, models.RoleViewer)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyMember)
	})

	t.Run("invalid role is rejected", func(t *testing.T) {
		other := newTestUser("erin")
		require.NoError(t, users.Create(ctx, other))
		err := repo.AddMember(ctx, db.ID, other.ID, "admin")
		assert.ErrorIs(t, err, apperrors.ErrInvalidRole)
	})

	t.Run("list for user", func(t *testing.T) {
		second := &models.Database{Name: "members2-" + uuid.NewString()[:8], Type: "postgres"}
		require.NoError(t, repo.Create(ctx, second))
		require.NoError(t, repo.AddMember(ctx, second.ID, user.ID, models.RoleOwner))

		memberships, err := repo.ListForUser(ctx, user.ID)
		require.NoError(t, err)
		require.Len(t, memberships, 2)
		assert.Equal(t, db.ID, memberships[0].Database.ID)
		assert.Equal(t, models.RoleEditor, memberships[0].Role)
		assert.Equal(t, second.ID, memberships[1].Database.ID)
		assert.Equal(t, models.RoleOwner, memberships[1].Role)
	})
}
