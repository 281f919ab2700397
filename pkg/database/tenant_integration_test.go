//go:build integration

package database_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovoline/stockroom/pkg/testhelpers"
)

func TestTenantScope_SetsSessionVariable(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	ctx := context.Background()

	databaseID := uuid.New()
	scope, err := testDB.DB.WithCurrentDatabase(ctx, databaseID)
	require.NoError(t, err)
	defer scope.Close()

	assert.True(t, scope.HasCurrentDatabase())
	assert.Equal(t, databaseID, scope.DatabaseID)

	var got string
	err = scope.Conn.QueryRow(ctx,
		`SELECT current_setting('app.current_database_id', true)`).Scan(&got)
	require.NoError(t, err)
	assert.Equal(t, databaseID.String(), got)
}

func TestTenantScope_Unscoped(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	ctx := context.Background()

	scope, err := testDB.DB.WithoutCurrentDatabase(ctx)
	require.NoError(t, err)
	defer scope.Close()

	assert.False(t, scope.HasCurrentDatabase())

	var got *string
	err = scope.Conn.QueryRow(ctx,
		`SELECT nullif(current_setting('app.current_database_id', true), '')`).Scan(&got)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTenantScope_CloseResetsVariable(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	ctx := context.Background()

	scope, err := testDB.DB.WithCurrentDatabase(ctx, uuid.New())
	require.NoError(t, err)
	scope.Close()

	// A fresh unscoped acquisition must not observe a stale setting even if
	// the pool hands back the same connection.
	next, err := testDB.DB.WithoutCurrentDatabase(ctx)
	require.NoError(t, err)
	defer next.Close()

	var got *string
	err = next.Conn.QueryRow(ctx,
		`SELECT nullif(current_setting('app.current_database_id', true), '')`).Scan(&got)
	require.NoError(t, err)
	assert.Nil(t, got)
}
