package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TenantScope wraps a pool connection together with the requester's resolved
// current database. When a current database is set, the connection has
// app.current_database_id configured so row-level policies can evaluate it.
// DatabaseID is uuid.Nil when the user has no current database.
type TenantScope struct {
	Conn       *pgxpool.Conn
	DatabaseID uuid.UUID
}

// HasCurrentDatabase reports whether the requester had a current database
// when the scope was created.
func (s *TenantScope) HasCurrentDatabase() bool {
	return s.DatabaseID != uuid.Nil
}

// Close resets the database context and releases the connection to the pool.
// This MUST be called to prevent scope from leaking to the next request.
func (s *TenantScope) Close() {
	if s.Conn == nil {
		return
	}
	if s.DatabaseID != uuid.Nil {
		_, _ = s.Conn.Exec(context.Background(), "RESET app.current_database_id")
	}
	s.Conn.Release()
}

// WithCurrentDatabase acquires a connection scoped to the given database.
// The returned TenantScope MUST be closed with defer scope.Close().
func (db *DB) WithCurrentDatabase(ctx context.Context, databaseID uuid.UUID) (*TenantScope, error) {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	_, err = conn.Exec(ctx, "SELECT set_config('app.current_database_id', $1, false)", databaseID.String())
	if err != nil {
		conn.Release()
		return nil, err
	}

	return &TenantScope{Conn: conn, DatabaseID: databaseID}, nil
}

// WithoutCurrentDatabase acquires a connection without database scoping.
// Use this for account, login and database-management operations that run
// before a current database is resolved.
// The returned TenantScope MUST be closed with defer scope.Close().
func (db *DB) WithoutCurrentDatabase(ctx context.Context) (*TenantScope, error) {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &TenantScope{Conn: conn}, nil
}
