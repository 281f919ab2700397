package database

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/ovoline/stockroom/pkg/auth"
)

// WithConnection creates middleware that attaches an unscoped pool connection
// to the request context. Use it for account, auth and database-management
// routes that do not operate inside a current database.
// It runs AFTER auth middleware.
func WithConnection(db *DB, logger *zap.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			scope, err := db.WithoutCurrentDatabase(r.Context())
			if err != nil {
				logger.Error("Failed to acquire connection", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "database_error", "Database connection error")
				return
			}
			defer scope.Close()

			ctx := SetTenantScope(r.Context(), scope)
			next(w, r.WithContext(ctx))
		}
	}
}

// WithCurrentDatabaseContext creates middleware that resolves the requester's
// current database and attaches a connection scoped to it. It runs AFTER auth
// middleware. Users with no current database still get a connection; the
// scope's DatabaseID stays uuid.Nil and services decide how to respond.
// The connection is cleaned up after the handler returns.
func WithCurrentDatabaseContext(db *DB, logger *zap.Logger) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			userID, ok := auth.GetUserID(r.Context())
			if !ok {
				logger.Error("Missing user identity in context")
				writeError(w, http.StatusInternalServerError, "internal_error", "Missing user identity")
				return
			}

			currentID, err := lookupCurrentDatabase(r, db, userID)
			if err != nil {
				logger.Error("Failed to resolve current database",
					zap.String("user_id", userID.String()),
					zap.Error(err))
				writeError(w, http.StatusInternalServerError, "database_error", "Database connection error")
				return
			}

			var scope *TenantScope
			if currentID != uuid.Nil {
				scope, err = db.WithCurrentDatabase(r.Context(), currentID)
			} else {
				scope, err = db.WithoutCurrentDatabase(r.Context())
			}
			if err != nil {
				logger.Error("Failed to acquire scoped connection",
					zap.String("user_id", userID.String()),
					zap.Error(err))
				writeError(w, http.StatusInternalServerError, "database_error", "Database connection error")
				return
			}
			defer scope.Close()

			ctx := SetTenantScope(r.Context(), scope)
			next(w, r.WithContext(ctx))
		}
	}
}

// lookupCurrentDatabase reads the user's current database reference.
// A missing user row resolves to no current database; the auth middleware
// has already vouched for the identity.
func lookupCurrentDatabase(r *http.Request, db *DB, userID uuid.UUID) (uuid.UUID, error) {
	var current *uuid.UUID
	err := db.Pool.QueryRow(r.Context(),
		`SELECT current_database_id FROM users WHERE id = $1`, userID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}
	if current == nil {
		return uuid.Nil, nil
	}
	return *current, nil
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, errorCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}
