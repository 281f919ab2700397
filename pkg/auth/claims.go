// Package auth resolves the identity behind each request. Browser clients
// carry a signed session cookie issued at login; API clients carry a bearer
// JWT verified against configured JWKS endpoints.
package auth

import (
	"context"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// UserIDKey is the context key for the authenticated user's ID.
	UserIDKey contextKey = "userID"
)

// Claims represents the bearer token claims accepted by stockroom.
// Subject carries the user ID.
type Claims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// GetUserID retrieves the authenticated user's ID from the request context.
// Returns uuid.Nil and false if the request is unauthenticated.
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return id, ok
}

// SetUserID stores the authenticated user's ID in the context.
func SetUserID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, id)
}
