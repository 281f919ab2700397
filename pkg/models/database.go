package models

import (
	"time"

	"github.com/google/uuid"
)

// Database is a tenant: it scopes a set of products and membership roles.
type Database struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Membership is a user's role on a single database. A user holds at most one
// role per database.
type Membership struct {
	DatabaseID uuid.UUID `json:"database_id"`
	UserID     uuid.UUID `json:"user_id"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// DatabaseMembership pairs a database with the requesting user's role on it.
type DatabaseMembership struct {
	Database Database `json:"database"`
	Role     string   `json:"role"`
}

// Role constants for membership roles within a database.
const (
	RoleOwner  = "owner"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// ValidRoles contains all valid role values.
var ValidRoles = []string{RoleOwner, RoleEditor, RoleViewer}

// IsValidRole checks if the given role is valid.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// CanMutate reports whether a role permits creating or updating products.
// Viewers (and non-members) are read-only.
func CanMutate(role string) bool {
	return role == RoleOwner || role == RoleEditor
}
