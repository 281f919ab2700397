// Package models contains domain types for stockroom.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is an account holding credentials, profile fields and the reference to
// the database the user is currently working in. CurrentDatabaseID is nil
// until the user creates or selects a database.
type User struct {
	ID                uuid.UUID  `json:"id"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	PasswordHash      string     `json:"-"`
	CurrentDatabaseID *uuid.UUID `json:"current_database_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// FullName returns the user's display name for email bodies.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "" && u.LastName == "":
		return u.Username
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
