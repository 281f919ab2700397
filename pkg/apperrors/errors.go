package apperrors

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrNotInScope         = errors.New("not in current database")
	ErrForbidden          = errors.New("forbidden")
	ErrNoCurrentDatabase  = errors.New("no current database selected")
	ErrAlreadyMember      = errors.New("user already has a role on this database")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username already taken")
)
