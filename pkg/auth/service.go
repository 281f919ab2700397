package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Common authentication errors.
var (
	ErrMissingAuthorization = errors.New("missing authorization")
	ErrInvalidAuthFormat    = errors.New("invalid authorization header format")
	ErrInvalidSubject       = errors.New("invalid subject in token")
)

// AuthService resolves the user identity behind a request. This abstraction
// separates HTTP handling from authentication logic, making both easier to
// test.
type AuthService interface {
	// ValidateRequest resolves the requester's user ID. It checks:
	//   1. The stockroom session cookie (browser clients)
	//   2. The Authorization header with "Bearer" scheme (API clients)
	ValidateRequest(r *http.Request) (uuid.UUID, error)
}

// authService implements AuthService.
type authService struct {
	sessions  *SessionStore
	validator TokenValidator
	logger    *zap.Logger
}

// NewAuthService creates an AuthService backed by the session store and the
// bearer-token validator.
func NewAuthService(sessions *SessionStore, validator TokenValidator, logger *zap.Logger) AuthService {
	return &authService{
		sessions:  sessions,
		validator: validator,
		logger:    logger,
	}
}

// ValidateRequest resolves the requester's user ID from the session cookie
// or a bearer token.
func (s *authService) ValidateRequest(r *http.Request) (uuid.UUID, error) {
	// Try the session cookie first (browser clients).
	if userID, ok := s.sessions.UserID(r); ok {
		return userID, nil
	}

	// Fall back to the Authorization header (API clients).
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		s.logger.Debug("No credentials found in request",
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method))
		return uuid.Nil, ErrMissingAuthorization
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		s.logger.Debug("Invalid Authorization header format",
			zap.String("path", r.URL.Path))
		return uuid.Nil, ErrInvalidAuthFormat
	}

	claims, err := s.validator.ValidateToken(parts[1])
	if err != nil {
		s.logger.Debug("Bearer token validation failed",
			zap.Error(err),
			zap.String("path", r.URL.Path))
		return uuid.Nil, err
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidSubject
	}

	return userID, nil
}

// Ensure authService implements AuthService at compile time.
var _ AuthService = (*authService)(nil)
