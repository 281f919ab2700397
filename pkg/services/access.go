// Package services contains the business logic for stockroom: database
// (tenant) management, the access-control evaluator, product lifecycle,
// accounts and the contact form.
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/ovoline/stockroom/pkg/apperrors"
	"github.com/ovoline/stockroom/pkg/models"
	"github.com/ovoline/stockroom/pkg/repositories"
)

// AccessService evaluates role-based permissions against a user's currently
// selected database. Mutation permission is always checked against the
// current database, never against the database owning a particular product;
// callers must first confirm the target product belongs to the current
// database before consulting CanMutate.
type AccessService interface {
	// CurrentDatabase resolves the user's current database.
	// Returns ErrNoCurrentDatabase when none is selected.
	CurrentDatabase(ctx context.Context, userID uuid.UUID) (*models.Database, error)

	// CanMutate reports whether the user may create or update products in
	// the given database, i.e. holds the owner or editor role on it.
	CanMutate(ctx context.Context, userID, databaseID uuid.UUID) (bool, error)
}

// accessService implements AccessService.
type accessService struct {
	userRepo repositories.UserRepository
	dbRepo   repositories.DatabaseRepository
}

// NewAccessService creates a new access-control evaluator.
func NewAccessService(userRepo repositories.UserRepository, dbRepo repositories.DatabaseRepository) AccessService {
	return &accessService{
		userRepo: userRepo,
		dbRepo:   dbRepo,
	}
}

// CurrentDatabase resolves the user's current database.
func (s *accessService) CurrentDatabase(ctx context.Context, userID uuid.UUID) (*models.Database, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve user: %w", err)
	}

	if user.CurrentDatabaseID == nil {
		return nil, apperrors.ErrNoCurrentDatabase
	}

	return s.dbRepo.GetByID(ctx, *user.CurrentDatabaseID)
}

// CanMutate reports whether the user holds a mutating role on the database.
func (s *accessService) CanMutate(ctx context.Context, userID, databaseID uuid.UUID) (bool, error) {
	role, err := s.dbRepo.GetRole(ctx, databaseID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to resolve role: %w", err)
	}
	return models.CanMutate(role), nil
}

// Ensure accessService implements AccessService at compile time.
var _ AccessService = (*accessService)(nil)
