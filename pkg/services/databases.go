package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ovoline/stockroom/pkg/apperrors"
	"github.com/ovoline/stockroom/pkg/models"
	"github.com/ovoline/stockroom/pkg/repositories"
)

// DatabaseService defines the interface for tenant operations.
type DatabaseService interface {
	// Create allocates a new database, makes the creator its owner and
	// selects it as the creator's current database.
	Create(ctx context.Context, userID uuid.UUID, name, dbType string) (*models.Database, error)

	// SwitchCurrent points the user's working context at another database.
	// ref is a database ID or, for older clients, a database name.
	// Membership is deliberately not required: selecting a database does not
	// by itself grant mutation rights, which stay behind the access
	// evaluator.
	SwitchCurrent(ctx context.Context, userID uuid.UUID, ref string) (*models.Database, error)

	// Current returns the user's current database.
	// Returns ErrNoCurrentDatabase when none is selected.
	Current(ctx context.Context, userID uuid.UUID) (*models.Database, error)

	// ListForUser returns the databases the user belongs to, with roles.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.DatabaseMembership, error)

	// AddMember grants a role on a database. Only an owner of the database
	// may grant roles. Returns ErrAlreadyMember if the user already holds
	// any role on it.
	AddMember(ctx context.Context, actorID, databaseID, userID uuid.UUID, role string) error
}

// databaseService implements DatabaseService.
type databaseService struct {
	userRepo repositories.UserRepository
	dbRepo   repositories.DatabaseRepository
	access   AccessService
	logger   *zap.Logger
}

// NewDatabaseService creates a new database service with dependencies.
func NewDatabaseService(userRepo repositories.UserRepository, dbRepo repositories.DatabaseRepository, access AccessService, logger *zap.Logger) DatabaseService {
	return &databaseService{
		userRepo: userRepo,
		dbRepo:   dbRepo,
		access:   access,
		logger:   logger,
	}
}

// Create allocates a new database owned by and current for the creator.
func (s *databaseService) Create(ctx context.Context, userID uuid.UUID, name, dbType string) (*models.Database, error) {
	db := &models.Database{
		Name: name,
		Type: dbType,
	}
	if err := s.dbRepo.Create(ctx, db); err != nil {
		return nil, err
	}

	if err := s.dbRepo.AddMember(ctx, db.ID, userID, models.RoleOwner); err != nil {
		return nil, fmt.Errorf("failed to add owner: %w", err)
	}

	if err := s.userRepo.SetCurrentDatabase(ctx, userID, db.ID); err != nil {
		return nil, fmt.Errorf("failed to select new database: %w", err)
	}

	s.logger.Info("Database created",
		zap.String("database_id", db.ID.String()),
		zap.String("owner_id", userID.String()))

	return db, nil
}

// SwitchCurrent points the user's working context at another database.
func (s *databaseService) SwitchCurrent(ctx context.Context, userID uuid.UUID, ref string) (*models.Database, error) {
	db, err := s.resolveRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.SetCurrentDatabase(ctx, userID, db.ID); err != nil {
		return nil, err
	}

	s.logger.Debug("Current database switched",
		zap.String("user_id", userID.String()),
		zap.String("database_id", db.ID.String()))

	return db, nil
}

// resolveRef looks a database up by ID, falling back to name lookup for
// clients that still switch by database name.
func (s *databaseService) resolveRef(ctx context.Context, ref string) (*models.Database, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return s.dbRepo.GetByID(ctx, id)
	}
	return s.dbRepo.GetByName(ctx, ref)
}

// Current returns the user's current database.
func (s *databaseService) Current(ctx context.Context, userID uuid.UUID) (*models.Database, error) {
	return s.access.CurrentDatabase(ctx, userID)
}

// ListForUser returns the databases the user belongs to.
func (s *databaseService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.DatabaseMembership, error) {
	return s.dbRepo.ListForUser(ctx, userID)
}

// AddMember grants a role on a database on behalf of one of its owners.
func (s *databaseService) AddMember(ctx context.Context, actorID, databaseID, userID uuid.UUID, role string) error {
	if !models.IsValidRole(role) {
		return apperrors.ErrInvalidRole
	}

	actorRole, err := s.dbRepo.GetRole(ctx, databaseID, actorID)
	if err != nil {
		return err
	}
	if actorRole != models.RoleOwner {
		return apperrors.ErrForbidden
	}

	if err := s.dbRepo.AddMember(ctx, databaseID, userID, role); err != nil {
		return err
	}

	s.logger.Info("Member added",
		zap.String("database_id", databaseID.String()),
		zap.String("user_id", userID.String()),
		zap.String("role", role))
	return nil
}

// Ensure databaseService implements DatabaseService at compile time.
var _ DatabaseService = (*databaseService)(nil)
