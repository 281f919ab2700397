package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ovoline/stockroom/pkg/apperrors"
	"github.com/ovoline/stockroom/pkg/database"
	"github.com/ovoline/stockroom/pkg/models"
)

// DatabaseRepository defines the interface for tenant data access.
type DatabaseRepository interface {
	Create(ctx context.Context, db *models.Database) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Database, error)
	// GetByName looks up a database by its name. Names are not unique keys;
	// the first match by creation time wins. Kept for boundary compatibility
	// with clients that switch databases by name.
	GetByName(ctx context.Context, name string) (*models.Database, error)
	// AddMember gives the user a role on the database. Returns
	// ErrAlreadyMember if the user already holds any role on it.
	AddMember(ctx context.Context, databaseID, userID uuid.UUID, role string) error
	// GetRole returns the user's role on the database, or "" when the user
	// is not a member.
	GetRole(ctx context.Context, databaseID, userID uuid.UUID) (string, error)
	// ListForUser returns the databases the user is a member of, with roles.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.DatabaseMembership, error)
}

// databaseRepository implements DatabaseRepository using PostgreSQL.
type databaseRepository struct{}

// NewDatabaseRepository creates a new database repository.
func NewDatabaseRepository() DatabaseRepository {
	return &databaseRepository{}
}

// Create inserts a new database with empty product and membership sets.
func (r *databaseRepository) Create(ctx context.Context, db *models.Database) error {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no connection scope in context")
	}

	if db.ID == uuid.Nil {
		db.ID = uuid.New()
	}
	now := time.Now()
	db.CreatedAt = now
	db.UpdatedAt = now

	query := `
		INSERT INTO databases (id, name, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := scope.Conn.Exec(ctx, query, db.ID, db.Name, db.Type, db.CreatedAt, db.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	return nil
}

// GetByID retrieves a database by ID.
func (r *databaseRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Database, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no connection scope in context")
	}

	query := `SELECT id, name, type, created_at, updated_at FROM databases WHERE id = $1`

	return scanDatabase(scope.Conn.QueryRow(ctx, query, id))
}

// GetByName retrieves the oldest database with the given name.
func (r *databaseRepository) GetByName(ctx context.Context, name string) (*models.Database, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no connection scope in context")
	}

	query := `
		SELECT id, name, type, created_at, updated_at
		FROM databases
		WHERE name = $1
		ORDER BY created_at
		LIMIT 1`

	return scanDatabase(scope.Conn.QueryRow(ctx, query, name))
}

// AddMember gives the user a role on the database.
func (r *databaseRepository) AddMember(ctx context.Context, databaseID, userID uuid.UUID, role string) error {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no connection scope in context")
	}

	if !models.IsValidRole(role) {
		return apperrors.ErrInvalidRole
	}

	query := `
		INSERT INTO database_members (database_id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err := scope.Conn.Exec(ctx, query, databaseID, userID, role, time.Now())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return apperrors.ErrAlreadyMember
		}
		return fmt.Errorf("failed to add member: %w", err)
	}

	return nil
}

// GetRole returns the user's role on the database, or "" for non-members.
func (r *databaseRepository) GetRole(ctx context.Context, databaseID, userID uuid.UUID) (string, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return "", fmt.Errorf("no connection scope in context")
	}

	query := `SELECT role FROM database_members WHERE database_id = $1 AND user_id = $2`

	var role string
	err := scope.Conn.QueryRow(ctx, query, databaseID, userID).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get role: %w", err)
	}

	return role, nil
}

// ListForUser returns the databases the user is a member of, oldest first.
func (r *databaseRepository) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.DatabaseMembership, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no connection scope in context")
	}

	query := `
		SELECT d.id, d.name, d.type, d.created_at, d.updated_at, m.role
		FROM databases d
		JOIN database_members m ON m.database_id = d.id
		WHERE m.user_id = $1
		ORDER BY d.created_at`

	rows, err := scope.Conn.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list databases: %w", err)
	}
	defer rows.Close()

	var memberships []*models.DatabaseMembership
	for rows.Next() {
		var m models.DatabaseMembership
		err := rows.Scan(
			&m.Database.ID,
			&m.Database.Name,
			&m.Database.Type,
			&m.Database.CreatedAt,
			&m.Database.UpdatedAt,
			&m.Role,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, &m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating memberships: %w", err)
	}

	return memberships, nil
}

func scanDatabase(row pgx.Row) (*models.Database, error) {
	var db models.Database
	err := row.Scan(&db.ID, &db.Name, &db.Type, &db.CreatedAt, &db.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get database: %w", err)
	}
	return &db, nil
}

// Ensure databaseRepository implements DatabaseRepository at compile time.
var _ DatabaseRepository = (*databaseRepository)(nil)
