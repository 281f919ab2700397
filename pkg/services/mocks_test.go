package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ovoline/stockroom/pkg/apperrors"
	"github.com/ovoline/stockroom/pkg/models"
	"github.com/ovoline/stockroom/pkg/repositories"
)

// In-memory fakes shared by the service tests.

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	for _, u := range f.users {
		if u.Username == user.Username {
			return apperrors.ErrUsernameTaken
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeUserRepo) UpdateProfile(ctx context.Context, id uuid.UUID, firstName, lastName, email string) error {
	u, ok := f.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.FirstName = firstName
	u.LastName = lastName
	u.Email = email
	return nil
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	u, ok := f.users[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserRepo) SetCurrentDatabase(ctx context.Context, userID, databaseID uuid.UUID) error {
	u, ok := f.users[userID]
	if !ok {
		return apperrors.ErrNotFound
	}
	id := databaseID
	u.CurrentDatabaseID = &id
	return nil
}

type fakeDatabaseRepo struct {
	order     []uuid.UUID
	databases map[uuid.UUID]*models.Database
	roles     map[uuid.UUID]map[uuid.UUID]string
}

func newFakeDatabaseRepo() *fakeDatabaseRepo {
	return &fakeDatabaseRepo{
		databases: make(map[uuid.UUID]*models.Database),
		roles:     make(map[uuid.UUID]map[uuid.UUID]string),
	}
}

func (f *fakeDatabaseRepo) Create(ctx context.Context, db *models.Database) error {
	if db.ID == uuid.Nil {
		db.ID = uuid.New()
	}
	db.CreatedAt = time.Now()
	db.UpdatedAt = db.CreatedAt
	cp := *db
	f.databases[db.ID] = &cp
	f.order = append(f.order, db.ID)
	return nil
}

func (f *fakeDatabaseRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Database, error) {
	db, ok := f.databases[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *db
	return &cp, nil
}

func (f *fakeDatabaseRepo) GetByName(ctx context.Context, name string) (*models.Database, error) {
	for _, id := range f.order {
		if f.databases[id].Name == name {
			cp := *f.databases[id]
			return &cp, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeDatabaseRepo) AddMember(ctx context.Context, databaseID, userID uuid.UUID, role string) error {
	if !models.IsValidRole(role) {
		return apperrors.ErrInvalidRole
	}
	members, ok := f.roles[databaseID]
	if !ok {
		members = make(map[uuid.UUID]string)
		f.roles[databaseID] = members
	}
	if _, exists := members[userID]; exists {
		return apperrors.ErrAlreadyMember
	}
	members[userID] = role
	return nil
}

func (f *fakeDatabaseRepo) GetRole(ctx context.Context, databaseID, userID uuid.UUID) (string, error) {
	return f.roles[databaseID][userID], nil
}

func (f *fakeDatabaseRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]*models.DatabaseMembership, error) {
	var memberships []*models.DatabaseMembership
	for _, id := range f.order {
		if role, ok := f.roles[id][userID]; ok {
			memberships = append(memberships, &models.DatabaseMembership{
				Database: *f.databases[id],
				Role:     role,
			})
		}
	}
	return memberships, nil
}

type fakeProductRepo struct {
	order    []uuid.UUID
	products map[uuid.UUID]*models.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*models.Product)}
}

func (f *fakeProductRepo) Create(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	cp := *product
	f.products[product.ID] = &cp
	f.order = append(f.order, product.ID)
	return nil
}

func (f *fakeProductRepo) GetByDatabase(ctx context.Context, databaseID, productID uuid.UUID) (*models.Product, error) {
	p, ok := f.products[productID]
	if !ok || p.DatabaseID != databaseID {
		return nil, apperrors.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductRepo) Update(ctx context.Context, product *models.Product) error {
	p, ok := f.products[product.ID]
	if !ok || p.DatabaseID != product.DatabaseID {
		return apperrors.ErrNotFound
	}
	p.Name = product.Name
	p.Quantity = product.Quantity
	p.Price = product.Price
	p.UpdatedAt = time.Now()
	return nil
}

func (f *fakeProductRepo) ListByDatabase(ctx context.Context, databaseID uuid.UUID, limit, offset int) ([]*models.Product, error) {
	var all []*models.Product
	for _, id := range f.order {
		if f.products[id].DatabaseID == databaseID {
			cp := *f.products[id]
			all = append(all, &cp)
		}
	}
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (f *fakeProductRepo) CountByDatabase(ctx context.Context, databaseID uuid.UUID) (int, error) {
	count := 0
	for _, p := range f.products {
		if p.DatabaseID == databaseID {
			count++
		}
	}
	return count, nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, to, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

// Compile-time checks that the fakes satisfy the repository interfaces.
var (
	_ repositories.UserRepository     = (*fakeUserRepo)(nil)
	_ repositories.DatabaseRepository = (*fakeDatabaseRepo)(nil)
	_ repositories.ProductRepository  = (*fakeProductRepo)(nil)
)
