package store

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/safar/labecommerce/internal/database"
	"github.com/safar/labecommerce/internal/models"
)

// MemoryStore keeps every collection in ordered slices. Data is lost on
// restart. Safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	state *memoryState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: &memoryState{}}
}

func (m *MemoryStore) Close() error {
	return nil
}

// Atomic holds the write lock for the whole of fn and restores the previous
// collections if fn fails.
func (m *MemoryStore) Atomic(ctx context.Context, fn func(q Querier) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.state.clone()
	if err := fn(m.state); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

func (m *MemoryStore) read(fn func(s *memoryState)) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn(m.state)
}

func (m *MemoryStore) write(fn func(s *memoryState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.state)
}

func (m *MemoryStore) ListUsers(ctx context.Context) (users []models.User, err error) {
	m.read(func(s *memoryState) { users, err = s.ListUsers(ctx) })
	return
}

func (m *MemoryStore) GetUser(ctx context.Context, id string) (user *models.User, err error) {
	m.read(func(s *memoryState) { user, err = s.GetUser(ctx, id) })
	return
}

func (m *MemoryStore) FindUserByEmail(ctx context.Context, email string) (user *models.User, err error) {
	m.read(func(s *memoryState) { user, err = s.FindUserByEmail(ctx, email) })
	return
}

func (m *MemoryStore) CreateUser(ctx context.Context, user *models.User) (err error) {
	m.write(func(s *memoryState) { err = s.CreateUser(ctx, user) })
	return
}

func (m *MemoryStore) UpdateUser(ctx context.Context, id string, patch models.UserPatch) (user *models.User, err error) {
	m.write(func(s *memoryState) { user, err = s.UpdateUser(ctx, id, patch) })
	return
}

func (m *MemoryStore) ListProducts(ctx context.Context) (products []models.Product, err error) {
	m.read(func(s *memoryState) { products, err = s.ListProducts(ctx) })
	return
}

func (m *MemoryStore) GetProduct(ctx context.Context, id string) (product *models.Product, err error) {
	m.read(func(s *memoryState) { product, err = s.GetProduct(ctx, id) })
	return
}

func (m *MemoryStore) FindProductByName(ctx context.Context, name string) (product *models.Product, err error) {
	m.read(func(s *memoryState) { product, err = s.FindProductByName(ctx, name) })
	return
}

func (m *MemoryStore) SearchProducts(ctx context.Context, q string) (products []models.Product, err error) {
	m.read(func(s *memoryState) { products, err = s.SearchProducts(ctx, q) })
	return
}

func (m *MemoryStore) CreateProduct(ctx context.Context, product *models.Product) (err error) {
	m.write(func(s *memoryState) { err = s.CreateProduct(ctx, product) })
	return
}

func (m *MemoryStore) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (product *models.Product, err error) {
	m.write(func(s *memoryState) { product, err = s.UpdateProduct(ctx, id, patch) })
	return
}

func (m *MemoryStore) DeleteProduct(ctx context.Context, id string) (existed bool, err error) {
	m.write(func(s *memoryState) { existed, err = s.DeleteProduct(ctx, id) })
	return
}

func (m *MemoryStore) ListPurchases(ctx context.Context) (purchases []models.Purchase, err error) {
	m.read(func(s *memoryState) { purchases, err = s.ListPurchases(ctx) })
	return
}

func (m *MemoryStore) ListPurchasesByUser(ctx context.Context, userID string) (purchases []models.Purchase, err error) {
	m.read(func(s *memoryState) { purchases, err = s.ListPurchasesByUser(ctx, userID) })
	return
}

func (m *MemoryStore) CreatePurchase(ctx context.Context, purchase *models.Purchase) (err error) {
	m.write(func(s *memoryState) { err = s.CreatePurchase(ctx, purchase) })
	return
}

// memoryState is the unlocked Querier behind MemoryStore. Lookups are
// linear scans; the collections are small.
type memoryState struct {
	users     []models.User
	products  []models.Product
	purchases []models.Purchase
}

func (s *memoryState) clone() *memoryState {
	return &memoryState{
		users:     slices.Clone(s.users),
		products:  slices.Clone(s.products),
		purchases: slices.Clone(s.purchases),
	}
}

func (s *memoryState) userIndex(id string) int {
	return slices.IndexFunc(s.users, func(u models.User) bool { return u.ID == id })
}

func (s *memoryState) productIndex(id string) int {
	return slices.IndexFunc(s.products, func(p models.Product) bool { return p.ID == id })
}

func (s *memoryState) ListUsers(context.Context) ([]models.User, error) {
	return slices.Clone(s.users), nil
}

func (s *memoryState) GetUser(_ context.Context, id string) (*models.User, error) {
	i := s.userIndex(id)
	if i < 0 {
		return nil, database.ErrUserNotFound
	}
	user := s.users[i]
	return &user, nil
}

func (s *memoryState) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	i := slices.IndexFunc(s.users, func(u models.User) bool { return u.Email == email })
	if i < 0 {
		return nil, database.ErrUserNotFound
	}
	user := s.users[i]
	return &user, nil
}

func (s *memoryState) CreateUser(_ context.Context, user *models.User) error {
	if slices.ContainsFunc(s.users, func(u models.User) bool { return u.ID == user.ID || u.Email == user.Email }) {
		return database.ErrDuplicate
	}
	s.users = append(s.users, *user)
	return nil
}

func (s *memoryState) UpdateUser(_ context.Context, id string, patch models.UserPatch) (*models.User, error) {
	i := s.userIndex(id)
	if i < 0 {
		return nil, database.ErrUserNotFound
	}
	if patch.Email != nil && slices.ContainsFunc(s.users, func(u models.User) bool { return u.ID != id && u.Email == *patch.Email }) {
		return nil, database.ErrDuplicate
	}
	patch.Apply(&s.users[i])
	user := s.users[i]
	return &user, nil
}

func (s *memoryState) ListProducts(context.Context) ([]models.Product, error) {
	return slices.Clone(s.products), nil
}

func (s *memoryState) GetProduct(_ context.Context, id string) (*models.Product, error) {
	i := s.productIndex(id)
	if i < 0 {
		return nil, database.ErrProductNotFound
	}
	product := s.products[i]
	return &product, nil
}

func (s *memoryState) FindProductByName(_ context.Context, name string) (*models.Product, error) {
	i := slices.IndexFunc(s.products, func(p models.Product) bool { return p.Name == name })
	if i < 0 {
		return nil, database.ErrProductNotFound
	}
	product := s.products[i]
	return &product, nil
}

// nameContains reports whether term occurs in name, ignoring case.
func nameContains(name, term string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(term))
}

func (s *memoryState) SearchProducts(_ context.Context, q string) ([]models.Product, error) {
	var found []models.Product
	for _, p := range s.products {
		if nameContains(p.Name, q) {
			found = append(found, p)
		}
	}
	return found, nil
}

func (s *memoryState) CreateProduct(_ context.Context, product *models.Product) error {
	if s.productIndex(product.ID) >= 0 {
		return database.ErrDuplicate
	}
	s.products = append(s.products, *product)
	return nil
}

func (s *memoryState) UpdateProduct(_ context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	i := s.productIndex(id)
	if i < 0 {
		return nil, database.ErrProductNotFound
	}
	patch.Apply(&s.products[i])
	product := s.products[i]
	return &product, nil
}

func (s *memoryState) DeleteProduct(_ context.Context, id string) (bool, error) {
	i := s.productIndex(id)
	if i < 0 {
		return false, nil
	}
	s.products = slices.Delete(s.products, i, i+1)
	return true, nil
}

func (s *memoryState) ListPurchases(context.Context) ([]models.Purchase, error) {
	return slices.Clone(s.purchases), nil
}

func (s *memoryState) ListPurchasesByUser(_ context.Context, userID string) ([]models.Purchase, error) {
	var found []models.Purchase
	for _, p := range s.purchases {
		if p.UserID == userID {
			found = append(found, p)
		}
	}
	return found, nil
}

func (s *memoryState) CreatePurchase(_ context.Context, purchase *models.Purchase) error {
	s.purchases = append(s.purchases, *purchase)
	return nil
}
