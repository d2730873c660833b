// Package memory provides an in-process storage backend used by unit
// tests and local development. It honors the same contract as the
// Mongo backend, including the unique-email constraint and
// store-maintained timestamps.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hadfield/catalog/pkg/storage"
)

// Storage is an in-memory implementation of storage.Storage. Safe for
// concurrent use.
type Storage struct {
	mu           sync.RWMutex
	users        map[string]*storage.User
	usersByEmail map[string]string // email -> id
	products     map[string]*storage.Product
	productOrder []string // insertion order for ListProducts

	now func() time.Time
}

// NewStorage creates an empty in-memory backend.
func NewStorage() *Storage {
	return &Storage{
		users:        make(map[string]*storage.User),
		usersByEmail: make(map[string]string),
		products:     make(map[string]*storage.Product),
		now:          time.Now,
	}
}

// CreateUser inserts a user, enforcing the unique email constraint.
func (s *Storage) CreateUser(ctx context.Context, user *storage.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[user.Email]; exists {
		return storage.ErrDuplicateEmail
	}

	user.ID = uuid.NewString()
	user.CreatedAt = s.now()

	stored := *user
	s.users[user.ID] = &stored
	s.usersByEmail[user.Email] = user.ID
	return nil
}

// GetUserByEmail returns the user registered under email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[email]
	if !ok {
		return nil, storage.ErrNotFound
	}
	user := *s.users[id]
	return &user, nil
}

// GetUser returns the user with the given id.
func (s *Storage) GetUser(ctx context.Context, id string) (*storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

// ListProducts returns every product in insertion order.
func (s *Storage) ListProducts(ctx context.Context) ([]*storage.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]*storage.Product, 0, len(s.productOrder))
	for _, id := range s.productOrder {
		copied := *s.products[id]
		products = append(products, &copied)
	}
	return products, nil
}

// GetProduct returns the product with the given id.
func (s *Storage) GetProduct(ctx context.Context, id string) (*storage.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copied := *product
	return &copied, nil
}

// CreateProduct inserts a product, assigning id and timestamps.
func (s *Storage) CreateProduct(ctx context.Context, product *storage.Product) (*storage.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	product.ID = uuid.NewString()
	product.CreatedAt = now
	product.UpdatedAt = now

	stored := *product
	s.products[product.ID] = &stored
	s.productOrder = append(s.productOrder, product.ID)

	copied := stored
	return &copied, nil
}

// UpdateProduct merges non-nil update fields into the stored record.
func (s *Storage) UpdateProduct(ctx context.Context, id string, update *storage.ProductUpdate) (*storage.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	if update.Name != nil {
		product.Name = *update.Name
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.Description != nil {
		product.Description = *update.Description
	}
	if update.Image != nil {
		product.Image = *update.Image
	}
	if update.Category != nil {
		product.Category = *update.Category
	}
	product.UpdatedAt = s.now()

	copied := *product
	return &copied, nil
}

// DeleteProduct removes the record permanently.
func (s *Storage) DeleteProduct(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return storage.ErrNotFound
	}
	delete(s.products, id)
	for i, pid := range s.productOrder {
		if pid == id {
			s.productOrder = append(s.productOrder[:i], s.productOrder[i+1:]...)
			break
		}
	}
	return nil
}

// HealthCheck always succeeds for the in-memory backend.
func (s *Storage) HealthCheck(ctx context.Context) error {
	return nil
}
