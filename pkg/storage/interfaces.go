package storage

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors returned by storage backends. Handlers map these to
// client-facing status codes; any other error is an internal store
// failure, logged and surfaced as a generic 500.
var (
	// ErrNotFound indicates no record exists at the given id.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateEmail indicates a user insert violated the unique
	// email constraint. The store serializes racing registrations;
	// the losing writer receives this error with no partial write.
	ErrDuplicateEmail = errors.New("email already registered")
)

// User is a stored credential record. PasswordHash holds the salted
// bcrypt hash, never the raw secret, and is stripped from JSON output.
type User struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	Email        string    `json:"email" bson:"email"`
	PasswordHash string    `json:"-" bson:"password"`
	IsAdmin      bool      `json:"isAdmin" bson:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// Product is a stored catalog record. CreatedAt and UpdatedAt are
// maintained by the store, never by callers.
type Product struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	Name        string    `json:"name" bson:"name"`
	Price       float64   `json:"price" bson:"price"`
	Description string    `json:"description" bson:"description"`
	Image       string    `json:"image" bson:"image"`
	Category    string    `json:"category" bson:"category"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ProductUpdate is a partial-update payload. Nil fields retain the
// stored value; non-nil fields replace it.
type ProductUpdate struct {
	Name        *string  `json:"name" bson:"name,omitempty"`
	Price       *float64 `json:"price" bson:"price,omitempty"`
	Description *string  `json:"description" bson:"description,omitempty"`
	Image       *string  `json:"image" bson:"image,omitempty"`
	Category    *string  `json:"category" bson:"category,omitempty"`
}

// UserStore persists credential records.
type UserStore interface {
	// CreateUser inserts a user, assigning ID and CreatedAt. Returns
	// ErrDuplicateEmail if the email is already registered.
	CreateUser(ctx context.Context, user *User) error

	// GetUserByEmail returns the user registered under email, or
	// ErrNotFound.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// GetUser returns the user with the given id, or ErrNotFound.
	GetUser(ctx context.Context, id string) (*User, error)
}

// ProductStore persists catalog records.
type ProductStore interface {
	// ListProducts returns every product in store order.
	ListProducts(ctx context.Context) ([]*Product, error)

	// GetProduct returns the product with the given id, or ErrNotFound.
	GetProduct(ctx context.Context, id string) (*Product, error)

	// CreateProduct inserts a product, assigning ID and timestamps,
	// and returns the stored record.
	CreateProduct(ctx context.Context, product *Product) (*Product, error)

	// UpdateProduct merges the non-nil fields of update into the
	// stored record and returns the post-update record, or
	// ErrNotFound.
	UpdateProduct(ctx context.Context, id string, update *ProductUpdate) (*Product, error)

	// DeleteProduct removes the record permanently, or ErrNotFound.
	DeleteProduct(ctx context.Context, id string) error
}

// Storage is the full persistence surface consumed by the API layer.
type Storage interface {
	UserStore
	ProductStore

	// HealthCheck reports whether the backend is reachable.
	HealthCheck(ctx context.Context) error
}

// Config for storage backends
type Config struct {
	Type string // "mongo", "memory"

	// Mongo config
	MongoURL      string
	MongoDatabase string
	MongoTimeout  time.Duration

	// Redis cache config
	RedisURL      string
	RedisPassword string
	RedisDB       int
	RedisPoolSize int

	CacheEnabled bool
	CacheTTL     time.Duration
}

// DefaultConfig returns sensible default configuration
func DefaultConfig() Config {
	return Config{
		Type:          "mongo",
		MongoDatabase: "catalog",
		MongoTimeout:  10 * time.Second,
		RedisDB:       0,
		CacheEnabled:  false,
		CacheTTL:      5 * time.Minute,
	}
}
