// Package mongo implements the storage interfaces on MongoDB, the
// service's production document store.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/hadfield/catalog/pkg/storage"
)

const (
	usersCollection    = "users"
	productsCollection = "products"
)

// Storage is a MongoDB implementation of storage.Storage.
type Storage struct {
	client   *mongo.Client
	users    *mongo.Collection
	products *mongo.Collection
	timeout  time.Duration

	now func() time.Time
}

// NewStorage connects to MongoDB and ensures the unique email index
// exists. The index makes the store the arbiter of racing
// registrations; no application-level locking is needed.
func NewStorage(ctx context.Context, cfg storage.Config) (*Storage, error) {
	if cfg.MongoURL == "" {
		return nil, fmt.Errorf("mongo URL is required")
	}

	timeout := cfg.MongoTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURL))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	db := client.Database(cfg.MongoDatabase)
	s := &Storage{
		client:   client,
		users:    db.Collection(usersCollection),
		products: db.Collection(productsCollection),
		timeout:  timeout,
		now:      time.Now,
	}

	if err := s.ensureIndexes(connectCtx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Storage) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create email index: %w", err)
	}
	return nil
}

// Close disconnects the underlying client.
func (s *Storage) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// CreateUser inserts a user. A duplicate-key failure on the email
// index maps to storage.ErrDuplicateEmail.
func (s *Storage) CreateUser(ctx context.Context, user *storage.User) error {
	user.ID = primitive.NewObjectID().Hex()
	user.CreatedAt = s.now()

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return storage.ErrDuplicateEmail
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUserByEmail returns the user registered under email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*storage.User, error) {
	var user storage.User
	err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return &user, nil
}

// GetUser returns the user with the given id.
func (s *Storage) GetUser(ctx context.Context, id string) (*storage.User, error) {
	var user storage.User
	err := s.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// ListProducts returns every product in store order.
func (s *Storage) ListProducts(ctx context.Context) ([]*storage.Product, error) {
	cursor, err := s.products.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]*storage.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// GetProduct returns the product with the given id.
func (s *Storage) GetProduct(ctx context.Context, id string) (*storage.Product, error) {
	var product storage.Product
	err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	return &product, nil
}

// CreateProduct inserts a product, assigning id and timestamps.
func (s *Storage) CreateProduct(ctx context.Context, product *storage.Product) (*storage.Product, error) {
	now := s.now()
	product.ID = primitive.NewObjectID().Hex()
	product.CreatedAt = now
	product.UpdatedAt = now

	if _, err := s.products.InsertOne(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to insert product: %w", err)
	}
	return product, nil
}

// UpdateProduct applies a $set of the non-nil update fields and
// returns the post-update document.
func (s *Storage) UpdateProduct(ctx context.Context, id string, update *storage.ProductUpdate) (*storage.Product, error) {
	set := bson.M{"updatedAt": s.now()}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Price != nil {
		set["price"] = *update.Price
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Image != nil {
		set["image"] = *update.Image
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var product storage.Product
	err := s.products.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&product)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return &product, nil
}

// DeleteProduct removes the record permanently.
func (s *Storage) DeleteProduct(ctx context.Context, id string) error {
	result, err := s.products.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if result.DeletedCount == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// HealthCheck pings the primary.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo unreachable: %w", err)
	}
	return nil
}
