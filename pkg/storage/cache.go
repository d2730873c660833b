package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const productListKey = "products:all"

// CachedProductStore decorates a ProductStore with a Redis
// read-through cache. Reads populate the cache; every mutation
// invalidates both the record key and the list key. Cache failures
// degrade to the underlying store, they never fail a request.
type CachedProductStore struct {
	inner  ProductStore
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient creates a Redis client from config and verifies the
// connection.
func NewRedisClient(cfg Config) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	if cfg.RedisPassword != "" {
		opts.Password = cfg.RedisPassword
	}
	if cfg.RedisDB >= 0 {
		opts.DB = cfg.RedisDB
	}
	if cfg.RedisPoolSize > 0 {
		opts.PoolSize = cfg.RedisPoolSize
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

// NewCachedProductStore wraps inner with a Redis cache. A ttl <= 0
// falls back to five minutes.
func NewCachedProductStore(inner ProductStore, client *redis.Client, ttl time.Duration) *CachedProductStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedProductStore{inner: inner, client: client, ttl: ttl}
}

func productKey(id string) string {
	return fmt.Sprintf("product:%s", id)
}

// ListProducts serves the full listing from cache when present.
func (c *CachedProductStore) ListProducts(ctx context.Context) ([]*Product, error) {
	if data, err := c.client.Get(ctx, productListKey).Result(); err == nil {
		var products []*Product
		if err := json.Unmarshal([]byte(data), &products); err == nil {
			return products, nil
		}
		// Corrupt entry, drop it and fall through
		c.client.Del(ctx, productListKey)
	}

	products, err := c.inner.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(products); err == nil {
		c.client.Set(ctx, productListKey, data, c.ttl)
	}
	return products, nil
}

// GetProduct serves a single record from cache when present.
func (c *CachedProductStore) GetProduct(ctx context.Context, id string) (*Product, error) {
	key := productKey(id)
	if data, err := c.client.Get(ctx, key).Result(); err == nil {
		var product Product
		if err := json.Unmarshal([]byte(data), &product); err == nil {
			return &product, nil
		}
		c.client.Del(ctx, key)
	}

	product, err := c.inner.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(product); err == nil {
		c.client.Set(ctx, key, data, c.ttl)
	}
	return product, nil
}

// CreateProduct writes through and invalidates the listing.
func (c *CachedProductStore) CreateProduct(ctx context.Context, product *Product) (*Product, error) {
	created, err := c.inner.CreateProduct(ctx, product)
	if err != nil {
		return nil, err
	}
	c.client.Del(ctx, productListKey)
	return created, nil
}

// UpdateProduct writes through and invalidates the record and listing.
func (c *CachedProductStore) UpdateProduct(ctx context.Context, id string, update *ProductUpdate) (*Product, error) {
	updated, err := c.inner.UpdateProduct(ctx, id, update)
	if err != nil {
		return nil, err
	}
	c.client.Del(ctx, productKey(id), productListKey)
	return updated, nil
}

// DeleteProduct writes through and invalidates the record and listing.
func (c *CachedProductStore) DeleteProduct(ctx context.Context, id string) error {
	if err := c.inner.DeleteProduct(ctx, id); err != nil {
		return err
	}
	c.client.Del(ctx, productKey(id), productListKey)
	return nil
}
