package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hadfield/catalog/pkg/storage"
)

func TestStorage_CreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns id and created timestamp", func(t *testing.T) {
		s := NewStorage()
		user := &storage.User{Name: "A", Email: "a@x.com", PasswordHash: "hash"}
		require.NoError(t, s.CreateUser(ctx, user))
		assert.NotEmpty(t, user.ID)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		s := NewStorage()
		require.NoError(t, s.CreateUser(ctx, &storage.User{Name: "A", Email: "a@x.com"}))

		err := s.CreateUser(ctx, &storage.User{Name: "B", Email: "a@x.com"})
		assert.ErrorIs(t, err, storage.ErrDuplicateEmail)

		// exactly one record persists
		user, err := s.GetUserByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, "A", user.Name)
	})

	t.Run("concurrent registrations race on one email", func(t *testing.T) {
		s := NewStorage()
		const n = 16
		errs := make([]error, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = s.CreateUser(ctx, &storage.User{Name: "A", Email: "race@x.com"})
			}(i)
		}
		wg.Wait()

		winners := 0
		for _, err := range errs {
			if err == nil {
				winners++
			} else {
				assert.ErrorIs(t, err, storage.ErrDuplicateEmail)
			}
		}
		assert.Equal(t, 1, winners)
	})
}

func TestStorage_GetUser(t *testing.T) {
	ctx := context.Background()
	s := NewStorage()
	user := &storage.User{Name: "A", Email: "a@x.com", IsAdmin: true}
	require.NoError(t, s.CreateUser(ctx, user))

	t.Run("by id", func(t *testing.T) {
		got, err := s.GetUser(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, user.Email, got.Email)
		assert.True(t, got.IsAdmin)
	})

	t.Run("by email", func(t *testing.T) {
		got, err := s.GetUserByEmail(ctx, "a@x.com")
		require.NoError(t, err)
		assert.Equal(t, user.ID, got.ID)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := s.GetUser(ctx, "no-such-id")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("missing email", func(t *testing.T) {
		_, err := s.GetUserByEmail(ctx, "b@x.com")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestStorage_ProductCRUD(t *testing.T) {
	ctx := context.Background()

	newProduct := func() *storage.Product {
		return &storage.Product{
			Name:        "Widget",
			Price:       9.99,
			Description: "d",
			Image:       "i",
			Category:    "c",
		}
	}

	t.Run("create then get round trip", func(t *testing.T) {
		s := NewStorage()
		created, err := s.CreateProduct(ctx, newProduct())
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.False(t, created.CreatedAt.IsZero())
		assert.False(t, created.UpdatedAt.IsZero())

		got, err := s.GetProduct(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created, got)
	})

	t.Run("list preserves insertion order", func(t *testing.T) {
		s := NewStorage()
		first, err := s.CreateProduct(ctx, newProduct())
		require.NoError(t, err)
		second, err := s.CreateProduct(ctx, &storage.Product{Name: "Gadget"})
		require.NoError(t, err)

		products, err := s.ListProducts(ctx)
		require.NoError(t, err)
		require.Len(t, products, 2)
		assert.Equal(t, first.ID, products[0].ID)
		assert.Equal(t, second.ID, products[1].ID)
	})

	t.Run("partial update leaves other fields alone", func(t *testing.T) {
		s := NewStorage()
		created, err := s.CreateProduct(ctx, newProduct())
		require.NoError(t, err)

		price := 19.99
		updated, err := s.UpdateProduct(ctx, created.ID, &storage.ProductUpdate{Price: &price})
		require.NoError(t, err)
		assert.Equal(t, 19.99, updated.Price)
		assert.Equal(t, "Widget", updated.Name)
		assert.Equal(t, "d", updated.Description)
		assert.Equal(t, "i", updated.Image)
		assert.Equal(t, "c", updated.Category)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	})

	t.Run("update missing id", func(t *testing.T) {
		s := NewStorage()
		name := "x"
		_, err := s.UpdateProduct(ctx, "no-such-id", &storage.ProductUpdate{Name: &name})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("delete then get yields not found", func(t *testing.T) {
		s := NewStorage()
		created, err := s.CreateProduct(ctx, newProduct())
		require.NoError(t, err)

		require.NoError(t, s.DeleteProduct(ctx, created.ID))
		_, err = s.GetProduct(ctx, created.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		products, err := s.ListProducts(ctx)
		require.NoError(t, err)
		assert.Empty(t, products)
	})

	t.Run("delete missing id", func(t *testing.T) {
		s := NewStorage()
		assert.ErrorIs(t, s.DeleteProduct(ctx, "no-such-id"), storage.ErrNotFound)
	})
}

func TestStorage_HealthCheck(t *testing.T) {
	assert.NoError(t, NewStorage().HealthCheck(context.Background()))
}
