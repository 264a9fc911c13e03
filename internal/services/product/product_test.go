package product_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momconnect/backend/internal/models"
	"github.com/momconnect/backend/internal/services/product"
)

type mockRepo struct {
	CreateFunc    func(ctx context.Context, p models.Product) (*models.Product, error)
	ListFunc      func(ctx context.Context) ([]*models.Product, error)
	IncrementFunc func(ctx context.Context, userID string) error
}

func (m *mockRepo) CreateProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	return m.CreateFunc(ctx, p)
}

func (m *mockRepo) ListProducts(ctx context.Context) ([]*models.Product, error) {
	return m.ListFunc(ctx)
}

func (m *mockRepo) IncrementProductsCount(ctx context.Context, userID string) error {
	return m.IncrementFunc(ctx, userID)
}

type mockNotifier struct {
	events   []string
	payloads []any
}

func (m *mockNotifier) BroadcastAll(event string, payload any) {
	m.events = append(m.events, event)
	m.payloads = append(m.payloads, payload)
}

// fakeCache — кеш в памяти для проверки cache-aside логики.
type fakeCache struct {
	values map[string][]*models.Product
	sets   int
	hits   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: make(map[string][]*models.Product)}
}

func (c *fakeCache) Get(key string, result any) (bool, error) {
	cached, ok := c.values[key]
	if !ok {
		return false, nil
	}
	c.hits++
	*result.(*[]*models.Product) = cached
	return true, nil
}

func (c *fakeCache) Set(key string, value any, _ time.Duration) error {
	c.sets++
	c.values[key] = value.([]*models.Product)
	return nil
}

func (c *fakeCache) Invalidate(key string) error {
	delete(c.values, key)
	return nil
}

type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (discardHandler) WithAttrs([]slog.Attr) slog.Handler        { return discardHandler{} }
func (discardHandler) WithGroup(string) slog.Handler             { return discardHandler{} }

func makeLogger() *slog.Logger {
	return slog.New(discardHandler{})
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults category and broadcasts newListing", func(t *testing.T) {
		incremented := false
		repo := &mockRepo{
			CreateFunc: func(ctx context.Context, p models.Product) (*models.Product, error) {
				assert.Equal(t, "General", p.Category)
				created := p
				created.ID = "product-1"
				return &created, nil
			},
			IncrementFunc: func(ctx context.Context, userID string) error {
				incremented = true
				assert.Equal(t, "user-1", userID)
				return nil
			},
		}
		notifier := &mockNotifier{}

		service := product.New(repo, notifier, nil, makeLogger())
		created, err := service.Create(ctx, models.Product{SellerID: "user-1", Name: "Stroller", Price: 2500})
		require.NoError(t, err)

		assert.Equal(t, "product-1", created.ID)
		assert.True(t, incremented)
		require.Equal(t, []string{"newListing"}, notifier.events)
	})

	t.Run("invalidates list cache", func(t *testing.T) {
		cache := newFakeCache()
		cache.values["products:list"] = []*models.Product{{ID: "stale"}}

		repo := &mockRepo{
			CreateFunc: func(ctx context.Context, p models.Product) (*models.Product, error) {
				created := p
				created.ID = "product-1"
				return &created, nil
			},
			IncrementFunc: func(ctx context.Context, userID string) error { return nil },
		}

		service := product.New(repo, &mockNotifier{}, cache, makeLogger())
		_, err := service.Create(ctx, models.Product{SellerID: "user-1", Name: "Stroller", Price: 2500})
		require.NoError(t, err)

		assert.Empty(t, cache.values)
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()

	t.Run("second read is served from cache", func(t *testing.T) {
		cache := newFakeCache()
		reads := 0
		repo := &mockRepo{
			ListFunc: func(ctx context.Context) ([]*models.Product, error) {
				reads++
				return []*models.Product{{ID: "product-1"}}, nil
			},
		}

		service := product.New(repo, &mockNotifier{}, cache, makeLogger())

		first, err := service.List(ctx)
		require.NoError(t, err)
		second, err := service.List(ctx)
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, 1, reads)
		assert.Equal(t, 1, cache.sets)
		assert.Equal(t, 1, cache.hits)
	})

	t.Run("works without cache", func(t *testing.T) {
		repo := &mockRepo{
			ListFunc: func(ctx context.Context) ([]*models.Product, error) {
				return []*models.Product{{ID: "product-1"}}, nil
			},
		}

		service := product.New(repo, &mockNotifier{}, nil, makeLogger())
		products, err := service.List(ctx)
		require.NoError(t, err)
		assert.Len(t, products, 1)
	})
}
