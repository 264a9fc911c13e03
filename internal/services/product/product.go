// Package product содержит бизнес-логику барахолки: создание объявлений
// с рассылкой всем подключённым клиентам и кешируемый список объявлений.
package product

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/momconnect/backend/internal/lib/sl"
	"github.com/momconnect/backend/internal/models"
)

const (
	listCacheKey = "products:list"
	listCacheTTL = time.Minute
)

// Repository описывает контракт работы с объявлениями в хранилище.
type Repository interface {
	CreateProduct(ctx context.Context, p models.Product) (*models.Product, error)
	ListProducts(ctx context.Context) ([]*models.Product, error)
	IncrementProductsCount(ctx context.Context, userID string) error
}

// Notifier рассылает событие всем подключённым клиентам без привязки к комнате.
type Notifier interface {
	BroadcastAll(event string, payload any)
}

// Cache — кеш списка объявлений.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Service реализует операции барахолки.
type Service struct {
	repo     Repository
	notifier Notifier
	cache    Cache // nil, если redis не сконфигурирован
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo Repository, notifier Notifier, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		cache:    cache,
		log:      log,
	}
}

// Create сохраняет объявление, увеличивает счётчик товаров продавца и затем
// рассылает newListing всем подключённым клиентам.
func (s *Service) Create(ctx context.Context, p models.Product) (*models.Product, error) {
	const op = "product.Create"

	if p.Category == "" {
		p.Category = "General"
	}
	created, err := s.repo.CreateProduct(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.IncrementProductsCount(ctx, p.SellerID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(listCacheKey); err != nil {
			s.log.Error("failed to invalidate products cache", sl.Err(err))
		}
	}

	s.notifier.BroadcastAll("newListing", created)
	return created, nil
}

// List возвращает объявления, новые первыми, с коротким кешированием.
func (s *Service) List(ctx context.Context) ([]*models.Product, error) {
	const op = "product.List"

	if s.cache != nil {
		var cached []*models.Product
		found, err := s.cache.Get(listCacheKey, &cached)
		if err != nil {
			s.log.Error("failed to read products cache", sl.Err(err))
		} else if found {
			return cached, nil
		}
	}

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if s.cache != nil {
		if err := s.cache.Set(listCacheKey, products, listCacheTTL); err != nil {
			s.log.Error("failed to write products cache", sl.Err(err))
		}
	}
	return products, nil
}
