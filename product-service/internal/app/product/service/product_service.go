package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"productinfo/pkg/logger"
	"productinfo/product-service/internal/app/product/entity"
	"productinfo/product-service/internal/app/product/repository"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)

type productService struct {
	repo           repository.ProductRepository
	cache          ProductCache
	serviceAddress string
}

// NewProductService создает сервис товаров.
// cache может быть nil - тогда все чтения идут напрямую в MongoDB.
func NewProductService(repo repository.ProductRepository, cache ProductCache, serviceAddress string) ProductService {
	return &productService{
		repo:           repo,
		cache:          cache,
		serviceAddress: serviceAddress,
	}
}

// GetProduct возвращает товар по идентификатору.
// delay задерживает ответ на указанное число секунд, faultPercent с заданной
// вероятностью (0-100) возвращает внутреннюю ошибку - оба параметра нужны
// для проверки устойчивости вызывающей стороны.
func (s *productService) GetProduct(ctx context.Context, productID, delay, faultPercent int) (*entity.Product, error) {
	if productID < 1 {
		return nil, fmt.Errorf("%w: Invalid productId: %d", ErrInvalidInput, productID)
	}

	if delay > 0 {
		if err := sleepWithContext(ctx, time.Duration(delay)*time.Second); err != nil {
			return nil, err
		}
	}

	if faultPercent > 0 {
		if randomPercent() <= faultPercent {
			logger.Warn().Int("product_id", productID).Msg("Bad luck, an error occurred")
			return nil, fmt.Errorf("something went wrong")
		}
	}

	if s.cache != nil {
		cached, err := s.cache.Get(ctx, productID)
		if err != nil {
			// Ошибка кэша не фатальна - деградируем до чтения из MongoDB
			logger.Warn().Err(err).Int("product_id", productID).Msg("Cache read failed, falling back to database")
		} else if cached != nil {
			cached.ServiceAddress = s.serviceAddress
			return cached, nil
		}
	}

	product, err := s.repo.GetByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: No product found for productId: %d", ErrNotFound, productID)
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, product); err != nil {
			logger.Warn().Err(err).Int("product_id", productID).Msg("Failed to cache product")
		}
	}

	product.ServiceAddress = s.serviceAddress
	return product, nil
}

// CreateProduct сохраняет новый товар. Повторная вставка того же productId
// превращается в ErrInvalidInput - так consumer отличает дубль от сбоя.
func (s *productService) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if product.ProductID < 1 {
		return nil, fmt.Errorf("%w: Invalid productId: %d", ErrInvalidInput, product.ProductID)
	}

	if err := s.repo.Create(ctx, product); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: Duplicate key, Product Id: %d", ErrInvalidInput, product.ProductID)
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, product.ProductID); err != nil {
			logger.Warn().Err(err).Int("product_id", product.ProductID).Msg("Failed to invalidate product cache")
		}
	}

	logger.Info().Int("product_id", product.ProductID).Msg("Product created")
	return product, nil
}

// DeleteProduct удаляет товар. Идемпотентна: отсутствие товара - не ошибка.
func (s *productService) DeleteProduct(ctx context.Context, productID int) error {
	if productID < 1 {
		return fmt.Errorf("%w: Invalid productId: %d", ErrInvalidInput, productID)
	}

	if err := s.repo.DeleteByProductID(ctx, productID); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, productID); err != nil {
			logger.Warn().Err(err).Int("product_id", productID).Msg("Failed to invalidate product cache")
		}
	}

	logger.Info().Int("product_id", productID).Msg("Product deleted")
	return nil
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func randomPercent() int {
	return rand.Intn(100) + 1
}
