package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"productinfo/pkg/metrics"
	"productinfo/product-service/internal/app/product/entity"

	"github.com/redis/go-redis/v9"
)

const productKeyPrefix = "product"

// ProductCache read-through кэш товаров поверх Redis.
// Промах кэша не является ошибкой - возвращается (nil, nil).
type ProductCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewProductCache(addr, password string, db int, ttl time.Duration) (*ProductCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &ProductCache{client: client, ttl: ttl}, nil
}

// NewProductCacheWithClient оборачивает готовый клиент (используется в тестах)
func NewProductCacheWithClient(client *redis.Client, ttl time.Duration) *ProductCache {
	return &ProductCache{client: client, ttl: ttl}
}

func productKey(productID int) string {
	return fmt.Sprintf("%s:%d", productKeyPrefix, productID)
}

// Get возвращает товар из кэша или (nil, nil) при промахе
func (c *ProductCache) Get(ctx context.Context, productID int) (*entity.Product, error) {
	data, err := c.client.Get(ctx, productKey(productID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss("product-service", productKeyPrefix)
			return nil, nil
		}
		metrics.RecordRedisError("product-service", metrics.RedisOpGet)
		return nil, fmt.Errorf("failed to get product from cache: %w", err)
	}

	var product entity.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached product: %w", err)
	}

	metrics.RecordCacheHit("product-service", productKeyPrefix)
	return &product, nil
}

// Set сохраняет товар в кэше с настроенным TTL
func (c *ProductCache) Set(ctx context.Context, product *entity.Product) error {
	data, err := json.Marshal(product)
	if err != nil {
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	if err := c.client.Set(ctx, productKey(product.ProductID), data, c.ttl).Err(); err != nil {
		metrics.RecordRedisError("product-service", metrics.RedisOpSet)
		return fmt.Errorf("failed to set product in cache: %w", err)
	}

	return nil
}

// Delete инвалидирует запись кэша
func (c *ProductCache) Delete(ctx context.Context, productID int) error {
	if err := c.client.Del(ctx, productKey(productID)).Err(); err != nil {
		metrics.RecordRedisError("product-service", metrics.RedisOpDel)
		return fmt.Errorf("failed to delete product from cache: %w", err)
	}
	return nil
}

func (c *ProductCache) Close() error {
	return c.client.Close()
}
