package resilience

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"productinfo/pkg/logger"
	"productinfo/pkg/metrics"
	"productinfo/product-composite-service/internal/app/composite/config"
	"productinfo/product-composite-service/internal/app/composite/entity"
	inthttp "productinfo/product-composite-service/internal/app/composite/infrastructure/http"
)

// ProductCall сигнатура защищаемого вызова getProduct
type ProductCall func(ctx context.Context, productID, delay, faultPercent int) (*entity.Product, error)

// ProductDecorator оборачивает единственный вызов, которому нужна защита:
// снаружи внутрь Retry -> TimeLimiter -> CircuitBreaker -> Fallback
//
// Retry повторяет только инфраструктурные отказы (Upstream, таймаут);
// NotFound и InvalidInput - легитимные бизнес-исходы, они не повторяются
// и учитываются breaker-ом как успехи. Fallback срабатывает только когда
// breaker открыт и вызов отклонен без выполнения
type ProductDecorator struct {
	cfg          config.ResilienceConfig
	breaker      *CircuitBreaker
	call         ProductCall
	localAddress string
}

// NewProductDecorator создает обертку вокруг call с собственным circuit breaker
func NewProductDecorator(cfg config.ResilienceConfig, call ProductCall, localAddress string) *ProductDecorator {
	breaker := NewCircuitBreaker("product", Settings{
		WindowSize:       cfg.BreakerWindowSize,
		FailureThreshold: cfg.BreakerFailureThreshold,
		OpenDuration:     cfg.BreakerOpenDuration,
		HalfOpenCalls:    cfg.BreakerHalfOpenCalls,
	})

	return &ProductDecorator{
		cfg:          cfg,
		breaker:      breaker,
		call:         call,
		localAddress: localAddress,
	}
}

// GetProduct выполняет защищенный вызов getProduct
func (d *ProductDecorator) GetProduct(ctx context.Context, productID, delay, faultPercent int) (*entity.Product, error) {
	var lastErr error

	for attempt := 1; attempt <= d.cfg.RetryMaxAttempts; attempt++ {
		if attempt > 1 {
			metrics.RetryAttempts.WithLabelValues("product-composite", "product").Inc()
			logger.Debug().
				Int("attempt", attempt).
				Int("product_id", productID).
				Msg("Retrying product call")

			select {
			case <-time.After(d.cfg.RetryWait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		product, err := d.attempt(ctx, productID, delay, faultPercent)
		if err == nil {
			return product, nil
		}

		if errors.Is(err, ErrCircuitOpen) {
			return d.fallback(productID, err)
		}

		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// Breaker возвращает breaker вызова (для health и тестов)
func (d *ProductDecorator) Breaker() *CircuitBreaker {
	return d.breaker
}

// attempt одна попытка: проверка breaker, вызов с per-attempt дедлайном, учет исхода
func (d *ProductDecorator) attempt(ctx context.Context, productID, delay, faultPercent int) (*entity.Product, error) {
	if err := d.breaker.Allow(); err != nil {
		return nil, err
	}

	attemptCtx, cancel := context.WithTimeout(ctx, d.cfg.Timeout)
	defer cancel()

	product, err := d.call(attemptCtx, productID, delay, faultPercent)

	// Отмена вызывающей стороны (отключение клиента) не считается исходом вызова
	if err != nil && ctx.Err() != nil && errors.Is(err, context.Canceled) {
		return nil, ctx.Err()
	}

	d.breaker.Record(!isFailure(err))
	return product, err
}

// fallback последний шанс превратить отказ в ответ; только при открытом breaker
func (d *ProductDecorator) fallback(productID int, cause error) (*entity.Product, error) {
	logger.Warn().
		Int("product_id", productID).
		Err(cause).
		Msg("Creating a fail-fast fallback product")

	if productID == 13 {
		// Сентинел: fallback тоже должен уметь отдавать терминальную ошибку
		metrics.FallbackCalls.WithLabelValues("product-composite", "product", "not_found").Inc()
		return nil, fmt.Errorf("%w: Product Id: %d not found in fallback cache!", inthttp.ErrNotFound, productID)
	}

	metrics.FallbackCalls.WithLabelValues("product-composite", "product", "product").Inc()
	return &entity.Product{
		ProductID:      productID,
		Name:           "Fallback product" + strconv.Itoa(productID),
		Weight:         productID,
		ServiceAddress: d.localAddress,
	}, nil
}

// isFailure инфраструктурный отказ с точки зрения breaker
// NotFound/InvalidInput - успехи: сервис ответил, просто бизнес-результат отрицательный
func isFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, inthttp.ErrNotFound) || errors.Is(err, inthttp.ErrInvalidInput) {
		return false
	}
	return true
}

// isRetryable повторять имеет смысл только инфраструктурные отказы
func isRetryable(err error) bool {
	return errors.Is(err, inthttp.ErrUpstream) || errors.Is(err, context.DeadlineExceeded)
}
