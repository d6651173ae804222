package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"productinfo/product-composite-service/internal/app/composite/config"
	"productinfo/product-composite-service/internal/app/composite/entity"
	inthttp "productinfo/product-composite-service/internal/app/composite/infrastructure/http"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResilienceConfig() config.ResilienceConfig {
	return config.ResilienceConfig{
		RetryMaxAttempts:        3,
		RetryWait:               time.Millisecond,
		Timeout:                 100 * time.Millisecond,
		BreakerWindowSize:       4,
		BreakerFailureThreshold: 50,
		BreakerOpenDuration:     10 * time.Second,
		BreakerHalfOpenCalls:    3,
	}
}

func TestDecorator_PassesThroughSuccess(t *testing.T) {
	var calls int32
	call := func(ctx context.Context, productID, delay, faultPercent int) (*entity.Product, error) {
		atomic.AddInt32(&calls, 1)
		return &entity.Product{ProductID: productID, Name: "name 1"}, nil
	}

	d := NewProductDecorator(testResilienceConfig(), call, "local-addr")

	product, err := d.GetProduct(context.Background(), 1, 0, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, product.ProductID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDecorator_RetriesUpstreamErrors(t *testing.T) {
	var calls int32
	call := func(ctx context.Context, productID, delay, faultPercent int) (*entity.Product, error) {
		if atomic.AddInt32(&calls, 1) < 3 {
			return nil, fmt.Errorf("%w: status 500", inthttp.ErrUpstream)
		}
		return &entity.Product{ProductID: productID}, nil
	}

	d := NewProductDecorator(testResilienceConfig(), call, "local-addr")

	product, err := d.GetProduct(context.Background(), 1, 0, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, product.ProductID)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDecorator_ExhaustedRetriesReturnLastError(t *testing.T) {
	var calls int32
	call := func(ctx context.Context, productID, delay, faultPercent int) (*entity.Product, error) {
		atomic.AddInt32(&calls, 1)
		return nil, fmt.Errorf("%w: status 500", inthttp.ErrUpstream)
	}

	d := NewProductDecorator(testResilienceConfig(), call, "local-addr")

	product, err := d.GetProduct(context.Background(), 1, 0, 0)

	assert.ErrorIs(t, err, inthttp.ErrUpstream)
	assert.Nil(t, product)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDecorator_NotFoundIsNotRetried(t *testing.T) {
	var calls int32
	call := func(ctx context.Context, productID, delay, faultPercent int) (*entity.Product, error) {
		atomic.AddInt32(&calls, 1)
		return nil, fmt.Errorf("%w: No product found for productId: %d", inthttp.ErrNotFound, productID)
	}

	d := NewProductDecorator(testResilienceConfig(), call, "local-addr")

	_, err := d.GetProduct(context.Background(), 13, 0, 0)

	assert.ErrorIs(t, err, inthttp.ErrNotFound)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDecorator_TimeLimiterCancelsSlowCall(t *testing.T) {
	call := func(ctx context.Context, productID, delay, faultPercent int) (*entity.Product, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	cfg := testResilienceConfig()
	cfg.RetryMaxAttempts = 1
	cfg.Timeout = 20 * time.Millisecond

	d := NewProductDecorator(cfg, call, "local-addr")

	start := time.Now()
	_, err := d.GetProduct(context.Background(), 1, 0, 0)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDecorator_OpenBreakerGivesFallbackProduct(t *testing.T) {
	var calls int32
	call := func(ctx context.Context, productID, delay, faultPercent int) (*entity.Product, error) {
		atomic.AddInt32(&calls, 1)
		return nil, fmt.Errorf("%w: status 500", inthttp.ErrUpstream)
	}

	cfg := testResilienceConfig()
	cfg.BreakerWindowSize = 2
	d := NewProductDecorator(cfg, call, "local-addr")

	// Наполняем окно отказами до открытия breaker
	for i := 0; i < 2; i++ {
		d.GetProduct(context.Background(), 1, 0, 0)
	}
	require.Equal(t, StateOpen, d.Breaker().CurrentState())

	before := atomic.LoadInt32(&calls)
	product, err := d.GetProduct(context.Background(), 1, 0, 0)

	require.NoError(t, err)
	assert.Equal(t, "Fallback product1", product.Name)
	assert.Equal(t, 1, product.Weight)
	assert.Equal(t, "local-addr", product.ServiceAddress)
	// Fail-fast: вызов не выполнялся
	assert.Equal(t, before, atomic.LoadInt32(&calls))
}

func TestDecorator_FallbackSentinelIDGivesNotFound(t *testing.T) {
	call := func(ctx context.Context, productID, delay, faultPercent int) (*entity.Product, error) {
		return nil, fmt.Errorf("%w: status 500", inthttp.ErrUpstream)
	}

	cfg := testResilienceConfig()
	cfg.BreakerWindowSize = 2
	d := NewProductDecorator(cfg, call, "local-addr")

	for i := 0; i < 2; i++ {
		d.GetProduct(context.Background(), 13, 0, 0)
	}
	require.Equal(t, StateOpen, d.Breaker().CurrentState())

	product, err := d.GetProduct(context.Background(), 13, 0, 0)

	assert.ErrorIs(t, err, inthttp.ErrNotFound)
	assert.Contains(t, err.Error(), "Product Id: 13 not found in fallback cache!")
	assert.Nil(t, product)
}

func TestDecorator_NotFoundCountsAsBreakerSuccess(t *testing.T) {
	call := func(ctx context.Context, productID, delay, faultPercent int) (*entity.Product, error) {
		return nil, fmt.Errorf("%w: No product found for productId: %d", inthttp.ErrNotFound, productID)
	}

	cfg := testResilienceConfig()
	cfg.BreakerWindowSize = 2
	d := NewProductDecorator(cfg, call, "local-addr")

	for i := 0; i < 10; i++ {
		_, err := d.GetProduct(context.Background(), 2, 0, 0)
		assert.ErrorIs(t, err, inthttp.ErrNotFound)
	}

	assert.Equal(t, StateClosed, d.Breaker().CurrentState())
}

func TestDecorator_CallerCancellationIsNotRecorded(t *testing.T) {
	call := func(ctx context.Context, productID, delay, faultPercent int) (*entity.Product, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	cfg := testResilienceConfig()
	cfg.BreakerWindowSize = 1
	d := NewProductDecorator(cfg, call, "local-addr")

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := d.GetProduct(ctx, 1, 0, 0)

	assert.ErrorIs(t, err, context.Canceled)
	// Отмена клиента не должна открыть breaker
	assert.Equal(t, StateClosed, d.Breaker().CurrentState())
}

func TestDecorator_BreakerRecoversThroughHalfOpen(t *testing.T) {
	var failing atomic.Bool
	failing.Store(true)

	call := func(ctx context.Context, productID, delay, faultPercent int) (*entity.Product, error) {
		if failing.Load() {
			return nil, fmt.Errorf("%w: status 500", inthttp.ErrUpstream)
		}
		return &entity.Product{ProductID: productID}, nil
	}

	cfg := testResilienceConfig()
	cfg.BreakerWindowSize = 2
	cfg.BreakerOpenDuration = 20 * time.Millisecond
	cfg.BreakerHalfOpenCalls = 1
	d := NewProductDecorator(cfg, call, "local-addr")

	for i := 0; i < 2; i++ {
		d.GetProduct(context.Background(), 1, 0, 0)
	}
	require.Equal(t, StateOpen, d.Breaker().CurrentState())

	failing.Store(false)
	time.Sleep(25 * time.Millisecond)

	product, err := d.GetProduct(context.Background(), 1, 0, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, product.ProductID)
	assert.Equal(t, StateClosed, d.Breaker().CurrentState())
}

func TestDecorator_PlainErrorsAreNotRetried(t *testing.T) {
	var calls int32
	call := func(ctx context.Context, productID, delay, faultPercent int) (*entity.Product, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("unexpected")
	}

	d := NewProductDecorator(testResilienceConfig(), call, "local-addr")

	_, err := d.GetProduct(context.Background(), 1, 0, 0)

	assert.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
