package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"productinfo/pkg/logger"
	"productinfo/pkg/metrics"
	"productinfo/product-composite-service/internal/app/composite/entity"
)

// ProductClient клиент для взаимодействия с Product Service
type ProductClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewProductClient создает новый клиент для Product Service
func NewProductClient(baseURL string) *ProductClient {
	return &ProductClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second, // Страховочный таймаут; рабочий дедлайн задается контекстом
		},
	}
}

// GetProduct получает информацию о товаре из Product Service
// delay и faultPercent - тестовые хуки Product Service, composite передает 0/0
func (c *ProductClient) GetProduct(ctx context.Context, productID, delay, faultPercent int) (*entity.Product, error) {
	url := fmt.Sprintf("%s/product/%d?delay=%d&faultPercent=%d", c.baseURL, productID, delay, faultPercent)

	logger.Debug().Str("url", url).Msg("Will call the getProduct API")

	start := time.Now()
	body, err := doGet(ctx, c.httpClient, url)
	metrics.DownstreamRequestDuration.WithLabelValues("product-composite", "product").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DownstreamErrors.WithLabelValues("product-composite", "product", errorKind(err)).Inc()
		return nil, err
	}

	var product entity.Product
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("%w: failed to decode product response: %v", ErrUpstream, err)
	}

	return &product, nil
}

// Health проверяет доступность Product Service
func (c *ProductClient) Health(ctx context.Context) error {
	return probeHealth(ctx, c.httpClient, c.baseURL)
}

// doGet выполняет GET запрос и полностью вычитывает тело ответа
// Не-2xx ответы переводятся в доменные ошибки через mapStatusError
func doGet(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrUpstream, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		// Отмену и истечение дедлайна отдаем как есть, чтобы
		// time limiter и retry могли их распознать
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response body: %v", ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, mapStatusError(resp, body)
	}

	return body, nil
}

// probeHealth опрашивает /actuator/health; любой 2xx означает UP
func probeHealth(ctx context.Context, client *http.Client, baseURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/actuator/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create health request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("health probe failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("health probe returned status %d", resp.StatusCode)
	}

	return nil
}

func errorKind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "upstream"
	}
}
