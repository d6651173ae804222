package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"productinfo/pkg/logger"
	"productinfo/pkg/metrics"
	"productinfo/product-composite-service/internal/app/composite/entity"
)

// ReviewClient клиент для взаимодействия с Review Service
type ReviewClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewReviewClient создает новый клиент для Review Service
func NewReviewClient(baseURL string) *ReviewClient {
	return &ReviewClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetReviews получает отзывы о товаре из Review Service
func (c *ReviewClient) GetReviews(ctx context.Context, productID int) ([]entity.Review, error) {
	url := fmt.Sprintf("%s/review?productId=%d", c.baseURL, productID)

	logger.Debug().Str("url", url).Msg("Will call the getReviews API")

	start := time.Now()
	body, err := doGet(ctx, c.httpClient, url)
	metrics.DownstreamRequestDuration.WithLabelValues("product-composite", "review").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DownstreamErrors.WithLabelValues("product-composite", "review", errorKind(err)).Inc()
		return nil, err
	}

	var reviews []entity.Review
	if err := json.Unmarshal(body, &reviews); err != nil {
		return nil, fmt.Errorf("%w: failed to decode reviews response: %v", ErrUpstream, err)
	}

	return reviews, nil
}

// Health проверяет доступность Review Service
func (c *ReviewClient) Health(ctx context.Context) error {
	return probeHealth(ctx, c.httpClient, c.baseURL)
}
