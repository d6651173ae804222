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

// RecommendationClient клиент для взаимодействия с Recommendation Service
type RecommendationClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRecommendationClient создает новый клиент для Recommendation Service
func NewRecommendationClient(baseURL string) *RecommendationClient {
	return &RecommendationClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetRecommendations получает рекомендации товара из Recommendation Service
func (c *RecommendationClient) GetRecommendations(ctx context.Context, productID int) ([]entity.Recommendation, error) {
	url := fmt.Sprintf("%s/recommendation?productId=%d", c.baseURL, productID)

	logger.Debug().Str("url", url).Msg("Will call the getRecommendations API")

	start := time.Now()
	body, err := doGet(ctx, c.httpClient, url)
	metrics.DownstreamRequestDuration.WithLabelValues("product-composite", "recommendation").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DownstreamErrors.WithLabelValues("product-composite", "recommendation", errorKind(err)).Inc()
		return nil, err
	}

	var recommendations []entity.Recommendation
	if err := json.Unmarshal(body, &recommendations); err != nil {
		return nil, fmt.Errorf("%w: failed to decode recommendations response: %v", ErrUpstream, err)
	}

	return recommendations, nil
}

// Health проверяет доступность Recommendation Service
func (c *RecommendationClient) Health(ctx context.Context) error {
	return probeHealth(ctx, c.httpClient, c.baseURL)
}
