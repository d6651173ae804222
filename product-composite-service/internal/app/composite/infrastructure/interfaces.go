package infrastructure

import (
	"context"

	"productinfo/product-composite-service/internal/app/composite/entity"
)

// EventPublisher интерфейс для отправки командных событий в шину (Kafka)
// Используется для dependency injection и упрощения тестирования
type EventPublisher interface {
	Publish(ctx context.Context, binding string, event entity.Event) error
	Close() error
}

// ProductServiceClient клиент обязательного Product Service
type ProductServiceClient interface {
	GetProduct(ctx context.Context, productID, delay, faultPercent int) (*entity.Product, error)
	Health(ctx context.Context) error
}

// RecommendationServiceClient клиент опционального Recommendation Service
type RecommendationServiceClient interface {
	GetRecommendations(ctx context.Context, productID int) ([]entity.Recommendation, error)
	Health(ctx context.Context) error
}

// ReviewServiceClient клиент опционального Review Service
type ReviewServiceClient interface {
	GetReviews(ctx context.Context, productID int) ([]entity.Review, error)
	Health(ctx context.Context) error
}
