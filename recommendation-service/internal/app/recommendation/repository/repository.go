package repository

import (
	"context"

	"productinfo/recommendation-service/internal/app/recommendation/entity"
)

// RecommendationRepository интерфейс хранилища рекомендаций
type RecommendationRepository interface {
	Create(ctx context.Context, recommendation *entity.Recommendation) error
	GetByProductID(ctx context.Context, productID int) ([]entity.Recommendation, error)
	DeleteByProductID(ctx context.Context, productID int) error
}
