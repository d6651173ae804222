package service

import (
	"context"

	"productinfo/recommendation-service/internal/app/recommendation/entity"
)

// RecommendationService интерфейс бизнес-логики рекомендаций
type RecommendationService interface {
	GetRecommendations(ctx context.Context, productID int) ([]entity.Recommendation, error)
	CreateRecommendation(ctx context.Context, recommendation *entity.Recommendation) (*entity.Recommendation, error)
	DeleteRecommendations(ctx context.Context, productID int) error
}
