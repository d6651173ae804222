package service

import (
	"context"
	"errors"
	"fmt"

	"productinfo/pkg/logger"
	"productinfo/recommendation-service/internal/app/recommendation/entity"
	"productinfo/recommendation-service/internal/app/recommendation/repository"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type recommendationService struct {
	repo           repository.RecommendationRepository
	serviceAddress string
}

// NewRecommendationService создает сервис рекомендаций
func NewRecommendationService(repo repository.RecommendationRepository, serviceAddress string) RecommendationService {
	return &recommendationService{
		repo:           repo,
		serviceAddress: serviceAddress,
	}
}

// GetRecommendations возвращает рекомендации товара.
// Товар без рекомендаций - это пустой список, а не ошибка.
func (s *recommendationService) GetRecommendations(ctx context.Context, productID int) ([]entity.Recommendation, error) {
	if productID < 1 {
		return nil, fmt.Errorf("%w: Invalid productId: %d", ErrInvalidInput, productID)
	}

	recommendations, err := s.repo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}

	for i := range recommendations {
		recommendations[i].ServiceAddress = s.serviceAddress
	}

	return recommendations, nil
}

// CreateRecommendation сохраняет новую рекомендацию. Повторная вставка той же
// пары productId/recommendationId превращается в ErrInvalidInput.
func (s *recommendationService) CreateRecommendation(ctx context.Context, recommendation *entity.Recommendation) (*entity.Recommendation, error) {
	if recommendation.ProductID < 1 {
		return nil, fmt.Errorf("%w: Invalid productId: %d", ErrInvalidInput, recommendation.ProductID)
	}

	if err := s.repo.Create(ctx, recommendation); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: Duplicate key, Product Id: %d, Recommendation Id: %d",
				ErrInvalidInput, recommendation.ProductID, recommendation.RecommendationID)
		}
		return nil, err
	}

	logger.Info().
		Int("product_id", recommendation.ProductID).
		Int("recommendation_id", recommendation.RecommendationID).
		Msg("Recommendation created")
	return recommendation, nil
}

// DeleteRecommendations удаляет все рекомендации товара. Идемпотентна.
func (s *recommendationService) DeleteRecommendations(ctx context.Context, productID int) error {
	if productID < 1 {
		return fmt.Errorf("%w: Invalid productId: %d", ErrInvalidInput, productID)
	}

	if err := s.repo.DeleteByProductID(ctx, productID); err != nil {
		return err
	}

	logger.Info().Int("product_id", productID).Msg("Recommendations deleted")
	return nil
}
