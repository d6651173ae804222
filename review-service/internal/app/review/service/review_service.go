package service

import (
	"context"
	"errors"
	"fmt"

	"productinfo/pkg/logger"
	"productinfo/review-service/internal/app/review/entity"
	"productinfo/review-service/internal/app/review/repository"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type reviewService struct {
	repo           repository.ReviewRepository
	serviceAddress string
}

// NewReviewService создает сервис отзывов
func NewReviewService(repo repository.ReviewRepository, serviceAddress string) ReviewService {
	return &reviewService{
		repo:           repo,
		serviceAddress: serviceAddress,
	}
}

// GetReviews возвращает отзывы товара.
// Товар без отзывов - это пустой список, а не ошибка.
func (s *reviewService) GetReviews(ctx context.Context, productID int) ([]entity.Review, error) {
	if productID < 1 {
		return nil, fmt.Errorf("%w: Invalid productId: %d", ErrInvalidInput, productID)
	}

	reviews, err := s.repo.GetByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}

	for i := range reviews {
		reviews[i].ServiceAddress = s.serviceAddress
	}

	return reviews, nil
}

// CreateReview сохраняет новый отзыв. Повторная вставка той же пары
// productId/reviewId превращается в ErrInvalidInput.
func (s *reviewService) CreateReview(ctx context.Context, review *entity.Review) (*entity.Review, error) {
	if review.ProductID < 1 {
		return nil, fmt.Errorf("%w: Invalid productId: %d", ErrInvalidInput, review.ProductID)
	}

	if err := s.repo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: Duplicate key, Product Id: %d, Review Id: %d",
				ErrInvalidInput, review.ProductID, review.ReviewID)
		}
		return nil, err
	}

	logger.Info().
		Int("product_id", review.ProductID).
		Int("review_id", review.ReviewID).
		Msg("Review created")
	return review, nil
}

// DeleteReviews удаляет все отзывы товара. Идемпотентна.
func (s *reviewService) DeleteReviews(ctx context.Context, productID int) error {
	if productID < 1 {
		return fmt.Errorf("%w: Invalid productId: %d", ErrInvalidInput, productID)
	}

	if err := s.repo.DeleteByProductID(ctx, productID); err != nil {
		return err
	}

	logger.Info().Int("product_id", productID).Msg("Reviews deleted")
	return nil
}
