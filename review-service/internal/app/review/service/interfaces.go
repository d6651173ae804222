package service

import (
	"context"

	"productinfo/review-service/internal/app/review/entity"
)

// ReviewService интерфейс бизнес-логики отзывов
type ReviewService interface {
	GetReviews(ctx context.Context, productID int) ([]entity.Review, error)
	CreateReview(ctx context.Context, review *entity.Review) (*entity.Review, error)
	DeleteReviews(ctx context.Context, productID int) error
}
