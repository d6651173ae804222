package repository

import (
	"context"

	"productinfo/review-service/internal/app/review/entity"
)

// ReviewRepository интерфейс хранилища отзывов
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	GetByProductID(ctx context.Context, productID int) ([]entity.Review, error)
	DeleteByProductID(ctx context.Context, productID int) error
}
