package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"productinfo/pkg/metrics"
	"productinfo/review-service/internal/app/review/entity"

	"gorm.io/gorm"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrDuplicateKey = errors.New("duplicate key")
)

type reviewRepository struct {
	db *gorm.DB // GORM DB для работы с PostgreSQL
}

// NewReviewRepository создает новый репозиторий отзывов
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create создает новый отзыв в PostgreSQL
func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	timer := metrics.NewDbTimer("review-service", metrics.DbOpInsert, "reviews")
	result := r.db.WithContext(ctx).Create(review)
	timer.ObserveDuration()

	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return fmt.Errorf("%w: Product Id: %d, Review Id: %d",
				ErrDuplicateKey, review.ProductID, review.ReviewID)
		}
		metrics.RecordDbError("review-service", metrics.DbOpInsert)
		return fmt.Errorf("failed to create review: %w", result.Error)
	}

	return nil
}

// GetByProductID получает все отзывы товара, упорядоченные по review_id
func (r *reviewRepository) GetByProductID(ctx context.Context, productID int) ([]entity.Review, error) {
	var reviews []entity.Review

	timer := metrics.NewDbTimer("review-service", metrics.DbOpFind, "reviews")
	result := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("review_id ASC").
		Find(&reviews)
	timer.ObserveDuration()

	if result.Error != nil {
		metrics.RecordDbError("review-service", metrics.DbOpFind)
		return nil, fmt.Errorf("failed to find reviews: %w", result.Error)
	}

	return reviews, nil
}

// DeleteByProductID удаляет все отзывы товара
// Отсутствие отзывов не считается ошибкой - операция идемпотентна
func (r *reviewRepository) DeleteByProductID(ctx context.Context, productID int) error {
	timer := metrics.NewDbTimer("review-service", metrics.DbOpDelete, "reviews")
	result := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&entity.Review{})
	timer.ObserveDuration()

	if result.Error != nil {
		metrics.RecordDbError("review-service", metrics.DbOpDelete)
		return fmt.Errorf("failed to delete reviews: %w", result.Error)
	}

	return nil
}

// isDuplicateKeyError распознает нарушение уникального индекса.
// gorm.ErrDuplicatedKey приходит от translate-errors, SQLSTATE 23505 - от драйвера.
func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "23505") ||
		strings.Contains(err.Error(), "duplicate key")
}
