package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"productinfo/pkg/logger"
	"productinfo/pkg/metrics"
	"productinfo/recommendation-service/internal/app/recommendation/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrDuplicateKey = errors.New("duplicate key")
)

type recommendationRepository struct {
	collection *mongo.Collection
}

// NewRecommendationRepository создает новый репозиторий рекомендаций
// Автоматически создает уникальный составной индекс product_id + recommendation_id
func NewRecommendationRepository(db *mongo.Database) RecommendationRepository {
	collection := db.Collection("recommendations")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "product_id", Value: 1},
			{Key: "recommendation_id", Value: 1},
		},
		Options: options.Index().SetName("product_recommendation_idx").SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		// Логируем ошибку, но не прерываем работу - индекс может уже существовать
		logger.Warn().Err(err).Msg("Failed to create index on product_id, recommendation_id")
	}

	return &recommendationRepository{
		collection: collection,
	}
}

// Create создает новую рекомендацию в MongoDB
func (r *recommendationRepository) Create(ctx context.Context, recommendation *entity.Recommendation) error {
	recommendation.CreatedAt = time.Now()
	recommendation.UpdatedAt = time.Now()

	timer := metrics.NewDbTimer("recommendation-service", metrics.DbOpInsert, "recommendations")
	result, err := r.collection.InsertOne(ctx, recommendation)
	timer.ObserveDuration()
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: Product Id: %d, Recommendation Id: %d",
				ErrDuplicateKey, recommendation.ProductID, recommendation.RecommendationID)
		}
		metrics.RecordDbError("recommendation-service", metrics.DbOpInsert)
		return fmt.Errorf("failed to create recommendation: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		recommendation.ID = oid
	}

	return nil
}

// GetByProductID получает все рекомендации по ID товара
// Использует составной индекс product_recommendation_idx
func (r *recommendationRepository) GetByProductID(ctx context.Context, productID int) ([]entity.Recommendation, error) {
	filter := bson.M{"product_id": productID}
	opts := options.Find().SetSort(bson.D{{Key: "recommendation_id", Value: 1}})

	timer := metrics.NewDbTimer("recommendation-service", metrics.DbOpFind, "recommendations")
	cursor, err := r.collection.Find(ctx, filter, opts)
	timer.ObserveDuration()
	if err != nil {
		metrics.RecordDbError("recommendation-service", metrics.DbOpFind)
		return nil, fmt.Errorf("failed to find recommendations: %w", err)
	}
	defer cursor.Close(ctx)

	var recommendations []entity.Recommendation
	if err := cursor.All(ctx, &recommendations); err != nil {
		return nil, fmt.Errorf("failed to decode recommendations: %w", err)
	}

	return recommendations, nil
}

// DeleteByProductID удаляет все рекомендации товара
// Отсутствие рекомендаций не считается ошибкой - операция идемпотентна
func (r *recommendationRepository) DeleteByProductID(ctx context.Context, productID int) error {
	filter := bson.M{"product_id": productID}

	timer := metrics.NewDbTimer("recommendation-service", metrics.DbOpDelete, "recommendations")
	_, err := r.collection.DeleteMany(ctx, filter)
	timer.ObserveDuration()
	if err != nil {
		metrics.RecordDbError("recommendation-service", metrics.DbOpDelete)
		return fmt.Errorf("failed to delete recommendations: %w", err)
	}

	return nil
}
