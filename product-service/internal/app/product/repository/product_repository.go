package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"productinfo/pkg/logger"
	"productinfo/pkg/metrics"
	"productinfo/product-service/internal/app/product/entity"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// Стандартные ошибки репозитория для обработки в service layer
	ErrProductNotFound = errors.New("product not found")
	ErrDuplicateKey    = errors.New("duplicate key")
)

type productRepository struct {
	collection *mongo.Collection
}

// NewProductRepository создает новый репозиторий товаров
// Автоматически создает уникальный индекс по product_id
func NewProductRepository(db *mongo.Database) ProductRepository {
	collection := db.Collection("products")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Уникальный индекс защищает от дублей при повторной доставке событий
	indexModel := mongo.IndexModel{
		Keys: bson.D{
			{Key: "product_id", Value: 1},
		},
		Options: options.Index().SetName("product_id_idx").SetUnique(true),
	}

	_, err := collection.Indexes().CreateOne(ctx, indexModel)
	if err != nil {
		// Логируем ошибку, но не прерываем работу - индекс может уже существовать
		logger.Warn().Err(err).Msg("Failed to create index on product_id")
	}

	return &productRepository{
		collection: collection,
	}
}

// Create создает новый товар в MongoDB
func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	timer := metrics.NewDbTimer("product-service", metrics.DbOpInsert, "products")
	result, err := r.collection.InsertOne(ctx, product)
	timer.ObserveDuration()
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: Product Id: %d", ErrDuplicateKey, product.ProductID)
		}
		metrics.RecordDbError("product-service", metrics.DbOpInsert)
		return fmt.Errorf("failed to create product: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		product.ID = oid
	}

	return nil
}

// GetByProductID получает товар по бизнес-идентификатору
// Использует уникальный индекс product_id_idx
func (r *productRepository) GetByProductID(ctx context.Context, productID int) (*entity.Product, error) {
	filter := bson.M{"product_id": productID}

	var product entity.Product
	timer := metrics.NewDbTimer("product-service", metrics.DbOpFind, "products")
	err := r.collection.FindOne(ctx, filter).Decode(&product)
	timer.ObserveDuration()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		metrics.RecordDbError("product-service", metrics.DbOpFind)
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return &product, nil
}

// DeleteByProductID удаляет товар по бизнес-идентификатору
// Отсутствующий товар не считается ошибкой - операция идемпотентна
func (r *productRepository) DeleteByProductID(ctx context.Context, productID int) error {
	filter := bson.M{"product_id": productID}

	timer := metrics.NewDbTimer("product-service", metrics.DbOpDelete, "products")
	_, err := r.collection.DeleteOne(ctx, filter)
	timer.ObserveDuration()
	if err != nil {
		metrics.RecordDbError("product-service", metrics.DbOpDelete)
		return fmt.Errorf("failed to delete product: %w", err)
	}

	return nil
}
