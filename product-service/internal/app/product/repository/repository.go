package repository

import (
	"context"

	"productinfo/product-service/internal/app/product/entity"
)

// ProductRepository интерфейс хранилища товаров
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByProductID(ctx context.Context, productID int) (*entity.Product, error)
	DeleteByProductID(ctx context.Context, productID int) error
}
