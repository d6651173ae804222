package service

import (
	"context"

	"productinfo/product-service/internal/app/product/entity"
)

// ProductService интерфейс бизнес-логики товаров
type ProductService interface {
	GetProduct(ctx context.Context, productID, delay, faultPercent int) (*entity.Product, error)
	CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)
	DeleteProduct(ctx context.Context, productID int) error
}

// ProductCache интерфейс кэша для service layer (реализация - repository/cache)
type ProductCache interface {
	Get(ctx context.Context, productID int) (*entity.Product, error)
	Set(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, productID int) error
}
