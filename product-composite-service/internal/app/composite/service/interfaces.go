package service

import (
	"context"

	"productinfo/product-composite-service/internal/app/composite/entity"
)

// ProductCompositeService операции composite сервиса
// Используется для dependency injection в handlers
type ProductCompositeService interface {
	GetProduct(ctx context.Context, productID int) (*entity.ProductAggregate, error)
	CreateProduct(ctx context.Context, req *entity.CreateAggregateRequest) error
	DeleteProduct(ctx context.Context, productID int) error
}

// ProductGetter защищенный вызов getProduct (реализуется resilience декоратором)
type ProductGetter interface {
	GetProduct(ctx context.Context, productID, delay, faultPercent int) (*entity.Product, error)
}

// EventScheduler пул для публикации событий вне горутин обработки запросов
type EventScheduler interface {
	Submit(ctx context.Context, fn func(ctx context.Context) error) error
}
