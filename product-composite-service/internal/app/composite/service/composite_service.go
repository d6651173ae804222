package service

import (
	"context"
	"fmt"
	"sync"

	"productinfo/pkg/logger"
	"productinfo/pkg/metrics"
	"productinfo/product-composite-service/internal/app/composite/entity"
	"productinfo/product-composite-service/internal/app/composite/infrastructure"
	inthttp "productinfo/product-composite-service/internal/app/composite/infrastructure/http"
	"productinfo/product-composite-service/internal/app/composite/infrastructure/messaging"
)

// Ошибки бизнес-логики для обработки в handlers
// Совпадают с транспортными сентинелами, чтобы errors.Is работал по всей цепочке
var (
	ErrNotFound     = inthttp.ErrNotFound
	ErrInvalidInput = inthttp.ErrInvalidInput
	ErrUpstream     = inthttp.ErrUpstream
)

// CompositeService собирает агрегат товара из трех core сервисов
// и раскладывает изменяющие операции в командные события на шине
type CompositeService struct {
	product         ProductGetter
	recommendations infrastructure.RecommendationServiceClient
	reviews         infrastructure.ReviewServiceClient
	publisher       infrastructure.EventPublisher
	scheduler       EventScheduler
	serviceAddress  string
}

// NewCompositeService создает сервис с внедрением зависимостей
func NewCompositeService(
	product ProductGetter,
	recommendations infrastructure.RecommendationServiceClient,
	reviews infrastructure.ReviewServiceClient,
	publisher infrastructure.EventPublisher,
	scheduler EventScheduler,
	serviceAddress string,
) *CompositeService {
	return &CompositeService{
		product:         product,
		recommendations: recommendations,
		reviews:         reviews,
		publisher:       publisher,
		scheduler:       scheduler,
		serviceAddress:  serviceAddress,
	}
}

// GetProduct собирает ProductAggregate тремя параллельными запросами
//
// Вызов product обязателен: его отказ прерывает сборку и отменяет
// остальные запросы. Отказы recommendation/review дают частичный ответ
// с пустым списком вместо ошибки. Сами запросы не ждут друг друга
func (s *CompositeService) GetProduct(ctx context.Context, productID int) (*entity.ProductAggregate, error) {
	if productID < 1 {
		return nil, fmt.Errorf("%w: Invalid productId: %d", ErrInvalidInput, productID)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		product *entity.Product
		prodErr error

		recommendations []entity.Recommendation
		recoErr         error

		reviews []entity.Review
		revErr  error
	)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		product, prodErr = s.product.GetProduct(ctx, productID, 0, 0)
		if prodErr != nil {
			// Обязательный вызов провалился - опциональные можно не ждать
			cancel()
		}
	}()

	go func() {
		defer wg.Done()
		recommendations, recoErr = s.recommendations.GetRecommendations(ctx, productID)
	}()

	go func() {
		defer wg.Done()
		reviews, revErr = s.reviews.GetReviews(ctx, productID)
	}()

	wg.Wait()

	if prodErr != nil {
		logger.Warn().Int("product_id", productID).Err(prodErr).Msg("getCompositeProduct failed")
		return nil, prodErr
	}

	if recoErr != nil {
		logger.Warn().Int("product_id", productID).Err(recoErr).
			Msg("Recommendations lookup failed, returning partial response")
		metrics.CompositePartialResponses.WithLabelValues("recommendations").Inc()
		recommendations = nil
	}

	if revErr != nil {
		logger.Warn().Int("product_id", productID).Err(revErr).
			Msg("Reviews lookup failed, returning partial response")
		metrics.CompositePartialResponses.WithLabelValues("reviews").Inc()
		reviews = nil
	}

	metrics.CompositeAggregations.Inc()
	return s.buildAggregate(product, recommendations, reviews), nil
}

// CreateProduct раскладывает агрегат в командные события
//
// Порядок фиксирован: сначала CREATE товара, затем CREATE каждой
// рекомендации, затем CREATE каждого отзыва. Первый отказ прерывает
// оставшиеся публикации; уже отправленные события не откатываются -
// восстановление это повтор запроса или компенсирующий DELETE,
// консьюмеры идемпотентны
func (s *CompositeService) CreateProduct(ctx context.Context, req *entity.CreateAggregateRequest) error {
	if err := validateCreateRequest(req); err != nil {
		return err
	}

	logger.Debug().Int("product_id", req.ProductID).Msg("createCompositeProduct: creating composite entities")

	product := entity.Product{
		ProductID: req.ProductID,
		Name:      req.Name,
		Weight:    req.Weight,
	}
	if err := s.publishEvent(ctx, messaging.ProductsBinding, entity.NewEvent(entity.EventCreate, req.ProductID, product)); err != nil {
		return err
	}

	for _, r := range req.Recommendations {
		recommendation := entity.Recommendation{
			ProductID:        req.ProductID,
			RecommendationID: r.RecommendationID,
			Author:           r.Author,
			Rate:             r.Rate,
			Content:          r.Content,
		}
		if err := s.publishEvent(ctx, messaging.RecommendationsBinding, entity.NewEvent(entity.EventCreate, req.ProductID, recommendation)); err != nil {
			return err
		}
	}

	for _, r := range req.Reviews {
		review := entity.Review{
			ProductID: req.ProductID,
			ReviewID:  r.ReviewID,
			Author:    r.Author,
			Subject:   r.Subject,
			Content:   r.Content,
		}
		if err := s.publishEvent(ctx, messaging.ReviewsBinding, entity.NewEvent(entity.EventCreate, req.ProductID, review)); err != nil {
			return err
		}
	}

	logger.Debug().Int("product_id", req.ProductID).Msg("createCompositeProduct: composite entities created")
	return nil
}

// DeleteProduct публикует по одному DELETE событию на каждый binding параллельно
// Любой отказ проваливает операцию целиком; успешные публикации не отменяются
func (s *CompositeService) DeleteProduct(ctx context.Context, productID int) error {
	if productID < 1 {
		return fmt.Errorf("%w: Invalid productId: %d", ErrInvalidInput, productID)
	}

	bindings := []string{
		messaging.ProductsBinding,
		messaging.RecommendationsBinding,
		messaging.ReviewsBinding,
	}

	errs := make([]error, len(bindings))
	var wg sync.WaitGroup
	wg.Add(len(bindings))

	for i, binding := range bindings {
		go func(i int, binding string) {
			defer wg.Done()
			errs[i] = s.publishEvent(ctx, binding, entity.NewEvent(entity.EventDelete, productID, nil))
		}(i, binding)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			logger.Warn().Int("product_id", productID).Err(err).Msg("deleteCompositeProduct failed")
			return err
		}
	}

	return nil
}

// publishEvent отправляет событие через пул публикации,
// чтобы горутина запроса не блокировалась на I/O шины
func (s *CompositeService) publishEvent(ctx context.Context, binding string, event entity.Event) error {
	err := s.scheduler.Submit(ctx, func(ctx context.Context) error {
		return s.publisher.Publish(ctx, binding, event)
	})
	if err != nil {
		return fmt.Errorf("%w: failed to publish %s event to %s: %v", ErrUpstream, event.EventType, binding, err)
	}
	return nil
}

func (s *CompositeService) buildAggregate(
	product *entity.Product,
	recommendations []entity.Recommendation,
	reviews []entity.Review,
) *entity.ProductAggregate {

	recommendationSummaries := make([]entity.RecommendationSummary, 0, len(recommendations))
	for _, r := range recommendations {
		recommendationSummaries = append(recommendationSummaries, entity.RecommendationSummary{
			RecommendationID: r.RecommendationID,
			Author:           r.Author,
			Rate:             r.Rate,
			Content:          r.Content,
		})
	}

	reviewSummaries := make([]entity.ReviewSummary, 0, len(reviews))
	for _, r := range reviews {
		reviewSummaries = append(reviewSummaries, entity.ReviewSummary{
			ReviewID: r.ReviewID,
			Author:   r.Author,
			Subject:  r.Subject,
			Content:  r.Content,
		})
	}

	// Адрес review/recommendation берется у первого элемента списка, пустая строка если их нет
	reviewAddress := ""
	if len(reviews) > 0 {
		reviewAddress = reviews[0].ServiceAddress
	}
	recommendationAddress := ""
	if len(recommendations) > 0 {
		recommendationAddress = recommendations[0].ServiceAddress
	}

	return &entity.ProductAggregate{
		ProductID:       product.ProductID,
		Name:            product.Name,
		Weight:          product.Weight,
		Recommendations: recommendationSummaries,
		Reviews:         reviewSummaries,
		ServiceAddresses: entity.ServiceAddresses{
			CompositeAddress:      s.serviceAddress,
			ProductAddress:        product.ServiceAddress,
			ReviewAddress:         reviewAddress,
			RecommendationAddress: recommendationAddress,
		},
	}
}

func validateCreateRequest(req *entity.CreateAggregateRequest) error {
	if req.ProductID < 1 {
		return fmt.Errorf("%w: Invalid productId: %d", ErrInvalidInput, req.ProductID)
	}
	for _, r := range req.Recommendations {
		if r.RecommendationID < 1 {
			return fmt.Errorf("%w: Invalid recommendationId: %d", ErrInvalidInput, r.RecommendationID)
		}
	}
	for _, r := range req.Reviews {
		if r.ReviewID < 1 {
			return fmt.Errorf("%w: Invalid reviewId: %d", ErrInvalidInput, r.ReviewID)
		}
	}
	return nil
}
