package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"productinfo/pkg/logger"
	"productinfo/pkg/serviceutil"
	"productinfo/product-composite-service/internal/app/composite/config"
	"productinfo/product-composite-service/internal/app/composite/handler"
	"productinfo/product-composite-service/internal/app/composite/health"
	inthttp "productinfo/product-composite-service/internal/app/composite/infrastructure/http"
	"productinfo/product-composite-service/internal/app/composite/infrastructure/messaging"
	"productinfo/product-composite-service/internal/app/composite/resilience"
	"productinfo/product-composite-service/internal/app/composite/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logger.Init("product-composite-service", logLevel)

	serviceAddress := serviceutil.Address(cfg.Server.Port)

	productClient := inthttp.NewProductClient(cfg.Services.Product.BaseURL())
	recommendationClient := inthttp.NewRecommendationClient(cfg.Services.Recommendation.BaseURL())
	reviewClient := inthttp.NewReviewClient(cfg.Services.Review.BaseURL())
	logger.Info().
		Str("product", cfg.Services.Product.BaseURL()).
		Str("recommendation", cfg.Services.Recommendation.BaseURL()).
		Str("review", cfg.Services.Review.BaseURL()).
		Msg("Initialized core service clients")

	// Retry + time limiter + circuit breaker + fallback только для обязательного product GET
	productDecorator := resilience.NewProductDecorator(cfg.Resilience, productClient.GetProduct, serviceAddress)

	publisher := messaging.NewKafkaEventPublisher(cfg.Kafka)
	defer publisher.Close()
	logger.Info().
		Str("products_topic", cfg.Kafka.ProductsTopic).
		Str("recommendations_topic", cfg.Kafka.RecommendationsTopic).
		Str("reviews_topic", cfg.Kafka.ReviewsTopic).
		Msg("Initialized Kafka event publisher")

	scheduler := messaging.NewPublishScheduler(cfg.Kafka.PublisherPoolSize)
	defer scheduler.Stop()

	compositeService := service.NewCompositeService(
		productDecorator,
		recommendationClient,
		reviewClient,
		publisher,
		scheduler,
		serviceAddress,
	)

	healthChecker := health.NewChecker(productClient, recommendationClient, reviewClient)
	if err := healthChecker.Start(context.Background(), cfg.Health.Schedule); err != nil {
		logger.Fatal().Err(err).Msg("Failed to start health checker")
	}
	defer healthChecker.Stop()

	authMiddleware := handler.NewAuthMiddleware(cfg.JWT.Secret)
	compositeHandler := handler.NewCompositeHandler(compositeService)
	router := handler.SetupRoutes(compositeHandler, authMiddleware, healthChecker)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Product Composite Service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Product Composite Service...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Product Composite Service stopped gracefully")
}
