package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"productinfo/pkg/logger"
	"productinfo/pkg/metrics"
)

// HealthPinger проверяет доступность хранилища для /actuator/health
type HealthPinger interface {
	Ping(ctx context.Context) error
}

// SetupRoutes настраивает маршруты Product Service
func SetupRoutes(productHandler *ProductHandler, pinger HealthPinger) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware("product-service"))

	// Health endpoint включает ping MongoDB
	router.GET("/actuator/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		if err := pinger.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "DOWN", "mongodb": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/product/:productId", productHandler.GetProduct)

	return router
}
