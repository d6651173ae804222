package handler

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"productinfo/pkg/logger"
	"productinfo/pkg/metrics"
	"productinfo/product-composite-service/internal/app/composite/health"
)

// SetupRoutes настраивает маршруты Product Composite Service
//
// /actuator/health и /metrics публичные; /product-composite требует JWT:
// product:write для POST/DELETE, product:read или product:write для GET
func SetupRoutes(compositeHandler *CompositeHandler, authMiddleware *AuthMiddleware, healthChecker *health.Checker) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())

	router.Use(logger.GinLoggerMiddleware())

	router.Use(metrics.GinPrometheusMiddleware("product-composite"))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoint - публичный, отдает кешированный снимок состояния core сервисов
	router.GET("/actuator/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, healthChecker.Snapshot())
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Composite endpoints - все требуют аутентификации и scope
	composite := router.Group("/product-composite")
	composite.Use(authMiddleware.Authenticate())
	{
		composite.POST("", authMiddleware.RequireScope("product:write"), compositeHandler.CreateProduct)
		composite.GET("/:productId", authMiddleware.RequireScope("product:read", "product:write"), compositeHandler.GetProduct)
		composite.DELETE("/:productId", authMiddleware.RequireScope("product:write"), compositeHandler.DeleteProduct)
	}

	return router
}
