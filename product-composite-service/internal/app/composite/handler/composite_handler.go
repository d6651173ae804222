package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"productinfo/product-composite-service/internal/app/composite/entity"
	"productinfo/product-composite-service/internal/app/composite/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// CompositeHandler обрабатывает HTTP запросы composite сервиса с использованием Gin
type CompositeHandler struct {
	compositeService service.ProductCompositeService
	validator        *validator.Validate
}

// NewCompositeHandler создает новый обработчик composite запросов
func NewCompositeHandler(compositeService service.ProductCompositeService) *CompositeHandler {
	return &CompositeHandler{
		compositeService: compositeService,
		validator:        validator.New(),
	}
}

// GetProduct обрабатывает GET /product-composite/{productId}
// Возвращает агрегат; при отказе опциональных сервисов списки пустые (200)
func (h *CompositeHandler) GetProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	aggregate, err := h.compositeService.GetProduct(c.Request.Context(), productID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, aggregate)
}

// CreateProduct обрабатывает POST /product-composite
// Раскладывает агрегат в командные события; тело ответа пустое
func (h *CompositeHandler) CreateProduct(c *gin.Context) {
	var req entity.CreateAggregateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// Валидация
	if err := h.validator.Struct(req); err != nil {
		h.writeErrorInfo(c, http.StatusUnprocessableEntity, formatValidationError(err))
		return
	}

	if err := h.compositeService.CreateProduct(c.Request.Context(), &req); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// DeleteProduct обрабатывает DELETE /product-composite/{productId}
// Операция идемпотентна: повторный вызов тоже завершается успехом
func (h *CompositeHandler) DeleteProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	if err := h.compositeService.DeleteProduct(c.Request.Context(), productID); err != nil {
		h.writeError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// writeError переводит доменную ошибку в HTTP статус и тело HttpErrorInfo
func (h *CompositeHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.writeErrorInfo(c, http.StatusNotFound, errorMessage(err))
	case errors.Is(err, service.ErrInvalidInput):
		h.writeErrorInfo(c, http.StatusUnprocessableEntity, errorMessage(err))
	case errors.Is(err, context.DeadlineExceeded):
		h.writeErrorInfo(c, http.StatusServiceUnavailable, errorMessage(err))
	default:
		h.writeErrorInfo(c, http.StatusBadGateway, errorMessage(err))
	}
}

func (h *CompositeHandler) writeErrorInfo(c *gin.Context, status int, message string) {
	c.JSON(status, entity.HttpErrorInfo{
		Timestamp: time.Now().Format(time.RFC3339),
		Path:      c.Request.URL.Path,
		Status:    status,
		Message:   message,
	})
}

// errorMessage убирает префикс сентинела, оставляя текст для клиента
func errorMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{service.ErrNotFound, service.ErrInvalidInput, service.ErrUpstream} {
		prefix := sentinel.Error() + ": "
		if strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}

// formatValidationError форматирует ошибки валидации
func formatValidationError(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fieldError.Field() + " is " + fieldError.Tag()
		}
	}
	return "Validation failed"
}
