package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"productinfo/product-service/internal/app/product/entity"
	"productinfo/product-service/internal/app/product/service"

	"github.com/gin-gonic/gin"
)

// ProductHandler обрабатывает HTTP запросы сервиса товаров
type ProductHandler struct {
	productService service.ProductService
}

func NewProductHandler(productService service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// GetProduct обрабатывает GET /product/{productId}
// Query параметры delay и faultPercent включают искусственные сбои
func (h *ProductHandler) GetProduct(c *gin.Context) {
	productID, err := strconv.Atoi(c.Param("productId"))
	if err != nil {
		h.writeErrorInfo(c, http.StatusBadRequest, "Type mismatch.")
		return
	}

	delay := queryInt(c, "delay", 0)
	faultPercent := queryInt(c, "faultPercent", 0)

	product, err := h.productService.GetProduct(c.Request.Context(), productID, delay, faultPercent)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, product)
}

// writeError переводит доменную ошибку в HTTP статус и тело HttpErrorInfo
func (h *ProductHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		h.writeErrorInfo(c, http.StatusNotFound, errorMessage(err))
	case errors.Is(err, service.ErrInvalidInput):
		h.writeErrorInfo(c, http.StatusUnprocessableEntity, errorMessage(err))
	default:
		h.writeErrorInfo(c, http.StatusInternalServerError, errorMessage(err))
	}
}

func (h *ProductHandler) writeErrorInfo(c *gin.Context, status int, message string) {
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
	for _, sentinel := range []error{service.ErrNotFound, service.ErrInvalidInput} {
		prefix := sentinel.Error() + ": "
		if strings.HasPrefix(msg, prefix) {
			return strings.TrimPrefix(msg, prefix)
		}
	}
	return msg
}

func queryInt(c *gin.Context, name string, defaultValue int) int {
	value := c.Query(name)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
