package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"productinfo/review-service/internal/app/review/entity"
	"productinfo/review-service/internal/app/review/service"

	"github.com/gin-gonic/gin"
)

// ReviewHandler обрабатывает HTTP запросы сервиса отзывов
type ReviewHandler struct {
	reviewService service.ReviewService
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// GetReviews обрабатывает GET /review?productId={id}
// Товар без отзывов дает пустой список (200)
func (h *ReviewHandler) GetReviews(c *gin.Context) {
	productID, err := strconv.Atoi(c.Query("productId"))
	if err != nil {
		h.writeErrorInfo(c, http.StatusBadRequest, "Required int parameter 'productId' is not present")
		return
	}

	reviews, err := h.reviewService.GetReviews(c.Request.Context(), productID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if reviews == nil {
		reviews = []entity.Review{}
	}

	c.JSON(http.StatusOK, reviews)
}

// writeError переводит доменную ошибку в HTTP статус и тело HttpErrorInfo
func (h *ReviewHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		h.writeErrorInfo(c, http.StatusUnprocessableEntity, errorMessage(err))
	default:
		h.writeErrorInfo(c, http.StatusInternalServerError, errorMessage(err))
	}
}

func (h *ReviewHandler) writeErrorInfo(c *gin.Context, status int, message string) {
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
	prefix := service.ErrInvalidInput.Error() + ": "
	if strings.HasPrefix(msg, prefix) {
		return strings.TrimPrefix(msg, prefix)
	}
	return msg
}
