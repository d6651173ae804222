package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"productinfo/recommendation-service/internal/app/recommendation/entity"
	"productinfo/recommendation-service/internal/app/recommendation/service"

	"github.com/gin-gonic/gin"
)

// RecommendationHandler обрабатывает HTTP запросы сервиса рекомендаций
type RecommendationHandler struct {
	recommendationService service.RecommendationService
}

func NewRecommendationHandler(recommendationService service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
	}
}

// GetRecommendations обрабатывает GET /recommendation?productId={id}
// Товар без рекомендаций дает пустой список (200)
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	productID, err := strconv.Atoi(c.Query("productId"))
	if err != nil {
		h.writeErrorInfo(c, http.StatusBadRequest, "Required int parameter 'productId' is not present")
		return
	}

	recommendations, err := h.recommendationService.GetRecommendations(c.Request.Context(), productID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	if recommendations == nil {
		recommendations = []entity.Recommendation{}
	}

	c.JSON(http.StatusOK, recommendations)
}

// writeError переводит доменную ошибку в HTTP статус и тело HttpErrorInfo
func (h *RecommendationHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		h.writeErrorInfo(c, http.StatusUnprocessableEntity, errorMessage(err))
	default:
		h.writeErrorInfo(c, http.StatusInternalServerError, errorMessage(err))
	}
}

func (h *RecommendationHandler) writeErrorInfo(c *gin.Context, status int, message string) {
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
