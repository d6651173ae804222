package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"productinfo/product-composite-service/internal/app/composite/entity"
	"productinfo/product-composite-service/internal/app/composite/health"
	"productinfo/product-composite-service/internal/app/composite/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type mockCompositeService struct {
	mock.Mock
}

func (m *mockCompositeService) GetProduct(ctx context.Context, productID int) (*entity.ProductAggregate, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ProductAggregate), args.Error(1)
}

func (m *mockCompositeService) CreateProduct(ctx context.Context, req *entity.CreateAggregateRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *mockCompositeService) DeleteProduct(ctx context.Context, productID int) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

type stubHealthClient struct{ err error }

func (s stubHealthClient) GetProduct(ctx context.Context, productID, delay, faultPercent int) (*entity.Product, error) {
	return nil, nil
}

func (s stubHealthClient) GetRecommendations(ctx context.Context, productID int) ([]entity.Recommendation, error) {
	return nil, nil
}

func (s stubHealthClient) GetReviews(ctx context.Context, productID int) ([]entity.Review, error) {
	return nil, nil
}

func (s stubHealthClient) Health(ctx context.Context) error { return s.err }

func signToken(t *testing.T, scope interface{}) string {
	t.Helper()

	claims := JWTClaims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "test-user",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func setupTestRouter(svc service.ProductCompositeService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	checker := health.NewChecker(stubHealthClient{}, stubHealthClient{}, stubHealthClient{})
	return SetupRoutes(NewCompositeHandler(svc), NewAuthMiddleware(testSecret), checker)
}

func doRequest(router *gin.Engine, method, path, token string, body []byte) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestGetProduct_OK(t *testing.T) {
	svc := new(mockCompositeService)
	svc.On("GetProduct", mock.Anything, 1).Return(&entity.ProductAggregate{
		ProductID:       1,
		Name:            "name 1",
		Weight:          10,
		Recommendations: []entity.RecommendationSummary{},
		Reviews:         []entity.ReviewSummary{},
	}, nil)

	router := setupTestRouter(svc)
	token := signToken(t, "product:read")

	w := doRequest(router, http.MethodGet, "/product-composite/1", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var aggregate entity.ProductAggregate
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &aggregate))
	assert.Equal(t, 1, aggregate.ProductID)
	// Частичный ответ сериализуется как [], не null
	assert.Contains(t, w.Body.String(), `"recommendations":[]`)
	assert.Contains(t, w.Body.String(), `"reviews":[]`)
}

func TestGetProduct_NotFound(t *testing.T) {
	svc := new(mockCompositeService)
	svc.On("GetProduct", mock.Anything, 13).
		Return(nil, fmt.Errorf("%w: Product Id: 13 not found in fallback cache!", service.ErrNotFound))

	router := setupTestRouter(svc)
	token := signToken(t, "product:read")

	w := doRequest(router, http.MethodGet, "/product-composite/13", token, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var errInfo entity.HttpErrorInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errInfo))
	assert.Equal(t, "/product-composite/13", errInfo.Path)
	assert.Equal(t, "Product Id: 13 not found in fallback cache!", errInfo.Message)
}

func TestGetProduct_InvalidInput(t *testing.T) {
	svc := new(mockCompositeService)
	svc.On("GetProduct", mock.Anything, -1).
		Return(nil, fmt.Errorf("%w: Invalid productId: -1", service.ErrInvalidInput))

	router := setupTestRouter(svc)
	token := signToken(t, "product:read")

	w := doRequest(router, http.MethodGet, "/product-composite/-1", token, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetProduct_UpstreamFailureIsBadGateway(t *testing.T) {
	svc := new(mockCompositeService)
	svc.On("GetProduct", mock.Anything, 1).
		Return(nil, fmt.Errorf("%w: status 500", service.ErrUpstream))

	router := setupTestRouter(svc)
	token := signToken(t, "product:read")

	w := doRequest(router, http.MethodGet, "/product-composite/1", token, nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetProduct_TimeoutIsServiceUnavailable(t *testing.T) {
	svc := new(mockCompositeService)
	svc.On("GetProduct", mock.Anything, 1).Return(nil, context.DeadlineExceeded)

	router := setupTestRouter(svc)
	token := signToken(t, "product:read")

	w := doRequest(router, http.MethodGet, "/product-composite/1", token, nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetProduct_NonNumericID(t *testing.T) {
	svc := new(mockCompositeService)
	router := setupTestRouter(svc)
	token := signToken(t, "product:read")

	w := doRequest(router, http.MethodGet, "/product-composite/no-integer", token, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "GetProduct", mock.Anything, mock.Anything)
}

func TestCreateProduct_OK(t *testing.T) {
	svc := new(mockCompositeService)
	svc.On("CreateProduct", mock.Anything, mock.AnythingOfType("*entity.CreateAggregateRequest")).Return(nil)

	router := setupTestRouter(svc)
	token := signToken(t, "product:write")

	body, _ := json.Marshal(entity.CreateAggregateRequest{ProductID: 1, Name: "name 1", Weight: 10})
	w := doRequest(router, http.MethodPost, "/product-composite", token, body)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestCreateProduct_ValidationFailure(t *testing.T) {
	svc := new(mockCompositeService)
	router := setupTestRouter(svc)
	token := signToken(t, "product:write")

	// productId отсутствует
	body, _ := json.Marshal(map[string]interface{}{"name": "name 1"})
	w := doRequest(router, http.MethodPost, "/product-composite", token, body)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	svc.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

func TestDeleteProduct_OK(t *testing.T) {
	svc := new(mockCompositeService)
	svc.On("DeleteProduct", mock.Anything, 1).Return(nil)

	router := setupTestRouter(svc)
	token := signToken(t, "product:write")

	w := doRequest(router, http.MethodDelete, "/product-composite/1", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthEndpointIsPublic(t *testing.T) {
	svc := new(mockCompositeService)
	router := setupTestRouter(svc)

	w := doRequest(router, http.MethodGet, "/actuator/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var health entity.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "UP", health.Status)
}
