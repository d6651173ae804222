package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"productinfo/product-composite-service/internal/app/composite/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestAuthenticate_MissingHeader(t *testing.T) {
	svc := new(mockCompositeService)
	router := setupTestRouter(svc)

	w := doRequest(router, http.MethodGet, "/product-composite/1", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	svc := new(mockCompositeService)
	router := setupTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/product-composite/1", nil)
	req.Header.Set("Authorization", "Basic abc")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_InvalidSignature(t *testing.T) {
	svc := new(mockCompositeService)
	router := setupTestRouter(svc)

	claims := JWTClaims{
		Scope: "product:read",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("wrong-secret"))
	require.NoError(t, err)

	w := doRequest(router, http.MethodGet, "/product-composite/1", token, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	svc := new(mockCompositeService)
	router := setupTestRouter(svc)

	claims := JWTClaims{
		Scope: "product:read",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	w := doRequest(router, http.MethodGet, "/product-composite/1", token, nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireScope_InsufficientScope(t *testing.T) {
	svc := new(mockCompositeService)
	router := setupTestRouter(svc)

	// product:read не дает права на DELETE
	token := signToken(t, "product:read")
	w := doRequest(router, http.MethodDelete, "/product-composite/1", token, nil)

	assert.Equal(t, http.StatusForbidden, w.Code)
	svc.AssertNotCalled(t, "DeleteProduct", mock.Anything, mock.Anything)
}

func TestRequireScope_WriteScopeAllowsRead(t *testing.T) {
	svc := new(mockCompositeService)
	svc.On("GetProduct", mock.Anything, 1).
		Return(&entity.ProductAggregate{ProductID: 1, Name: "name-1"}, nil).Maybe()

	router := setupTestRouter(svc)
	token := signToken(t, "product:write")

	w := doRequest(router, http.MethodGet, "/product-composite/1", token, nil)

	assert.NotEqual(t, http.StatusForbidden, w.Code)
	assert.NotEqual(t, http.StatusUnauthorized, w.Code)
}

func TestRequireScope_ScopeAsArray(t *testing.T) {
	svc := new(mockCompositeService)
	svc.On("DeleteProduct", mock.Anything, 1).Return(nil)

	router := setupTestRouter(svc)

	// scope как массив строк тоже поддерживается
	token := signToken(t, []string{"product:read", "product:write"})
	w := doRequest(router, http.MethodDelete, "/product-composite/1", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireScope_SpaceSeparatedScopeString(t *testing.T) {
	svc := new(mockCompositeService)
	svc.On("DeleteProduct", mock.Anything, 1).Return(nil)

	router := setupTestRouter(svc)

	token := signToken(t, "product:read product:write")
	w := doRequest(router, http.MethodDelete, "/product-composite/1", token, nil)

	assert.Equal(t, http.StatusOK, w.Code)
}
