package mocks

import (
	"context"

	"productinfo/recommendation-service/internal/app/recommendation/entity"

	"github.com/stretchr/testify/mock"
)

// MockRecommendationRepository мок для RecommendationRepository
type MockRecommendationRepository struct {
	mock.Mock
}

func (m *MockRecommendationRepository) Create(ctx context.Context, recommendation *entity.Recommendation) error {
	args := m.Called(ctx, recommendation)
	return args.Error(0)
}

func (m *MockRecommendationRepository) GetByProductID(ctx context.Context, productID int) ([]entity.Recommendation, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Recommendation), args.Error(1)
}

func (m *MockRecommendationRepository) DeleteByProductID(ctx context.Context, productID int) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}
