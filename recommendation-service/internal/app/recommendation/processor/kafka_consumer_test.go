package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"productinfo/recommendation-service/internal/app/recommendation/entity"
	"productinfo/recommendation-service/internal/app/recommendation/service"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRecommendationService struct {
	mock.Mock
}

func (m *mockRecommendationService) GetRecommendations(ctx context.Context, productID int) ([]entity.Recommendation, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Recommendation), args.Error(1)
}

func (m *mockRecommendationService) CreateRecommendation(ctx context.Context, recommendation *entity.Recommendation) (*entity.Recommendation, error) {
	args := m.Called(ctx, recommendation)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Recommendation), args.Error(1)
}

func (m *mockRecommendationService) DeleteRecommendations(ctx context.Context, productID int) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func eventMessage(t *testing.T, eventType entity.EventType, key int, data interface{}) kafka.Message {
	t.Helper()

	var raw json.RawMessage
	if data != nil {
		encoded, err := json.Marshal(data)
		require.NoError(t, err)
		raw = encoded
	}

	value, err := json.Marshal(entity.Event{
		EventType:      eventType,
		Key:            key,
		Data:           raw,
		EventCreatedAt: time.Now(),
	})
	require.NoError(t, err)

	return kafka.Message{Value: value}
}

func newTestConsumer(svc service.RecommendationService) *KafkaConsumer {
	return &KafkaConsumer{
		recommendationSvc: svc,
		topic:             "recommendations",
		groupID:           "recommendation-service",
	}
}

func TestProcessMessage_CreateEvent(t *testing.T) {
	svc := new(mockRecommendationService)
	svc.On("CreateRecommendation", mock.Anything, mock.AnythingOfType("*entity.Recommendation")).
		Return(&entity.Recommendation{ProductID: 1, RecommendationID: 2}, nil)

	consumer := newTestConsumer(svc)
	msg := eventMessage(t, entity.EventCreate, 1, entity.Recommendation{
		ProductID:        1,
		RecommendationID: 2,
		Author:           "author 2",
		Rate:             3,
		Content:          "content 2",
	})

	err := consumer.processMessage(context.Background(), msg)

	assert.NoError(t, err)
	svc.AssertCalled(t, "CreateRecommendation", mock.Anything, mock.MatchedBy(func(r *entity.Recommendation) bool {
		return r.ProductID == 1 && r.RecommendationID == 2 && r.Author == "author 2"
	}))
}

func TestProcessMessage_DuplicateCreateIsSkipped(t *testing.T) {
	svc := new(mockRecommendationService)
	svc.On("CreateRecommendation", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: Duplicate key, Product Id: 1, Recommendation Id: 2", service.ErrInvalidInput))

	consumer := newTestConsumer(svc)
	msg := eventMessage(t, entity.EventCreate, 1, entity.Recommendation{ProductID: 1, RecommendationID: 2})

	// Дубликат не должен блокировать коммит offset
	err := consumer.processMessage(context.Background(), msg)

	assert.NoError(t, err)
}

func TestProcessMessage_CreateFailureBlocksCommit(t *testing.T) {
	svc := new(mockRecommendationService)
	svc.On("CreateRecommendation", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("db unavailable"))

	consumer := newTestConsumer(svc)
	msg := eventMessage(t, entity.EventCreate, 1, entity.Recommendation{ProductID: 1, RecommendationID: 2})

	err := consumer.processMessage(context.Background(), msg)

	assert.Error(t, err)
}

func TestProcessMessage_DeleteEvent(t *testing.T) {
	svc := new(mockRecommendationService)
	svc.On("DeleteRecommendations", mock.Anything, 1).Return(nil)

	consumer := newTestConsumer(svc)
	msg := eventMessage(t, entity.EventDelete, 1, nil)

	err := consumer.processMessage(context.Background(), msg)

	assert.NoError(t, err)
	svc.AssertCalled(t, "DeleteRecommendations", mock.Anything, 1)
}

func TestProcessMessage_UnknownEventType(t *testing.T) {
	svc := new(mockRecommendationService)
	consumer := newTestConsumer(svc)
	msg := eventMessage(t, entity.EventType("UPDATE"), 1, nil)

	err := consumer.processMessage(context.Background(), msg)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "incorrect event type")
	svc.AssertNotCalled(t, "CreateRecommendation", mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "DeleteRecommendations", mock.Anything, mock.Anything)
}

func TestProcessMessage_MalformedPayload(t *testing.T) {
	svc := new(mockRecommendationService)
	consumer := newTestConsumer(svc)

	err := consumer.processMessage(context.Background(), kafka.Message{Value: []byte("not-json")})

	assert.Error(t, err)
}
