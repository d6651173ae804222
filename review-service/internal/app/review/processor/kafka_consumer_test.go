package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"productinfo/review-service/internal/app/review/entity"
	"productinfo/review-service/internal/app/review/service"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockReviewService struct {
	mock.Mock
}

func (m *mockReviewService) GetReviews(ctx context.Context, productID int) ([]entity.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Review), args.Error(1)
}

func (m *mockReviewService) CreateReview(ctx context.Context, review *entity.Review) (*entity.Review, error) {
	args := m.Called(ctx, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Review), args.Error(1)
}

func (m *mockReviewService) DeleteReviews(ctx context.Context, productID int) error {
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

func newTestConsumer(svc service.ReviewService) *KafkaConsumer {
	return &KafkaConsumer{
		reviewSvc: svc,
		topic:     "reviews",
		groupID:   "review-service",
	}
}

func TestProcessMessage_CreateEvent(t *testing.T) {
	svc := new(mockReviewService)
	svc.On("CreateReview", mock.Anything, mock.AnythingOfType("*entity.Review")).
		Return(&entity.Review{ProductID: 1, ReviewID: 2}, nil)

	consumer := newTestConsumer(svc)
	msg := eventMessage(t, entity.EventCreate, 1, entity.Review{
		ProductID: 1,
		ReviewID:  2,
		Author:    "author 2",
		Subject:   "subject 2",
		Content:   "content 2",
	})

	err := consumer.processMessage(context.Background(), msg)

	assert.NoError(t, err)
	svc.AssertCalled(t, "CreateReview", mock.Anything, mock.MatchedBy(func(r *entity.Review) bool {
		return r.ProductID == 1 && r.ReviewID == 2 && r.Subject == "subject 2"
	}))
}

func TestProcessMessage_DuplicateCreateIsSkipped(t *testing.T) {
	svc := new(mockReviewService)
	svc.On("CreateReview", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: Duplicate key, Product Id: 1, Review Id: 2", service.ErrInvalidInput))

	consumer := newTestConsumer(svc)
	msg := eventMessage(t, entity.EventCreate, 1, entity.Review{ProductID: 1, ReviewID: 2})

	// Дубликат не должен блокировать коммит offset
	err := consumer.processMessage(context.Background(), msg)

	assert.NoError(t, err)
}

func TestProcessMessage_CreateFailureBlocksCommit(t *testing.T) {
	svc := new(mockReviewService)
	svc.On("CreateReview", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("db unavailable"))

	consumer := newTestConsumer(svc)
	msg := eventMessage(t, entity.EventCreate, 1, entity.Review{ProductID: 1, ReviewID: 2})

	err := consumer.processMessage(context.Background(), msg)

	assert.Error(t, err)
}

func TestProcessMessage_DeleteEvent(t *testing.T) {
	svc := new(mockReviewService)
	svc.On("DeleteReviews", mock.Anything, 1).Return(nil)

	consumer := newTestConsumer(svc)
	msg := eventMessage(t, entity.EventDelete, 1, nil)

	err := consumer.processMessage(context.Background(), msg)

	assert.NoError(t, err)
	svc.AssertCalled(t, "DeleteReviews", mock.Anything, 1)
}

func TestProcessMessage_UnknownEventType(t *testing.T) {
	svc := new(mockReviewService)
	consumer := newTestConsumer(svc)
	msg := eventMessage(t, entity.EventType("UPDATE"), 1, nil)

	err := consumer.processMessage(context.Background(), msg)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "incorrect event type")
	svc.AssertNotCalled(t, "CreateReview", mock.Anything, mock.Anything)
	svc.AssertNotCalled(t, "DeleteReviews", mock.Anything, mock.Anything)
}

func TestProcessMessage_MalformedPayload(t *testing.T) {
	svc := new(mockReviewService)
	consumer := newTestConsumer(svc)

	err := consumer.processMessage(context.Background(), kafka.Message{Value: []byte("not-json")})

	assert.Error(t, err)
}
