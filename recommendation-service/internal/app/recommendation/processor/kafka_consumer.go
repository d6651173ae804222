package processor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"productinfo/pkg/logger"
	"productinfo/pkg/metrics"
	"productinfo/recommendation-service/internal/app/recommendation/entity"
	"productinfo/recommendation-service/internal/app/recommendation/service"

	"github.com/segmentio/kafka-go"
)

// KafkaConsumer обрабатывает командные события из топика рекомендаций
type KafkaConsumer struct {
	reader            *kafka.Reader
	recommendationSvc service.RecommendationService
	topic             string
	groupID           string
	stopChan          chan struct{}
	doneChan          chan struct{}
}

// NewKafkaConsumer создает новый Kafka consumer
func NewKafkaConsumer(
	brokers []string,
	topic string,
	groupID string,
	minBytes int,
	maxBytes int,
	recommendationSvc service.RecommendationService,
) *KafkaConsumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       minBytes,
		MaxBytes:       maxBytes,
		StartOffset:    kafka.FirstOffset,
		ReadBackoffMin: 100 * time.Millisecond,
		ReadBackoffMax: 1 * time.Second,
	})

	return &KafkaConsumer{
		reader:            reader,
		recommendationSvc: recommendationSvc,
		topic:             topic,
		groupID:           groupID,
		stopChan:          make(chan struct{}),
		doneChan:          make(chan struct{}),
	}
}

// Start запускает consumer в отдельной горутине
func (c *KafkaConsumer) Start(ctx context.Context) {
	logger.Info().Str("topic", c.topic).Str("group", c.groupID).Msg("Starting Kafka consumer")
	go c.consume(ctx)
}

// Stop останавливает consumer
func (c *KafkaConsumer) Stop() {
	logger.Info().Msg("Stopping Kafka consumer...")
	close(c.stopChan)
	<-c.doneChan
	c.reader.Close()
	logger.Info().Msg("Kafka consumer stopped")
}

// consume читает и обрабатывает сообщения из Kafka
func (c *KafkaConsumer) consume(ctx context.Context) {
	defer close(c.doneChan)

	for {
		select {
		case <-c.stopChan:
			return
		default:
			readCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			message, err := c.reader.FetchMessage(readCtx)
			cancel()

			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if errors.Is(err, context.DeadlineExceeded) {
					continue
				}
				logger.Error().Err(err).Msg("Error fetching message")
				metrics.RecordKafkaError("recommendation-service", c.topic, "fetch")
				time.Sleep(time.Second)
				continue
			}

			start := time.Now()
			if err := c.processMessage(ctx, message); err != nil {
				// Offset не коммитим - сообщение будет доставлено повторно
				logger.Error().
					Err(err).
					Int64("offset", message.Offset).
					Int("partition", message.Partition).
					Msg("Error processing message")
				metrics.RecordKafkaError("recommendation-service", c.topic, "process")
				continue
			}

			metrics.RecordKafkaMessageConsumed("recommendation-service", c.topic, c.groupID, time.Since(start))

			if err := c.reader.CommitMessages(ctx, message); err != nil {
				logger.Error().Err(err).Msg("Error committing message")
				metrics.RecordKafkaError("recommendation-service", c.topic, "commit")
			}
		}
	}
}

// processMessage обрабатывает одно событие.
// Дубликат CREATE логируется и коммитится, остальные ошибки блокируют коммит.
func (c *KafkaConsumer) processMessage(ctx context.Context, message kafka.Message) error {
	var event entity.Event
	if err := json.Unmarshal(message.Value, &event); err != nil {
		return fmt.Errorf("failed to unmarshal event: %w", err)
	}

	logger.Debug().
		Str("event_type", string(event.EventType)).
		Int("key", event.Key).
		Int64("offset", message.Offset).
		Int("partition", message.Partition).
		Msg("Received event")

	switch event.EventType {
	case entity.EventCreate:
		var recommendation entity.Recommendation
		if err := json.Unmarshal(event.Data, &recommendation); err != nil {
			return fmt.Errorf("failed to unmarshal recommendation data: %w", err)
		}

		if _, err := c.recommendationSvc.CreateRecommendation(ctx, &recommendation); err != nil {
			if errors.Is(err, service.ErrInvalidInput) {
				logger.Warn().
					Int("product_id", recommendation.ProductID).
					Err(err).
					Msg("Skipping create event")
				metrics.EventsProcessed.WithLabelValues("recommendation-service", string(event.EventType), "duplicate").Inc()
				return nil
			}
			metrics.EventsProcessed.WithLabelValues("recommendation-service", string(event.EventType), "failed").Inc()
			return fmt.Errorf("failed to create recommendation: %w", err)
		}

	case entity.EventDelete:
		if err := c.recommendationSvc.DeleteRecommendations(ctx, event.Key); err != nil {
			metrics.EventsProcessed.WithLabelValues("recommendation-service", string(event.EventType), "failed").Inc()
			return fmt.Errorf("failed to delete recommendations: %w", err)
		}

	default:
		metrics.EventsProcessed.WithLabelValues("recommendation-service", string(event.EventType), "failed").Inc()
		return fmt.Errorf("incorrect event type: %s, expected a CREATE or DELETE event", event.EventType)
	}

	metrics.EventsProcessed.WithLabelValues("recommendation-service", string(event.EventType), "success").Inc()
	return nil
}

// GetStats возвращает статистику consumer
func (c *KafkaConsumer) GetStats() kafka.ReaderStats {
	return c.reader.Stats()
}
