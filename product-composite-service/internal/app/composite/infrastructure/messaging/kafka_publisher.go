package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"productinfo/pkg/logger"
	"productinfo/pkg/metrics"
	"productinfo/product-composite-service/internal/app/composite/config"
	"productinfo/product-composite-service/internal/app/composite/entity"

	"github.com/segmentio/kafka-go"
)

// Имена исходящих binding-ов composite сервиса
const (
	ProductsBinding        = "products-out-0"
	RecommendationsBinding = "recommendations-out-0"
	ReviewsBinding         = "reviews-out-0"
)

// KafkaEventPublisher отправляет командные события в Kafka
// Каждый binding пишет в собственный топик; ключ сообщения равен productId,
// поэтому все события одного товара попадают в одну партицию и
// обрабатываются консьюмером в порядке публикации
type KafkaEventPublisher struct {
	writers map[string]*kafka.Writer
}

// NewKafkaEventPublisher создает publisher с writer-ом на каждый binding
func NewKafkaEventPublisher(cfg config.KafkaConfig) *KafkaEventPublisher {
	bindings := map[string]string{
		ProductsBinding:        cfg.ProductsTopic,
		RecommendationsBinding: cfg.RecommendationsTopic,
		ReviewsBinding:         cfg.ReviewsTopic,
	}

	writers := make(map[string]*kafka.Writer, len(bindings))
	for binding, topic := range bindings {
		writers[binding] = &kafka.Writer{
			Addr:  kafka.TCP(cfg.Brokers...),
			Topic: topic,
			// Hash балансировка: одинаковый ключ всегда попадает в одну партицию
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchSize:    100,
			BatchTimeout: 10 * time.Millisecond,
		}
	}

	return &KafkaEventPublisher{writers: writers}
}

// Publish сериализует событие и синхронно отправляет его на указанный binding
// Успех означает, что брокер принял сообщение; подтверждения консьюмера не ждем
func (p *KafkaEventPublisher) Publish(ctx context.Context, binding string, event entity.Event) error {
	writer, ok := p.writers[binding]
	if !ok {
		return fmt.Errorf("unknown binding: %s", binding)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	key := strconv.Itoa(event.Key)
	message := kafka.Message{
		Key:   []byte(key),
		Value: payload,
		Time:  time.Now(),
		Headers: []kafka.Header{
			{Key: "partitionKey", Value: []byte(key)},
		},
	}

	logger.Debug().
		Str("binding", binding).
		Str("event_type", string(event.EventType)).
		Int("key", event.Key).
		Msg("Sending event to the message bus")

	timer := metrics.NewKafkaProduceTimer("product-composite", writer.Topic)
	if err := writer.WriteMessages(ctx, message); err != nil {
		timer.Error()
		return fmt.Errorf("failed to write message to kafka: %w", err)
	}
	timer.Success()

	metrics.EventsPublished.WithLabelValues(binding, string(event.EventType)).Inc()
	return nil
}

// Close закрывает все Kafka writer-ы и освобождает ресурсы
func (p *KafkaEventPublisher) Close() error {
	var firstErr error
	for _, writer := range p.writers {
		if err := writer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
