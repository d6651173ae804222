package entity

import (
	"bytes"
	"encoding/json"
	"time"
)

// Product информация о товаре из Product Service
// JSON формат совпадает с контрактом core сервисов
type Product struct {
	ProductID      int    `json:"productId"`
	Name           string `json:"name"`
	Weight         int    `json:"weight"`
	ServiceAddress string `json:"serviceAddress,omitempty"`
}

// Recommendation рекомендация товара из Recommendation Service
type Recommendation struct {
	ProductID        int    `json:"productId"`
	RecommendationID int    `json:"recommendationId"`
	Author           string `json:"author"`
	Rate             int    `json:"rate"`
	Content          string `json:"content"`
	ServiceAddress   string `json:"serviceAddress,omitempty"`
}

// Review отзыв о товаре из Review Service
type Review struct {
	ProductID      int    `json:"productId"`
	ReviewID       int    `json:"reviewId"`
	Author         string `json:"author"`
	Subject        string `json:"subject"`
	Content        string `json:"content"`
	ServiceAddress string `json:"serviceAddress,omitempty"`
}

// RecommendationSummary сокращенная рекомендация в составе агрегата
type RecommendationSummary struct {
	RecommendationID int    `json:"recommendationId"`
	Author           string `json:"author"`
	Rate             int    `json:"rate"`
	Content          string `json:"content,omitempty"`
}

// ReviewSummary сокращенный отзыв в составе агрегата
type ReviewSummary struct {
	ReviewID int    `json:"reviewId"`
	Author   string `json:"author"`
	Subject  string `json:"subject"`
	Content  string `json:"content,omitempty"`
}

// ServiceAddresses адреса всех сервисов, участвовавших в сборке агрегата
type ServiceAddresses struct {
	CompositeAddress      string `json:"cmp"`
	ProductAddress        string `json:"pro"`
	ReviewAddress         string `json:"rev"`
	RecommendationAddress string `json:"rec"`
}

// ProductAggregate комбинированное представление товара
// Списки recommendations/reviews всегда определены, даже если пустые
type ProductAggregate struct {
	ProductID        int                     `json:"productId"`
	Name             string                  `json:"name"`
	Weight           int                     `json:"weight"`
	Recommendations  []RecommendationSummary `json:"recommendations"`
	Reviews          []ReviewSummary         `json:"reviews"`
	ServiceAddresses ServiceAddresses        `json:"serviceAddresses"`
}

// EventType тип команды в шине сообщений
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventDelete EventType = "DELETE"
)

// Event конверт команды для шины сообщений
// CREATE несет данные сущности в Data, DELETE идентифицирует цель только по Key
type Event struct {
	EventType      EventType   `json:"eventType"`
	Key            int         `json:"key"`
	Data           interface{} `json:"data"`
	EventCreatedAt time.Time   `json:"eventCreatedAt"`
}

// NewEvent создает событие с текущей временной меткой
func NewEvent(eventType EventType, key int, data interface{}) Event {
	return Event{
		EventType:      eventType,
		Key:            key,
		Data:           data,
		EventCreatedAt: time.Now(),
	}
}

// SameEventExceptCreatedAt сравнивает два события игнорируя EventCreatedAt
// Data сравнивается через JSON сериализацию, чтобы не зависеть от конкретного типа
func (e Event) SameEventExceptCreatedAt(other Event) bool {
	if e.EventType != other.EventType || e.Key != other.Key {
		return false
	}

	left, err := json.Marshal(e.Data)
	if err != nil {
		return false
	}
	right, err := json.Marshal(other.Data)
	if err != nil {
		return false
	}

	return bytes.Equal(left, right)
}

// HttpErrorInfo тело ошибки, возвращаемое core сервисами
type HttpErrorInfo struct {
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	Message   string `json:"message"`
}
