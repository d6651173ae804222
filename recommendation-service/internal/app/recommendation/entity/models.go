package entity

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recommendation документ рекомендации в MongoDB
type Recommendation struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ProductID        int                `bson:"product_id" json:"productId"`
	RecommendationID int                `bson:"recommendation_id" json:"recommendationId"`
	Author           string             `bson:"author" json:"author"`
	Rate             int                `bson:"rate" json:"rate"`
	Content          string             `bson:"content" json:"content"`
	ServiceAddress   string             `bson:"-" json:"serviceAddress,omitempty"`
	CreatedAt        time.Time          `bson:"created_at" json:"-"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"-"`
}

// EventType тип события из шины
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventDelete EventType = "DELETE"
)

// Event входящее событие из Kafka
type Event struct {
	EventType      EventType       `json:"eventType"`
	Key            int             `json:"key"`
	Data           json.RawMessage `json:"data"`
	EventCreatedAt time.Time       `json:"eventCreatedAt"`
}

// HttpErrorInfo тело ошибки HTTP API
type HttpErrorInfo struct {
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
	Status    int    `json:"status"`
	Message   string `json:"message"`
}
