package entity

import (
	"encoding/json"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product документ товара в MongoDB
type Product struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	ProductID      int                `bson:"product_id" json:"productId"`
	Name           string             `bson:"name" json:"name"`
	Weight         int                `bson:"weight" json:"weight"`
	ServiceAddress string             `bson:"-" json:"serviceAddress,omitempty"`
	CreatedAt      time.Time          `bson:"created_at" json:"-"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"-"`
}

// EventType тип события из шины
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventDelete EventType = "DELETE"
)

// Event входящее событие из Kafka. Data остается сырым JSON
// до момента обработки, так как payload зависит от типа события.
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
