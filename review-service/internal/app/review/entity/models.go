package entity

import (
	"encoding/json"
	"time"
)

// Review строка отзыва в PostgreSQL.
// Пара productId/reviewId уникальна на уровне схемы.
type Review struct {
	ID             uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	ProductID      int       `json:"productId" gorm:"column:product_id;not null;uniqueIndex:reviews_unique_ix,priority:1"`
	ReviewID       int       `json:"reviewId" gorm:"column:review_id;not null;uniqueIndex:reviews_unique_ix,priority:2"`
	Author         string    `json:"author" gorm:"type:varchar(255)"`
	Subject        string    `json:"subject" gorm:"type:varchar(255)"`
	Content        string    `json:"content" gorm:"type:text"`
	ServiceAddress string    `json:"serviceAddress,omitempty" gorm:"-"`
	CreatedAt      time.Time `json:"-" gorm:"autoCreateTime"`
	UpdatedAt      time.Time `json:"-" gorm:"autoUpdateTime"`
}

func (Review) TableName() string {
	return "reviews"
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
