package entity

// CreateAggregateRequest тело POST /product-composite
type CreateAggregateRequest struct {
	ProductID       int                     `json:"productId" validate:"required,gte=1"`
	Name            string                  `json:"name" validate:"required"`
	Weight          int                     `json:"weight" validate:"gte=0"`
	Recommendations []RecommendationSummary `json:"recommendations" validate:"omitempty,dive"`
	Reviews         []ReviewSummary         `json:"reviews" validate:"omitempty,dive"`
}

// HealthStatus состояние одного сервиса для /actuator/health
type HealthStatus struct {
	Status string `json:"status"` // UP или DOWN
	Cause  string `json:"cause,omitempty"`
}

// HealthResponse агрегированное состояние composite и core сервисов
type HealthResponse struct {
	Status   string                  `json:"status"`
	Services map[string]HealthStatus `json:"services"`
}
