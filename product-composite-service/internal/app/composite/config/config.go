package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server     ServerConfig
	JWT        JWTConfig
	Kafka      KafkaConfig
	Services   ServicesConfig
	Resilience ResilienceConfig
	Health     HealthConfig
}

type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8080)
}

type JWTConfig struct {
	Secret string // Секретный ключ для проверки JWT токенов (должен совпадать с auth сервером)
}

type KafkaConfig struct {
	Brokers              []string // Список брокеров Kafka (формат: host:port)
	ProductsTopic        string   // Топик команд product (binding products-out-0)
	RecommendationsTopic string   // Топик команд recommendation (binding recommendations-out-0)
	ReviewsTopic         string   // Топик команд review (binding reviews-out-0)
	PublisherPoolSize    int      // Размер пула горутин для публикации событий
}

// ServiceEndpoint адрес одного core сервиса
// По умолчанию используются логические имена хостов (резолвятся платформой)
type ServiceEndpoint struct {
	Host string
	Port string
}

func (e ServiceEndpoint) BaseURL() string {
	return "http://" + e.Host + ":" + e.Port
}

type ServicesConfig struct {
	Product        ServiceEndpoint
	Recommendation ServiceEndpoint
	Review         ServiceEndpoint
}

// ResilienceConfig настройки защиты обязательного вызова product GET
type ResilienceConfig struct {
	RetryMaxAttempts int           // Общее число попыток (включая первую)
	RetryWait        time.Duration // Фиксированная пауза между попытками
	Timeout          time.Duration // Дедлайн одной попытки

	BreakerWindowSize       int           // Скользящее окно последних вызовов
	BreakerFailureThreshold float64       // Доля отказов для открытия (0..100)
	BreakerOpenDuration     time.Duration // Длительность состояния OPEN
	BreakerHalfOpenCalls    int           // Разрешенные пробные вызовы в HALF_OPEN
}

type HealthConfig struct {
	Schedule string // Расписание опроса health core сервисов (формат robfig/cron)
}

func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8080"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		},
		Kafka: KafkaConfig{
			Brokers:              []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			ProductsTopic:        getEnv("KAFKA_PRODUCTS_TOPIC", "products"),
			RecommendationsTopic: getEnv("KAFKA_RECOMMENDATIONS_TOPIC", "recommendations"),
			ReviewsTopic:         getEnv("KAFKA_REVIEWS_TOPIC", "reviews"),
			PublisherPoolSize:    getEnvInt("KAFKA_PUBLISHER_POOL_SIZE", 10),
		},
		Services: ServicesConfig{
			Product: ServiceEndpoint{
				Host: getEnv("PRODUCT_SERVICE_HOST", "product"),
				Port: getEnv("PRODUCT_SERVICE_PORT", "8081"),
			},
			Recommendation: ServiceEndpoint{
				Host: getEnv("RECOMMENDATION_SERVICE_HOST", "recommendation"),
				Port: getEnv("RECOMMENDATION_SERVICE_PORT", "8082"),
			},
			Review: ServiceEndpoint{
				Host: getEnv("REVIEW_SERVICE_HOST", "review"),
				Port: getEnv("REVIEW_SERVICE_PORT", "8083"),
			},
		},
		Resilience: ResilienceConfig{
			RetryMaxAttempts: getEnvInt("RESILIENCE_RETRY_MAX_ATTEMPTS", 3),
			RetryWait:        getEnvDuration("RESILIENCE_RETRY_WAIT_DURATION", 500*time.Millisecond),
			Timeout:          getEnvDuration("RESILIENCE_TIMELIMITER_TIMEOUT", 2*time.Second),

			BreakerWindowSize:       getEnvInt("RESILIENCE_CB_SLIDING_WINDOW_SIZE", 20),
			BreakerFailureThreshold: getEnvFloat("RESILIENCE_CB_FAILURE_RATE_THRESHOLD", 50),
			BreakerOpenDuration:     getEnvDuration("RESILIENCE_CB_WAIT_DURATION_IN_OPEN_STATE", 10*time.Second),
			BreakerHalfOpenCalls:    getEnvInt("RESILIENCE_CB_PERMITTED_CALLS_IN_HALF_OPEN", 3),
		},
		Health: HealthConfig{
			Schedule: getEnv("HEALTH_CHECK_SCHEDULE", "@every 30s"),
		},
	}, nil
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
