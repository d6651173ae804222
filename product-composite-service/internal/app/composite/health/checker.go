package health

import (
	"context"
	"sync"
	"time"

	"productinfo/pkg/logger"
	"productinfo/product-composite-service/internal/app/composite/entity"
	"productinfo/product-composite-service/internal/app/composite/infrastructure"

	"github.com/robfig/cron/v3"
)

const probeTimeout = 5 * time.Second

// Checker периодически опрашивает health core сервисов и кеширует снимок
// /actuator/health отдает кешированное состояние, не блокируясь на опросах
type Checker struct {
	cron *cron.Cron

	product        infrastructure.ProductServiceClient
	recommendation infrastructure.RecommendationServiceClient
	review         infrastructure.ReviewServiceClient

	mu       sync.RWMutex
	statuses map[string]entity.HealthStatus
}

// NewChecker создает checker с начальным состоянием DOWN для всех сервисов
func NewChecker(
	product infrastructure.ProductServiceClient,
	recommendation infrastructure.RecommendationServiceClient,
	review infrastructure.ReviewServiceClient,
) *Checker {
	return &Checker{
		cron:           cron.New(),
		product:        product,
		recommendation: recommendation,
		review:         review,
		statuses: map[string]entity.HealthStatus{
			"product":        {Status: "DOWN", Cause: "not probed yet"},
			"recommendation": {Status: "DOWN", Cause: "not probed yet"},
			"review":         {Status: "DOWN", Cause: "not probed yet"},
		},
	}
}

// Start выполняет первичный опрос и запускает расписание
func (c *Checker) Start(ctx context.Context, schedule string) error {
	_, err := c.cron.AddFunc(schedule, func() {
		c.probeAll(ctx)
	})
	if err != nil {
		return err
	}

	c.probeAll(ctx)
	c.cron.Start()

	logger.Info().Str("schedule", schedule).Msg("Health checker started")
	return nil
}

// Stop останавливает расписание и дожидается текущего опроса
func (c *Checker) Stop() {
	stopCtx := c.cron.Stop()
	<-stopCtx.Done()
	logger.Info().Msg("Health checker stopped")
}

// Snapshot возвращает последнее известное состояние
// Composite считается UP: если процесс отвечает, он жив
func (c *Checker) Snapshot() entity.HealthResponse {
	c.mu.RLock()
	defer c.mu.RUnlock()

	services := make(map[string]entity.HealthStatus, len(c.statuses))
	for name, status := range c.statuses {
		services[name] = status
	}

	return entity.HealthResponse{
		Status:   "UP",
		Services: services,
	}
}

// probeAll опрашивает три core сервиса параллельно
func (c *Checker) probeAll(ctx context.Context) {
	probes := map[string]func(context.Context) error{
		"product":        c.product.Health,
		"recommendation": c.recommendation.Health,
		"review":         c.review.Health,
	}

	var wg sync.WaitGroup
	wg.Add(len(probes))

	for name, probe := range probes {
		go func(name string, probe func(context.Context) error) {
			defer wg.Done()

			probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
			defer cancel()

			status := entity.HealthStatus{Status: "UP"}
			if err := probe(probeCtx); err != nil {
				status = entity.HealthStatus{Status: "DOWN", Cause: err.Error()}
				logger.Warn().Str("target", name).Err(err).Msg("Health probe failed")
			}

			c.mu.Lock()
			c.statuses[name] = status
			c.mu.Unlock()
		}(name, probe)
	}

	wg.Wait()
}
