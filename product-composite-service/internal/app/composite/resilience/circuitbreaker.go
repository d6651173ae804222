package resilience

import (
	"errors"
	"sync"
	"time"

	"productinfo/pkg/logger"
	"productinfo/pkg/metrics"
)

// ErrCircuitOpen возвращается когда breaker открыт и вызов отклонен без выполнения
var ErrCircuitOpen = errors.New("call not permitted, circuit breaker is open")

// State состояние circuit breaker
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Settings параметры circuit breaker
type Settings struct {
	WindowSize       int           // Размер скользящего окна последних вызовов
	FailureThreshold float64       // Доля отказов в процентах, открывающая breaker
	OpenDuration     time.Duration // Время нахождения в OPEN до пробных вызовов
	HalfOpenCalls    int           // Число пробных вызовов в HALF_OPEN
}

// CircuitBreaker защищает обязательный вызов от каскадных отказов
//
// CLOSED: вызовы проходят, исходы пишутся в кольцевое окно; при доле отказов
// >= порога на полном окне breaker открывается.
// OPEN: вызовы отклоняются с ErrCircuitOpen; по истечении OpenDuration
// следующий вызов переводит breaker в HALF_OPEN.
// HALF_OPEN: допускается до HalfOpenCalls пробных вызовов; все успешны ->
// CLOSED, любой отказ -> OPEN.
//
// Состояние разделяется между горутинами запросов; мутации выполняются
// под коротким критическим участком, без блокировки на время самого вызова
type CircuitBreaker struct {
	name     string
	settings Settings

	mu     sync.Mutex
	state  State
	window []bool // true = отказ
	head   int
	filled int
	fails  int

	openedAt time.Time

	halfOpenPermits   int
	halfOpenSuccesses int

	now func() time.Time
}

// NewCircuitBreaker создает breaker в состоянии CLOSED
func NewCircuitBreaker(name string, settings Settings) *CircuitBreaker {
	if settings.WindowSize < 1 {
		settings.WindowSize = 1
	}
	if settings.HalfOpenCalls < 1 {
		settings.HalfOpenCalls = 1
	}

	cb := &CircuitBreaker{
		name:     name,
		settings: settings,
		window:   make([]bool, settings.WindowSize),
		now:      time.Now,
	}
	metrics.CircuitBreakerState.WithLabelValues("product-composite", name).Set(float64(StateClosed))
	return cb
}

// Allow решает, можно ли выполнить вызов
// Возвращает ErrCircuitOpen если breaker открыт или пробные слоты исчерпаны
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		return nil
	case StateOpen:
		if cb.now().Sub(cb.openedAt) < cb.settings.OpenDuration {
			return ErrCircuitOpen
		}
		cb.transition(StateHalfOpen)
		cb.halfOpenPermits = cb.settings.HalfOpenCalls - 1
		cb.halfOpenSuccesses = 0
		return nil
	case StateHalfOpen:
		if cb.halfOpenPermits < 1 {
			return ErrCircuitOpen
		}
		cb.halfOpenPermits--
		return nil
	default:
		return nil
	}
}

// Record фиксирует исход разрешенного вызова
// NotFound/InvalidInput считаются успехами на уровне вызывающего кода
func (cb *CircuitBreaker) Record(success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.push(!success)
		if cb.filled >= cb.settings.WindowSize && cb.failureRate() >= cb.settings.FailureThreshold {
			cb.trip()
		}
	case StateHalfOpen:
		if !success {
			cb.trip()
			return
		}
		cb.halfOpenSuccesses++
		if cb.halfOpenSuccesses >= cb.settings.HalfOpenCalls {
			cb.reset()
			cb.transition(StateClosed)
		}
	case StateOpen:
		// Поздний результат вызова, разрешенного до открытия; окно уже сброшено
	}
}

// CurrentState возвращает текущее состояние (для health и тестов)
func (cb *CircuitBreaker) CurrentState() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) push(failure bool) {
	if cb.filled == cb.settings.WindowSize {
		if cb.window[cb.head] {
			cb.fails--
		}
	} else {
		cb.filled++
	}

	cb.window[cb.head] = failure
	if failure {
		cb.fails++
	}
	cb.head = (cb.head + 1) % cb.settings.WindowSize
}

func (cb *CircuitBreaker) failureRate() float64 {
	if cb.filled == 0 {
		return 0
	}
	return float64(cb.fails) / float64(cb.filled) * 100
}

func (cb *CircuitBreaker) trip() {
	cb.reset()
	cb.openedAt = cb.now()
	cb.transition(StateOpen)
}

func (cb *CircuitBreaker) reset() {
	for i := range cb.window {
		cb.window[i] = false
	}
	cb.head = 0
	cb.filled = 0
	cb.fails = 0
	cb.halfOpenPermits = 0
	cb.halfOpenSuccesses = 0
}

func (cb *CircuitBreaker) transition(to State) {
	from := cb.state
	cb.state = to

	logger.Warn().
		Str("breaker", cb.name).
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("Circuit breaker state transition")

	metrics.CircuitBreakerTransitions.WithLabelValues("product-composite", cb.name, from.String(), to.String()).Inc()
	metrics.CircuitBreakerState.WithLabelValues("product-composite", cb.name).Set(float64(to))
}
