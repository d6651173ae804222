package messaging

import (
	"context"
	"errors"
	"sync"
)

// ErrSchedulerStopped возвращается при отправке задач после остановки пула
var ErrSchedulerStopped = errors.New("publish scheduler stopped")

type publishJob struct {
	ctx    context.Context
	fn     func(ctx context.Context) error
	result chan error
}

// PublishScheduler ограниченный пул горутин для публикации событий в шину
// Обработчики HTTP запросов никогда не блокируются на I/O шины напрямую:
// отправка выполняется воркером пула, вызывающая сторона только ждет результат
type PublishScheduler struct {
	jobs chan publishJob
	quit chan struct{}
	wg   sync.WaitGroup
	once sync.Once
}

// NewPublishScheduler создает пул из workers горутин
func NewPublishScheduler(workers int) *PublishScheduler {
	if workers < 1 {
		workers = 1
	}

	s := &PublishScheduler{
		jobs: make(chan publishJob),
		quit: make(chan struct{}),
	}

	s.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go s.worker()
	}

	return s
}

func (s *PublishScheduler) worker() {
	defer s.wg.Done()
	for {
		select {
		case job := <-s.jobs:
			// Начатая отправка доводится до конца даже если клиент отключился:
			// событие либо принято шиной, либо нет, полуотправленных состояний не бывает
			job.result <- job.fn(context.WithoutCancel(job.ctx))
		case <-s.quit:
			return
		}
	}
}

// Submit передает задачу пулу и ждет ее завершения
// Если вызывающий контекст отменен до начала выполнения, задача не стартует;
// если отменен во время выполнения, отправка завершается в фоне
func (s *PublishScheduler) Submit(ctx context.Context, fn func(ctx context.Context) error) error {
	job := publishJob{
		ctx:    ctx,
		fn:     fn,
		result: make(chan error, 1),
	}

	select {
	case s.jobs <- job:
	case <-s.quit:
		return ErrSchedulerStopped
	case <-ctx.Done():
		return ctx.Err()
	}

	return <-job.result
}

// Stop останавливает прием задач и дожидается завершения воркеров
func (s *PublishScheduler) Stop() {
	s.once.Do(func() {
		close(s.quit)
		s.wg.Wait()
	})
}
