package messaging

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishScheduler_RunsSubmittedJobs(t *testing.T) {
	s := NewPublishScheduler(2)
	defer s.Stop()

	var ran atomic.Bool
	err := s.Submit(context.Background(), func(ctx context.Context) error {
		ran.Store(true)
		return nil
	})

	assert.NoError(t, err)
	assert.True(t, ran.Load())
}

func TestPublishScheduler_ReturnsJobError(t *testing.T) {
	s := NewPublishScheduler(1)
	defer s.Stop()

	jobErr := errors.New("broker unavailable")
	err := s.Submit(context.Background(), func(ctx context.Context) error {
		return jobErr
	})

	assert.ErrorIs(t, err, jobErr)
}

func TestPublishScheduler_ConcurrentSubmits(t *testing.T) {
	s := NewPublishScheduler(4)
	defer s.Stop()

	var completed atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.Submit(context.Background(), func(ctx context.Context) error {
				completed.Add(1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}

	wg.Wait()
	assert.Equal(t, int32(50), completed.Load())
}

func TestPublishScheduler_CanceledContextSkipsStart(t *testing.T) {
	s := NewPublishScheduler(1)
	defer s.Stop()

	// Занимаем единственного воркера
	release := make(chan struct{})
	go s.Submit(context.Background(), func(ctx context.Context) error {
		<-release
		return nil
	})
	time.Sleep(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Submit(ctx, func(ctx context.Context) error {
		t.Error("job must not start after caller cancellation")
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	close(release)
}

func TestPublishScheduler_InFlightJobSurvivesCallerCancellation(t *testing.T) {
	s := NewPublishScheduler(1)
	defer s.Stop()

	started := make(chan struct{})
	var sawCancel atomic.Bool

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- s.Submit(ctx, func(jobCtx context.Context) error {
			close(started)
			time.Sleep(30 * time.Millisecond)
			// Контекст задачи отвязан от отмены вызывающей стороны
			sawCancel.Store(jobCtx.Err() != nil)
			return nil
		})
	}()

	<-started
	cancel()

	require.NoError(t, <-done)
	assert.False(t, sawCancel.Load())
}

func TestPublishScheduler_SubmitAfterStop(t *testing.T) {
	s := NewPublishScheduler(1)
	s.Stop()

	err := s.Submit(context.Background(), func(ctx context.Context) error {
		return nil
	})

	assert.ErrorIs(t, err, ErrSchedulerStopped)
}

func TestPublishScheduler_StopIsIdempotent(t *testing.T) {
	s := NewPublishScheduler(2)
	s.Stop()
	s.Stop()
}
