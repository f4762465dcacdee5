package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/goleak"
)

type MockExpirer struct {
	mock.Mock
}

func (m *MockExpirer) ExpireStaleProcessing(ctx context.Context, olderThan time.Duration) ([]string, error) {
	args := m.Called(ctx, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type countingPurger struct {
	calls atomic.Int32
}

func (p *countingPurger) PurgeIdle(time.Time) int {
	p.calls.Add(1)
	return 1
}

func TestProcessingTimeoutWorker_Tick(t *testing.T) {
	ctx := context.Background()

	t.Run("expires and purges", func(t *testing.T) {
		m := new(MockExpirer)
		m.On("ExpireStaleProcessing", ctx, 30*time.Minute).Return([]string{"c-1", "c-2"}, nil)
		p := &countingPurger{}

		NewProcessingTimeoutWorker(m, p, 0).tick(ctx)

		m.AssertExpectations(t)
		assert.Equal(t, int32(1), p.calls.Load())
	})

	t.Run("repository error still purges drafts", func(t *testing.T) {
		m := new(MockExpirer)
		m.On("ExpireStaleProcessing", ctx, 10*time.Minute).Return(nil, errors.New("db down"))
		p := &countingPurger{}

		NewProcessingTimeoutWorker(m, p, 10*time.Minute).tick(ctx)

		assert.Equal(t, int32(1), p.calls.Load())
	})

	t.Run("no draft purger", func(t *testing.T) {
		m := new(MockExpirer)
		m.On("ExpireStaleProcessing", ctx, 30*time.Minute).Return([]string{}, nil)

		assert.NotPanics(t, func() { NewProcessingTimeoutWorker(m, nil, 0).tick(ctx) })
	})
}

func TestProcessingTimeoutWorker_StartStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := new(MockExpirer)
	m.On("ExpireStaleProcessing", mock.Anything, 30*time.Minute).Return([]string{}, nil)
	p := &countingPurger{}

	w := NewProcessingTimeoutWorker(m, p, 0)
	w.tickInterval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return p.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
}
