package scheduler_test

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/central-university-dev/homework-bot/internal/scheduler"
)

type fakeRunner struct {
	calls     atomic.Int32
	running   atomic.Int32
	overlaps  atomic.Int32
	cancelled atomic.Bool
	work      func(ctx context.Context)
}

func (r *fakeRunner) RunCycle(ctx context.Context) {
	if r.running.Add(1) > 1 {
		r.overlaps.Add(1)
	}
	defer r.running.Add(-1)

	r.calls.Add(1)

	if r.work != nil {
		r.work(ctx)
	}

	if ctx.Err() != nil {
		r.cancelled.Store(true)
	}
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_RunsCyclesRepeatedly(t *testing.T) {
	runner := &fakeRunner{}

	s := scheduler.NewScheduler(runner, 20*time.Millisecond, newTestLogger())
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return runner.calls.Load() >= 3
	}, 2*time.Second, 5*time.Millisecond)
}

func TestScheduler_FirstCycleRunsImmediately(t *testing.T) {
	runner := &fakeRunner{}

	s := scheduler.NewScheduler(runner, time.Hour, newTestLogger())
	require.NoError(t, s.Start(context.Background()))
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return runner.calls.Load() == 1
	}, time.Second, 5*time.Millisecond)
}

func TestScheduler_CyclesNeverOverlap(t *testing.T) {
	runner := &fakeRunner{
		work: func(context.Context) {
			time.Sleep(60 * time.Millisecond)
		},
	}

	s := scheduler.NewScheduler(runner, 10*time.Millisecond, newTestLogger())
	require.NoError(t, s.Start(context.Background()))

	assert.Eventually(t, func() bool {
		return runner.calls.Load() >= 2
	}, 2*time.Second, 5*time.Millisecond)

	s.Stop()

	assert.Zero(t, runner.overlaps.Load())
}

func TestScheduler_StopCancelsRunningCycle(t *testing.T) {
	started := make(chan struct{})

	runner := &fakeRunner{
		work: func(ctx context.Context) {
			close(started)

			select {
			case <-ctx.Done():
			case <-time.After(5 * time.Second):
			}
		},
	}

	s := scheduler.NewScheduler(runner, time.Hour, newTestLogger())
	require.NoError(t, s.Start(context.Background()))

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("cycle did not start")
	}

	s.Stop()

	assert.Eventually(t, runner.cancelled.Load, time.Second, 5*time.Millisecond)
}

func TestScheduler_RejectsNonPositiveInterval(t *testing.T) {
	runner := &fakeRunner{}

	s := scheduler.NewScheduler(runner, 0, newTestLogger())

	require.Error(t, s.Start(context.Background()))
	assert.Zero(t, runner.calls.Load())
}
