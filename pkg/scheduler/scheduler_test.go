package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/aspirant/pkg/scheduler/mocks"
)

func TestScheduler_StartStop(t *testing.T) {
	warmer := &mocks.WarmerMock{
		WarmFunc: func(ctx context.Context) (int, error) {
			_, ok := ctx.Deadline()
			assert.True(t, ok, "run has a timeout")
			return 10, nil
		},
	}
	s, err := New(warmer, "@every 1h", time.Second)
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))

	require.Eventually(t, func() bool { return len(warmer.WarmCalls()) == 1 }, time.Second, 10*time.Millisecond,
		"first warm-up runs right after start")
	s.Stop()
	assert.Len(t, warmer.WarmCalls(), 1)
}

func TestScheduler_StopCancelsRun(t *testing.T) {
	started := make(chan struct{})
	warmer := &mocks.WarmerMock{
		WarmFunc: func(ctx context.Context) (int, error) {
			close(started)
			<-ctx.Done()
			return 0, ctx.Err()
		},
	}
	s, err := New(warmer, "*/5 * * * *", time.Hour)
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	<-started

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stop did not cancel running warm-up")
	}
}

func TestScheduler_WarmFailureLogged(t *testing.T) {
	warmer := &mocks.WarmerMock{
		WarmFunc: func(ctx context.Context) (int, error) { return 0, errors.New("all feeds down") },
	}
	s, err := New(warmer, "@every 1h", 0)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, s.timeout)
	s.warm(context.Background())
	assert.Len(t, warmer.WarmCalls(), 1)
}

func TestNew_BadSpec(t *testing.T) {
	_, err := New(&mocks.WarmerMock{}, "sometimes", time.Second)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `parse schedule "sometimes"`)
}
