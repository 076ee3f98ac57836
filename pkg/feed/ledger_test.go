package feed_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/go-pkgz/lgr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/aspirant/pkg/feed"
	"github.com/umputun/aspirant/pkg/feed/mocks"
)

func TestLedger_MarkAndHas(t *testing.T) {
	l := feed.NewLedger(nil, "u1", lgr.NoOp)
	ctx := context.Background()

	assert.Equal(t, 2, l.Mark(ctx, "a", "b"))
	assert.Equal(t, 1, l.Mark(ctx, "b", "c", ""), "b already there, empty id skipped")
	assert.Equal(t, 0, l.Mark(ctx, "a"))
	assert.True(t, l.Has("a"))
	assert.False(t, l.Has("z"))
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, []string{"a", "b", "c"}, l.IDs())

	l.Clear(ctx)
	assert.Equal(t, 0, l.Len())
	assert.False(t, l.Has("a"))
}

func TestLedger_Persistence(t *testing.T) {
	ctx := context.Background()
	var mu sync.Mutex
	stored := map[string]string{"viewed_u1": `["x","y","x"]`}
	store := &mocks.StoreMock{
		GetFunc: func(ctx context.Context, key string) (string, bool, error) {
			mu.Lock()
			defer mu.Unlock()
			v, ok := stored[key]
			return v, ok, nil
		},
		SetFunc: func(ctx context.Context, key, value string) error {
			mu.Lock()
			defer mu.Unlock()
			stored[key] = value
			return nil
		},
		RemoveFunc: func(ctx context.Context, key string) error {
			mu.Lock()
			defer mu.Unlock()
			delete(stored, key)
			return nil
		},
	}

	l := feed.NewLedger(store, "u1", lgr.NoOp)
	require.NoError(t, l.Load(ctx))
	assert.Equal(t, []string{"x", "y"}, l.IDs(), "duplicates dropped on load")

	assert.Equal(t, 1, l.Mark(ctx, "z"))
	require.Len(t, store.SetCalls(), 1)
	assert.Equal(t, "viewed_u1", store.SetCalls()[0].Key)
	assert.JSONEq(t, `["x","y","z"]`, stored["viewed_u1"])

	assert.Equal(t, 0, l.Mark(ctx, "z"))
	assert.Len(t, store.SetCalls(), 1, "no write when nothing added")

	other := feed.NewLedger(store, "u2", lgr.NoOp)
	require.NoError(t, other.Load(ctx))
	assert.Equal(t, 0, other.Len(), "ledger is scoped per user")

	l.Clear(ctx)
	require.Len(t, store.RemoveCalls(), 1)
	_, ok := stored["viewed_u1"]
	assert.False(t, ok)
}

func TestLedger_StoreFailures(t *testing.T) {
	ctx := context.Background()

	t.Run("load error", func(t *testing.T) {
		store := &mocks.StoreMock{
			GetFunc: func(ctx context.Context, key string) (string, bool, error) {
				return "", false, errors.New("db down")
			},
		}
		l := feed.NewLedger(store, "u1", lgr.NoOp)
		err := l.Load(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db down")
	})

	t.Run("corrupted value", func(t *testing.T) {
		store := &mocks.StoreMock{
			GetFunc: func(ctx context.Context, key string) (string, bool, error) {
				return "{not json", true, nil
			},
		}
		l := feed.NewLedger(store, "u1", lgr.NoOp)
		require.Error(t, l.Load(ctx))
		assert.Equal(t, 0, l.Len())
	})

	t.Run("write errors stay internal", func(t *testing.T) {
		store := &mocks.StoreMock{
			SetFunc: func(ctx context.Context, key, value string) error {
				return errors.New("disk full")
			},
			RemoveFunc: func(ctx context.Context, key string) error {
				return errors.New("disk full")
			},
		}
		l := feed.NewLedger(store, "u1", lgr.NoOp)
		assert.Equal(t, 2, l.Mark(ctx, "a", "b"))
		assert.True(t, l.Has("a"), "in-memory set stays authoritative")
		l.Clear(ctx)
		assert.Equal(t, 0, l.Len())
		assert.Len(t, store.RemoveCalls(), 1)
	})
}
