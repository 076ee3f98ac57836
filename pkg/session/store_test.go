package session

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/aspirant/pkg/session/mocks"
)

func TestManager_StoreErrors(t *testing.T) {
	ctx := context.Background()
	store := &mocks.StoreMock{
		GetFunc:    func(ctx context.Context, key string) (string, bool, error) { return "", false, errors.New("db locked") },
		SetFunc:    func(ctx context.Context, key, value string) error { return nil },
		RemoveFunc: func(ctx context.Context, key string) error { return nil },
	}
	m := NewManager(store, Limits{})

	_, err := m.Register(ctx, "x", "x@example.com", "secret1")
	assert.Equal(t, KindRegistry, KindOf(err))
	_, err = m.Login(ctx, "x@example.com", "secret1")
	assert.Equal(t, KindUnknown, KindOf(err))
	require.Error(t, m.Restore(ctx))

	store.GetFunc = func(ctx context.Context, key string) (string, bool, error) { return "{broken", true, nil }
	require.Error(t, m.Restore(ctx))
	_, err = m.Login(ctx, "x@example.com", "secret1")
	assert.Equal(t, KindUnknown, KindOf(err))
}

func TestManager_PersistFailureStillActivates(t *testing.T) {
	ctx := context.Background()
	store := &mocks.StoreMock{
		GetFunc: func(ctx context.Context, key string) (string, bool, error) { return "", false, nil },
		SetFunc: func(ctx context.Context, key, value string) error {
			if key == keyCurrent {
				return errors.New("read-only")
			}
			return nil
		},
	}
	m := NewManager(store, Limits{})
	_, err := m.Register(ctx, "x", "x@example.com", "secret1")
	require.NoError(t, err)
	assert.NotNil(t, m.Current())
}
