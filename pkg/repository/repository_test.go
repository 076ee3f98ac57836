package repository

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *Repositories {
	t.Helper()
	repos, err := NewRepositories(context.Background(), Config{
		DSN:             ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: 30 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, repos.Close()) })
	return repos
}

func TestRepositories_Open(t *testing.T) {
	repos := setupTestDB(t)
	require.NoError(t, repos.Ping(context.Background()))

	var count int
	err := repos.DB.GetContext(context.Background(), &count,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'settings'")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRepositories_FileDB(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "test.db") + "?mode=rwc&_txlock=immediate"
	ctx := context.Background()

	repos, err := NewRepositories(ctx, Config{DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, repos.Setting.Set(ctx, "viewed_u1", `["intel-1"]`))
	require.NoError(t, repos.Close())

	reopened, err := NewRepositories(ctx, Config{DSN: dsn})
	require.NoError(t, err)
	defer reopened.Close()
	val, ok, err := reopened.Setting.Get(ctx, "viewed_u1")
	require.NoError(t, err)
	assert.True(t, ok, "value survives reopen")
	assert.Equal(t, `["intel-1"]`, val)
}

func TestSettingRepository(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()
	s := repos.Setting

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "intent_u1", "preparation"))
	val, ok, err := s.Get(ctx, "intent_u1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "preparation", val)

	require.NoError(t, s.Set(ctx, "intent_u1", "news_track"))
	val, _, err = s.Get(ctx, "intent_u1")
	require.NoError(t, err)
	assert.Equal(t, "news_track", val, "overwritten")

	require.NoError(t, s.Set(ctx, "empty", ""))
	val, ok, err = s.Get(ctx, "empty")
	require.NoError(t, err)
	assert.True(t, ok, "empty value is still present")
	assert.Empty(t, val)

	require.NoError(t, s.Remove(ctx, "intent_u1"))
	_, ok, err = s.Get(ctx, "intent_u1")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, s.Remove(ctx, "intent_u1"), "removing a missing key is fine")
}

func TestSettingRepository_Concurrent(t *testing.T) {
	repos := setupTestDB(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, repos.Setting.Set(ctx, fmt.Sprintf("k%d", i%5), fmt.Sprintf("v%d", i)))
		}(i)
	}
	wg.Wait()

	var count int
	require.NoError(t, repos.DB.GetContext(ctx, &count, "SELECT COUNT(*) FROM settings"))
	assert.Equal(t, 5, count)
}

func TestSettingRepository_ClosedDB(t *testing.T) {
	repos, err := NewRepositories(context.Background(), Config{DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	require.NoError(t, repos.Close())

	err = repos.Setting.Set(context.Background(), "k", "v")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "set setting k")
	_, _, err = repos.Setting.Get(context.Background(), "k")
	require.Error(t, err)
}

func TestWithRetry(t *testing.T) {
	ctx := context.Background()

	t.Run("retries lock errors", func(t *testing.T) {
		calls := 0
		err := withRetry(ctx, func() error {
			calls++
			if calls < 3 {
				return errors.New("database is locked (5) (SQLITE_BUSY)")
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("stops on other errors", func(t *testing.T) {
		calls := 0
		boom := errors.New("constraint failed")
		err := withRetry(ctx, func() error {
			calls++
			return boom
		})
		require.Error(t, err)
		assert.Equal(t, 1, calls)
		assert.ErrorIs(t, err, boom)
	})
}

func TestIsLockError(t *testing.T) {
	assert.False(t, isLockError(nil))
	assert.True(t, isLockError(errors.New("SQLITE_BUSY")))
	assert.True(t, isLockError(errors.New("database table is locked")))
	assert.False(t, isLockError(errors.New("no such table")))
}
