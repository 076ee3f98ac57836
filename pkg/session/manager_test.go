package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/aspirant/pkg/domain"
	"github.com/umputun/aspirant/pkg/repository"
)

func newTestManager(t *testing.T) (*Manager, *repository.Repositories) {
	t.Helper()
	repos, err := repository.NewRepositories(context.Background(), repository.Config{DSN: ":memory:", MaxOpenConns: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return NewManager(repos.Setting, Limits{}), repos
}

type recorder struct {
	mu     sync.Mutex
	events []*domain.Session
}

func (r *recorder) fn(s *domain.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, s)
}

func (r *recorder) get() []*domain.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*domain.Session(nil), r.events...)
}

func TestManager_RegisterLoginLogout(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()

	rec := &recorder{}
	unsubscribe := m.Subscribe(rec.fn)
	require.Len(t, rec.get(), 1, "fires right away")
	assert.Nil(t, rec.get()[0])

	s, err := m.Register(ctx, "Arjun", " Arjun@Example.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "arjun@example.com", s.User.Email)
	assert.Equal(t, "Arjun", s.User.Name)
	assert.Equal(t, domain.DefaultRank, s.User.Rank)
	assert.Len(t, s.User.UID, 28)
	uid := s.User.UID

	m.Logout(ctx)
	assert.Nil(t, m.Current())

	s, err = m.Login(ctx, "arjun@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, uid, s.User.UID, "same account, same uid")

	events := rec.get()
	require.Len(t, events, 4)
	assert.Equal(t, uid, events[1].User.UID)
	assert.Nil(t, events[2])
	assert.Equal(t, uid, events[3].User.UID)

	unsubscribe()
	unsubscribe()
	m.Logout(ctx)
	assert.Len(t, rec.get(), 4, "no events after unsubscribe")
}

func TestManager_LogoutWithoutSession(t *testing.T) {
	m, _ := newTestManager(t)
	rec := &recorder{}
	m.Subscribe(rec.fn)
	m.Logout(context.Background())
	assert.Len(t, rec.get(), 1, "nothing changed, nothing emitted")
}

func TestManager_RegisterFailures(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	_, err := m.Register(ctx, "", "cadet@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Officer Aspirant", m.Current().User.Name)

	tbl := []struct {
		name     string
		email    string
		password string
		kind     Kind
	}{
		{"malformed email", "cadet-at-example", "secret1", KindMalformedEmail},
		{"display name form", "Cadet <cadet@example.com>", "secret1", KindMalformedEmail},
		{"no domain dot", "cadet@localhost", "secret1", KindMalformedEmail},
		{"weak password", "new@example.com", "12345", KindWeakPassword},
		{"email in use", "CADET@example.com", "another1", KindEmailInUse},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Register(ctx, "x", tt.email, tt.password)
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Equal(t, Message(tt.kind), err.Error())
		})
	}
}

func TestManager_LoginFailuresAndRateLimit(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	ts := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return ts }

	_, err := m.Register(ctx, "Meera", "meera@example.com", "strong-key")
	require.NoError(t, err)
	m.Logout(ctx)

	_, err = m.Login(ctx, "nobody@example.com", "whatever")
	assert.Equal(t, KindInvalidCredential, KindOf(err))
	_, err = m.Login(ctx, "meera@", "whatever")
	assert.Equal(t, KindMalformedEmail, KindOf(err))

	for range 5 {
		_, err = m.Login(ctx, "meera@example.com", "wrong-key")
		assert.Equal(t, KindInvalidCredential, KindOf(err))
	}
	_, err = m.Login(ctx, "meera@example.com", "strong-key")
	assert.Equal(t, KindRateLimited, KindOf(err), "locked even with the right password")
	assert.Nil(t, m.Current())

	ts = ts.Add(16 * time.Minute)
	s, err := m.Login(ctx, "meera@example.com", "strong-key")
	require.NoError(t, err)
	assert.Equal(t, "Meera", s.User.Name)
}

func TestManager_FailuresExpire(t *testing.T) {
	m, _ := newTestManager(t)
	ctx := context.Background()
	ts := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return ts }

	_, err := m.Login(ctx, "first@example.com", "whatever")
	assert.Equal(t, KindInvalidCredential, KindOf(err))
	_, err = m.Login(ctx, "second@example.com", "whatever")
	assert.Equal(t, KindInvalidCredential, KindOf(err))
	assert.Len(t, m.failures, 2)

	ts = ts.Add(16 * time.Minute)
	assert.False(t, m.limited("first@example.com"))
	assert.NotContains(t, m.failures, "first@example.com", "checking an expired email drops it")

	_, err = m.Login(ctx, "third@example.com", "whatever")
	assert.Equal(t, KindInvalidCredential, KindOf(err))
	assert.Equal(t, []string{"third@example.com"}, keys(m.failures), "expired emails pruned on the next failure")

	assert.False(t, m.limited("fresh@example.com"))
	assert.NotContains(t, m.failures, "fresh@example.com")
}

func keys(m map[string][]time.Time) []string {
	res := make([]string, 0, len(m))
	for k := range m {
		res = append(res, k)
	}
	return res
}

func TestManager_Restore(t *testing.T) {
	m, repos := newTestManager(t)
	ctx := context.Background()
	s, err := m.Register(ctx, "Kabir", "kabir@example.com", "secret1")
	require.NoError(t, err)

	restarted := NewManager(repos.Setting, Limits{})
	require.NoError(t, restarted.Restore(ctx))
	require.NotNil(t, restarted.Current())
	assert.Equal(t, s.User, restarted.Current().User)

	restarted.Logout(ctx)
	again := NewManager(repos.Setting, Limits{})
	require.NoError(t, again.Restore(ctx))
	assert.Nil(t, again.Current())
}

func TestManager_CurrentIsCopy(t *testing.T) {
	m, _ := newTestManager(t)
	_, err := m.Register(context.Background(), "Dev", "dev@example.com", "secret1")
	require.NoError(t, err)
	m.Current().User.Name = "changed"
	assert.Equal(t, "Dev", m.Current().User.Name)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Credential Format Error: The email address provided is malformed.", Message(KindMalformedEmail))
	assert.Equal(t, Message(KindUnknown), Message(Kind(42)))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))

	err := &AuthError{Kind: KindRegistry, Err: errors.New("disk full")}
	assert.Equal(t, "Registration Failure: Internal Registry Error.", err.Error())
	assert.EqualError(t, errors.Unwrap(err), "disk full")
}
