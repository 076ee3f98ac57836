// Package session provides authentication against a local account registry and
// broadcasts session changes to subscribers.
package session

import (
	"context"
	"crypto/pbkdf2"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/aspirant/pkg/domain"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store

// Store is a key-value persistence for accounts and the active session
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

const (
	keyAccountPrefix = "account_"
	keyCurrent       = "session_current"

	defaultName    = "Officer Aspirant"
	minPasswordLen = 6
	hashIterations = 100_000
)

// Limits for failed logins of one email
type Limits struct {
	MaxFailures int           // failed attempts allowed within Window, 5 if not set
	Window      time.Duration // 15m if not set
}

type account struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
	Salt string `json:"salt"`
	Hash string `json:"hash"`
}

// Manager holds the active session. Subscribers are called synchronously, in subscription
// order, and must not call Login, Register, Logout or Subscribe from the callback.
type Manager struct {
	store  Store
	limits Limits
	now    func() time.Time

	mu       sync.Mutex
	current  *domain.Session
	subs     map[int]func(*domain.Session)
	order    []int
	nextID   int
	failures map[string][]time.Time

	emitMu sync.Mutex
}

// NewManager makes a manager with no active session, call Restore to pick up a persisted one
func NewManager(store Store, limits Limits) *Manager {
	if limits.MaxFailures <= 0 {
		limits.MaxFailures = 5
	}
	if limits.Window <= 0 {
		limits.Window = 15 * time.Minute
	}
	return &Manager{
		store:    store,
		limits:   limits,
		now:      time.Now,
		subs:     map[int]func(*domain.Session){},
		failures: map[string][]time.Time{},
	}
}

// Subscribe registers fn and calls it right away with the current session.
// The returned function unsubscribes, calling it more than once is a no-op.
func (m *Manager) Subscribe(fn func(*domain.Session)) (unsubscribe func()) {
	m.emitMu.Lock()
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.order = append(m.order, id)
	cur := m.current
	m.mu.Unlock()
	fn(cloneSession(cur))
	m.emitMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			delete(m.subs, id)
			for i, v := range m.order {
				if v == id {
					m.order = append(m.order[:i], m.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Current returns a copy of the active session, nil if there is none
func (m *Manager) Current() *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneSession(m.current)
}

// Restore activates the session persisted by a previous run
func (m *Manager) Restore(ctx context.Context) error {
	val, ok, err := m.store.Get(ctx, keyCurrent)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if !ok || val == "" {
		return nil
	}
	var s domain.Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return fmt.Errorf("decode session: %w", err)
	}
	m.activate(ctx, &s, false)
	return nil
}

// Register creates an account and logs it in
func (m *Manager) Register(ctx context.Context, name, email, password string) (*domain.Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, &AuthError{Kind: KindMalformedEmail, Err: err}
	}
	if len([]rune(password)) < minPasswordLen {
		return nil, &AuthError{Kind: KindWeakPassword, Err: errors.New("password too short")}
	}

	_, exists, err := m.store.Get(ctx, keyAccountPrefix+email)
	if err != nil {
		return nil, &AuthError{Kind: KindRegistry, Err: err}
	}
	if exists {
		return nil, &AuthError{Kind: KindEmailInUse, Err: fmt.Errorf("account %s exists", email)}
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = defaultName
	}
	acc := account{UID: randomHex(14), Name: name, Salt: randomHex(16)}
	if acc.Hash, err = hashPassword(password, acc.Salt); err != nil {
		return nil, &AuthError{Kind: KindRegistry, Err: err}
	}
	data, err := json.Marshal(acc)
	if err != nil {
		return nil, &AuthError{Kind: KindRegistry, Err: err}
	}
	if err := m.store.Set(ctx, keyAccountPrefix+email, string(data)); err != nil {
		return nil, &AuthError{Kind: KindRegistry, Err: err}
	}
	lgr.Printf("[INFO] registered account %s", acc.UID)

	s := newSession(acc, email)
	m.activate(ctx, s, true)
	return cloneSession(s), nil
}

// Login checks credentials and makes the account's session active
func (m *Manager) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, &AuthError{Kind: KindMalformedEmail, Err: err}
	}
	if m.limited(email) {
		return nil, &AuthError{Kind: KindRateLimited, Err: fmt.Errorf("too many failed logins for %s", email)}
	}

	val, ok, err := m.store.Get(ctx, keyAccountPrefix+email)
	if err != nil {
		return nil, &AuthError{Kind: KindUnknown, Err: err}
	}
	if !ok {
		m.fail(email)
		return nil, &AuthError{Kind: KindInvalidCredential, Err: fmt.Errorf("no account %s", email)}
	}
	var acc account
	if err := json.Unmarshal([]byte(val), &acc); err != nil {
		return nil, &AuthError{Kind: KindUnknown, Err: fmt.Errorf("decode account: %w", err)}
	}
	hash, err := hashPassword(password, acc.Salt)
	if err != nil {
		return nil, &AuthError{Kind: KindUnknown, Err: err}
	}
	if subtle.ConstantTimeCompare([]byte(hash), []byte(acc.Hash)) != 1 {
		m.fail(email)
		return nil, &AuthError{Kind: KindInvalidCredential, Err: errors.New("password mismatch")}
	}

	m.mu.Lock()
	delete(m.failures, email)
	m.mu.Unlock()

	s := newSession(acc, email)
	m.activate(ctx, s, true)
	return cloneSession(s), nil
}

// Logout ends the active session, subscribers get nil
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	active := m.current != nil
	m.mu.Unlock()
	if !active {
		return
	}
	if err := m.store.Remove(ctx, keyCurrent); err != nil {
		lgr.Printf("[WARN] failed to remove persisted session: %v", err)
	}
	m.activate(ctx, nil, false)
}

// activate replaces the current session and notifies subscribers
func (m *Manager) activate(ctx context.Context, s *domain.Session, persist bool) {
	if persist && s != nil {
		if data, err := json.Marshal(s); err == nil {
			if err := m.store.Set(ctx, keyCurrent, string(data)); err != nil {
				lgr.Printf("[WARN] failed to persist session: %v", err)
			}
		}
	}

	m.emitMu.Lock()
	defer m.emitMu.Unlock()
	m.mu.Lock()
	m.current = s
	subs := make([]func(*domain.Session), 0, len(m.order))
	for _, id := range m.order {
		subs = append(subs, m.subs[id])
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(cloneSession(s))
	}
}

func (m *Manager) limited(email string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	recent := m.recentLocked(email, m.now().Add(-m.limits.Window))
	return len(recent) >= m.limits.MaxFailures
}

// fail records a failed attempt and drops the history of every email with no failures in the window
func (m *Manager) fail(email string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.now().Add(-m.limits.Window)
	for key := range m.failures {
		m.recentLocked(key, cutoff)
	}
	m.failures[email] = append(m.failures[email], m.now())
}

// recentLocked trims failures of email to the ones after cutoff, an email left without failures is removed
func (m *Manager) recentLocked(email string, cutoff time.Time) []time.Time {
	recent := m.failures[email][:0]
	for _, ts := range m.failures[email] {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	if len(recent) == 0 {
		delete(m.failures, email)
		return nil
	}
	m.failures[email] = recent
	return recent
}

func newSession(acc account, email string) *domain.Session {
	return &domain.Session{User: domain.User{UID: acc.UID, Email: email, Name: acc.Name, Rank: domain.DefaultRank}}
}

func cloneSession(s *domain.Session) *domain.Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return "", fmt.Errorf("parse email: %w", err)
	}
	if addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return "", fmt.Errorf("email %q is not a bare address", email)
	}
	return email, nil
}

func hashPassword(password, salt string) (string, error) {
	key, err := pbkdf2.Key(sha256.New, password, []byte(salt), hashIterations, 32)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hex.EncodeToString(key), nil
}

func randomHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b) // never fails
	return hex.EncodeToString(b)
}
