package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/aspirant/pkg/domain"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store

// Store is a key-value persistence for user-scoped state
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Ledger is the persisted set of item ids the user has scrolled past.
// Ids only leave the set through Clear. Persistence failures are logged and
// never reported to callers, the in-memory set stays authoritative.
type Ledger struct {
	store Store
	key   string
	log   lgr.L

	mu    sync.RWMutex
	ids   map[string]struct{}
	order []string

	saveMu sync.Mutex // serializes writes to the store
}

// NewLedger makes an empty ledger scoped to the user. store may be nil for in-memory use.
func NewLedger(store Store, uid string, l lgr.L) *Ledger {
	if l == nil {
		l = lgr.Default()
	}
	return &Ledger{
		store: store,
		key:   domain.ViewedKey(uid),
		log:   l,
		ids:   make(map[string]struct{}),
	}
}

// Load reads the persisted set, replacing in-memory content
func (l *Ledger) Load(ctx context.Context) error {
	if l.store == nil {
		return nil
	}
	val, ok, err := l.store.Get(ctx, l.key)
	if err != nil {
		return fmt.Errorf("load viewed ids: %w", err)
	}

	var ids []string
	if ok && val != "" {
		if err := json.Unmarshal([]byte(val), &ids); err != nil {
			return fmt.Errorf("decode viewed ids: %w", err)
		}
	}

	l.mu.Lock()
	l.ids = make(map[string]struct{}, len(ids))
	l.order = l.order[:0]
	for _, id := range ids {
		if _, seen := l.ids[id]; seen {
			continue
		}
		l.ids[id] = struct{}{}
		l.order = append(l.order, id)
	}
	l.mu.Unlock()
	return nil
}

// Mark adds ids to the set and returns how many were new. Re-marking is a no-op.
func (l *Ledger) Mark(ctx context.Context, ids ...string) int {
	added := 0
	l.mu.Lock()
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := l.ids[id]; ok {
			continue
		}
		l.ids[id] = struct{}{}
		l.order = append(l.order, id)
		added++
	}
	l.mu.Unlock()

	if added > 0 {
		l.save(ctx)
	}
	return added
}

// Has checks if id was viewed
func (l *Ledger) Has(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.ids[id]
	return ok
}

// Len returns the number of viewed ids
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.ids)
}

// IDs returns viewed ids in insertion order
func (l *Ledger) IDs() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	res := make([]string, len(l.order))
	copy(res, l.order)
	return res
}

// Clear empties the set and removes the persisted entry
func (l *Ledger) Clear(ctx context.Context) {
	l.reset()
	l.save(ctx)
}

// reset empties the in-memory set only
func (l *Ledger) reset() {
	l.mu.Lock()
	l.ids = make(map[string]struct{})
	l.order = nil
	l.mu.Unlock()
}

// save writes the current set, an empty set removes the entry. The snapshot is taken
// after saveMu is acquired, so the last write always carries the latest content.
func (l *Ledger) save(ctx context.Context) {
	if l.store == nil {
		return
	}
	l.saveMu.Lock()
	defer l.saveMu.Unlock()

	ids := l.IDs()
	if len(ids) == 0 {
		if err := l.store.Remove(ctx, l.key); err != nil {
			l.log.Logf("[WARN] failed to remove viewed ids for %s: %v", l.key, err)
		}
		return
	}
	data, err := json.Marshal(ids)
	if err != nil {
		l.log.Logf("[WARN] failed to encode viewed ids: %v", err)
		return
	}
	if err := l.store.Set(ctx, l.key, string(data)); err != nil {
		l.log.Logf("[WARN] failed to save viewed ids for %s: %v", l.key, err)
	}
}
