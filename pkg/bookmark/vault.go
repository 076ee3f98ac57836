// Package bookmark keeps the revision vault, a global list of saved briefs.
// The vault outlives sessions and is not touched by ledger resets or category switches.
package bookmark

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"

	"github.com/umputun/aspirant/pkg/domain"
)

//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store

// Store is a key-value persistence
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Vault is the bookmark list in save order. Changes are written through, a failed
// write leaves the list as it was.
type Vault struct {
	store Store
	mu    sync.RWMutex
	items []domain.NewsItem
}

// New makes an empty vault, call Load to read persisted bookmarks
func New(store Store) *Vault {
	return &Vault{store: store, items: []domain.NewsItem{}}
}

// Load reads persisted bookmarks
func (v *Vault) Load(ctx context.Context) error {
	val, ok, err := v.store.Get(ctx, domain.KeyBookmarks)
	if err != nil {
		return fmt.Errorf("load bookmarks: %w", err)
	}
	items := []domain.NewsItem{}
	if ok && val != "" {
		if err := json.Unmarshal([]byte(val), &items); err != nil {
			return fmt.Errorf("decode bookmarks: %w", err)
		}
	}
	v.mu.Lock()
	v.items = items
	v.mu.Unlock()
	return nil
}

// Toggle saves the item if it is not in the vault, removes it otherwise.
// Returns the new bookmark state of the item.
func (v *Vault) Toggle(ctx context.Context, item domain.NewsItem) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if idx := v.index(item.ID); idx >= 0 {
		return false, v.replace(ctx, slices.Delete(slices.Clone(v.items), idx, idx+1))
	}
	item.IsBookmarked = true
	item.Sources = slices.Clone(item.Sources)
	return true, v.replace(ctx, append(slices.Clone(v.items), item))
}

// Remove drops the bookmark with id, returns false if there was none
func (v *Vault) Remove(ctx context.Context, id string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	idx := v.index(id)
	if idx < 0 {
		return false, nil
	}
	if err := v.replace(ctx, slices.Delete(slices.Clone(v.items), idx, idx+1)); err != nil {
		return false, err
	}
	return true, nil
}

// List returns bookmarks in save order
func (v *Vault) List() []domain.NewsItem {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return domain.CloneItems(v.items)
}

// Has checks if id is bookmarked
func (v *Vault) Has(id string) bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.index(id) >= 0
}

// Len returns the number of bookmarks
func (v *Vault) Len() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.items)
}

// Annotate returns a copy of items with IsBookmarked set from the vault
func (v *Vault) Annotate(items []domain.NewsItem) []domain.NewsItem {
	res := domain.CloneItems(items)
	v.mu.RLock()
	defer v.mu.RUnlock()
	for i := range res {
		res[i].IsBookmarked = v.index(res[i].ID) >= 0
	}
	return res
}

func (v *Vault) index(id string) int {
	return slices.IndexFunc(v.items, func(it domain.NewsItem) bool { return it.ID == id })
}

// replace persists items and makes them current, must be called with mu held
func (v *Vault) replace(ctx context.Context, items []domain.NewsItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode bookmarks: %w", err)
	}
	if err := v.store.Set(ctx, domain.KeyBookmarks, string(data)); err != nil {
		return fmt.Errorf("save bookmarks: %w", err)
	}
	v.items = items
	return nil
}
