package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/aspirant/pkg/domain"
)

//go:generate moq -out mocks/source.go -pkg mocks -skip-ensure -fmt goimports . Source

// DefaultStockpileGap is the distance between the visible list and a background refill offset
const DefaultStockpileGap = 50

var (
	// ErrNoSession returned by every operation when there is no active session
	ErrNoSession = errors.New("no active session")
	// ErrFetchInFlight returned when a foreground fetch is already running
	ErrFetchInFlight = errors.New("foreground fetch in flight")
)

// Source fetches a batch of candidate items for category at offset.
// A batch is all-or-nothing, an empty batch is a valid result.
type Source interface {
	FetchBatch(ctx context.Context, category domain.Category, offset int) ([]domain.NewsItem, error)
}

// Params for New
type Params struct {
	Session      *domain.Session
	Source       Source
	Ledger       *Ledger
	Cache        *Cache // optional, a fresh one made if nil
	StockpileGap int
	Logger       lgr.L
}

// Engine maintains the de-duplicated, unseen-filtered list of items for the selected category.
// It owns the Cache and is the only writer of the Cache and the Ledger. One engine lives for one
// session: made at login, closed at logout.
//
// Foreground fetches (initial load, pagination) share one single-flight guard, background refills
// have their own. ResetSeen and Refresh never wait for the guard, they supersede the running flight.
// Every async fetch captures its category and cache epoch at start and writes back
// keyed by them, never by the live selection.
type Engine struct {
	source Source
	ledger *Ledger
	cache  *Cache
	gap    int
	log    lgr.L

	mu       sync.Mutex
	session  *domain.Session
	closed   bool
	sel      machine
	gen      uint64
	epoch    uint64 // bumped on every full cache clear
	rev      uint64 // bumped on every cache write
	fg       *flight
	bgBusy   bool
	bgTarget domain.Category

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// flight describes a running foreground fetch
type flight struct {
	kind     State
	category domain.Category
	gen      uint64
	epoch    uint64
	offset   int
}

// Snapshot is a read-only view of the engine for the presentation layer
type Snapshot struct {
	Category   domain.Category   `json:"category"`
	State      State             `json:"state"`
	Items      []domain.NewsItem `json:"items"`
	NewUpdates int               `json:"newUpdates"`
	Error      string            `json:"error,omitempty"`
	Busy       bool              `json:"busy"`
	Refilling  bool              `json:"refilling"`
	Viewed     int               `json:"viewed"`
	Exhausted  bool              `json:"exhausted"`
}

// New makes an engine for the session. The selection starts at category All in Idle state.
func New(p Params) *Engine {
	if p.Cache == nil {
		p.Cache = NewCache()
	}
	if p.StockpileGap <= 0 {
		p.StockpileGap = DefaultStockpileGap
	}
	if p.Logger == nil {
		p.Logger = lgr.Default()
	}
	if p.Ledger == nil {
		uid := ""
		if p.Session != nil {
			uid = p.Session.User.UID
		}
		p.Ledger = NewLedger(nil, uid, p.Logger)
	}
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		source:  p.Source,
		ledger:  p.Ledger,
		cache:   p.Cache,
		gap:     p.StockpileGap,
		log:     p.Logger,
		session: p.Session,
		ctx:     ctx,
		cancel:  cancel,
	}
	e.gen++
	e.sel = machine{category: domain.CategoryAll, gen: e.gen, phase: StateIdle}
	return e
}

// Activate makes category the current selection. With a non-empty cached list the selection
// becomes Ready at once and a silent refill starts, otherwise an initial load runs.
func (e *Engine) Activate(ctx context.Context, category domain.Category) error {
	e.mu.Lock()
	if err := e.checkSessionLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	e.gen++
	e.sel = machine{category: category, gen: e.gen, phase: StateIdle}
	if e.cache.Count(category) > 0 {
		if err := e.sel.to(StateReady); err != nil {
			e.mu.Unlock()
			return err
		}
		e.mu.Unlock()
		e.log.Logf("[DEBUG] category %s served from cache", category)
		e.startRefill(category, 0, true)
		return nil
	}
	e.mu.Unlock()
	return e.initialLoad(ctx)
}

// Refresh drops the whole cache and reloads the current category, bypassing the cache shortcut
func (e *Engine) Refresh(ctx context.Context) error {
	return e.reload(ctx, false)
}

// ResetSeen clears the ledger and the whole cache, then reloads the current category.
// Previously filtered viewed items become visible again in every category.
func (e *Engine) ResetSeen(ctx context.Context) error {
	return e.reload(ctx, true)
}

// LoadMore fetches the next page for the current category and appends unseen new items.
// It blocks until the fetch completes.
func (e *Engine) LoadMore(ctx context.Context) error {
	fl, err := e.beginForeground(StatePaginating, false)
	if err != nil {
		return err
	}
	return e.paginate(ctx, fl)
}

// RequestMore starts pagination in background and reports whether it was started.
// It is a no-op when a foreground fetch is already running.
func (e *Engine) RequestMore() bool {
	fl, err := e.beginForeground(StatePaginating, true)
	if err != nil {
		return false
	}
	go func() {
		defer e.wg.Done()
		if err := e.paginate(e.ctx, fl); err != nil {
			e.log.Logf("[WARN] load more for %s failed: %v", fl.category, err)
		}
	}()
	return true
}

// MarkViewed adds ids to the ledger, returns the number of new ids
func (e *Engine) MarkViewed(ctx context.Context, ids ...string) (int, error) {
	e.mu.Lock()
	if err := e.checkSessionLocked(); err != nil {
		e.mu.Unlock()
		return 0, err
	}
	e.mu.Unlock()
	return e.ledger.Mark(ctx, ids...), nil
}

// MarkViewedThrough marks items [0..index] of the current list as viewed.
// Index past the end of the list marks nothing.
func (e *Engine) MarkViewedThrough(ctx context.Context, index int) (int, error) {
	e.mu.Lock()
	if err := e.checkSessionLocked(); err != nil {
		e.mu.Unlock()
		return 0, err
	}
	items, _ := e.cache.Get(e.sel.category)
	e.mu.Unlock()

	if index < 0 || index >= len(items) {
		return 0, nil
	}
	ids := make([]string, 0, index+1)
	for _, item := range items[:index+1] {
		if !e.ledger.Has(item.ID) {
			ids = append(ids, item.ID)
		}
	}
	return e.ledger.Mark(ctx, ids...), nil
}

// ClearBadge resets the new updates counter and returns the previous value
func (e *Engine) ClearBadge() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	prev := e.sel.badge
	e.sel.badge = 0
	return prev
}

// NewUpdates returns the new updates counter of the current selection
func (e *Engine) NewUpdates() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel.badge
}

// Busy reports whether a foreground fetch is running
func (e *Engine) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.fg != nil
}

// Refilling reports whether a background refill is running
func (e *Engine) Refilling() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.bgBusy
}

// Category returns the current selection
func (e *Engine) Category() domain.Category {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sel.category
}

// Revision changes every time any cached list changes
func (e *Engine) Revision() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rev
}

// Ledger returns the viewed ledger, for reading
func (e *Engine) Ledger() *Ledger { return e.ledger }

// Snapshot returns a copy of the current selection state
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	items, _ := e.cache.Get(e.sel.category)
	if items == nil {
		items = []domain.NewsItem{}
	}
	res := Snapshot{
		Category:   e.sel.category,
		State:      e.sel.phase,
		Items:      items,
		NewUpdates: e.sel.badge,
		Busy:       e.fg != nil,
		Refilling:  e.bgBusy && e.bgTarget == e.sel.category,
		Viewed:     e.ledger.Len(),
		Exhausted:  e.sel.phase == StateReady && len(items) == 0,
	}
	if e.sel.err != nil {
		res.Error = e.sel.err.Error()
	}
	return res
}

// Close drops the session and waits for background fetches to finish.
// Every operation after Close returns ErrNoSession.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.session = nil
	e.mu.Unlock()
	e.cancel()
	e.wg.Wait()
}

// initialLoad fetches offset 0 for the current category and stores the filtered batch
func (e *Engine) initialLoad(ctx context.Context) error {
	fl, err := e.beginForeground(StateInitialLoading, false)
	if err != nil {
		return err
	}
	return e.load(ctx, fl)
}

// reload clears the whole cache, and with forget the ledger too, then loads the current category.
// It does not wait for the foreground guard. A running flight is superseded: the selection gets a
// new generation and the cache a new epoch, so its late result is dropped.
// The ledger removal is persisted after the lock is released.
func (e *Engine) reload(ctx context.Context, forget bool) error {
	e.mu.Lock()
	if err := e.checkSessionLocked(); err != nil {
		e.mu.Unlock()
		return err
	}
	if forget {
		e.ledger.reset()
	}
	e.cache.Clear()
	e.epoch++
	e.rev++
	e.gen++
	e.sel = machine{category: e.sel.category, gen: e.gen, phase: StateIdle}
	_ = e.sel.to(StateInitialLoading)
	fl := &flight{kind: StateInitialLoading, category: e.sel.category, gen: e.gen, epoch: e.epoch}
	e.fg = fl
	e.mu.Unlock()

	if forget {
		e.ledger.save(ctx)
	}
	return e.load(ctx, fl)
}

// load runs the offset 0 fetch of a registered flight and releases the guard
func (e *Engine) load(ctx context.Context, fl *flight) error {
	defer e.endForeground(fl)

	items, err := e.source.FetchBatch(ctx, fl.category, 0)
	if err != nil {
		e.failForeground(fl, err)
		return fmt.Errorf("initial load %s: %w", fl.category, err)
	}

	e.mu.Lock()
	if e.closed || fl.epoch != e.epoch {
		e.mu.Unlock()
		return nil
	}
	filtered := e.filterLocked(items, nil)
	e.cache.Set(fl.category, filtered)
	e.rev++
	if e.currentLocked(fl.gen) {
		e.sel.badge = 0
		e.sel.err = nil
		_ = e.sel.to(StateReady)
	}
	e.adoptLocked(fl.category)
	e.mu.Unlock()

	e.log.Logf("[INFO] loaded %d of %d items for %s", len(filtered), len(items), fl.category)
	e.startRefill(fl.category, len(filtered), false)
	return nil
}

// paginate fetches at the captured offset and appends unseen new items.
// Failure leaves the list unchanged.
func (e *Engine) paginate(ctx context.Context, fl *flight) error {
	defer e.endForeground(fl)

	items, err := e.source.FetchBatch(ctx, fl.category, fl.offset)
	if err != nil {
		e.failForeground(fl, err)
		return fmt.Errorf("load more %s at %d: %w", fl.category, fl.offset, err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || fl.epoch != e.epoch {
		return nil
	}
	current, _ := e.cache.Get(fl.category)
	added := e.filterLocked(items, current)
	e.cache.Set(fl.category, append(current, added...))
	e.rev++
	if e.currentLocked(fl.gen) {
		e.sel.err = nil
		_ = e.sel.to(StateReady)
	}
	e.adoptLocked(fl.category)
	e.log.Logf("[DEBUG] appended %d items to %s at offset %d", len(added), fl.category, fl.offset)
	return nil
}

// startRefill runs a best-effort background fetch at base+gap. A silent refill prepends its items
// and counts them as new updates, a non-silent one appends. Returns false if a refill is running.
func (e *Engine) startRefill(category domain.Category, base int, silent bool) bool {
	e.mu.Lock()
	if e.checkSessionLocked() != nil || e.bgBusy {
		e.mu.Unlock()
		return false
	}
	e.bgBusy = true
	e.bgTarget = category
	gen, epoch := e.sel.gen, e.epoch
	e.wg.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.wg.Done()
		defer func() {
			e.mu.Lock()
			e.bgBusy = false
			e.mu.Unlock()
		}()
		e.refill(category, gen, epoch, base+e.gap, silent)
	}()
	return true
}

func (e *Engine) refill(category domain.Category, gen, epoch uint64, offset int, silent bool) {
	items, err := e.source.FetchBatch(e.ctx, category, offset)
	if err != nil {
		e.log.Logf("[DEBUG] background stockpile for %s skipped: %v", category, err)
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || epoch != e.epoch {
		return
	}
	current, _ := e.cache.Get(category)
	added := e.filterLocked(items, current)
	if len(added) == 0 {
		return
	}
	if silent {
		e.cache.Set(category, append(added, current...))
		if e.currentLocked(gen) {
			e.sel.badge += len(added)
		}
	} else {
		e.cache.Set(category, append(current, added...))
	}
	e.rev++
	e.adoptLocked(category)
	e.log.Logf("[DEBUG] stockpiled %d items for %s at offset %d, silent=%v", len(added), category, offset, silent)
}

// beginForeground checks session and the foreground guard, moves the machine to next and
// registers the flight, all in one critical section. With async the flight is counted
// in the wait group before the lock is released.
func (e *Engine) beginForeground(next State, async bool) (*flight, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkSessionLocked(); err != nil {
		return nil, err
	}
	if e.fg != nil {
		return nil, ErrFetchInFlight
	}
	if err := e.sel.to(next); err != nil {
		return nil, err
	}
	fl := &flight{kind: next, category: e.sel.category, gen: e.sel.gen, epoch: e.epoch}
	if next == StatePaginating {
		fl.offset = e.cache.Count(fl.category)
	}
	e.fg = fl
	if async {
		e.wg.Add(1)
	}
	return fl, nil
}

// endForeground releases the guard. If the machine is still in the flight's phase,
// it moves back to where it came from, so no exit path can leave it stuck.
func (e *Engine) endForeground(fl *flight) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.fg == fl {
		e.fg = nil
	}
	if !e.currentLocked(fl.gen) || e.sel.phase != fl.kind {
		return
	}
	switch fl.kind {
	case StateInitialLoading:
		_ = e.sel.to(StateIdle)
	case StatePaginating:
		_ = e.sel.to(StateReady)
	}
}

func (e *Engine) failForeground(fl *flight, err error) {
	e.log.Logf("[WARN] %s for %s failed: %v", fl.kind, fl.category, err)
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.currentLocked(fl.gen) {
		e.sel.err = err
	}
}

// filterLocked drops items already in the ledger, already in current, or repeated within the batch.
// Batch order is preserved.
func (e *Engine) filterLocked(items, current []domain.NewsItem) []domain.NewsItem {
	present := make(map[string]struct{}, len(current)+len(items))
	for _, item := range current {
		present[item.ID] = struct{}{}
	}
	res := make([]domain.NewsItem, 0, len(items))
	for _, item := range items {
		if _, ok := present[item.ID]; ok {
			continue
		}
		if e.ledger.Has(item.ID) {
			continue
		}
		present[item.ID] = struct{}{}
		res = append(res, item)
	}
	return res
}

// adoptLocked moves an idle selection to Ready when a write from an earlier selection
// of the same category filled its list
func (e *Engine) adoptLocked(category domain.Category) {
	if e.sel.category == category && e.sel.phase == StateIdle && e.cache.Count(category) > 0 {
		_ = e.sel.to(StateReady)
	}
}

func (e *Engine) currentLocked(gen uint64) bool {
	return e.sel.gen == gen
}

func (e *Engine) checkSessionLocked() error {
	if e.closed || e.session == nil {
		return ErrNoSession
	}
	return nil
}
