// Package briefing owns the per-session feed machinery. A login builds a fresh ledger,
// engine and scroll tracker for the user, a logout tears them down, so nothing of one
// user's feed state is visible to the next.
package briefing

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/aspirant/pkg/domain"
	"github.com/umputun/aspirant/pkg/feed"
)

//go:generate moq -out mocks/source.go -pkg mocks -skip-ensure -fmt goimports . Source

// ErrNoIntent is returned by feed operations until the user has chosen an intent
var ErrNoIntent = errors.New("intent not selected")

// Source produces briefs for the feed and for archive search
type Source interface {
	FetchBatch(ctx context.Context, category domain.Category, offset int) ([]domain.NewsItem, error)
	SearchArchive(ctx context.Context, query string, filter domain.DateFilter) ([]domain.NewsItem, error)
}

// Bookmarks marks items saved to the vault
type Bookmarks interface {
	Annotate(items []domain.NewsItem) []domain.NewsItem
}

// Subscriber delivers session changes, see session.Manager
type Subscriber interface {
	Subscribe(fn func(*domain.Session)) (unsubscribe func())
}

// Params for New
type Params struct {
	Source       Source
	Store        feed.Store
	Bookmarks    Bookmarks // optional
	StockpileGap int
	Scroll       feed.ScrollConfig
	Logger       lgr.L
}

// Controller tracks the active session and the feed engine built for it
type Controller struct {
	p Params

	mu          sync.Mutex
	session     *domain.Session
	intent      domain.Intent
	engine      *feed.Engine
	tracker     *feed.ScrollTracker
	unsubscribe func()
}

// New makes a controller without a session. Attach it to a session provider to start.
func New(p Params) *Controller {
	if p.Logger == nil {
		p.Logger = lgr.Default()
	}
	return &Controller{p: p}
}

// Attach subscribes to session changes. The current session, if any, is picked up right away.
func (c *Controller) Attach(sessions Subscriber) {
	unsubscribe := sessions.Subscribe(c.onSession)
	c.mu.Lock()
	c.unsubscribe = unsubscribe
	c.mu.Unlock()
}

// Detach unsubscribes from session changes and tears down the engine
func (c *Controller) Detach() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
	c.onSession(nil)
}

// onSession swaps per-user state. The same user arriving again keeps the running engine.
func (c *Controller) onSession(s *domain.Session) {
	c.mu.Lock()
	if s != nil && c.session != nil && c.session.User.UID == s.User.UID {
		c.session = s
		c.mu.Unlock()
		return
	}
	old := c.engine
	c.session, c.engine, c.tracker, c.intent = nil, nil, nil, domain.IntentNone
	c.mu.Unlock()

	if old != nil {
		old.Close()
		c.p.Logger.Logf("[INFO] feed engine closed")
	}
	if s == nil {
		return
	}

	ctx := context.Background()
	ledger := feed.NewLedger(c.p.Store, s.User.UID, c.p.Logger)
	if err := ledger.Load(ctx); err != nil {
		c.p.Logger.Logf("[WARN] viewed ids for %s not loaded, starting empty: %v", s.User.UID, err)
	}
	intent := c.loadIntent(ctx, s.User.UID)

	engine := feed.New(feed.Params{
		Session:      s,
		Source:       c.p.Source,
		Ledger:       ledger,
		StockpileGap: c.p.StockpileGap,
		Logger:       c.p.Logger,
	})
	tracker := feed.NewScrollTracker(engine, c.Intent, c.p.Scroll)

	c.mu.Lock()
	c.session, c.engine, c.tracker, c.intent = s, engine, tracker, intent
	c.mu.Unlock()
	c.p.Logger.Logf("[INFO] feed engine started for %s, %d viewed ids, intent %q", s.User.UID, ledger.Len(), intent)
}

// Session returns the active session, nil if none
func (c *Controller) Session() *domain.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

// Intent returns the chosen intent of the active user
func (c *Controller) Intent() domain.Intent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.intent
}

// SetIntent chooses and persists the intent of the active user
func (c *Controller) SetIntent(ctx context.Context, intent domain.Intent) error {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()
	if s == nil {
		return feed.ErrNoSession
	}
	if c.p.Store != nil {
		if err := c.p.Store.Set(ctx, domain.IntentKey(s.User.UID), string(intent)); err != nil {
			return fmt.Errorf("save intent: %w", err)
		}
	}
	c.mu.Lock()
	if c.session != nil && c.session.User.UID == s.User.UID {
		c.intent = intent
	}
	tracker := c.tracker
	c.mu.Unlock()
	if tracker != nil {
		tracker.Reset()
	}
	return nil
}

// ResetIntent forgets the intent, the user is asked to choose again
func (c *Controller) ResetIntent(ctx context.Context) error {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()
	if s == nil {
		return feed.ErrNoSession
	}
	if c.p.Store != nil {
		if err := c.p.Store.Remove(ctx, domain.IntentKey(s.User.UID)); err != nil {
			return fmt.Errorf("remove intent: %w", err)
		}
	}
	c.mu.Lock()
	if c.session != nil && c.session.User.UID == s.User.UID {
		c.intent = domain.IntentNone
	}
	c.mu.Unlock()
	return nil
}

// Activate selects category and returns the resulting feed
func (c *Controller) Activate(ctx context.Context, category domain.Category) (feed.Snapshot, error) {
	engine, tracker, err := c.ready()
	if err != nil {
		return feed.Snapshot{}, err
	}
	tracker.Reset()
	err = engine.Activate(ctx, category)
	return c.annotate(engine.Snapshot()), err
}

// LoadMore fetches the next page of the current category
func (c *Controller) LoadMore(ctx context.Context) (feed.Snapshot, error) {
	engine, _, err := c.ready()
	if err != nil {
		return feed.Snapshot{}, err
	}
	err = engine.LoadMore(ctx)
	return c.annotate(engine.Snapshot()), err
}

// Refresh reloads the current category from the source
func (c *Controller) Refresh(ctx context.Context) (feed.Snapshot, error) {
	engine, tracker, err := c.ready()
	if err != nil {
		return feed.Snapshot{}, err
	}
	tracker.Reset()
	err = engine.Refresh(ctx)
	return c.annotate(engine.Snapshot()), err
}

// ResetSeen clears the viewed ledger and reloads the current category
func (c *Controller) ResetSeen(ctx context.Context) (feed.Snapshot, error) {
	engine, tracker, err := c.ready()
	if err != nil {
		return feed.Snapshot{}, err
	}
	tracker.Reset()
	err = engine.ResetSeen(ctx)
	return c.annotate(engine.Snapshot()), err
}

// Feed returns the current feed state
func (c *Controller) Feed() (feed.Snapshot, error) {
	engine, _, err := c.ready()
	if err != nil {
		return feed.Snapshot{}, err
	}
	return c.annotate(engine.Snapshot()), nil
}

// Observe passes a viewport report to the scroll tracker
func (c *Controller) Observe(ctx context.Context, vp feed.Viewport) (feed.ScrollSignal, error) {
	_, tracker, err := c.ready()
	if err != nil {
		return feed.ScrollSignal{SeenIndex: -1}, err
	}
	return tracker.Observe(ctx, vp)
}

// ClearBadge resets the new updates counter
func (c *Controller) ClearBadge() (int, error) {
	engine, _, err := c.ready()
	if err != nil {
		return 0, err
	}
	return engine.ClearBadge(), nil
}

// Search looks up the archive, requires an active session
func (c *Controller) Search(ctx context.Context, query string, filter domain.DateFilter) ([]domain.NewsItem, error) {
	c.mu.Lock()
	active := c.session != nil
	c.mu.Unlock()
	if !active {
		return nil, feed.ErrNoSession
	}
	items, err := c.p.Source.SearchArchive(ctx, query, filter)
	if err != nil {
		return nil, fmt.Errorf("search archive: %w", err)
	}
	if c.p.Bookmarks != nil {
		items = c.p.Bookmarks.Annotate(items)
	}
	return items, nil
}

func (c *Controller) ready() (*feed.Engine, *feed.ScrollTracker, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil || c.engine == nil {
		return nil, nil, feed.ErrNoSession
	}
	if c.intent == domain.IntentNone {
		return nil, nil, ErrNoIntent
	}
	return c.engine, c.tracker, nil
}

func (c *Controller) annotate(s feed.Snapshot) feed.Snapshot {
	if c.p.Bookmarks != nil {
		s.Items = c.p.Bookmarks.Annotate(s.Items)
	}
	return s
}

func (c *Controller) loadIntent(ctx context.Context, uid string) domain.Intent {
	if c.p.Store == nil {
		return domain.IntentNone
	}
	val, ok, err := c.p.Store.Get(ctx, domain.IntentKey(uid))
	if err != nil {
		c.p.Logger.Logf("[WARN] intent for %s not loaded: %v", uid, err)
		return domain.IntentNone
	}
	if !ok {
		return domain.IntentNone
	}
	intent, err := domain.ParseIntent(val)
	if err != nil {
		c.p.Logger.Logf("[WARN] stored intent for %s ignored: %v", uid, err)
		return domain.IntentNone
	}
	return intent
}
