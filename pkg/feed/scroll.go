package feed

import (
	"context"
	"math"
	"sync"

	"github.com/umputun/aspirant/pkg/domain"
)

//go:generate moq -out mocks/pager.go -pkg mocks -skip-ensure -fmt goimports . Pager

// defaults for ScrollConfig
const (
	DefaultLoadMoreThreshold = 1000
	DefaultBadgeClearOffset  = 100
)

// Viewport is the scroll position of a snap feed where one item takes exactly one viewport height
type Viewport struct {
	ScrollTop    float64 `json:"scrollTop"`
	ScrollHeight float64 `json:"scrollHeight"`
	ClientHeight float64 `json:"clientHeight"`
}

// ScrollSignal is the outcome of one scroll observation
type ScrollSignal struct {
	SeenIndex    int  `json:"seenIndex"` // index in the news list, -1 if nothing passed yet
	NewlyViewed  int  `json:"newlyViewed"`
	LoadMore     bool `json:"loadMore"`
	BadgeCleared bool `json:"badgeCleared"`
}

// ScrollConfig holds distances in the same units as Viewport
type ScrollConfig struct {
	LoadMoreThreshold float64 // remaining distance below the viewport that triggers pagination
	BadgeClearOffset  float64 // scroll offset from the top that clears the new updates badge
}

// Pager is the part of the engine the tracker drives
type Pager interface {
	Category() domain.Category
	Revision() uint64
	MarkViewedThrough(ctx context.Context, index int) (int, error)
	RequestMore() bool
	Busy() bool
	NewUpdates() int
	ClearBadge() int
}

// ScrollTracker turns scroll positions into viewed marks, pagination and badge-clear signals.
// Marking is skipped while the seen index, category and list revision stay the same.
type ScrollTracker struct {
	pager  Pager
	intent func() domain.Intent
	cfg    ScrollConfig

	mu   sync.Mutex
	last struct {
		category domain.Category
		index    int
		rev      uint64
		valid    bool
	}
}

// NewScrollTracker makes a tracker. intent may be nil, meaning no interstitial is ever shown.
func NewScrollTracker(pager Pager, intent func() domain.Intent, cfg ScrollConfig) *ScrollTracker {
	if cfg.LoadMoreThreshold <= 0 {
		cfg.LoadMoreThreshold = DefaultLoadMoreThreshold
	}
	if cfg.BadgeClearOffset <= 0 {
		cfg.BadgeClearOffset = DefaultBadgeClearOffset
	}
	if intent == nil {
		intent = func() domain.Intent { return domain.IntentNone }
	}
	return &ScrollTracker{pager: pager, intent: intent, cfg: cfg}
}

// Observe processes a scroll position
func (t *ScrollTracker) Observe(ctx context.Context, vp Viewport) (ScrollSignal, error) {
	res := ScrollSignal{SeenIndex: -1}

	if vp.ScrollTop < t.cfg.BadgeClearOffset && t.pager.NewUpdates() > 0 {
		res.BadgeCleared = t.pager.ClearBadge() > 0
	}

	category := t.pager.Category()
	res.SeenIndex = SeenIndex(vp, t.intent().HasInterstitial(category))
	if res.SeenIndex >= 0 && t.changed(category, res.SeenIndex) {
		n, err := t.pager.MarkViewedThrough(ctx, res.SeenIndex)
		if err != nil {
			return res, err
		}
		res.NewlyViewed = n
	}

	if vp.ScrollTop+vp.ClientHeight >= vp.ScrollHeight-t.cfg.LoadMoreThreshold && !t.pager.Busy() {
		res.LoadMore = t.pager.RequestMore()
	}
	return res, nil
}

// Reset forgets the last observation, the next one always marks
func (t *ScrollTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last.valid = false
}

// changed records the observation and reports whether it differs from the previous one
func (t *ScrollTracker) changed(category domain.Category, index int) bool {
	rev := t.pager.Revision()
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.last.valid && t.last.category == category && t.last.index == index && t.last.rev == rev {
		return false
	}
	t.last.category, t.last.index, t.last.rev, t.last.valid = category, index, rev, true
	return true
}

// SeenIndex maps a scroll position to the highest passed index of the news list.
// With an interstitial card rendered at the head of the list, the raw index is shifted
// by one so the card never maps to a news item. Returns -1 if no news item was reached.
func SeenIndex(vp Viewport, interstitial bool) int {
	if vp.ClientHeight <= 0 || vp.ScrollTop < 0 {
		return -1
	}
	idx := int(math.Floor(vp.ScrollTop / vp.ClientHeight))
	if interstitial {
		idx--
	}
	if idx < 0 {
		return -1
	}
	return idx
}
