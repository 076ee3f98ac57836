package rss

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/umputun/aspirant/pkg/content"
	"github.com/umputun/aspirant/pkg/domain"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/extractor.go -pkg mocks -skip-ensure -fmt goimports . Extractor

// Fetcher retrieves entries of a single feed
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]Entry, error)
}

// Extractor makes a summary from the article page
type Extractor interface {
	Summary(ctx context.Context, url string) (string, error)
}

const (
	dateLayout      = "2 January 2006"
	fallbackSummary = "Gathering additional intelligence..."
)

// Params for NewSource
type Params struct {
	Feeds         []domain.Feed
	Fetcher       Fetcher
	Extractor     Extractor     // optional, used for entries without description
	BatchSize     int           // items per page, 50 if not set
	TTL           time.Duration // how long fetched feeds are reused, 5m if not set
	SummaryLength int           // max runes of the summary, 600 if not set
	Concurrency   int           // parallel feed fetches and extractions, 4 if not set
}

// Source serves briefs from RSS/Atom feeds bound to categories. Entries of all feeds of the
// requested category are merged, sorted newest first and paged by offset.
type Source struct {
	Params
	policy *bluemonday.Policy
	now    func() time.Time
	group  singleflight.Group

	mu   sync.Mutex
	memo map[string]fetched
}

type fetched struct {
	entries []Entry
	at      time.Time
}

// record is an entry with the feed it came from
type record struct {
	Entry
	feed domain.Feed
}

// NewSource makes a feed-backed source
func NewSource(p Params) *Source {
	if p.BatchSize <= 0 {
		p.BatchSize = 50
	}
	if p.TTL <= 0 {
		p.TTL = 5 * time.Minute
	}
	if p.SummaryLength <= 0 {
		p.SummaryLength = content.DefaultSummaryLength
	}
	if p.Concurrency <= 0 {
		p.Concurrency = 4
	}
	return &Source{Params: p, policy: bluemonday.StrictPolicy(), now: time.Now, memo: map[string]fetched{}}
}

// FetchBatch returns up to BatchSize items of category starting at offset.
// The batch fails only if every feed of the category failed.
func (s *Source) FetchBatch(ctx context.Context, category domain.Category, offset int) ([]domain.NewsItem, error) {
	records, err := s.collect(ctx, s.feedsFor(category))
	if err != nil {
		return nil, fmt.Errorf("fetch %s feeds: %w", category, err)
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= len(records) {
		return []domain.NewsItem{}, nil
	}
	end := min(offset+s.BatchSize, len(records))
	return s.convert(ctx, records[offset:end]), nil
}

// SearchArchive returns items of all feeds matching every word of query and published
// within the filter window. Entries without a date are treated as published now.
func (s *Source) SearchArchive(ctx context.Context, query string, filter domain.DateFilter) ([]domain.NewsItem, error) {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return []domain.NewsItem{}, nil
	}
	records, err := s.collect(ctx, s.Feeds)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	cutoff := s.now().AddDate(0, 0, -filter.Days())
	matched := []record{}
	for _, r := range records {
		if !r.Published.IsZero() && r.Published.Before(cutoff) {
			continue
		}
		text := strings.ToLower(r.Title + " " + s.plain(r.Description))
		if !containsAll(text, terms) {
			continue
		}
		matched = append(matched, r)
		if len(matched) == s.BatchSize {
			break
		}
	}
	return s.convert(ctx, matched), nil
}

// Warm drops fetched feeds and loads all of them again. Returns the number of distinct entries.
func (s *Source) Warm(ctx context.Context) (int, error) {
	s.Reset()
	records, err := s.collect(ctx, s.Feeds)
	if err != nil {
		return 0, fmt.Errorf("warm feeds: %w", err)
	}
	return len(records), nil
}

// Reset drops fetched feeds, the next call goes to the network
func (s *Source) Reset() {
	s.mu.Lock()
	s.memo = map[string]fetched{}
	s.mu.Unlock()
}

func (s *Source) feedsFor(category domain.Category) []domain.Feed {
	if category == domain.CategoryAll {
		return s.Feeds
	}
	res := []domain.Feed{}
	for _, f := range s.Feeds {
		if f.Category == category {
			res = append(res, f)
		}
	}
	return res
}

// collect loads feeds in parallel and returns merged records, newest first, one per title
func (s *Source) collect(ctx context.Context, feeds []domain.Feed) ([]record, error) {
	if len(feeds) == 0 {
		return []record{}, nil
	}

	var mu sync.Mutex
	var errs []error
	records := []record{}
	g := errgroup.Group{}
	g.SetLimit(s.Concurrency)
	for _, f := range feeds {
		g.Go(func() error {
			entries, err := s.load(ctx, f.URL)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				lgr.Printf("[WARN] feed %s failed: %v", f.Name, err)
				errs = append(errs, err)
				return nil
			}
			for _, e := range entries {
				records = append(records, record{Entry: e, feed: f})
			}
			return nil
		})
	}
	_ = g.Wait()

	if len(errs) == len(feeds) {
		return nil, errors.Join(errs...)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].Published.Equal(records[j].Published) {
			return records[i].Published.After(records[j].Published)
		}
		return records[i].Title < records[j].Title
	})

	seen := map[string]bool{}
	res := records[:0]
	for _, r := range records {
		title := s.plain(r.Title)
		if title == "" {
			continue
		}
		id := domain.ItemID(title)
		if seen[id] {
			continue
		}
		seen[id] = true
		res = append(res, r)
	}
	return res, nil
}

// load returns entries of a feed, reusing a recent fetch. Concurrent loads of one url share a request.
func (s *Source) load(ctx context.Context, url string) ([]Entry, error) {
	s.mu.Lock()
	if f, ok := s.memo[url]; ok && s.now().Sub(f.at) < s.TTL {
		s.mu.Unlock()
		return f.entries, nil
	}
	s.mu.Unlock()

	v, err, _ := s.group.Do(url, func() (any, error) {
		entries, err := s.Fetcher.Fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.memo[url] = fetched{entries: entries, at: s.now()}
		s.mu.Unlock()
		lgr.Printf("[DEBUG] fetched %d entries from %s", len(entries), url)
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Entry), nil
}

// convert turns records into items, extracting summaries for entries without text
func (s *Source) convert(ctx context.Context, records []record) []domain.NewsItem {
	res := make([]domain.NewsItem, len(records))
	g := errgroup.Group{}
	g.SetLimit(s.Concurrency)
	for i, r := range records {
		g.Go(func() error {
			res[i] = s.item(ctx, r)
			return nil
		})
	}
	_ = g.Wait()
	return res
}

func (s *Source) item(ctx context.Context, r record) domain.NewsItem {
	summary := s.plain(r.Description)
	if summary == "" {
		summary = s.plain(r.Content)
	}
	if summary == "" && s.Extractor != nil && r.Link != "" {
		extracted, err := s.Extractor.Summary(ctx, r.Link)
		if err != nil {
			lgr.Printf("[DEBUG] no summary for %s: %v", r.Link, err)
		}
		summary = extracted
	}
	if summary == "" {
		summary = fallbackSummary
	}

	published := r.Published
	if published.IsZero() {
		published = s.now()
	}

	sources := []domain.Source{}
	if strings.HasPrefix(r.Link, "http://") || strings.HasPrefix(r.Link, "https://") {
		sources = append(sources, domain.Source{Title: r.feed.Name, URI: r.Link})
	}
	return domain.NewNewsItem(s.plain(r.Title), content.Truncate(summary, s.SummaryLength),
		published.Format(dateLayout), r.feed.Category, sources)
}

// plain strips markup and entities, collapsing whitespace
func (s *Source) plain(text string) string {
	if text == "" {
		return ""
	}
	return strings.Join(strings.Fields(html.UnescapeString(s.policy.Sanitize(text))), " ")
}

func containsAll(text string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(text, t) {
			return false
		}
	}
	return true
}
