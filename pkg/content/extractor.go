package content

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/publicsuffix"
)

// maxPageSize limits how much of a page is read
const maxPageSize = 5 << 20

// defaults for Options
const (
	DefaultUserAgent     = "Mozilla/5.0 (compatible; Aspirant/1.0)"
	DefaultMinTextLength = 100
	DefaultSummaryLength = 600
)

// Options for HTTPExtractor
type Options struct {
	Timeout       time.Duration
	UserAgent     string
	MinTextLength int // extracted text shorter than this is treated as a failure
	SummaryLength int // max runes returned by Summary
}

// HTTPExtractor pulls the article text out of a page with trafilatura.
// Used by the rss source when a feed entry carries no usable description.
type HTTPExtractor struct {
	opts   Options
	client *http.Client
}

// NewHTTPExtractor makes an extractor, zero options get defaults
func NewHTTPExtractor(opts Options) *HTTPExtractor {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MinTextLength <= 0 {
		opts.MinTextLength = DefaultMinTextLength
	}
	if opts.SummaryLength <= 0 {
		opts.SummaryLength = DefaultSummaryLength
	}
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List}) // never fails
	return &HTTPExtractor{opts: opts, client: &http.Client{Timeout: opts.Timeout, Jar: jar}}
}

// Extract fetches the page and returns its main text
func (e *HTTPExtractor) Extract(ctx context.Context, urlStr string) (string, error) {
	page, pageURL, err := e.fetch(ctx, urlStr)
	if err != nil {
		return "", err
	}
	return e.articleText(page, pageURL)
}

// Summary extracts the page text and cuts it down to the configured summary length.
// Pages without enough article text fall back to their meta description.
func (e *HTTPExtractor) Summary(ctx context.Context, urlStr string) (string, error) {
	page, pageURL, err := e.fetch(ctx, urlStr)
	if err != nil {
		return "", err
	}
	text, err := e.articleText(page, pageURL)
	if err != nil {
		if desc := metaDescription(page); desc != "" {
			return Truncate(desc, e.opts.SummaryLength), nil
		}
		return "", err
	}
	return Truncate(text, e.opts.SummaryLength), nil
}

func (e *HTTPExtractor) fetch(ctx context.Context, urlStr string) ([]byte, *url.URL, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, nil, fmt.Errorf("parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, nil, fmt.Errorf("invalid URL: %q", urlStr)
	}

	ctx, cancel := context.WithTimeout(ctx, e.opts.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, http.NoBody)
	if err != nil {
		return nil, nil, fmt.Errorf("create request: %w", err)
	}
	setBrowserHeaders(req, e.opts.UserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch %s: %w", urlStr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, urlStr)
	}

	page, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", urlStr, err)
	}
	return page, parsedURL, nil
}

func (e *HTTPExtractor) articleText(page []byte, pageURL *url.URL) (string, error) {
	result, err := trafilatura.Extract(bytes.NewReader(page), trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		ExcludeTables:   true,
		Deduplicate:     true,
		OriginalURL:     pageURL,
	})
	if err != nil {
		return "", fmt.Errorf("extract content from %s: %w", pageURL, err)
	}
	if result == nil {
		return "", fmt.Errorf("no content extracted from %s", pageURL)
	}

	text := strings.TrimSpace(result.ContentText)
	if utf8.RuneCountInString(text) < e.opts.MinTextLength {
		return "", fmt.Errorf("too little text extracted from %s: %d chars", pageURL, utf8.RuneCountInString(text))
	}
	return text, nil
}

// metaDescription returns og:description or description meta of the page
func metaDescription(page []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return ""
	}
	for _, sel := range []string{`meta[property="og:description"]`, `meta[name="description"]`, `meta[name="twitter:description"]`} {
		if v, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(v) != "" {
			return strings.Join(strings.Fields(v), " ")
		}
	}
	return ""
}

// Truncate shortens text to at most limit runes. The cut is made at the last sentence end
// inside the limit, or at the last space, and an ellipsis marks a cut inside a sentence.
func Truncate(text string, limit int) string {
	text = strings.Join(strings.Fields(text), " ")
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	cut := string([]rune(text)[:limit])
	if i := strings.LastIndexAny(cut, ".!?"); i >= len(cut)/3 {
		return cut[:i+1]
	}
	if i := strings.LastIndex(cut, " "); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:-") + "..."
}
