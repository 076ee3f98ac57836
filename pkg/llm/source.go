package llm

import (
	"context"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/singleflight"

	"github.com/umputun/aspirant/pkg/config"
	"github.com/umputun/aspirant/pkg/domain"
)

//go:generate moq -out mocks/completer.go -pkg mocks -skip-ensure -fmt goimports . Completer

// Completer sends a prompt to a language model and returns the raw text answer
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// dateLayout renders dates the way briefs show them, e.g. "19 October 2026"
const dateLayout = "2 January 2006"

// defaultTimeout bounds one model request when llm.timeout is not set
const defaultTimeout = time.Minute

// default system prompt for brief generation
const defaultSystemPrompt = `You are an intelligence analyst preparing current affairs briefs for candidates of
competitive government and defence service exams (UPSC, CDS, AFCAT).

Rules:
- Each brief covers one distinct, verifiable development. Never repeat a story within an answer.
- Focus on strategic developments, geopolitical shifts, national security, governance and economy.
- Summaries are 2-3 sentences, factual and exam-focused, with names, numbers and dates where known.
- CATEGORY is exactly one of: Defense, Polity, Economy, International, Science, Environment, Sports, Miscellaneous.
- Output only briefs in the requested block format, no introduction and no closing remarks.`

var batchPrompt = template.Must(template.New("batch").Parse(`Intelligence scan for the exam cycle.
Scope: deep scan, offset {{.Offset}}.
Category: {{.Category}}.

Return exactly {{.Count}} distinct briefs.
{{if eq .Offset 0}}Prioritize the most recent 24-48 hours.{{else}}Skip the most recent items already covered by the first {{.Offset}} briefs and scan deeper into the monthly archive.{{end}}

Format each brief exactly as:
---
TITLE: [Strategic headline]
CATEGORY: [Category]
SUMMARY: [2-3 sentence brief]
DATE: {{.Today}}
SOURCE: [Publication name] | [URL, only if known]
---
`))

var searchPrompt = template.Must(template.New("search").Parse(`High-precision archive search for: "{{.Query}}".
Temporal scope: {{.Scope}} (up to {{.Days}} days back from {{.Today}}).

Return up to {{.Count}} matching briefs, most relevant first. Format each brief exactly as:
---
TITLE: [Headline]
CATEGORY: [Category]
SUMMARY: [2-3 sentence brief]
DATE: [Date of the development]
SOURCE: [Publication name] | [URL, only if known]
---
`))

// Source generates briefs with a language model. It serves both feed batches and archive search.
type Source struct {
	completer Completer
	system    string
	batchSize int
	timeout   time.Duration
	now       func() time.Time
	group     singleflight.Group
}

// NewSource makes a source for cfg, picking the transport by cfg.API
func NewSource(cfg config.LLMConfig) *Source {
	var c Completer
	switch cfg.API {
	case config.APIResponses:
		c = NewResponsesCompleter(cfg)
	default:
		c = NewChatCompleter(cfg)
	}
	return NewSourceWithCompleter(c, cfg)
}

// NewSourceWithCompleter makes a source over an existing completer
func NewSourceWithCompleter(c Completer, cfg config.LLMConfig) *Source {
	system := cfg.SystemPrompt
	if system == "" {
		system = defaultSystemPrompt
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 50
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Source{completer: c, system: system, batchSize: batchSize, timeout: timeout, now: time.Now}
}

// FetchBatch asks the model for a batch of briefs for category at offset.
// Every brief gets today's date, an empty answer is an empty batch.
func (s *Source) FetchBatch(ctx context.Context, category domain.Category, offset int) ([]domain.NewsItem, error) {
	today := s.now().Format(dateLayout)
	prompt, err := render(batchPrompt, map[string]any{
		"Category": category, "Offset": offset, "Count": s.batchSize, "Today": today,
	})
	if err != nil {
		return nil, err
	}

	text, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("fetch briefs for %s at %d: %w", category, offset, err)
	}

	fb := batchFallbacks
	fb.date = today
	items := parseBriefs(text, fb)
	if len(items) == 0 && strings.TrimSpace(text) != "" {
		lgr.Printf("[WARN] no briefs parsed for %s at %d, answer starts with %q", category, offset, head(text, 80))
	}
	lgr.Printf("[DEBUG] generated %d briefs for %s at offset %d", len(items), category, offset)
	return items, nil
}

// SearchArchive asks the model for briefs matching query within the date filter.
// Identical concurrent searches share one request.
func (s *Source) SearchArchive(ctx context.Context, query string, filter domain.DateFilter) ([]domain.NewsItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.NewsItem{}, nil
	}
	if filter == "" {
		filter = domain.DateToday
	}

	key := strings.ToLower(query) + "|" + string(filter)
	ch := s.group.DoChan(key, func() (any, error) {
		prompt, err := render(searchPrompt, map[string]any{
			"Query": query, "Scope": filter, "Days": filter.Days(), "Count": s.batchSize, "Today": s.now().Format(dateLayout),
		})
		if err != nil {
			return nil, err
		}
		// the request is shared, one caller going away must not cancel it for the others
		text, err := s.complete(context.WithoutCancel(ctx), prompt)
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", query, err)
		}
		return parseBriefs(text, searchFallbacks), nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("search %q: %w", query, ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared {
		lgr.Printf("[DEBUG] search %q served by a shared request", query)
	}
	return domain.CloneItems(res.Val.([]domain.NewsItem)), nil
}

func (s *Source) complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.completer.Complete(ctx, s.system, prompt)
}

func render(tmpl *template.Template, data map[string]any) (string, error) {
	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", tmpl.Name(), err)
	}
	return sb.String(), nil
}

func head(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
