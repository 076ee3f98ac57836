package llm

import (
	"regexp"
	"strings"

	"mvdan.cc/xurls/v2"

	"github.com/umputun/aspirant/pkg/domain"
)

// blockSeparator delimits briefs in the model output
const blockSeparator = "---"

var (
	reTitle    = regexp.MustCompile(`TITLE:[ \t]*(.*)`)
	reCategory = regexp.MustCompile(`CATEGORY:[ \t]*(.*)`)
	reSummary  = regexp.MustCompile(`SUMMARY:[ \t]*(.*)`)
	reDate     = regexp.MustCompile(`DATE:[ \t]*(.*)`)
	reSource   = regexp.MustCompile(`SOURCE:[ \t]*(.*)`)
	reURL      = xurls.Strict()
)

// fallbacks fill fields the model left out
type fallbacks struct {
	title   string
	summary string
	date    string
	useDate bool // take DATE from the block when present
}

var (
	batchFallbacks  = fallbacks{title: "Tactical Update", summary: "Gathering additional intelligence..."}
	searchFallbacks = fallbacks{title: "Archive Intel", summary: "Data retrieval...", date: "Today", useDate: true}
)

// parseBriefs splits model output into items. Only blocks carrying a TITLE marker count,
// everything else in the output is ignored.
func parseBriefs(text string, fb fallbacks) []domain.NewsItem {
	res := []domain.NewsItem{}
	for _, part := range strings.Split(text, blockSeparator) {
		if !strings.Contains(part, "TITLE:") {
			continue
		}
		title := field(reTitle, part, fb.title)
		summary := field(reSummary, part, fb.summary)
		date := fb.date
		if fb.useDate {
			date = field(reDate, part, fb.date)
		}
		category := domain.NormalizeCategory(field(reCategory, part, string(domain.CategoryMisc)))
		res = append(res, domain.NewNewsItem(title, summary, date, category, parseSources(part)))
	}
	return res
}

func field(re *regexp.Regexp, part, fallback string) string {
	m := re.FindStringSubmatch(part)
	if m == nil {
		return fallback
	}
	v := strings.Trim(strings.TrimSpace(m[1]), "[]")
	if v == "" {
		return fallback
	}
	return v
}

// parseSources reads "SOURCE: title | url" lines. Lines without the separator are searched for a link,
// the rest of the line becomes the title.
func parseSources(part string) []domain.Source {
	res := []domain.Source{}
	for _, m := range reSource.FindAllStringSubmatch(part, -1) {
		val := strings.TrimSpace(m[1])
		if val == "" {
			continue
		}
		title, uri, found := strings.Cut(val, "|")
		if !found {
			uri = reURL.FindString(val)
			title = strings.Replace(val, uri, "", 1)
		}
		title = strings.Trim(strings.TrimSpace(title), "[]()-–, ")
		uri = strings.Trim(strings.TrimSpace(uri), "[]()<>")
		if !strings.HasPrefix(uri, "http://") && !strings.HasPrefix(uri, "https://") {
			continue
		}
		if title == "" {
			title = uri
		}
		res = append(res, domain.Source{Title: title, URI: uri})
	}
	return res
}
