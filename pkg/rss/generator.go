package rss

import (
	"encoding/xml"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/umputun/aspirant/pkg/domain"
)

// Generator renders bookmarks as RSS and configured feeds as OPML
type Generator struct {
	baseURL string
	now     func() time.Time
}

// NewGenerator makes a generator for links under baseURL
func NewGenerator(baseURL string) *Generator {
	return &Generator{baseURL: strings.TrimRight(baseURL, "/"), now: time.Now}
}

// GenerateRSS renders items as an RSS 2.0 feed of bookmarked briefs
func (g *Generator) GenerateRSS(items []domain.NewsItem) (string, error) {
	rssItems := make([]*Item, 0, len(items))
	for _, item := range items {
		rssItems = append(rssItems, g.rssItem(item))
	}

	doc := &Document{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &Channel{
			Title:         "Aspirant - Bookmarked Briefs",
			Link:          g.baseURL + "/",
			Description:   "Intelligence briefs saved to the vault",
			AtomLink:      &AtomLink{Href: g.baseURL + "/rss/bookmarks", Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: g.now().Format(time.RFC1123Z),
			Items:         rssItems,
		},
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}

func (g *Generator) rssItem(item domain.NewsItem) *Item {
	link := g.baseURL + "/#" + url.PathEscape(item.ID)
	if len(item.Sources) > 0 {
		link = item.Sources[0].URI
	}

	desc := item.Summary
	if len(item.Sources) > 1 {
		refs := make([]string, 0, len(item.Sources))
		for _, src := range item.Sources {
			refs = append(refs, fmt.Sprintf("%s (%s)", src.Title, src.URI))
		}
		desc += "\n\nSources: " + strings.Join(refs, ", ")
	}

	res := &Item{
		Title:       item.Title,
		Link:        link,
		GUID:        item.ID,
		Description: desc,
		Categories:  []string{string(item.Category)},
	}
	if ts, err := time.Parse(dateLayout, item.Date); err == nil {
		res.PubDate = ts.Format(time.RFC1123Z)
	}
	return res
}

// GenerateOPML renders feeds grouped by category, in the order categories are listed
func (g *Generator) GenerateOPML(feeds []domain.Feed) (string, error) {
	doc := OPML{Version: "2.0"}
	doc.Head.Title = "Aspirant Feed Subscriptions"
	doc.Head.DateCreated = g.now().Format(time.RFC1123Z)

	for _, c := range domain.Categories {
		group := Outline{Text: string(c), Title: string(c)}
		for _, f := range feeds {
			if f.Category != c {
				continue
			}
			group.Outlines = append(group.Outlines, Outline{Text: f.Name, Title: f.Name, Type: "rss", XMLURL: f.URL})
		}
		if len(group.Outlines) > 0 {
			doc.Body.Outlines = append(doc.Body.Outlines, group)
		}
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal OPML: %w", err)
	}
	return xml.Header + string(output), nil
}
