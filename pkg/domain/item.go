package domain

import (
	"strconv"
	"strings"
	"unicode/utf16"
)

// NewsItem represents a single AI-synthesized briefing unit
type NewsItem struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Summary      string   `json:"summary"`
	Date         string   `json:"date"`
	Category     Category `json:"category"`
	Sources      []Source `json:"sources"`
	IsBookmarked bool     `json:"isBookmarked,omitempty"`
}

// Source is a citation attached to a news item
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// ItemIDPrefix is prepended to every content-addressed item id
const ItemIDPrefix = "intel-"

// ItemID derives a stable identifier from the title text.
// It is a 32-bit rolling hash (h*31 + unit) over the UTF-16 code units of the title,
// rendered in base 36. Identical titles always collapse to the same id, even when they
// describe different events.
func ItemID(title string) string {
	var h int32
	for _, u := range utf16.Encode([]rune(title)) {
		h = (h << 5) - h + int32(u)
	}
	abs := int64(h)
	if abs < 0 {
		abs = -abs
	}
	return ItemIDPrefix + strconv.FormatInt(abs, 36)
}

// NewNewsItem makes an item with id derived from the title
func NewNewsItem(title, summary, date string, category Category, sources []Source) NewsItem {
	title = strings.TrimSpace(title)
	if sources == nil {
		sources = []Source{}
	}
	return NewsItem{
		ID:       ItemID(title),
		Title:    title,
		Summary:  strings.TrimSpace(summary),
		Date:     strings.TrimSpace(date),
		Category: category,
		Sources:  sources,
	}
}

// IDs returns ids of the given items in order
func IDs(items []NewsItem) []string {
	res := make([]string, len(items))
	for i, item := range items {
		res[i] = item.ID
	}
	return res
}

// CloneItems returns a copy of the slice, safe to hand out to readers
func CloneItems(items []NewsItem) []NewsItem {
	if items == nil {
		return nil
	}
	res := make([]NewsItem, len(items))
	copy(res, items)
	return res
}
