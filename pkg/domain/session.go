package domain

import (
	"fmt"
	"strings"
)

// DefaultRank is assigned to every authenticated user
const DefaultRank = "Officer Cadet"

// User is the identity of an authenticated session
type User struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Rank  string `json:"rank"`
}

// Session is an active authenticated session. nil *Session means "no session".
type Session struct {
	User User `json:"user"`
}

// Intent is the declared usage mode of the user
type Intent string

// enum of intents, IntentNone means not chosen yet
const (
	IntentNone        Intent = ""
	IntentNewsTrack   Intent = "news_track"
	IntentPreparation Intent = "preparation"
)

// ParseIntent validates intent string
func ParseIntent(s string) (Intent, error) {
	switch Intent(strings.TrimSpace(s)) {
	case IntentNewsTrack:
		return IntentNewsTrack, nil
	case IntentPreparation:
		return IntentPreparation, nil
	}
	return IntentNone, fmt.Errorf("unknown intent %q", s)
}

// HasInterstitial reports whether a synthetic history snapshot card is rendered
// at the head of the feed for this intent and category
func (i Intent) HasInterstitial(c Category) bool {
	return i == IntentPreparation && c == CategoryAll
}

// DateFilter is a temporal scope for archive search
type DateFilter string

// enum of date filters
const (
	DateToday      DateFilter = "Today"
	DateLast7Days  DateFilter = "Last 7 Days"
	DateLast30Days DateFilter = "Last 30 Days"
)

// ParseDateFilter converts string to DateFilter, empty string means Today
func ParseDateFilter(s string) (DateFilter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return DateToday, nil
	case "last 7 days", "last7days", "7d", "week":
		return DateLast7Days, nil
	case "last 30 days", "last30days", "30d", "month":
		return DateLast30Days, nil
	}
	return "", fmt.Errorf("unknown date filter %q", s)
}

// Days returns the window size of the filter in days
func (d DateFilter) Days() int {
	switch d {
	case DateLast7Days:
		return 7
	case DateLast30Days:
		return 30
	default:
		return 1
	}
}
