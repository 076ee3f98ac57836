package domain

import (
	"fmt"
	"strings"
)

// Category is one of the fixed briefing categories or the meta-value All
type Category string

// enum of categories
const (
	CategoryAll           Category = "All"
	CategoryDefense       Category = "Defense"
	CategoryPolity        Category = "Polity"
	CategoryEconomy       Category = "Economy"
	CategoryInternational Category = "International"
	CategoryScience       Category = "Science"
	CategoryEnvironment   Category = "Environment"
	CategorySports        Category = "Sports"
	CategoryMisc          Category = "Miscellaneous"
)

// Categories lists concrete categories, without All
var Categories = []Category{
	CategoryDefense, CategoryPolity, CategoryEconomy, CategoryInternational,
	CategoryScience, CategoryEnvironment, CategorySports, CategoryMisc,
}

// ParseCategory converts string to category, case-insensitive. All is accepted.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, string(CategoryAll)) {
		return CategoryAll, nil
	}
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q", s)
}

// NormalizeCategory maps generator-supplied text to a concrete category,
// falling back to Miscellaneous for anything unknown
func NormalizeCategory(s string) Category {
	c, err := ParseCategory(s)
	if err != nil || c == CategoryAll {
		return CategoryMisc
	}
	return c
}

// Feed is an RSS/Atom source bound to a category
type Feed struct {
	Category Category
	URL      string
	Name     string
}
