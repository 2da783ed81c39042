package scrape

import (
	"github.com/PuerkitoBio/goquery"
)

// Rule extracts one field. Selectors are tried in order; the first that matches
// at least one node wins. Markup changes are absorbed here, not in callers.
type Rule struct {
	Name      string
	Selectors []string
}

func (r Rule) Find(s *goquery.Selection) *goquery.Selection {
	for _, sel := range r.Selectors {
		if found := s.Find(sel); found.Length() > 0 {
			return found
		}
	}
	return s.Slice(0, 0)
}

// OwnText is the first non-blank direct text node under the first matching selector.
func (r Rule) OwnText(s *goquery.Selection) (string, bool) {
	for _, sel := range r.Selectors {
		if t, ok := firstOwnText(s.Find(sel)); ok {
			return t, true
		}
	}
	return "", false
}

// Layout is a whole-page strategy. Layouts are tried in order and the first
// one that yields items wins.
type Layout[T any] struct {
	Name  string
	Parse func(doc *goquery.Document) []T
}

func firstLayout[T any](doc *goquery.Document, layouts []Layout[T]) (string, []T) {
	for _, l := range layouts {
		if items := l.Parse(doc); len(items) > 0 {
			return l.Name, items
		}
	}
	return "", nil
}
