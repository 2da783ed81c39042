package scrape

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"tripadvisor_hotels/internal/adapters/observability"
	"tripadvisor_hotels/internal/domain"
)

var (
	totalResultsRe = regexp.MustCompile(`(\d*,*\d+) properties`)
	nextPageRule   = Rule{Name: "next page", Selectors: []string{`a[aria-label="Next page"]`}}
)

// searchLayouts lists the two listing layouts the site serves, depending on the
// experiment cohort. The first that yields previews wins.
func searchLayouts(base *url.URL) []Layout[domain.SearchPreview] {
	return []Layout[domain.SearchPreview]{
		{Name: "list-item", Parse: func(doc *goquery.Document) []domain.SearchPreview {
			var out []domain.SearchPreview
			doc.Find("span.listItem").Each(func(_ int, box *goquery.Selection) {
				link := box.Find("div[data-automation=hotel-card-title] a").First()
				href, _ := link.Attr("href")
				out = append(out, domain.SearchPreview{
					URL:  absURL(base, href),
					Name: cardTitle(link),
				})
			})
			return out
		}},
		{Name: "listing-title", Parse: func(doc *goquery.Document) []domain.SearchPreview {
			var out []domain.SearchPreview
			doc.Find("div.listing_title > a").Each(func(_ int, a *goquery.Selection) {
				href, _ := a.Attr("href")
				name, _ := firstOwnText(a)
				out = append(out, domain.SearchPreview{
					URL:  absURL(base, href),
					Name: stripRank(name),
				})
			})
			return out
		}},
	}
}

// cardTitle skips the rank text node ("1.") that precedes the name on list-item cards.
func cardTitle(link *goquery.Selection) string {
	texts := descendantTexts(link)
	switch len(texts) {
	case 0:
		return ""
	case 1:
		return stripRank(texts[0])
	default:
		return texts[1]
	}
}

// stripRank turns "3. Hotel Name" into "Hotel Name".
func stripRank(s string) string {
	parts := strings.Split(s, ". ")
	return strings.TrimSpace(parts[len(parts)-1])
}

// ParseSearchPage extracts previews from a search page body. Relative hotel urls
// are made absolute against pageURL.
func ParseSearchPage(pageURL string, body []byte) ([]domain.SearchPreview, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return nil, err
	}
	base, _ := url.Parse(pageURL)
	_, previews := parseSearchDoc(doc, base)
	return previews, nil
}

func parseSearchDoc(doc *goquery.Document, base *url.URL) (string, []domain.SearchPreview) {
	return firstLayout(doc, searchLayouts(base))
}

// totalResults reads the "<count> properties" text on a search page.
func totalResults(doc *goquery.Document) (int, bool) {
	for _, t := range ownTexts(doc.Find("span")) {
		m := totalResultsRe.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			continue
		}
		return n, true
	}
	return 0, false
}

// PaginateSearch collects previews from startURL and every follow-up page.
// Page size comes from the number of previews on the first page. maxPages <= 0 means no limit.
func (s *Scraper) PaginateSearch(ctx context.Context, startURL string, maxPages int) ([]domain.SearchPreview, error) {
	first, err := s.fetchPrimary(ctx, "search", startURL)
	if err != nil {
		return nil, fmt.Errorf("search first page: %w", err)
	}
	doc, err := parseDocument(first.Body)
	if err != nil {
		return nil, fmt.Errorf("search first page: %w", &domain.MalformedPageError{URL: first.URL, Reason: "parse html", Err: err})
	}
	base, _ := url.Parse(first.URL)

	layout, results := parseSearchDoc(doc, base)
	if len(results) == 0 {
		observability.ObservePage("search", "empty")
		log.Error().Str("url", startURL).Msg("search found no results")
		return nil, fmt.Errorf("search %s: %w", startURL, domain.ErrEmptyResult)
	}
	observability.ObservePage("search", "ok")

	pageSize := len(results)
	totalPages := 1
	total, ok := totalResults(doc)
	if ok {
		totalPages = TotalPages(total, pageSize, maxPages)
	} else {
		log.Warn().Str("url", startURL).Msg("result count not found, scraping first page only")
	}

	var urls []string
	nextURL, _ := nextPageRule.Find(doc.Selection).First().Attr("href")
	nextURL = absURL(base, nextURL)
	if tpl, ok := NewSearchOffset(nextURL, pageSize); ok {
		if urls, err = tpl.URLs(totalPages); err != nil {
			return nil, err
		}
	} else if totalPages > 1 {
		log.Warn().Str("url", startURL).Str("next", nextURL).Msg("no offset token in next page url, scraping first page only")
	}

	log.Info().
		Str("url", startURL).
		Str("layout", layout).
		Int("total_results", total).
		Int("page_size", pageSize).
		Int("total_pages", 1+len(urls)).
		Msg("scraping search pagination pages")

	err = s.fetchEach(ctx, "search", urls, func(p domain.Page) error {
		previews, err := ParseSearchPage(p.URL, p.Body)
		if err != nil {
			return &domain.MalformedPageError{URL: p.URL, Reason: "parse html", Err: err}
		}
		observability.ObservePage("search", "ok")
		results = append(results, previews...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("search pages: %w", err)
	}

	observability.ObserveRecords("preview", len(results))
	log.Info().Str("url", startURL).Int("results", len(results)).Msg("scraped search results")
	return results, nil
}

// SearchHotels resolves query to a location and paginates its hotel search page.
func (s *Scraper) SearchHotels(ctx context.Context, query string, maxPages int) ([]domain.SearchPreview, error) {
	if s.resolver == nil {
		return nil, fmt.Errorf("search %q: no location resolver configured", query)
	}
	locs, err := s.resolver.Resolve(ctx, query)
	if err != nil {
		return nil, err
	}
	loc := locs[0]
	if loc.HotelsPath == "" {
		return nil, fmt.Errorf("location %q has no hotels url: %w", loc.DisplayName, domain.ErrNotFound)
	}
	startURL := strings.TrimRight(s.baseURL, "/") + loc.HotelsPath
	log.Info().Str("query", query).Str("url", startURL).Msg("found hotel search url")
	return s.PaginateSearch(ctx, startURL, maxPages)
}
