package scrape_test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"tripadvisor_hotels/internal/domain"
)

// ---- fakes ----

// fakeFetcher serves canned pages by url; unknown urls answer 404.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]domain.Page
	calls []string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{pages: map[string]domain.Page{}}
}

func (f *fakeFetcher) add(url string, status int, body string) {
	f.pages[url] = domain.Page{URL: url, Status: status, Body: []byte(body)}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (domain.Page, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, url)
	if err := ctx.Err(); err != nil {
		return domain.Page{}, err
	}
	p, ok := f.pages[url]
	if !ok {
		return domain.Page{URL: url, Status: http.StatusNotFound}, nil
	}
	return p, nil
}

func (f *fakeFetcher) fetched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type fakeResolver struct {
	locs []domain.LocationRecord
	err  error
}

func (r fakeResolver) Resolve(ctx context.Context, query string) ([]domain.LocationRecord, error) {
	return r.locs, r.err
}

// ---- html builders ----

// listItemPage renders n previews in the primary search layout, numbered from start.
func listItemPage(start, n, total int, next string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	if total > 0 {
		fmt.Fprintf(&b, "<div><span>%s properties</span></div>", commas(total))
	}
	for i := start; i < start+n; i++ {
		fmt.Fprintf(&b, `<span class="listItem"><div data-automation="hotel-card-title">`+
			`<a href="/Hotel_Review-g190327-d%d-Reviews-Hotel_%d-Malta.html"><span>%d.</span><span>Hotel %d</span></a>`+
			`</div></span>`, 1000+i, i, i+1, i)
	}
	if next != "" {
		fmt.Fprintf(&b, `<a aria-label="Next page" href="%s">Next</a>`, next)
	}
	b.WriteString("</body></html>")
	return b.String()
}

// listingTitlePage renders n previews in the secondary search layout only.
func listingTitlePage(n int) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, `<div class="listing_title"><a href="/Hotel_Review-g1-d%d-Reviews-Old_%d.html">%d. Old Hotel %d</a></div>`,
			2000+i, i, i+1, i)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func commas(n int) string {
	s := fmt.Sprint(n)
	if len(s) <= 3 {
		return s
	}
	return s[:len(s)-3] + "," + s[len(s)-3:]
}

type reviewFixture struct {
	ID       int
	Title    string
	Text     string
	Rating   string
	TripDate string
}

func (r reviewFixture) html() string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div data-reviewid="%d">`, r.ID)
	if r.Title != "" {
		fmt.Fprintf(&b, `<div data-test-target="review-title"><a href="#"><span><span>%s</span></span></a></div>`, r.Title)
	}
	if r.Rating != "" {
		fmt.Fprintf(&b, `<div data-test-target="review-rating"><svg viewBox="0 0 88 16"><title>%s</title></svg></div>`, r.Rating)
	}
	fmt.Fprintf(&b, `<div class="_T FKffI bmUTE"><div class="fIrGe _T"><span class="orRIx Ci _a C ">%s</span></div></div>`, r.Text)
	if r.TripDate != "" {
		fmt.Fprintf(&b, `<span><span>Date of stay:</span> %s</span>`, r.TripDate)
	}
	b.WriteString("</div>")
	return b.String()
}

func reviewsFrom(start, n int) []reviewFixture {
	out := make([]reviewFixture, 0, n)
	for i := start; i < start+n; i++ {
		out = append(out, reviewFixture{
			ID:       i,
			Title:    fmt.Sprintf("Title %d", i),
			Text:     fmt.Sprintf("Review <b>body</b> %d", i),
			Rating:   "4.0 of 5 bubbles",
			TripDate: "August 2024",
		})
	}
	return out
}

// hotelPage renders a hotel page; an empty script omits the structured-data block.
func hotelPage(script, description string, amenities []string, reviews []reviewFixture) string {
	var b strings.Builder
	b.WriteString("<html><head>")
	b.WriteString(`<script>window.__WEB_CONTEXT__={pageManifest:{}};</script>`)
	if script != "" {
		fmt.Fprintf(&b, `<script type="application/ld+json">%s</script>`, script)
	}
	b.WriteString("</head><body>")
	if description != "" {
		fmt.Fprintf(&b, `<div class="fIrGe _T">%s</div>`, description)
	}
	for _, a := range amenities {
		fmt.Fprintf(&b, `<div data-test-target="amenity_text">%s</div>`, a)
	}
	for _, r := range reviews {
		b.WriteString(r.html())
	}
	b.WriteString("</body></html>")
	return b.String()
}

func ldJSON(reviewCount int) string {
	return fmt.Sprintf(`{"@context":"https://schema.org","@type":"Hotel","name":"1926 Le Soleil Hotel & Spa",`+
		`"aggregateRating":{"@type":"AggregateRating","ratingValue":4.5,"reviewCount":%d}}`, reviewCount)
}

func ptr[T any](v T) *T { return &v }
