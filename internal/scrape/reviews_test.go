package scrape_test

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripadvisor_hotels/internal/domain"
	"tripadvisor_hotels/internal/scrape"
)

func reviewPageURL(offset string) string {
	return strings.Replace(hotelURL, "-Reviews-", "-Reviews-or"+offset+"-", 1)
}

// seedReviews serves a hotel declaring reviewCount with the given number of
// reviews on the first page and on each follow-up page.
func seedReviews(f *fakeFetcher, reviewCount int, perPage ...int) {
	id := 0
	for i, n := range perPage {
		u := hotelURL
		if i > 0 {
			u = reviewPageURL(strconv.Itoa(i * scrape.ReviewPageSize))
		}
		f.add(u, http.StatusOK, hotelPage(ldJSON(reviewCount), "Seafront.", []string{"Pool"}, reviewsFrom(id, n)))
		id += n
	}
}

func TestPaginateReviews(t *testing.T) {
	f := newFakeFetcher()
	seedReviews(f, 25, 10, 10, 5)
	s := scrape.NewScraper(f)

	h, err := s.PaginateReviews(context.Background(), hotelURL, 0)
	require.NoError(t, err)

	assert.Len(t, h.Reviews, 25)
	assert.Equal(t, hotelURL, h.URL)
	assert.Equal(t, []string{"Pool"}, h.Amenities)
	require.NotNil(t, h.Description)

	calls := f.fetched()
	require.Len(t, calls, 3)
	assert.Equal(t, hotelURL, calls[0])
	assert.ElementsMatch(t, []string{reviewPageURL("10"), reviewPageURL("20")}, calls[1:])

	// first page reviews stay first
	assert.Equal(t, "Title 0", *h.Reviews[0].Title)
}

func TestPaginateReviewsMaxPages(t *testing.T) {
	f := newFakeFetcher()
	seedReviews(f, 45, 10, 10, 10, 10, 5)
	s := scrape.NewScraper(f)

	h, err := s.PaginateReviews(context.Background(), hotelURL, 2)
	require.NoError(t, err)
	assert.Len(t, h.Reviews, 20)
	assert.Len(t, f.fetched(), 2)
}

func TestPaginateReviewsTruncatesToDeclaredCount(t *testing.T) {
	f := newFakeFetcher()
	seedReviews(f, 25, 10, 10, 10)
	s := scrape.NewScraper(f)

	h, err := s.PaginateReviews(context.Background(), hotelURL, 0)
	require.NoError(t, err)
	assert.Len(t, h.Reviews, 25)
}

func TestPaginateReviewsEmptyFollowUpPage(t *testing.T) {
	f := newFakeFetcher()
	seedReviews(f, 25, 10, 0, 5)
	s := scrape.NewScraper(f)

	h, err := s.PaginateReviews(context.Background(), hotelURL, 0)
	require.NoError(t, err)
	assert.Len(t, h.Reviews, 15)
}

func TestPaginateReviewsSinglePage(t *testing.T) {
	f := newFakeFetcher()
	seedReviews(f, 4, 4)
	s := scrape.NewScraper(f)

	h, err := s.PaginateReviews(context.Background(), hotelURL, 0)
	require.NoError(t, err)
	assert.Len(t, h.Reviews, 4)
	assert.Len(t, f.fetched(), 1)
}

func TestPaginateReviewsBlocked(t *testing.T) {
	f := newFakeFetcher()
	f.add(hotelURL, http.StatusForbidden, "")
	s := scrape.NewScraper(f)

	_, err := s.PaginateReviews(context.Background(), hotelURL, 0)
	assert.ErrorIs(t, err, domain.ErrBlocked)
}

func TestPaginateReviewsMalformedFollowUpAborts(t *testing.T) {
	f := newFakeFetcher()
	seedReviews(f, 25, 10, 10, 5)
	f.add(reviewPageURL("20"), http.StatusOK, "<html><body>Access denied</body></html>")
	s := scrape.NewScraper(f)

	_, err := s.PaginateReviews(context.Background(), hotelURL, 0)
	assert.ErrorIs(t, err, domain.ErrMalformedPage)
}

func TestScrapeHotel(t *testing.T) {
	f := newFakeFetcher()
	seedReviews(f, 25, 10, 10, 5)
	s := scrape.NewScraper(f)

	h, err := s.ScrapeHotel(context.Background(), hotelURL)
	require.NoError(t, err)
	assert.Len(t, h.Reviews, 10)
	assert.Equal(t, 25, h.BasicData.AggregateRating.ReviewCount)
	assert.Len(t, f.fetched(), 1)
}
