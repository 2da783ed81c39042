package scrape_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripadvisor_hotels/internal/domain"
	"tripadvisor_hotels/internal/scrape"
)

const hotelURL = "https://www.tripadvisor.com/Hotel_Review-g190327-d264936-Reviews-1926_Le_Soleil_Hotel_Spa-Sliema_Island_of_Malta.html"

func TestExtractHotelPage(t *testing.T) {
	body := hotelPage(ldJSON(25), "Seafront hotel in Sliema.", []string{"Pool", "Free WiFi"}, []reviewFixture{
		{ID: 1, Title: "Great stay", Text: "Loved <b>the</b> view.", Rating: "5.0 of 5 bubbles", TripDate: "August 2024"},
		{ID: 2, Title: "Noisy", Text: "Thin walls.", Rating: "2.0 of 5 bubbles", TripDate: "July 2024"},
	})

	h, err := scrape.ExtractHotelPage(hotelURL, []byte(body))
	require.NoError(t, err)

	assert.Equal(t, hotelURL, h.URL)
	assert.Equal(t, "1926 Le Soleil Hotel & Spa", h.BasicData.Name)
	assert.Equal(t, 25, h.BasicData.AggregateRating.ReviewCount)
	require.NotNil(t, h.BasicData.AggregateRating.RatingValue)
	assert.InDelta(t, 4.5, *h.BasicData.AggregateRating.RatingValue, 1e-9)
	assert.JSONEq(t, ldJSON(25), string(h.BasicData.Raw))

	require.NotNil(t, h.Description)
	assert.Equal(t, "Seafront hotel in Sliema.", *h.Description)
	assert.Equal(t, []string{"Pool", "Free WiFi"}, h.Amenities)

	require.Len(t, h.Reviews, 2)
	assert.Equal(t, domain.ReviewRecord{
		Title:    ptr("Great stay"),
		Text:     "Loved the view.",
		Rating:   ptr(5),
		TripDate: ptr("August 2024"),
	}, h.Reviews[0])
	assert.Equal(t, 2, *h.Reviews[1].Rating)
	assert.Equal(t, "Noisy", *h.Reviews[1].Title)
}

func TestExtractHotelPageNoReviews(t *testing.T) {
	h, err := scrape.ExtractHotelPage(hotelURL, []byte(hotelPage(ldJSON(0), "", nil, nil)))
	require.NoError(t, err)

	assert.NotNil(t, h.Reviews)
	assert.Empty(t, h.Reviews)
	assert.NotNil(t, h.Amenities)
	assert.Empty(t, h.Amenities)
	assert.Nil(t, h.Description)
}

func TestExtractHotelPageMissingTitle(t *testing.T) {
	body := hotelPage(ldJSON(1), "", nil, []reviewFixture{
		{ID: 7, Text: "No headline here.", Rating: "3.0 of 5 bubbles", TripDate: "May 2023"},
	})

	h, err := scrape.ExtractHotelPage(hotelURL, []byte(body))
	require.NoError(t, err)
	require.Len(t, h.Reviews, 1)

	r := h.Reviews[0]
	assert.Nil(t, r.Title)
	assert.Equal(t, "No headline here.", r.Text)
	require.NotNil(t, r.Rating)
	assert.Equal(t, 3, *r.Rating)
	require.NotNil(t, r.TripDate)
	assert.Equal(t, "May 2023", *r.TripDate)
}

func TestExtractHotelPageMissingFieldsDoNotAbort(t *testing.T) {
	body := hotelPage(ldJSON(2), "", nil, []reviewFixture{
		{ID: 1, Text: "Bare review."},
		{ID: 2, Title: "Complete", Text: "All fields.", Rating: "4.0 of 5 bubbles", TripDate: "June 2024"},
	})

	h, err := scrape.ExtractHotelPage(hotelURL, []byte(body))
	require.NoError(t, err)
	require.Len(t, h.Reviews, 2)

	assert.Nil(t, h.Reviews[0].Title)
	assert.Nil(t, h.Reviews[0].Rating)
	assert.Nil(t, h.Reviews[0].TripDate)
	assert.Equal(t, "Bare review.", h.Reviews[0].Text)
	assert.Equal(t, "Complete", *h.Reviews[1].Title)
}

func TestExtractHotelPageBubbleRatingFallback(t *testing.T) {
	body := hotelPage(ldJSON(1), "", nil, nil)
	body = body[:len(body)-len("</body></html>")] +
		`<div data-reviewid="9"><span class="ui_bubble_rating bubble_40"></span>` +
		`<div class="_T FKffI bmUTE"><div class="fIrGe _T"><span class="orRIx Ci _a C ">Old markup.</span></div></div></div>` +
		"</body></html>"

	h, err := scrape.ExtractHotelPage(hotelURL, []byte(body))
	require.NoError(t, err)
	require.Len(t, h.Reviews, 1)
	require.NotNil(t, h.Reviews[0].Rating)
	assert.Equal(t, 4, *h.Reviews[0].Rating)
}

func TestExtractHotelPageJSONLDArray(t *testing.T) {
	script := `[{"@type":"BreadcrumbList"},{"@type":"Hotel","name":"Array Hotel","aggregateRating":{"ratingValue":"4.0","reviewCount":"1,234"}}]`

	h, err := scrape.ExtractHotelPage(hotelURL, []byte(hotelPage(script, "", nil, nil)))
	require.NoError(t, err)
	assert.Equal(t, "Array Hotel", h.BasicData.Name)
	assert.Equal(t, 1234, h.BasicData.AggregateRating.ReviewCount)
	require.NotNil(t, h.BasicData.AggregateRating.RatingValue)
	assert.InDelta(t, 4.0, *h.BasicData.AggregateRating.RatingValue, 1e-9)
}

func TestExtractHotelPageMalformed(t *testing.T) {
	cases := map[string]string{
		"no script":    hotelPage("", "desc", nil, nil),
		"invalid json": hotelPage(`{"aggregateRating": {`, "", nil, nil),
		"no object":    hotelPage(`["aggregateRating"]`, "", nil, nil),
		"interstitial": "<html><body>Please verify you are a human</body></html>",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := scrape.ExtractHotelPage(hotelURL, []byte(body))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformedPage)

			var mp *domain.MalformedPageError
			require.True(t, errors.As(err, &mp))
			assert.Equal(t, hotelURL, mp.URL)
		})
	}
}
