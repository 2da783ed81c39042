package scrape_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripadvisor_hotels/internal/domain"
	"tripadvisor_hotels/internal/scrape"
)

const typeaheadResponse = `[{"data":{"Typeahead_autocomplete":{"results":[
	{"__typename":"Typeahead_LocationItem","details":{"localizedName":"Malta","url":"/Tourism-g190311-Malta-Vacations.html",
		"HOTELS_URL":"/Hotels-g190311-Malta-Hotels.html","ATTRACTIONS_URL":"/Attractions-g190311-Activities-Malta.html",
		"RESTAURANTS_URL":"/Restaurants-g190311-Malta.html","placeType":"COUNTRY","latitude":35.892,"longitude":14.4423}},
	{"__typename":"Typeahead_QuerySuggestion","text":"malta hotels"},
	{"__typename":"Typeahead_LocationItem","details":{"localizedName":"Malta, Montana","HOTELS_URL":"/Hotels-g45270-Malta_Montana-Hotels.html",
		"placeType":"CITY","latitude":48.36,"longitude":-107.87}}
]}}}]`

type fakePoster struct {
	status  int
	body    string
	url     string
	payload any
	headers map[string]string
}

func (p *fakePoster) PostJSON(ctx context.Context, url string, payload any, headers map[string]string, out any) (int, error) {
	p.url, p.payload, p.headers = url, payload, headers
	if p.status != http.StatusOK {
		return p.status, &domain.BlockedError{URL: url, Status: p.status}
	}
	return p.status, json.Unmarshal([]byte(p.body), out)
}

func TestParseLocationsDropsMissingDetails(t *testing.T) {
	locs, err := scrape.ParseLocations([]byte(typeaheadResponse))
	require.NoError(t, err)
	require.Len(t, locs, 2)

	assert.Equal(t, domain.LocationRecord{
		DisplayName:     "Malta",
		URL:             "/Tourism-g190311-Malta-Vacations.html",
		HotelsPath:      "/Hotels-g190311-Malta-Hotels.html",
		AttractionsPath: "/Attractions-g190311-Activities-Malta.html",
		RestaurantsPath: "/Restaurants-g190311-Malta.html",
		PlaceType:       "COUNTRY",
		Latitude:        35.892,
		Longitude:       14.4423,
	}, locs[0])
	assert.Equal(t, "Malta, Montana", locs[1].DisplayName)
}

func TestParseLocationsNullAndEmptyDetails(t *testing.T) {
	body := `[{"data":{"Typeahead_autocomplete":{"results":[{"details":null},{"details":{}},{"details":{"localizedName":"Gozo"}}]}}}]`
	locs, err := scrape.ParseLocations([]byte(body))
	require.NoError(t, err)
	require.Len(t, locs, 1)
	assert.Equal(t, "Gozo", locs[0].DisplayName)
}

func TestParseLocationsMalformed(t *testing.T) {
	_, err := scrape.ParseLocations([]byte(`<html>blocked</html>`))
	assert.ErrorIs(t, err, domain.ErrMalformedPage)
}

func TestResolve(t *testing.T) {
	p := &fakePoster{status: http.StatusOK, body: typeaheadResponse}
	r := scrape.NewResolver(p, siteURL, func(n int) string { return "id" })

	locs, err := r.Resolve(context.Background(), "Malta")
	require.NoError(t, err)
	require.Len(t, locs, 2)

	assert.Equal(t, siteURL+"/data/graphql/ids", p.url)
	assert.Equal(t, map[string]string{
		"X-Requested-By": "id",
		"Referer":        siteURL + "/Hotels",
		"Origin":         siteURL,
	}, p.headers)

	raw, err := json.Marshal(p.payload)
	require.NoError(t, err)
	var sent []map[string]any
	require.NoError(t, json.Unmarshal(raw, &sent))
	require.Len(t, sent, 1)
	req := sent[0]["variables"].(map[string]any)["request"].(map[string]any)
	assert.Equal(t, "Malta", req["query"])
	assert.Equal(t, "WORLDWIDE", req["scope"])
	assert.EqualValues(t, 10, req["limit"])
	assert.Equal(t, "84b17ed122fbdbd4", sent[0]["query"])
}

func TestResolveNotFound(t *testing.T) {
	p := &fakePoster{status: http.StatusOK, body: `[{"data":{"Typeahead_autocomplete":{"results":[{"text":"nothing"}]}}}]`}
	r := scrape.NewResolver(p, siteURL, nil)

	locs, err := r.Resolve(context.Background(), "Atlantis")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, locs)
	assert.Len(t, p.headers["X-Requested-By"], 180)
}

func TestResolveBlocked(t *testing.T) {
	p := &fakePoster{status: http.StatusForbidden}
	r := scrape.NewResolver(p, siteURL, nil)

	_, err := r.Resolve(context.Background(), "Malta")
	assert.ErrorIs(t, err, domain.ErrBlocked)
}
