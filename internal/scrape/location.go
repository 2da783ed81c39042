package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"tripadvisor_hotels/internal/adapters/observability"
	"tripadvisor_hotels/internal/domain"
)

const (
	typeaheadPath    = "/data/graphql/ids"
	typeaheadQueryID = "84b17ed122fbdbd4"
	requestIDLength  = 180
)

var locationTypes = []string{
	"GEO", "AIRPORT", "ACCOMMODATION", "ATTRACTION", "ATTRACTION_PRODUCT", "EATERY",
	"NEIGHBORHOOD", "AIRLINE", "SHOPPING", "UNIVERSITY", "GENERAL_HOSPITAL", "PORT",
	"FERRY", "CORPORATION", "VACATION_RENTAL", "SHIP", "CRUISE_LINE", "CAR_RENTAL_OFFICE",
}

type typeaheadRequest struct {
	Query           string   `json:"query"`
	Limit           int      `json:"limit"`
	Scope           string   `json:"scope"`
	Locale          string   `json:"locale"`
	ScopeGeoID      int      `json:"scopeGeoId"`
	SearchCenter    any      `json:"searchCenter"`
	Types           []string `json:"types"`
	LocationTypes   []string `json:"locationTypes"`
	UserID          any      `json:"userId"`
	Context         struct{} `json:"context"`
	EnabledFeatures []string `json:"enabledFeatures"`
	IncludeRecent   bool     `json:"includeRecent"`
}

type typeaheadQuery struct {
	Variables struct {
		Request typeaheadRequest `json:"request"`
	} `json:"variables"`
	Query      string `json:"query"`
	Extensions struct {
		PreRegisteredQueryID string `json:"preRegisteredQueryId"`
	} `json:"extensions"`
}

// TypeaheadPayload is the fixed batch request body for query.
func TypeaheadPayload(query string) []typeaheadQuery {
	var q typeaheadQuery
	q.Variables.Request = typeaheadRequest{
		Query:           query,
		Limit:           10,
		Scope:           "WORLDWIDE",
		Locale:          "en-US",
		ScopeGeoID:      1,
		Types:           []string{"LOCATION"},
		LocationTypes:   locationTypes,
		EnabledFeatures: []string{"articles"},
		IncludeRecent:   true,
	}
	q.Query = typeaheadQueryID
	q.Extensions.PreRegisteredQueryID = typeaheadQueryID
	return []typeaheadQuery{q}
}

// Resolver turns a free-text place name into location records via one typeahead request.
type Resolver struct {
	poster  domain.JSONPoster
	baseURL string
	newID   func() string
}

// NewResolver uses newID for the per-request X-Requested-By value; nil gives a constant id.
func NewResolver(p domain.JSONPoster, baseURL string, newID func(n int) string) *Resolver {
	r := &Resolver{poster: p, baseURL: strings.TrimRight(baseURL, "/")}
	r.newID = func() string { return strings.Repeat("0", requestIDLength) }
	if newID != nil {
		r.newID = func() string { return newID(requestIDLength) }
	}
	return r
}

// Resolve returns candidates in relevance order. It fails with domain.ErrNotFound
// when no candidate carries location details.
func (r *Resolver) Resolve(ctx context.Context, query string) ([]domain.LocationRecord, error) {
	log.Info().Str("query", query).Msg("scraping location data")

	headers := map[string]string{
		"X-Requested-By": r.newID(),
		"Referer":        r.baseURL + "/Hotels",
		"Origin":         r.baseURL,
	}
	var raw json.RawMessage
	if _, err := r.poster.PostJSON(ctx, r.baseURL+typeaheadPath, TypeaheadPayload(query), headers, &raw); err != nil {
		observability.ObservePage("location", observability.Outcome(err))
		return nil, fmt.Errorf("location %q: %w", query, err)
	}

	locs, err := ParseLocations(raw)
	if err != nil {
		observability.ObservePage("location", "malformed")
		return nil, fmt.Errorf("location %q: %w", query, err)
	}
	observability.ObservePage("location", "ok")
	observability.ObserveRecords("location", len(locs))

	log.Info().Str("query", query).Int("results", len(locs)).Msg("found location results")
	if len(locs) == 0 {
		return nil, fmt.Errorf("location %q: %w", query, domain.ErrNotFound)
	}
	return locs, nil
}

type typeaheadResponse []struct {
	Data struct {
		Typeahead struct {
			Results []struct {
				Details json.RawMessage `json:"details"`
			} `json:"results"`
		} `json:"Typeahead_autocomplete"`
	} `json:"data"`
}

// ParseLocations decodes a typeahead batch response. Candidates without details
// are dropped with a warning.
func ParseLocations(body []byte) ([]domain.LocationRecord, error) {
	var resp typeaheadResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &domain.MalformedPageError{URL: typeaheadPath, Reason: "decode typeahead response", Err: err}
	}
	if len(resp) == 0 {
		return []domain.LocationRecord{}, nil
	}

	out := make([]domain.LocationRecord, 0, len(resp[0].Data.Typeahead.Results))
	for i, res := range resp[0].Data.Typeahead.Results {
		d := bytes.TrimSpace(res.Details)
		if len(d) == 0 || bytes.Equal(d, []byte("null")) || bytes.Equal(d, []byte("{}")) {
			log.Warn().Int("index", i).Msg("missing details in location result")
			continue
		}
		var loc domain.LocationRecord
		if err := json.Unmarshal(d, &loc); err != nil {
			log.Warn().Int("index", i).Err(err).Msg("undecodable details in location result")
			continue
		}
		out = append(out, loc)
	}
	return out, nil
}
