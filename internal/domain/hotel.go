package domain

import (
	"encoding/json"
	"regexp"
	"strconv"
)

// SearchPreview is a listing found on a hotel search page.
type SearchPreview struct {
	URL  string `json:"url" csv:"url"`
	Name string `json:"name" csv:"name"`
}

// AggregateRating is the typed view of the aggregateRating block.
// ReviewCount is 0 when the page does not declare one.
type AggregateRating struct {
	RatingValue *float64 `json:"ratingValue,omitempty"`
	ReviewCount int      `json:"reviewCount"`
}

// BasicData is the structured-data script decoded from a hotel page.
// Raw keeps the whole payload; the typed fields are what callers rely on.
type BasicData struct {
	Name            string          `json:"name,omitempty"`
	AggregateRating AggregateRating `json:"aggregateRating"`
	Raw             json.RawMessage `json:"raw"`
}

// HotelRecord is built from the first hotel page and grows as later review pages are merged.
type HotelRecord struct {
	URL         string         `json:"url"`
	BasicData   BasicData      `json:"basic_data"`
	Description *string        `json:"description"`
	Amenities   []string       `json:"features"`
	Reviews     []ReviewRecord `json:"reviews"`
}

var hotelIDRe = regexp.MustCompile(`-d(\d+)-`)

// HotelIDFromURL pulls the numeric location id (the "d123" segment) from a hotel url.
func HotelIDFromURL(u string) (int64, bool) {
	m := hotelIDRe.FindStringSubmatch(u)
	if m == nil {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
