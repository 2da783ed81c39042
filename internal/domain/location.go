package domain

// LocationRecord is one typeahead candidate returned by the search-suggestion endpoint.
type LocationRecord struct {
	DisplayName     string  `json:"localizedName"`
	URL             string  `json:"url,omitempty"`
	HotelsPath      string  `json:"HOTELS_URL"`
	AttractionsPath string  `json:"ATTRACTIONS_URL"`
	RestaurantsPath string  `json:"RESTAURANTS_URL"`
	PlaceType       string  `json:"placeType"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
}
