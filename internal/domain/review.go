package domain

type ReviewRecord struct {
	Title    *string `json:"title" csv:"Title"`
	Text     string  `json:"text" csv:"Text"`
	Rating   *int    `json:"rate" csv:"Rating"`
	TripDate *string `json:"tripDate" csv:"Trip Date"`
}
