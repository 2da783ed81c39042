package domain

import (
	"context"
	"encoding/json"
)

// Page is a fetched document. URL is the final url after redirects.
type Page struct {
	URL    string
	Status int
	Body   []byte
}

type Fetcher interface {
	Fetch(ctx context.Context, url string) (Page, error)
}

type JSONPoster interface {
	PostJSON(ctx context.Context, url string, payload any, headers map[string]string, out any) (int, error)
}

type HotelRepository interface {
	// Write paths
	UpsertHotel(ctx context.Context, h HotelView) error
	UpsertReviews(ctx context.Context, rs []StoredReview) error
	UpsertPreviews(ctx context.Context, query string, ps []SearchPreview) error
	LogMiss(ctx context.Context, id int64, status int, reason string) error

	// Read paths
	GetHotel(ctx context.Context, id int64) (HotelView, error)
	ListHotels(ctx context.Context, q HotelsQuery) (HotelsPage, error)
	ListReviews(ctx context.Context, id int64, pg PageQuery) (ReviewsPage, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Read models & queries
type HotelView struct {
	ID          int64           `json:"id"`
	URL         string          `json:"url"`
	Name        *string         `json:"name,omitempty"`
	Rating      *float64        `json:"rating,omitempty"`
	ReviewCount int             `json:"review_count"`
	Description *string         `json:"description,omitempty"`
	Amenities   []string        `json:"amenities"`
	Raw         json.RawMessage `json:"-"`
}

// StoredReview is a review row. SourceID is a content hash, stable across re-scrapes.
type StoredReview struct {
	ID       int64   `json:"id"`
	HotelID  int64   `json:"hotel_id"`
	SourceID string  `json:"source_id"`
	Title    *string `json:"title,omitempty"`
	Text     string  `json:"text"`
	Rating   *int    `json:"rating,omitempty"`
	TripDate *string `json:"trip_date,omitempty"`
}

type HotelsQuery struct {
	Limit int
}

type PageQuery struct {
	Limit int
	Sort  string // "newest" (default) or "rating"
}

type HotelsPage struct {
	Items      []HotelView `json:"items"`
	NextCursor *string     `json:"next_cursor,omitempty"`
}

type ReviewsPage struct {
	Items      []StoredReview `json:"items"`
	NextCursor *string        `json:"next_cursor,omitempty"`
}
