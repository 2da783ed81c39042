package app

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"

	"tripadvisor_hotels/internal/domain"
)

/********** tiny helpers **********/

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func ptrStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

/********** hotel mapper **********/

func mapHotel(id int64, h domain.HotelRecord) domain.HotelView {
	amenities := h.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return domain.HotelView{
		ID:          id,
		URL:         h.URL,
		Name:        ptrStr(strings.TrimSpace(h.BasicData.Name)),
		Rating:      h.BasicData.AggregateRating.RatingValue,
		ReviewCount: h.BasicData.AggregateRating.ReviewCount,
		Description: h.Description,
		Amenities:   amenities,
		Raw:         h.BasicData.Raw,
	}
}

/********** reviews mapper **********/

// mapReviews drops exact duplicates, which the site serves when review pages overlap.
func mapReviews(hotelID int64, in []domain.ReviewRecord) []domain.StoredReview {
	out := make([]domain.StoredReview, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, r := range in {
		id := reviewSourceID(r)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, domain.StoredReview{
			HotelID:  hotelID,
			SourceID: id,
			Title:    r.Title,
			Text:     r.Text,
			Rating:   r.Rating,
			TripDate: r.TripDate,
		})
	}
	return out
}

// reviewSourceID synthesizes a stable hash from the review content.
func reviewSourceID(r domain.ReviewRecord) string {
	rating := ""
	if r.Rating != nil {
		rating = strconv.Itoa(*r.Rating)
	}
	sig := strings.Join([]string{deref(r.Title), r.Text, rating, deref(r.TripDate)}, "|")
	sum := sha1.Sum([]byte(sig))
	return hex.EncodeToString(sum[:])
}
