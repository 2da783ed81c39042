package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"tripadvisor_hotels/internal/domain"
)

var (
	descriptionRule = Rule{Name: "description", Selectors: []string{"div.fIrGe._T"}}
	amenityRule     = Rule{Name: "amenity", Selectors: []string{"div[data-test-target*='amenity']"}}
	reviewRule      = Rule{Name: "review", Selectors: []string{"div[data-reviewid]"}}
	bubbleRule      = Rule{Name: "bubble", Selectors: []string{"span.ui_bubble_rating"}}
)

var reviewTitleRule = Rule{Name: "title", Selectors: []string{
	"div[data-test-target='review-title'] > a > span > span",
	"div[data-test-target='review-title'] a span",
}}

var reviewTextRule = Rule{Name: "text", Selectors: []string{
	"div[class='_T FKffI bmUTE'] > div[class='fIrGe _T'] > span[class='orRIx Ci _a C ']",
	"div.fIrGe._T span.orRIx",
}}

var reviewRatingRule = Rule{Name: "rating", Selectors: []string{
	"div[data-test-target='review-rating'] > svg > title",
	"div[data-test-target='review-rating'] title",
}}

var (
	leadingIntRe = regexp.MustCompile(`^\s*(\d+)`)
	bubbleRe     = regexp.MustCompile(`bubble_(\d)0`)
)

// ExtractHotelPage parses one hotel page: structured data, description, amenities
// and the reviews rendered on that page. Only a missing or undecodable
// structured-data block is an error.
func ExtractHotelPage(pageURL string, body []byte) (domain.HotelRecord, error) {
	doc, err := parseDocument(body)
	if err != nil {
		return domain.HotelRecord{}, &domain.MalformedPageError{URL: pageURL, Reason: "parse html", Err: err}
	}

	raw, ok := findAggregateScript(doc)
	if !ok {
		return domain.HotelRecord{}, &domain.MalformedPageError{URL: pageURL, Reason: "no aggregateRating script"}
	}
	bd, err := decodeBasicData(raw)
	if err != nil {
		return domain.HotelRecord{}, &domain.MalformedPageError{URL: pageURL, Reason: "decode aggregateRating script", Err: err}
	}

	h := domain.HotelRecord{
		URL:       pageURL,
		BasicData: bd,
		Amenities: ownTexts(amenityRule.Find(doc.Selection)),
		Reviews:   parseReviews(doc),
	}
	if h.Amenities == nil {
		h.Amenities = []string{}
	}
	if d, ok := descriptionRule.OwnText(doc.Selection); ok {
		h.Description = &d
	}
	return h, nil
}

func parseReviews(doc *goquery.Document) []domain.ReviewRecord {
	out := []domain.ReviewRecord{}
	reviewRule.Find(doc.Selection).Each(func(_ int, s *goquery.Selection) {
		out = append(out, parseReview(s))
	})
	return out
}

// parseReview never fails: a field that cannot be found stays nil.
func parseReview(s *goquery.Selection) domain.ReviewRecord {
	var r domain.ReviewRecord

	if t, ok := reviewTitleRule.OwnText(s); ok {
		r.Title = &t
	}

	if body := reviewTextRule.Find(s).First(); body.Length() > 0 {
		r.Text = strings.TrimSpace(body.Text())
	}

	if t, ok := reviewRatingRule.OwnText(s); ok {
		r.Rating = leadingInt(t)
	}
	if r.Rating == nil {
		if class, ok := bubbleRule.Find(s).First().Attr("class"); ok {
			if m := bubbleRe.FindStringSubmatch(class); m != nil {
				n, _ := strconv.Atoi(m[1])
				r.Rating = &n
			}
		}
	}

	r.TripDate = tripDate(s)

	if r.Title == nil || r.Rating == nil || r.TripDate == nil {
		id, _ := s.Attr("data-reviewid")
		log.Debug().
			Str("review_id", id).
			Bool("title", r.Title != nil).
			Bool("rating", r.Rating != nil).
			Bool("trip_date", r.TripDate != nil).
			Msg("review fields missing")
	}
	return r
}

// leadingInt takes the integer before the first separator: "4.0 of 5 bubbles" -> 4.
func leadingInt(s string) *int {
	m := leadingIntRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}

// tripDate reads the text that follows the "Date of stay" label inside its parent span.
func tripDate(s *goquery.Selection) *string {
	var out *string
	s.Find("span > span").EachWithBreak(func(_ int, label *goquery.Selection) bool {
		if !strings.Contains(label.Text(), "Date of stay") {
			return true
		}
		if t, ok := firstOwnText(label.Parent()); ok {
			out = strPtr(t)
			return false
		}
		return true
	})
	return out
}
