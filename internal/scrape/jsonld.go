package scrape

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"tripadvisor_hotels/internal/domain"
)

const aggregateRatingKey = "aggregateRating"

// findAggregateScript returns the text of the first script containing an aggregateRating payload.
func findAggregateScript(doc *goquery.Document) (string, bool) {
	var out string
	var found bool
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if strings.Contains(text, aggregateRatingKey) {
			out, found = strings.TrimSpace(text), true
			return false
		}
		return true
	})
	return out, found
}

// decodeBasicData decodes the structured-data block. A JSON-LD array is accepted
// and its first object carrying aggregateRating is used.
func decodeBasicData(raw string) (domain.BasicData, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return domain.BasicData{}, err
	}

	obj, ok := v.(map[string]any)
	if arr, isArr := v.([]any); isArr {
		for _, it := range arr {
			if m, isMap := it.(map[string]any); isMap && m[aggregateRatingKey] != nil {
				obj, ok = m, true
				break
			}
		}
	}
	if !ok {
		return domain.BasicData{}, errNoAggregateObject
	}

	bd := domain.BasicData{
		Name: lookupStr(obj, "name"),
		Raw:  json.RawMessage(raw),
	}
	bd.AggregateRating.RatingValue = getFloatFlexible(obj, "aggregateRating.ratingValue")
	if n := firstInt64Flexible(obj, "aggregateRating.reviewCount", "aggregateRating.ratingCount"); n != nil {
		bd.AggregateRating.ReviewCount = int(*n)
	}
	return bd, nil
}

var errNoAggregateObject = errors.New("no object with aggregateRating")

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

func lookupStr(m map[string]any, path string) string {
	if s, ok := lookupAny(m, path).(string); ok {
		return s
	}
	return ""
}

// getFloatFlexible: number from several paths (float64 or string like "4,5").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstInt64Flexible: int64 from several paths (float64 or string like "1,234").
func firstInt64Flexible(m map[string]any, paths ...string) *int64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			x := int64(v)
			return &x
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", ""))
			if s == "" {
				continue
			}
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return &n
			}
		}
	}
	return nil
}
