package scrape

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ReviewPageSize is how many reviews the site renders per hotel page.
const ReviewPageSize = 10

// OffsetTemplate is a pagination url with its offset token cut out.
// Render(i) puts marker+step*i back in, e.g. "oa60" on search pages or "or20" on review pages.
type OffsetTemplate struct {
	prefix string
	marker string
	suffix string
	step   int
}

var searchOffsetRe = regexp.MustCompile(`oa(\d+)`)

// NewSearchOffset builds the template from the "next page" url of a search result,
// whose token carries the first page size ("...-oa30-..."). ok is false when the
// url has no such token; pagination then stops at the first page.
func NewSearchOffset(nextURL string, pageSize int) (OffsetTemplate, bool) {
	if pageSize <= 0 || nextURL == "" {
		return OffsetTemplate{}, false
	}
	want := "oa" + strconv.Itoa(pageSize)
	for _, loc := range searchOffsetRe.FindAllStringIndex(nextURL, -1) {
		if nextURL[loc[0]:loc[1]] != want {
			continue
		}
		return OffsetTemplate{
			prefix: nextURL[:loc[0]],
			marker: "oa",
			suffix: nextURL[loc[1]:],
			step:   pageSize,
		}, true
	}
	return OffsetTemplate{}, false
}

const reviewsSegment = "-Reviews-"

// NewReviewOffset inserts an "or<N>-" marker after the "-Reviews-" path segment
// of a hotel url. ok is false when the segment is missing.
func NewReviewOffset(hotelURL string, pageSize int) (OffsetTemplate, bool) {
	i := strings.Index(hotelURL, reviewsSegment)
	if i < 0 || pageSize <= 0 {
		return OffsetTemplate{}, false
	}
	cut := i + len(reviewsSegment)
	return OffsetTemplate{
		prefix: hotelURL[:cut],
		marker: "or",
		suffix: "-" + hotelURL[cut:],
		step:   pageSize,
	}, true
}

func (t OffsetTemplate) Render(page int) string {
	return t.prefix + t.marker + strconv.Itoa(t.step*page) + t.suffix
}

// URLs renders pages 1..totalPages-1; page 0 is the already fetched first page.
func (t OffsetTemplate) URLs(totalPages int) ([]string, error) {
	if totalPages <= 1 {
		return nil, nil
	}
	out := make([]string, 0, totalPages-1)
	seen := make(map[string]struct{}, totalPages-1)
	for i := 1; i < totalPages; i++ {
		u := t.Render(i)
		if _, dup := seen[u]; dup {
			return nil, fmt.Errorf("duplicate pagination url %s", u)
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out, nil
}

// TotalPages is ceil(total/pageSize), clamped to maxPages when maxPages > 0.
func TotalPages(total, pageSize, maxPages int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	pages := (total + pageSize - 1) / pageSize
	if maxPages > 0 && pages > maxPages {
		pages = maxPages
	}
	return pages
}
