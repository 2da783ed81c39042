package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rs/zerolog/log"

	"tripadvisor_hotels/internal/domain"
)

var (
	reviewsNameRe = regexp.MustCompile(`Reviews-(.*?)-`)
	nonAlnumRe    = regexp.MustCompile(`[^A-Za-z0-9]+`)
)

// ReviewFileName derives "<hotel>_reviews.csv" from the hotel url slug.
func ReviewFileName(hotelURL string) string {
	name := "hotel"
	if m := reviewsNameRe.FindStringSubmatch(hotelURL); m != nil {
		if n := strings.Trim(nonAlnumRe.ReplaceAllString(m[1], "_"), "_"); n != "" {
			name = n
		}
	}
	return name + "_reviews.csv"
}

// SearchFileName is "<query>.csv" with path separators and other unsafe runes replaced.
func SearchFileName(query string) string {
	name := strings.Trim(nonAlnumRe.ReplaceAllString(query, "_"), "_")
	if name == "" {
		name = "search"
	}
	return name + ".csv"
}

// WritePreviews writes url,name rows to dir/filename, creating dir if absent.
func WritePreviews(dir, filename string, ps []domain.SearchPreview) (string, error) {
	path, err := write(dir, filename, ps, domain.SearchPreview{})
	if err != nil {
		return "", err
	}
	log.Info().Str("path", path).Int("rows", len(ps)).Msg("saved search results")
	return path, nil
}

// WriteReviews writes Title,Text,Rating,Trip Date rows for hotelURL into dir.
func WriteReviews(dir, hotelURL string, rs []domain.ReviewRecord) (string, error) {
	path, err := write(dir, ReviewFileName(hotelURL), rs, domain.ReviewRecord{})
	if err != nil {
		return "", err
	}
	log.Info().Str("path", path).Int("rows", len(rs)).Msg("saved reviews")
	return path, nil
}

// write encodes rows, or just the header of zero when rows is empty.
func write[T any](dir, filename string, rows []T, zero T) (path string, err error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path = filepath.Join(dir, filename)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	enc := csvutil.NewEncoder(w)
	if len(rows) == 0 {
		err = enc.EncodeHeader(zero)
	} else {
		err = enc.Encode(rows)
	}
	if err != nil {
		return "", fmt.Errorf("encode %s: %w", path, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush %s: %w", path, err)
	}
	return path, nil
}
