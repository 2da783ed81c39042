package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"tripadvisor_hotels/internal/domain"
)

// HotelScraper is satisfied by *scrape.Scraper.
type HotelScraper interface {
	SearchHotels(ctx context.Context, query string, maxPages int) ([]domain.SearchPreview, error)
	PaginateReviews(ctx context.Context, hotelURL string, maxPages int) (domain.HotelRecord, error)
}

type CrawlOptions struct {
	MaxSearchPages int
	MaxReviewPages int
}

// HotelResult is the outcome for one discovered hotel. Err is set when the hotel was skipped.
type HotelResult struct {
	Preview domain.SearchPreview
	Hotel   domain.HotelRecord
	Err     error
}

type CrawlResult struct {
	Previews []domain.SearchPreview
	Hotels   []HotelResult
}

// Failed counts hotels that could not be scraped.
func (r CrawlResult) Failed() int {
	n := 0
	for _, h := range r.Hotels {
		if h.Err != nil {
			n++
		}
	}
	return n
}

// CrawlService runs search then review pagination for every hotel found.
// repo and cache are optional; without them nothing is persisted.
type CrawlService struct {
	scraper HotelScraper
	repo    domain.HotelRepository
	cache   domain.Cache
	workers int
}

func NewCrawlService(s HotelScraper, r domain.HotelRepository, cache domain.Cache, workers int) *CrawlService {
	if workers < 1 {
		workers = 1
	}
	return &CrawlService{scraper: s, repo: r, cache: cache, workers: workers}
}

// Crawl fails only when the search itself fails. A hotel that is blocked or
// malformed is recorded as a miss and the crawl moves on.
func (s *CrawlService) Crawl(ctx context.Context, query string, opts CrawlOptions) (CrawlResult, error) {
	previews, err := s.scraper.SearchHotels(ctx, query, opts.MaxSearchPages)
	if err != nil {
		return CrawlResult{}, err
	}
	if s.repo != nil {
		if err := s.repo.UpsertPreviews(ctx, query, previews); err != nil {
			return CrawlResult{}, fmt.Errorf("upsert previews for %q: %w", query, err)
		}
	}

	res := CrawlResult{Previews: previews, Hotels: make([]HotelResult, len(previews))}
	sem := semaphore.NewWeighted(int64(s.workers))
	var wg sync.WaitGroup

	for i, p := range previews {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			for j := i; j < len(previews); j++ {
				res.Hotels[j] = HotelResult{Preview: previews[j], Err: err}
			}
			break
		}

		wg.Add(1)
		go func(i int, p domain.SearchPreview) {
			defer wg.Done()
			defer sem.Release(1)

			h, err := s.IngestHotel(ctx, p.URL, opts.MaxReviewPages)
			res.Hotels[i] = HotelResult{Preview: p, Hotel: h, Err: err}
			if err != nil {
				log.Warn().Str("url", p.URL).Err(err).Msg("hotel skipped")
				return
			}
			log.Info().Str("url", p.URL).Int("reviews", len(h.Reviews)).Msg("hotel ok")
		}(i, p)
	}

	wg.Wait()
	log.Info().
		Str("query", query).
		Int("hotels", len(previews)).
		Int("failed", res.Failed()).
		Msg("crawl completed")
	return res, nil
}

// IngestHotel scrapes one hotel with its reviews and stores it when a repository is configured.
func (s *CrawlService) IngestHotel(ctx context.Context, hotelURL string, maxReviewPages int) (domain.HotelRecord, error) {
	id, ok := domain.HotelIDFromURL(hotelURL)
	if !ok {
		return domain.HotelRecord{}, fmt.Errorf("no hotel id in %s: %w", hotelURL, domain.ErrNotFound)
	}

	h, err := s.scraper.PaginateReviews(ctx, hotelURL, maxReviewPages)
	if err != nil {
		var be *domain.BlockedError
		switch {
		case errors.As(err, &be):
			s.miss(ctx, id, be.Status, "blocked")
		case errors.Is(err, domain.ErrMalformedPage):
			s.miss(ctx, id, http.StatusOK, "malformed")
		}
		return domain.HotelRecord{}, err
	}

	if s.repo != nil {
		// Parent upsert first to satisfy FK for reviews.
		if err := s.repo.UpsertHotel(ctx, mapHotel(id, h)); err != nil {
			return domain.HotelRecord{}, fmt.Errorf("upsert hotel %d: %w", id, err)
		}
		if err := s.repo.UpsertReviews(ctx, mapReviews(id, h.Reviews)); err != nil {
			return domain.HotelRecord{}, fmt.Errorf("upsert reviews for %d: %w", id, err)
		}
	}
	s.invalidate(ctx, id)
	return h, nil
}

func (s *CrawlService) miss(ctx context.Context, id int64, status int, reason string) {
	if s.repo != nil {
		if err := s.repo.LogMiss(ctx, id, status, reason); err != nil {
			log.Error().Err(err).Int64("id", id).Msg("log miss failed")
		}
	}
	// Evict any stale caches so we don't keep serving an old snapshot.
	s.invalidate(ctx, id)
}

func (s *CrawlService) invalidate(ctx context.Context, id int64) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, hotelKey(id))
	for _, k := range reviewKeysToInvalidate(id) {
		_ = s.cache.Del(ctx, k)
	}
}
