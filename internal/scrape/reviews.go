package scrape

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"tripadvisor_hotels/internal/adapters/observability"
	"tripadvisor_hotels/internal/domain"
)

// ScrapeHotel fetches and extracts a single hotel page without following review pagination.
func (s *Scraper) ScrapeHotel(ctx context.Context, hotelURL string) (domain.HotelRecord, error) {
	first, err := s.fetchPrimary(ctx, "hotel", hotelURL)
	if err != nil {
		return domain.HotelRecord{}, fmt.Errorf("hotel page: %w", err)
	}
	h, err := ExtractHotelPage(first.URL, first.Body)
	if err != nil {
		observability.ObservePage("hotel", observability.Outcome(err))
		return domain.HotelRecord{}, fmt.Errorf("hotel page: %w", err)
	}
	observability.ObservePage("hotel", "ok")
	observability.ObserveRecords("review", len(h.Reviews))
	return h, nil
}

// PaginateReviews scrapes hotelURL and merges the reviews of every follow-up
// review page into the returned record. The page count is derived from the
// declared review count; maxPages <= 0 means no limit. Reviews are kept in
// completion order and never exceed the declared count.
func (s *Scraper) PaginateReviews(ctx context.Context, hotelURL string, maxPages int) (domain.HotelRecord, error) {
	first, err := s.fetchPrimary(ctx, "hotel", hotelURL)
	if err != nil {
		return domain.HotelRecord{}, fmt.Errorf("hotel first page: %w", err)
	}
	hotel, err := ExtractHotelPage(first.URL, first.Body)
	if err != nil {
		observability.ObservePage("hotel", observability.Outcome(err))
		return domain.HotelRecord{}, fmt.Errorf("hotel first page: %w", err)
	}
	observability.ObservePage("hotel", "ok")
	// The record and its offsets use the requested url, not a redirect target.
	hotel.URL = hotelURL

	declared := hotel.BasicData.AggregateRating.ReviewCount
	totalPages := TotalPages(declared, ReviewPageSize, maxPages)

	var urls []string
	if tpl, ok := NewReviewOffset(hotelURL, ReviewPageSize); ok {
		if urls, err = tpl.URLs(totalPages); err != nil {
			return domain.HotelRecord{}, err
		}
	} else if totalPages > 1 {
		log.Warn().Str("url", hotelURL).Msg("no -Reviews- segment in hotel url, scraping first page only")
	}

	log.Info().
		Str("url", hotelURL).
		Int("review_count", declared).
		Int("total_pages", 1+len(urls)).
		Msg("scraping review pagination pages")

	err = s.fetchEach(ctx, "review", urls, func(p domain.Page) error {
		page, err := ExtractHotelPage(p.URL, p.Body)
		if err != nil {
			observability.ObservePage("review", observability.Outcome(err))
			return err
		}
		if len(page.Reviews) == 0 {
			observability.ObservePage("review", "empty")
			log.Warn().Str("url", p.URL).Msg("review page has no reviews")
			return nil
		}
		observability.ObservePage("review", "ok")
		hotel.Reviews = append(hotel.Reviews, page.Reviews...)
		return nil
	})
	if err != nil {
		return domain.HotelRecord{}, fmt.Errorf("review pages: %w", err)
	}

	if declared > 0 && len(hotel.Reviews) > declared {
		log.Warn().
			Str("url", hotelURL).
			Int("review_count", declared).
			Int("scraped", len(hotel.Reviews)).
			Msg("more reviews than declared, truncating")
		hotel.Reviews = hotel.Reviews[:declared]
	}

	observability.ObserveRecords("review", len(hotel.Reviews))
	log.Info().Str("url", hotelURL).Int("reviews", len(hotel.Reviews)).Msg("scraped reviews")
	return hotel, nil
}
