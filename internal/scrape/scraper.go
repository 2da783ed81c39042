package scrape

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tripadvisor_hotels/internal/adapters/observability"
	"tripadvisor_hotels/internal/domain"
)

const defaultConcurrency = 5

// Scraper runs the paginated flows over one shared Fetcher.
type Scraper struct {
	fetcher     domain.Fetcher
	resolver    LocationResolver
	baseURL     string
	concurrency int
}

// LocationResolver is satisfied by *Resolver.
type LocationResolver interface {
	Resolve(ctx context.Context, query string) ([]domain.LocationRecord, error)
}

type Option func(*Scraper)

// WithConcurrency bounds how many follow-up pages are in flight at once.
func WithConcurrency(n int) Option {
	return func(s *Scraper) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func WithResolver(r LocationResolver) Option {
	return func(s *Scraper) { s.resolver = r }
}

func WithBaseURL(u string) Option {
	return func(s *Scraper) { s.baseURL = u }
}

func NewScraper(f domain.Fetcher, opts ...Option) *Scraper {
	s := &Scraper{fetcher: f, concurrency: defaultConcurrency, baseURL: "https://www.tripadvisor.com"}
	for _, o := range opts {
		o(s)
	}
	return s
}

// fetchPrimary fetches the first page of a flow. Anything but 200 is a BlockedError.
func (s *Scraper) fetchPrimary(ctx context.Context, kind, u string) (domain.Page, error) {
	p, err := s.fetcher.Fetch(ctx, u)
	if err != nil {
		observability.ObservePage(kind, "error")
		return domain.Page{}, err
	}
	if p.Status != http.StatusOK {
		observability.ObservePage(kind, "blocked")
		log.Error().
			Str("url", u).
			Int("status", p.Status).
			Str("body", snippet(p.Body, 300)).
			Msg("scraper is being blocked")
		return domain.Page{}, &domain.BlockedError{URL: u, Status: p.Status}
	}
	if p.URL == "" {
		p.URL = u
	}
	return p, nil
}

// fetchEach fetches urls concurrently and passes every page to handle as soon as it
// arrives, so results land in completion order. handle runs on the calling goroutine.
// The first fetch error, non-200 page or handle error cancels the rest.
func (s *Scraper) fetchEach(ctx context.Context, kind string, urls []string, handle func(domain.Page) error) error {
	if len(urls) == 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	pages := make(chan domain.Page, len(urls))
	done := make(chan error, 1)
	go func() {
		for _, u := range urls {
			u := u
			g.Go(func() error {
				p, err := s.fetcher.Fetch(gctx, u)
				if err != nil {
					observability.ObservePage(kind, "error")
					return err
				}
				if p.Status != http.StatusOK {
					observability.ObservePage(kind, "blocked")
					return &domain.BlockedError{URL: u, Status: p.Status}
				}
				if p.URL == "" {
					p.URL = u
				}
				pages <- p
				return nil
			})
		}
		done <- g.Wait()
		close(pages)
	}()

	var handleErr error
	for p := range pages {
		if handleErr != nil {
			continue
		}
		if err := handle(p); err != nil {
			handleErr = err
			cancel()
		}
	}
	if err := <-done; err != nil && handleErr == nil {
		return err
	}
	return handleErr
}

func snippet(b []byte, n int) string {
	if len(b) > n {
		return string(b[:n])
	}
	return string(b)
}

