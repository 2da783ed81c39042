package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	redisad "tripadvisor_hotels/internal/adapters/redis"
	"tripadvisor_hotels/internal/adapters/tripadvisor"
	"tripadvisor_hotels/internal/domain"
	"tripadvisor_hotels/internal/scrape"
	mysqlrepo "tripadvisor_hotels/internal/storage/mysql"
)

// site bundles the two scrapers. Search pages and the typeahead endpoint go
// through the browser-like client; hotel and review pages through the plain one.
type site struct {
	search *scrape.Scraper
	hotels *scrape.Scraper
	closer func()
}

func (s *site) SearchHotels(ctx context.Context, query string, maxPages int) ([]domain.SearchPreview, error) {
	return s.search.SearchHotels(ctx, query, maxPages)
}

func (s *site) PaginateReviews(ctx context.Context, hotelURL string, maxPages int) (domain.HotelRecord, error) {
	return s.hotels.PaginateReviews(ctx, hotelURL, maxPages)
}

func (s *site) Close() {
	if s.closer != nil {
		s.closer()
	}
}

func newSite() (*site, error) {
	locOpts := tripadvisor.DefaultLocationOptions()
	locOpts.BaseURL = cfg.BaseURL
	locOpts.RPS = cfg.RPS
	if cfg.MaxConns > 0 {
		locOpts.MaxConns = cfg.MaxConns
	}
	locClient, err := tripadvisor.New(locOpts)
	if err != nil {
		return nil, fmt.Errorf("location client: %w", err)
	}

	pageOpts := tripadvisor.DefaultPageOptions()
	pageOpts.BaseURL = cfg.BaseURL
	pageOpts.Timeout = cfg.Timeout
	pageOpts.MaxConns = cfg.MaxConns
	pageOpts.RPS = cfg.RPS
	pageClient, err := tripadvisor.New(pageOpts)
	if err != nil {
		return nil, fmt.Errorf("page client: %w", err)
	}

	s := &site{}
	var pages domain.Fetcher = pageClient
	if ttl := int(cfg.PageCacheTTL.Seconds()); ttl > 0 {
		rc := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass, DB: cfg.RedisDB})
		pages = redisad.NewPageCache(pageClient, redisad.NewFromClient(rc, "pages"), ttl)
		s.closer = func() { _ = rc.Close() }
		log.Info().Int("ttl_seconds", ttl).Msg("page cache enabled")
	}

	resolver := scrape.NewResolver(locClient, locClient.BaseURL(), tripadvisor.RequestID)
	s.search = scrape.NewScraper(locClient,
		scrape.WithResolver(resolver),
		scrape.WithBaseURL(locClient.BaseURL()),
		scrape.WithConcurrency(locOpts.MaxConns),
	)
	s.hotels = scrape.NewScraper(pages, scrape.WithBaseURL(pageClient.BaseURL()))
	return s, nil
}

// storage is the optional persistence used by --store.
type storage struct {
	db    *sql.DB
	repo  *mysqlrepo.Repo
	cache *redisad.Cache
}

func openStorage(ctx context.Context) (*storage, error) {
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	log.Info().Msg("db ping ok")

	st := &storage{db: db, repo: mysqlrepo.New(db)}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	if err := cache.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, API cache will not be invalidated")
		_ = cache.Close()
	} else {
		st.cache = cache
	}
	return st, nil
}

func (s *storage) Close() {
	if s.cache != nil {
		_ = s.cache.Close()
	}
	_ = s.db.Close()
}
