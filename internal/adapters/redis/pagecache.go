package redisad

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/http"

	"github.com/rs/zerolog/log"

	"tripadvisor_hotels/internal/domain"
)

// PageCache wraps a Fetcher and keeps successful page bodies in redis, so a
// re-run of a crawl does not hit the site again for pages it already has.
// Only 200 responses are stored; blocked pages are always refetched.
type PageCache struct {
	next   domain.Fetcher
	cache  domain.Cache
	ttlSec int
}

func NewPageCache(next domain.Fetcher, cache domain.Cache, ttlSec int) *PageCache {
	return &PageCache{next: next, cache: cache, ttlSec: ttlSec}
}

func pageKey(url string) string {
	sum := sha1.Sum([]byte(url))
	return "page:" + hex.EncodeToString(sum[:])
}

func (p *PageCache) Fetch(ctx context.Context, url string) (domain.Page, error) {
	key := pageKey(url)

	var cached domain.Page
	if ok, err := p.cache.Get(ctx, key, &cached); err == nil && ok {
		return cached, nil
	} else if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("page cache get failed")
	}

	page, err := p.next.Fetch(ctx, url)
	if err != nil || page.Status != http.StatusOK {
		return page, err
	}
	if err := p.cache.Set(ctx, key, page, p.ttlSec); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("page cache set failed")
	}
	return page, nil
}
