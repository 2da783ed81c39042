package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"tripadvisor_hotels/internal/domain"
)

const (
	DefaultReviewLimit = 50
	DefaultReviewSort  = "newest"
)

func hotelKey(id int64) string { return fmt.Sprintf("hotel:%d", id) }

func reviewsKey(id int64, pg domain.PageQuery) string {
	return fmt.Sprintf("reviews:%d:%d:%s", id, pg.Limit, pg.Sort)
}

// reviewKeysToInvalidate lists the most common review cache variants.
func reviewKeysToInvalidate(id int64) []string {
	var keys []string
	for _, sort := range []string{DefaultReviewSort, "rating"} {
		for _, lim := range []int{DefaultReviewLimit, 100, 200} {
			keys = append(keys, reviewsKey(id, domain.PageQuery{Limit: lim, Sort: sort}))
		}
	}
	return keys
}

type QueryService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.HotelRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetHotel(ctx context.Context, id int64) (domain.HotelView, error) {
	key := hotelKey(id)
	var hv domain.HotelView
	if ok, _ := s.cache.Get(ctx, key, &hv); ok {
		return hv, nil
	}
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return domain.HotelView{}, err
	}
	_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	return h, nil
}

// ListHotels is not cached; every crawl changes it.
func (s *QueryService) ListHotels(ctx context.Context, q domain.HotelsQuery) (domain.HotelsPage, error) {
	return s.repo.ListHotels(ctx, q)
}

func (s *QueryService) ListReviews(ctx context.Context, id int64, pg domain.PageQuery) (domain.ReviewsPage, error) {
	if pg.Sort == "" {
		pg.Sort = DefaultReviewSort
	}
	key := reviewsKey(id, pg)
	var out domain.ReviewsPage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}

	rs, err := s.repo.ListReviews(ctx, id, pg)
	if err != nil {
		return domain.ReviewsPage{}, err
	}

	// copy slice to avoid aliasing the repo's backing array
	copyRS := deepCopyReviewsPage(rs)

	// optional size guard
	if b, _ := json.Marshal(copyRS); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, copyRS, int(s.cacheTTL.Seconds()))
	}
	return copyRS, nil
}

func deepCopyReviewsPage(in domain.ReviewsPage) domain.ReviewsPage {
	out := domain.ReviewsPage{NextCursor: in.NextCursor, Items: []domain.StoredReview{}}
	if n := len(in.Items); n > 0 {
		out.Items = make([]domain.StoredReview, n)
		copy(out.Items, in.Items)
	}
	return out
}
