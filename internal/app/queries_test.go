package app_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"tripadvisor_hotels/internal/app"
	"tripadvisor_hotels/internal/domain"
)

// ---- fakes ----

type fakeRepo struct {
	mu       sync.Mutex
	hv       domain.HotelView
	hp       domain.HotelsPage
	rp       domain.ReviewsPage
	hotels   []domain.HotelView
	reviews  []domain.StoredReview
	previews map[string][]domain.SearchPreview
	misses   map[int64]string
}

func (f *fakeRepo) UpsertHotel(ctx context.Context, h domain.HotelView) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hotels = append(f.hotels, h)
	return nil
}
func (f *fakeRepo) UpsertReviews(ctx context.Context, rs []domain.StoredReview) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviews = append(f.reviews, rs...)
	return nil
}
func (f *fakeRepo) UpsertPreviews(ctx context.Context, query string, ps []domain.SearchPreview) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.previews == nil {
		f.previews = map[string][]domain.SearchPreview{}
	}
	f.previews[query] = ps
	return nil
}
func (f *fakeRepo) LogMiss(ctx context.Context, id int64, status int, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.misses == nil {
		f.misses = map[int64]string{}
	}
	f.misses[id] = reason
	return nil
}
func (f *fakeRepo) GetHotel(ctx context.Context, id int64) (domain.HotelView, error) {
	if f.hv.ID != id {
		return domain.HotelView{}, domain.ErrNotFound
	}
	return f.hv, nil
}
func (f *fakeRepo) ListHotels(ctx context.Context, q domain.HotelsQuery) (domain.HotelsPage, error) {
	return f.hp, nil
}
func (f *fakeRepo) ListReviews(ctx context.Context, id int64, pg domain.PageQuery) (domain.ReviewsPage, error) {
	return f.rp, nil
}

type fakeCache struct {
	mu      sync.Mutex
	store   map[string]any
	deleted []string
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		return false, nil
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.HotelView:
		*d = v.(domain.HotelView)
	case *domain.ReviewsPage:
		*d = v.(domain.ReviewsPage)
	}
	return true, nil
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string]any{}
	}
	c.store[key] = v
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	c.deleted = append(c.deleted, key)
	return nil
}

// ---- tests ----

func TestGetHotel_CacheMissThenHit(t *testing.T) {
	repo := &fakeRepo{
		hv: domain.HotelView{ID: 264936, Name: ptr("Le Soleil")},
	}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, 10*time.Minute)

	// Miss (first time, populates cache)
	h, err := q.GetHotel(context.Background(), 264936)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if h.ID != 264936 || h.Name == nil || *h.Name != "Le Soleil" {
		t.Fatalf("unexpected hotel: %+v", h)
	}

	// Mutate repo to ensure second read indeed comes from cache
	repo.hv.Name = ptr("SHOULD NOT SEE THIS")

	// Hit (served from cache)
	h2, err := q.GetHotel(context.Background(), 264936)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if *h2.Name != "Le Soleil" {
		t.Fatalf("expected cached name, got %s", deref(h2.Name))
	}
}

func TestGetHotel_NotFoundIsNotCached(t *testing.T) {
	cache := &fakeCache{}
	q := app.NewQueryService(&fakeRepo{}, cache, time.Minute)

	if _, err := q.GetHotel(context.Background(), 7); err != domain.ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if len(cache.store) != 0 {
		t.Fatalf("cache should stay empty, got %v", cache.store)
	}
}

func TestListReviews_Cache(t *testing.T) {
	repo := &fakeRepo{
		rp: domain.ReviewsPage{Items: []domain.StoredReview{
			{HotelID: 1, Title: ptr("Great"), Text: "Loved it", Rating: ptr(5)},
		}},
	}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, cache, 10*time.Minute)

	out, err := q.ListReviews(context.Background(), 1, domain.PageQuery{Limit: 10})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out.Items) != 1 || deref(out.Items[0].Title) != "Great" {
		t.Fatalf("unexpected reviews: %+v", out.Items)
	}
	if _, ok := cache.store["reviews:1:10:newest"]; !ok {
		t.Fatalf("expected default sort in cache key, got %v", cache.store)
	}

	// Change repo, call again -> should come from cache
	repo.rp.Items[0].Title = ptr("Changed")
	out2, _ := q.ListReviews(context.Background(), 1, domain.PageQuery{Limit: 10})
	if deref(out2.Items[0].Title) != "Great" {
		t.Fatalf("expected cached title Great, got %s", deref(out2.Items[0].Title))
	}
}

func TestListHotels_PassThrough(t *testing.T) {
	repo := &fakeRepo{hp: domain.HotelsPage{Items: []domain.HotelView{{ID: 1}, {ID: 2}}}}
	q := app.NewQueryService(repo, &fakeCache{}, time.Minute)

	page, err := q.ListHotels(context.Background(), domain.HotelsQuery{Limit: 10})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("unexpected hotels: %+v", page.Items)
	}
}

func ptr[T any](v T) *T { return &v }
func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
