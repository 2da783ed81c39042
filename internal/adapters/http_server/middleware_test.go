package httpserver_test

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	httpserver "tripadvisor_hotels/internal/adapters/http_server"
	"tripadvisor_hotels/internal/adapters/observability"
	"tripadvisor_hotels/internal/domain"
)

func TestMetricsUseRoutePattern(t *testing.T) {
	h := newTestHandler(&fakeQueries{hotel: domain.HotelView{ID: 7}})
	c := observability.HTTPRequests.WithLabelValues("/v1/hotels/{id}", http.MethodGet, "200")
	before := testutil.ToFloat64(c)

	do(t, h, "/v1/hotels/7", nil)
	do(t, h, "/v1/hotels/7", nil)

	assert.Equal(t, before+2, testutil.ToFloat64(c))
}

func TestRecovererTurnsPanicInto500(t *testing.T) {
	srv := httpserver.New()
	srv.Mount("/boom", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := do(t, srv.Mux(), "/boom", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
