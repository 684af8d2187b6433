package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCategory(t *testing.T) {
	assert.Equal(t, "2xx", statusCategory(http.StatusOK))
	assert.Equal(t, "4xx", statusCategory(http.StatusNotFound))
	assert.Equal(t, "5xx", statusCategory(http.StatusBadGateway))
	assert.Equal(t, "", statusCategory(http.StatusFound))
}

func TestMiddleware_RecordsRequest(t *testing.T) {
	m := NewHTTPMetrics("pgpathfinder-test")
	// second call must not panic on duplicate registration
	NewHTTPMetrics("pgpathfinder-test")

	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/v1/listings", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	before := testutil.ToFloat64(RequestCounter.WithLabelValues("pgpathfinder-test", http.MethodGet, "/v1/listings", "200"))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/listings", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	after := testutil.ToFloat64(RequestCounter.WithLabelValues("pgpathfinder-test", http.MethodGet, "/v1/listings", "200"))
	assert.Equal(t, before+1, after)
}

func TestHandler_ExposesDomainCounters(t *testing.T) {
	NewHTTPMetrics("pgpathfinder-test")
	ListingTransitions.WithLabelValues("approved").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "pgpathfinder_listing_transitions_total"))
}
