package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRecorder(t *testing.T) {
	r := NewRecorder()
	require.NotNil(t, r)
	assert.NotNil(t, r.Registry())
	assert.NotNil(t, r.Handler())
}

func TestObserveUpstream(t *testing.T) {
	r := NewRecorder()
	r.ObserveUpstream("search", OutcomeSuccess, 20*time.Millisecond)
	r.ObserveUpstream("search", OutcomeSuccess, 30*time.Millisecond)
	r.ObserveUpstream("details", OutcomeNetworkError, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.upstreamRequests.WithLabelValues("search", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.upstreamRequests.WithLabelValues("details", OutcomeNetworkError)))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.upstreamRequests.WithLabelValues("details", OutcomeResponseFormat)))
}

func TestObserveUpstream_NilRecorder(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveUpstream("search", OutcomeSuccess, time.Millisecond)
	})
}

func TestHTTPMiddlewareAndHandler(t *testing.T) {
	rec := NewRecorder()
	engine := gin.New()
	engine.Use(rec.HTTPMiddleware())
	engine.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	engine.GET("/metrics", gin.WrapH(rec.Handler()))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/ping", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.httpRequests.WithLabelValues("GET", "/ping", "200")))

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "recipefinder_http_requests_total"))
}
