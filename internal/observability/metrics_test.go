package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveAnalysis("ok", time.Second)
		m.ObserveFallback("coach")
		m.ObserveLLM("ok")
	})
	assert.Nil(t, m.Registry())
}

func TestCounters(t *testing.T) {
	m := NewMetrics()
	m.ObserveAnalysis("ok", 10*time.Millisecond)
	m.ObserveAnalysis("ok", 20*time.Millisecond)
	m.ObserveAnalysis("invalid", time.Millisecond)
	m.ObserveFallback("coach")
	m.ObserveLLM("offline")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.analysesTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.analysesTotal.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fallbacksTotal.WithLabelValues("coach")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.llmRequestsTotal.WithLabelValues("offline")))
}

func TestGinMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()
	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("/healthz", "200")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "loadcoach_http_requests_total")
}
