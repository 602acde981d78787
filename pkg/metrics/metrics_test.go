package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveGeneration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveGeneration("groq", "success", 1500*time.Millisecond)
	m.ObserveGeneration("groq", "success", time.Second)
	m.ObserveGeneration("openai", "connection", time.Second)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.aiGenerations.WithLabelValues("groq", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.aiGenerations.WithLabelValues("openai", "connection")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.aiDuration.WithLabelValues("groq").(prometheus.Histogram)))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveGeneration("groq", "success", time.Second)
		m.ObserveEmail("smtp", "sent")
		m.SummaryCreated()
	})
}

func TestGinMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m := New(reg)

	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/api/summarize/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/summarize/abc", nil))
		require.Equal(t, http.StatusNotFound, w.Code)
	}

	assert.Equal(t, float64(3), testutil.ToFloat64(m.httpRequests.WithLabelValues("/api/summarize/:id", "GET", "404")))
}

func TestEmailCounter(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveEmail("smtp", "sent")
	m.ObserveEmail("smtp", "failed")
	m.ObserveEmail("smtp", "sent")

	assert.Equal(t, float64(2), testutil.ToFloat64(m.emailSends.WithLabelValues("smtp", "sent")))
}
