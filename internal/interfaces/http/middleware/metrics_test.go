package middleware

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	promdto "github.com/prometheus/client_model/go"

	"kitab-ai-api/pkg/metrics"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m promdto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func newMetricsEngine() *gin.Engine {
	r := gin.New()
	r.Use(Metrics("/metrics"))
	r.GET("/v1/sessions/:sid", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func serve(r *gin.Engine, path string) {
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
}

func TestMetricsLabelsByRouteTemplate(t *testing.T) {
	r := newMetricsEngine()
	byRoute := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/v1/sessions/:sid", "200")
	unmatched := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, unmatchedRoute, "404")
	beforeRoute, beforeUnmatched := counterValue(t, byRoute), counterValue(t, unmatched)

	serve(r, "/v1/sessions/a1")
	serve(r, "/v1/sessions/b2")
	serve(r, "/no/such/route")

	if got := counterValue(t, byRoute) - beforeRoute; got != 2 {
		t.Fatalf("route counter delta = %v", got)
	}
	if got := counterValue(t, unmatched) - beforeUnmatched; got != 1 {
		t.Fatalf("unmatched counter delta = %v", got)
	}
}

func TestMetricsSkipsHealthAndScrape(t *testing.T) {
	r := newMetricsEngine()
	health := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/health", "200")
	scrape := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/metrics", "200")
	beforeHealth, beforeScrape := counterValue(t, health), counterValue(t, scrape)

	serve(r, "/health")
	serve(r, "/metrics")

	if counterValue(t, health) != beforeHealth || counterValue(t, scrape) != beforeScrape {
		t.Fatal("health and scrape requests must not be counted")
	}
}
