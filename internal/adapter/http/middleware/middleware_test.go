package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"todoapi/internal/core/telemetry"
	"todoapi/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/id", func(c *gin.Context) {
		c.String(200, GetRequestID(c))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/id", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	router.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/id", nil)
	router.ServeHTTP(w, req)

	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(CORSMiddleware())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("OPTIONS", "/todos", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestHTTPSEnforcer(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name     string
		enabled  bool
		host     string
		proto    string
		tls      bool
		expected int
	}{
		{"disabled", false, "api.example.com", "", false, 200},
		{"redirects plain http", true, "api.example.com", "", false, http.StatusMovedPermanently},
		{"trusts proxy header", true, "api.example.com", "https", false, 200},
		{"direct tls", true, "api.example.com", "", true, 200},
		{"localhost", true, "localhost:8080", "", false, 200},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.Use(NewHTTPSEnforcer(tc.enabled, nil).HTTPSMiddleware())
			router.GET("/todos/1", func(c *gin.Context) { c.Status(200) })

			req := httptest.NewRequest("GET", "/todos/1", nil)
			req.Host = tc.host

			if tc.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tc.proto)
			}

			if tc.tls {
				req.TLS = &tls.ConnectionState{}
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.expected, w.Code)

			if tc.expected == http.StatusMovedPermanently {
				assert.Equal(t, "https://api.example.com/todos/1", w.Header().Get("Location"))
			}
		})
	}
}

func TestMetricsMiddleware_RecordsStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	registry := prometheus.NewRegistry()
	metrics := telemetry.NewAppMetrics(registry)

	router := gin.New()
	router.Use(MetricsMiddleware(metrics))
	router.GET("/todos/:id", func(c *gin.Context) { c.Status(404) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/todos/nope", nil)
	router.ServeHTTP(w, req)

	count, err := testutil.GatherAndCount(registry, "http_requests_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	families, err := registry.Gather()
	assert.NoError(t, err)

	labels := map[string]string{}
	for _, family := range families {
		if family.GetName() != "http_requests_total" {
			continue
		}

		for _, pair := range family.GetMetric()[0].GetLabel() {
			labels[pair.GetName()] = pair.GetValue()
		}
	}

	assert.Equal(t, map[string]string{"method": "GET", "path": "/todos/:id", "status": "404"}, labels)
}

func TestSetup_InstallsChain(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := config.GetDefaultConfig()
	cfg.Telemetry.Enabled = false

	router := gin.New()
	Setup(router, telemetry.NewAppMetrics(prometheus.NewRegistry()), config.NewNopLogger(), cfg)
	router.GET("/todos/:id", func(c *gin.Context) { c.Status(200) })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/todos/1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
	assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
}
