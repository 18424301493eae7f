package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"

	"todoapi/internal/adapter/http/handler"
	"todoapi/internal/core/service"
	"todoapi/internal/core/telemetry"
	"todoapi/pkg/config"
	. "todoapi/pkg/test"
)

func newHandlers(t *testing.T) HandlersConfig {
	repo := SetupTest(t).Repo
	svc := service.NewTodoService(repo, nil)

	return HandlersConfig{
		TodoHandler:   handler.NewTodoHandler(svc, nil, nil),
		HealthHandler: handler.NewHealthHandler("badger"),
	}
}

func TestSetupRouterForTests_Routes(t *testing.T) {
	RegisterTestingT(t)
	router := SetupRouterForTests(newHandlers(t))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/todos", strings.NewReader(`{"title":"Routed"}`))
	router.ServeHTTP(w, req)
	Expect(w.Code).To(Equal(http.StatusCreated))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/health", nil)
	router.ServeHTTP(w, req)
	Expect(w.Code).To(Equal(http.StatusOK))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/todos", nil)
	router.ServeHTTP(w, req)
	Expect(w.Code).To(Equal(http.StatusNotFound))
	Expect(w.Body.String()).To(MatchJSON(`{"error":"Route not found"}`))
}

func TestSetupRouter_WithMiddleware(t *testing.T) {
	RegisterTestingT(t)

	cfg := config.GetDefaultConfig()
	cfg.Telemetry.Enabled = false
	cfg.RateLimitConfigs["GET /todos/:id"] = config.RateLimitConfig{Requests: 1, Window: cfg.RateLimitConfigs["default"].Window}

	router := SetupRouter(newHandlers(t), telemetry.NewAppMetrics(prometheus.NewRegistry()), config.NewNopLogger(), cfg)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/todos/missing", nil)
	router.ServeHTTP(w, req)
	Expect(w.Code).To(Equal(http.StatusNotFound))
	Expect(w.Body.String()).To(MatchJSON(`{"error":"Todo not found"}`))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/todos/missing", nil)
	router.ServeHTTP(w, req)
	Expect(w.Code).To(Equal(http.StatusTooManyRequests))
}
