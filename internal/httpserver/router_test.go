package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"helphive-gateway/internal/cache"
	"helphive-gateway/internal/handlers"
	"helphive-gateway/internal/pipeline"
	"helphive-gateway/internal/quota"
	"helphive-gateway/internal/state"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	mgr := state.NewManager(state.NewMemoryStore())
	tracker := quota.NewTracker(mgr, quota.DefaultMaxPerHour, quota.DefaultMaxPerDay)
	responseCache := cache.NewResponseCache(mgr, cache.DefaultCapacity)
	pipe := pipeline.New(nil, tracker, responseCache)

	return NewRouter(
		zaptest.NewLogger(t),
		handlers.NewRequestHandler(pipe),
		handlers.NewUsageHandler(tracker, responseCache, mgr),
	)
}

func TestRouterHealthz(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "ok") {
		t.Fatalf("unexpected body: %s", w.Body.String())
	}
}

func TestRouterNormalizeRoute(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/requests/normalize",
		strings.NewReader(`{"input":"walk my dog"}`)))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Header().Get("Content-Type"), "application/json") {
		t.Fatalf("expected JSON response")
	}
}

func TestRouterUsageRoutes(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/usage", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /v1/usage: expected 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/usage/reset", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("POST /v1/usage/reset: expected 204, got %d", w.Code)
	}
}

func TestRouterMethodNotAllowed(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/requests/normalize", nil))

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", w.Code)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
