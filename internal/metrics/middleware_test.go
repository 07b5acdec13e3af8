package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/v1/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	for _, id := range []string{"a", "b", "c"} {
		req := httptest.NewRequest("GET", "/v1/sessions/"+id, http.NoBody)
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rr.Code)
		}
	}

	val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/v1/sessions/{id}", "200"))
	if val < 3 {
		t.Errorf("expected >= 3 requests under the route pattern, got %f", val)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected duration observations")
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Post("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})
	r.Get("/v1/facets", func(w http.ResponseWriter, r *http.Request) {})

	tests := []struct {
		method, path, status string
	}{
		{"POST", "/v1/search", "409"},
		{"GET", "/v1/facets", "200"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, http.NoBody)
			r.ServeHTTP(httptest.NewRecorder(), req)

			val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tc.method, tc.path, tc.status))
			if val < 1 {
				t.Errorf("expected requests_total{%s %s %s} >= 1, got %f", tc.method, tc.path, tc.status, val)
			}
		})
	}
}

func TestMiddleware_SkipsProbes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/health", http.NoBody))

	if val := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/health", "200")); val != 0 {
		t.Errorf("health probes should not be counted, got %f", val)
	}
	if val := testutil.ToFloat64(httpRequestsInFlight); val != 0 {
		t.Errorf("in-flight gauge = %f, want 0", val)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "unknown"},
		{"/v1/sessions/{id}", "/v1/sessions/{id}"},
		{"/v1/facets", "/v1/facets"},
	}

	for _, tc := range tests {
		if got := normalizePath(tc.input); got != tc.expected {
			t.Errorf("normalizePath(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}
