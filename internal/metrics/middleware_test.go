package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func serve(t *testing.T, h http.Handler, method, path string) int {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, http.NoBody))
	return rr.Code
}

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/collections/{collection}/items/{id}", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	pattern := "/api/collections/{collection}/items/{id}"
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", pattern, "200"))

	serve(t, r, http.MethodGet, "/api/collections/guides/items/a")
	serve(t, r, http.MethodGet, "/api/collections/projects/items/b")

	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", pattern, "200")) - before; got != 2 {
		t.Errorf("requests for pattern = %v, want 2", got)
	}
	if testutil.CollectAndCount(httpRequestDuration) == 0 {
		t.Error("expected latency observations")
	}
}

func TestMiddleware_StatusCodes(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Post("/api/search", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	tests := []struct {
		method, path, status string
	}{
		{http.MethodPost, "/api/search", "429"},
		{http.MethodGet, "/health", "503"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tt.method, tt.path, tt.status))
			serve(t, r, tt.method, tt.path)
			if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(tt.method, tt.path, tt.status)); got != before+1 {
				t.Errorf("count = %v, want %v", got, before+1)
			}
		})
	}
}

func TestMiddleware_ImplicitOK(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/api/popular-guides", func(http.ResponseWriter, *http.Request) {})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/popular-guides", "200"))
	serve(t, r, http.MethodGet, "/api/popular-guides")
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/api/popular-guides", "200")); got != before+1 {
		t.Errorf("handler without WriteHeader should count as 200")
	}
}

func TestMiddleware_UnmatchedRoute(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	r.Get("/health", func(http.ResponseWriter, *http.Request) {})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", unmatchedRoute, "404"))
	serve(t, r, http.MethodGet, "/wp-admin/setup.php")
	if got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", unmatchedRoute, "404")); got != before+1 {
		t.Errorf("unmatched count = %v, want %v", got, before+1)
	}
}

func TestMiddleware_InFlightReturnsToZero(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware())
	var during float64
	r.Get("/slow", func(http.ResponseWriter, *http.Request) {
		during = testutil.ToFloat64(httpInFlight)
	})

	serve(t, r, http.MethodGet, "/slow")
	if during < 1 {
		t.Errorf("in-flight during request = %v, want >= 1", during)
	}
	if got := testutil.ToFloat64(httpInFlight); got != 0 {
		t.Errorf("in-flight after request = %v, want 0", got)
	}
}

func TestMiddleware_RegistersOnce(t *testing.T) {
	// a second router in the same process must not panic on duplicate registration
	_ = Middleware()
	_ = Middleware()
}
