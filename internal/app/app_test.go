package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/wikisearch/internal/config"
	"github.com/kailas-cloud/wikisearch/internal/domain"
)

// letterEmbedder maps text to letter frequencies so related texts share direction.
type letterEmbedder struct {
	calls int
}

func (e *letterEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	e.calls++
	vec := make([]float32, 26)
	for _, r := range strings.ToLower(text) {
		if r >= 'a' && r <= 'z' {
			vec[r-'a']++
		}
	}
	return domain.EmbeddingResult{Embedding: vec, TotalTokens: len(text)}, nil
}

func newTestApp(t *testing.T) (*App, http.Handler, *letterEmbedder) {
	t.Helper()
	cfg := config.Config{
		Database: config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"},
		Auth:     config.AuthConfig{APIKeys: []string{"admin"}},
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	store, err := Open(ctx, cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(store.Close)

	emb := &letterEmbedder{}
	a := New(ctx, cfg, store, emb, zap.NewNop())
	return a, a.Server(cfg, zap.NewNop()).Routes(), emb
}

func call(t *testing.T, h http.Handler, method, path, body string, auth bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.Header.Set("Authorization", "Bearer admin")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestEndToEnd_CreateAndSearch(t *testing.T) {
	_, h, _ := newTestApp(t)

	items := []string{
		`{"slug":"aaa","title":"aaaa aaaa"}`,
		`{"slug":"zzz","title":"zzzz zzzz"}`,
		`{"slug":"mixed","title":"aaaz"}`,
	}
	for _, body := range items {
		if rr := call(t, h, http.MethodPost, "/api/collections/guides/items", body, true); rr.Code != http.StatusCreated {
			t.Fatalf("create %s: %d %s", body, rr.Code, rr.Body.String())
		}
	}

	rr := call(t, h, http.MethodPost, "/api/search", `{"query":"aaa","k":2}`, false)
	if rr.Code != http.StatusOK {
		t.Fatalf("search: %d %s", rr.Code, rr.Body.String())
	}
	var results []struct {
		Slug       string  `json:"slug"`
		Similarity float64 `json:"similarity"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&results); err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Slug != "aaa" || results[1].Slug != "mixed" {
		t.Errorf("order = %s, %s", results[0].Slug, results[1].Slug)
	}
	if results[0].Similarity < results[1].Similarity {
		t.Error("results must be sorted by similarity")
	}
}

func TestEndToEnd_DuplicateSlug(t *testing.T) {
	_, h, _ := newTestApp(t)
	body := `{"slug":"same","title":"one"}`
	if rr := call(t, h, http.MethodPost, "/api/collections/guides/items", body, true); rr.Code != http.StatusCreated {
		t.Fatalf("first create: %d", rr.Code)
	}
	rr := call(t, h, http.MethodPost, "/api/collections/guides/items", `{"id":"other","slug":"same","title":"two"}`, true)
	if rr.Code != http.StatusConflict {
		t.Fatalf("duplicate slug: %d %s", rr.Code, rr.Body.String())
	}
}

func TestEndToEnd_PopularGuidesKeepsInsertionOrder(t *testing.T) {
	_, h, _ := newTestApp(t)
	for _, slug := range []string{"c", "a", "b"} {
		call(t, h, http.MethodPost, "/api/collections/guides/items", `{"slug":"`+slug+`","title":"T"}`, true)
	}
	rr := call(t, h, http.MethodGet, "/api/popular-guides", "", false)
	var list []struct {
		Slug string `json:"slug"`
	}
	_ = json.NewDecoder(rr.Body).Decode(&list)
	if len(list) != 3 || list[0].Slug != "c" || list[1].Slug != "a" || list[2].Slug != "b" {
		t.Errorf("list = %+v", list)
	}
}

func TestEndToEnd_EmbeddingCache(t *testing.T) {
	_, h, emb := newTestApp(t)
	for i := 0; i < 3; i++ {
		if rr := call(t, h, http.MethodPost, "/api/search", `{"query":"repeat"}`, false); rr.Code != http.StatusOK {
			t.Fatalf("search: %d", rr.Code)
		}
	}
	if emb.calls != 1 {
		t.Errorf("expected one provider call thanks to the cache, got %d", emb.calls)
	}
}

func TestEndToEnd_Health(t *testing.T) {
	_, h, _ := newTestApp(t)
	rr := call(t, h, http.MethodGet, "/health", "", false)
	if rr.Code != http.StatusOK {
		t.Fatalf("health: %d %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestNew_BudgetRejects(t *testing.T) {
	cfg := config.Config{
		Database: config.DatabaseConfig{Driver: "sqlite", DSN: ":memory:"},
		Embedding: config.EmbeddingConfig{
			CacheTTLSec: -1,
			Budget:      config.BudgetConfig{DailyTokenLimit: 5, Action: "reject"},
		},
	}
	cfg.ApplyDefaults()
	ctx := context.Background()
	store, err := Open(ctx, cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer store.Close()

	a := New(ctx, cfg, store, &letterEmbedder{}, zap.NewNop())
	if a.Budget == nil {
		t.Fatal("expected budget tracker")
	}
	h := a.Server(cfg, zap.NewNop()).Routes()

	if rr := call(t, h, http.MethodPost, "/api/search", `{"query":"a long query"}`, false); rr.Code != http.StatusOK {
		t.Fatalf("first search: %d", rr.Code)
	}
	rr := call(t, h, http.MethodPost, "/api/search", `{"query":"again"}`, false)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("over budget: %d %s", rr.Code, rr.Body.String())
	}
	rr = call(t, h, http.MethodGet, "/api/usage?period=day", "", false)
	if rr.Code != http.StatusOK {
		t.Fatalf("usage: %d %s", rr.Code, rr.Body.String())
	}
	var usage struct {
		Tokens    int64 `json:"tokens"`
		Limit     int64 `json:"tokens_limit"`
		Exhausted bool  `json:"is_exhausted"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&usage); err != nil {
		t.Fatal(err)
	}
	if usage.Tokens != int64(len("a long query")) || usage.Limit != 5 || !usage.Exhausted {
		t.Errorf("usage = %+v", usage)
	}
}

func TestEndToEnd_UsageUnlimited(t *testing.T) {
	_, h, _ := newTestApp(t)
	rr := call(t, h, http.MethodGet, "/api/usage?period=month", "", false)
	if rr.Code != http.StatusOK {
		t.Fatalf("usage: %d %s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"tokens_remaining":-1`) {
		t.Errorf("body = %s", rr.Body.String())
	}
}
