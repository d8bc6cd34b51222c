package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	chirouter "github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/wikisearch/internal/domain"
	domitem "github.com/kailas-cloud/wikisearch/internal/domain/item"
	"github.com/kailas-cloud/wikisearch/internal/domain/search/request"
	logpkg "github.com/kailas-cloud/wikisearch/internal/logger"
	"github.com/kailas-cloud/wikisearch/internal/metrics"
	healthuc "github.com/kailas-cloud/wikisearch/internal/usecase/health"
	usageuc "github.com/kailas-cloud/wikisearch/internal/usecase/usage"
)

// DefaultCollection holds the guides shown by the search page and popular list.
const DefaultCollection = "guides"

const maxBodyBytes = 1 << 20

// Options tune request defaults and access control.
type Options struct {
	DefaultCollection string
	DefaultK          int
	DefaultListSize   int
	MaxQueryLength    int
	// APIKeys protect write routes; empty disables auth.
	APIKeys []string
}

func (o *Options) applyDefaults() {
	if o.DefaultCollection == "" {
		o.DefaultCollection = DefaultCollection
	}
	if o.DefaultK <= 0 {
		o.DefaultK = request.DefaultK
	}
	if o.DefaultListSize <= 0 {
		o.DefaultListSize = 5
	}
	if o.MaxQueryLength <= 0 {
		o.MaxQueryLength = request.MaxQueryLength
	}
}

// Server is the HTTP API.
type Server struct {
	search        SearchService
	items         ItemService
	embedder      Embedder
	health        HealthService
	usage         UsageService
	opts          Options
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search SearchService,
	items ItemService,
	embedder Embedder,
	health HealthService,
	opts Options,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts.applyDefaults()
	return &Server{
		search:        search,
		items:         items,
		embedder:      embedder,
		health:        health,
		opts:          opts,
		logger:        logger,
		errorHandlers: defaultErrorHandlers(),
	}
}

// WithUsage enables GET /api/usage.
func (s *Server) WithUsage(u UsageService) *Server {
	s.usage = u
	return s
}

// Routes builds the router with the full middleware stack.
func (s *Server) Routes() http.Handler {
	r := chirouter.NewRouter()
	r.Use(JSONRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(WideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chirouter.Router) {
		r.Post("/search", s.SearchPost)
		r.Get("/search", s.SearchGet)
		r.Get("/popular-guides", s.PopularGuides)
		if s.usage != nil {
			r.Get("/usage", s.Usage)
		}

		r.Route("/collections/{collection}", func(r chirouter.Router) {
			r.Get("/default", s.DefaultList)
			r.Get("/items", s.ListItems)
			r.Get("/items/{id}", s.GetItem)
			r.Get("/items/{id}/similar", s.SimilarItems)
			r.Get("/slugs/{slug}", s.GetItemBySlug)

			r.Group(func(r chirouter.Router) {
				r.Use(BearerAuthMiddleware(s.opts.APIKeys))
				r.Post("/items", s.CreateItem)
				r.Put("/items/{id}", s.ReplaceItem)
				r.Delete("/items/{id}", s.DeleteItem)
			})
		})

		r.With(BearerAuthMiddleware(s.opts.APIKeys)).Post("/guides/embed", s.Embed)
	})
	return r
}

// SearchPost handles POST /api/search.
func (s *Server) SearchPost(w http.ResponseWriter, r *http.Request) {
	var body searchRequest
	if !s.decode(w, r, &body) {
		return
	}
	k := s.opts.DefaultK
	if body.K != nil {
		k = *body.K
	}
	s.runSearch(w, r, body.Collection, body.Query, k)
}

// SearchGet handles GET /api/search?q=&k=&collection=. A missing q is a
// missing page, not a bad request.
func (s *Server) SearchGet(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !q.Has("q") {
		writeError(w, http.StatusNotFound, CodeNotFound, "no search query")
		return
	}
	k, ok := intParam(w, r, "k", s.opts.DefaultK)
	if !ok {
		return
	}
	s.runSearch(w, r, q.Get("collection"), q.Get("q"), k)
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, collection, query string, k int) {
	if collection == "" {
		collection = s.opts.DefaultCollection
	}
	if len(strings.TrimSpace(query)) > s.opts.MaxQueryLength {
		writeError(w, http.StatusBadRequest, CodeInvalidInput,
			fmt.Sprintf("query too long (max %d bytes)", s.opts.MaxQueryLength))
		return
	}
	req, err := request.New(query, k)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	ctx, log := logpkg.With(r.Context(), zap.String("collection", collection), zap.Int("k", req.K()))
	ctx, usage := domain.NewContextWithUsage(ctx)
	results, err := s.search.Search(ctx, collection, req)
	if err != nil {
		s.handleDomainError(w, r.WithContext(ctx), err)
		return
	}
	log.Debug("Search served", zap.Int("results", len(results)), zap.Int("embedding_tokens", usage.TotalTokens))
	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, resultsToResponse(results))
}

// SimilarItems handles GET /api/collections/{collection}/items/{id}/similar.
func (s *Server) SimilarItems(w http.ResponseWriter, r *http.Request) {
	k, ok := intParam(w, r, "k", s.opts.DefaultK)
	if !ok {
		return
	}
	req, err := request.NewSimilar(chirouter.URLParam(r, "id"), k)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	results, err := s.search.Similar(r.Context(), chirouter.URLParam(r, "collection"), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resultsToResponse(results))
}

// PopularGuides handles GET /api/popular-guides.
func (s *Server) PopularGuides(w http.ResponseWriter, r *http.Request) {
	s.writeDefault(w, r, s.opts.DefaultCollection)
}

// DefaultList handles GET /api/collections/{collection}/default.
func (s *Server) DefaultList(w http.ResponseWriter, r *http.Request) {
	s.writeDefault(w, r, chirouter.URLParam(r, "collection"))
}

func (s *Server) writeDefault(w http.ResponseWriter, r *http.Request, collection string) {
	items, err := s.items.Default(r.Context(), collection, s.opts.DefaultListSize)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsToResponse(items))
}

// Embed handles POST /api/guides/embed.
func (s *Server) Embed(w http.ResponseWriter, r *http.Request) {
	var body embedRequest
	if !s.decode(w, r, &body) {
		return
	}
	if strings.TrimSpace(body.Text) == "" {
		writeError(w, http.StatusBadRequest, CodeMissingText, "text is required")
		return
	}

	res, err := s.embedder.Embed(r.Context(), body.Text)
	if err != nil {
		if !errors.Is(err, domain.ErrEmbeddingQuotaExceeded) && !errors.Is(err, domain.ErrEmbeddingProviderError) {
			err = fmt.Errorf("%w: %w", domain.ErrEmbeddingProviderError, err)
		}
		s.handleDomainError(w, r, err)
		return
	}
	if len(res.Embedding) == 0 {
		s.handleDomainError(w, r, fmt.Errorf("%w: empty embedding", domain.ErrEmbeddingProviderError))
		return
	}
	w.Header().Set("X-Embedding-Tokens", strconv.Itoa(res.TotalTokens))
	writeJSON(w, http.StatusOK, embedResponse{Embedding: res.Embedding})
}

// CreateItem handles POST /api/collections/{collection}/items.
func (s *Server) CreateItem(w http.ResponseWriter, r *http.Request) {
	var body itemRequest
	if !s.decode(w, r, &body) {
		return
	}
	id := body.ID
	if id == "" {
		id = body.Slug
	}
	it, err := domitem.New(id, body.fields())
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidInput, err.Error())
		return
	}

	collection := chirouter.URLParam(r, "collection")
	ctx, usage := domain.NewContextWithUsage(r.Context())
	created, err := s.items.Create(ctx, collection, it)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	setEmbeddingHeaders(w, usage)
	w.Header().Set("Location", fmt.Sprintf("/api/collections/%s/items/%s", collection, created.ID()))
	writeJSON(w, http.StatusCreated, itemToResponse(created))
}

// ReplaceItem handles PUT /api/collections/{collection}/items/{id}.
func (s *Server) ReplaceItem(w http.ResponseWriter, r *http.Request) {
	var body itemRequest
	if !s.decode(w, r, &body) {
		return
	}
	id := chirouter.URLParam(r, "id")
	if body.ID != "" && body.ID != id {
		writeError(w, http.StatusBadRequest, CodeInvalidInput, "body id does not match path")
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	updated, err := s.items.Update(ctx, chirouter.URLParam(r, "collection"), id, body.fields())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, itemToResponse(updated))
}

// GetItem handles GET /api/collections/{collection}/items/{id}.
func (s *Server) GetItem(w http.ResponseWriter, r *http.Request) {
	it, err := s.items.Get(r.Context(), chirouter.URLParam(r, "collection"), chirouter.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemToResponse(it))
}

// GetItemBySlug handles GET /api/collections/{collection}/slugs/{slug}.
func (s *Server) GetItemBySlug(w http.ResponseWriter, r *http.Request) {
	it, err := s.items.GetBySlug(r.Context(), chirouter.URLParam(r, "collection"), chirouter.URLParam(r, "slug"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemToResponse(it))
}

// ListItems handles GET /api/collections/{collection}/items.
func (s *Server) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.items.List(r.Context(), chirouter.URLParam(r, "collection"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemsToResponse(items))
}

// DeleteItem handles DELETE /api/collections/{collection}/items/{id}.
func (s *Server) DeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.items.Delete(r.Context(), chirouter.URLParam(r, "collection"), chirouter.URLParam(r, "id")); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /health. Degraded still answers 200: stored items stay readable.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Usage handles GET /api/usage?period=day|month.
func (s *Server) Usage(w http.ResponseWriter, r *http.Request) {
	period, err := usageuc.ParsePeriod(r.URL.Query().Get("period"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, usageToResponse(s.usage.GetReport(r.Context(), period)))
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

func intParam(w http.ResponseWriter, r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, fmt.Sprintf("%s must be an integer", name))
		return 0, false
	}
	return v, true
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}
