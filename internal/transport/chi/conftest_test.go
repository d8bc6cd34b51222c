package chi

import (
	"context"

	"github.com/kailas-cloud/wikisearch/internal/domain"
	domitem "github.com/kailas-cloud/wikisearch/internal/domain/item"
	"github.com/kailas-cloud/wikisearch/internal/domain/search/request"
	"github.com/kailas-cloud/wikisearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/wikisearch/internal/usecase/health"
	usageuc "github.com/kailas-cloud/wikisearch/internal/usecase/usage"
)

type mockSearch struct {
	searchFn  func(ctx context.Context, collection string, req request.Request) ([]result.Result, error)
	similarFn func(ctx context.Context, collection string, req request.SimilarRequest) ([]result.Result, error)
}

func (m *mockSearch) Search(ctx context.Context, collection string, req request.Request) ([]result.Result, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, collection, req)
	}
	return []result.Result{}, nil
}

func (m *mockSearch) Similar(
	ctx context.Context, collection string, req request.SimilarRequest,
) ([]result.Result, error) {
	if m.similarFn != nil {
		return m.similarFn(ctx, collection, req)
	}
	return []result.Result{}, nil
}

type mockItems struct {
	createFn    func(ctx context.Context, collection string, it domitem.Item) (domitem.Item, error)
	updateFn    func(ctx context.Context, collection, id string, f domitem.Fields) (domitem.Item, error)
	getFn       func(ctx context.Context, collection, id string) (domitem.Item, error)
	getBySlugFn func(ctx context.Context, collection, slug string) (domitem.Item, error)
	listFn      func(ctx context.Context, collection string) ([]domitem.Item, error)
	defaultFn   func(ctx context.Context, collection string, n int) ([]domitem.Item, error)
	deleteFn    func(ctx context.Context, collection, id string) error
}

func (m *mockItems) Create(ctx context.Context, collection string, it domitem.Item) (domitem.Item, error) {
	if m.createFn != nil {
		return m.createFn(ctx, collection, it)
	}
	return it, nil
}

func (m *mockItems) Update(ctx context.Context, collection, id string, f domitem.Fields) (domitem.Item, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, collection, id, f)
	}
	return domitem.New(id, f)
}

func (m *mockItems) Get(ctx context.Context, collection, id string) (domitem.Item, error) {
	if m.getFn != nil {
		return m.getFn(ctx, collection, id)
	}
	return domitem.Item{}, domain.ErrNotFound
}

func (m *mockItems) GetBySlug(ctx context.Context, collection, slug string) (domitem.Item, error) {
	if m.getBySlugFn != nil {
		return m.getBySlugFn(ctx, collection, slug)
	}
	return domitem.Item{}, domain.ErrNotFound
}

func (m *mockItems) List(ctx context.Context, collection string) ([]domitem.Item, error) {
	if m.listFn != nil {
		return m.listFn(ctx, collection)
	}
	return []domitem.Item{}, nil
}

func (m *mockItems) Default(ctx context.Context, collection string, n int) ([]domitem.Item, error) {
	if m.defaultFn != nil {
		return m.defaultFn(ctx, collection, n)
	}
	return []domitem.Item{}, nil
}

func (m *mockItems) Delete(ctx context.Context, collection, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, collection, id)
	}
	return nil
}

type mockEmbedder struct {
	result domain.EmbeddingResult
	err    error
	calls  int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.calls++
	return m.result, m.err
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

type mockUsage struct {
	report usageuc.Report
	period usageuc.Period
}

func (m *mockUsage) GetReport(_ context.Context, period usageuc.Period) usageuc.Report {
	m.period = period
	r := m.report
	r.Period = period
	return r
}
