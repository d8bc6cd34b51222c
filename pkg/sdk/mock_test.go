package wikisearch

import (
	"context"

	domitem "github.com/kailas-cloud/wikisearch/internal/domain/item"
	"github.com/kailas-cloud/wikisearch/internal/domain/search/request"
	"github.com/kailas-cloud/wikisearch/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/wikisearch/internal/usecase/health"
	itemuc "github.com/kailas-cloud/wikisearch/internal/usecase/item"
	usageuc "github.com/kailas-cloud/wikisearch/internal/usecase/usage"
)

// --- itemUseCase mock ---

type mockItemUC struct {
	createFn    func(ctx context.Context, col string, it domitem.Item) (domitem.Item, error)
	updateFn    func(ctx context.Context, col, id string, f domitem.Fields) (domitem.Item, error)
	getFn       func(ctx context.Context, col, id string) (domitem.Item, error)
	getBySlugFn func(ctx context.Context, col, slug string) (domitem.Item, error)
	listFn      func(ctx context.Context, col string) ([]domitem.Item, error)
	defaultFn   func(ctx context.Context, col string, n int) ([]domitem.Item, error)
	deleteFn    func(ctx context.Context, col, id string) error
	seedFn      func(ctx context.Context, col string, items []domitem.Item) (itemuc.SeedReport, error)
}

func (m *mockItemUC) Create(ctx context.Context, col string, it domitem.Item) (domitem.Item, error) {
	return m.createFn(ctx, col, it)
}

func (m *mockItemUC) Update(ctx context.Context, col, id string, f domitem.Fields) (domitem.Item, error) {
	return m.updateFn(ctx, col, id, f)
}

func (m *mockItemUC) Get(ctx context.Context, col, id string) (domitem.Item, error) {
	return m.getFn(ctx, col, id)
}

func (m *mockItemUC) GetBySlug(ctx context.Context, col, slug string) (domitem.Item, error) {
	return m.getBySlugFn(ctx, col, slug)
}

func (m *mockItemUC) List(ctx context.Context, col string) ([]domitem.Item, error) {
	return m.listFn(ctx, col)
}

func (m *mockItemUC) Default(ctx context.Context, col string, n int) ([]domitem.Item, error) {
	return m.defaultFn(ctx, col, n)
}

func (m *mockItemUC) Delete(ctx context.Context, col, id string) error {
	return m.deleteFn(ctx, col, id)
}

func (m *mockItemUC) Seed(ctx context.Context, col string, items []domitem.Item) (itemuc.SeedReport, error) {
	return m.seedFn(ctx, col, items)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn  func(ctx context.Context, col string, req request.Request) ([]result.Result, error)
	similarFn func(ctx context.Context, col string, req request.SimilarRequest) ([]result.Result, error)
}

func (m *mockSearchUC) Search(ctx context.Context, col string, req request.Request) ([]result.Result, error) {
	return m.searchFn(ctx, col, req)
}

func (m *mockSearchUC) Similar(
	ctx context.Context, col string, req request.SimilarRequest,
) ([]result.Result, error) {
	return m.similarFn(ctx, col, req)
}

// --- healthUseCase / usageUseCase mocks ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }

type mockUsageUC struct {
	report usageuc.Report
	got    usageuc.Period
}

func (m *mockUsageUC) GetReport(_ context.Context, p usageuc.Period) usageuc.Report {
	m.got = p
	return m.report
}

// --- helpers ---

func testClient(itemSvc itemUseCase, searchSvc searchUseCase) *Client {
	return &Client{
		itemSvc:   itemSvc,
		searchSvc: searchSvc,
	}
}
