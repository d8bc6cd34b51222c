package chi

import (
	"time"

	domitem "github.com/kailas-cloud/wikisearch/internal/domain/item"
	"github.com/kailas-cloud/wikisearch/internal/domain/search/result"
	usageuc "github.com/kailas-cloud/wikisearch/internal/usecase/usage"
)

type searchRequest struct {
	Query      string `json:"query"`
	K          *int   `json:"k,omitempty"`
	Collection string `json:"collection,omitempty"`
}

type embedRequest struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Embedding []float32 `json:"embedding"`
}

// itemRequest is the body of item create and replace. ID defaults to the slug.
type itemRequest struct {
	ID          string            `json:"id,omitempty"`
	Slug        string            `json:"slug"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Content     string            `json:"content"`
	Attributes  map[string]string `json:"attributes,omitempty"`
}

func (r itemRequest) fields() domitem.Fields {
	return domitem.Fields{
		Slug:        r.Slug,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Content:     r.Content,
		Attributes:  r.Attributes,
	}
}

// itemResponse omits the embedding; HasEmbedding tells clients whether the item is searchable.
type itemResponse struct {
	ID           string            `json:"id"`
	Slug         string            `json:"slug"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Category     string            `json:"category"`
	Content      string            `json:"content"`
	Attributes   map[string]string `json:"attributes,omitempty"`
	HasEmbedding bool              `json:"has_embedding"`
	CreatedAt    int64             `json:"created_at"`
	UpdatedAt    int64             `json:"updated_at"`
}

type searchResultResponse struct {
	itemResponse
	Similarity float64 `json:"similarity"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

type usageResponse struct {
	Period      string `json:"period"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	Tokens      int64  `json:"tokens"`
	Limit       int64  `json:"tokens_limit"`
	Remaining   int64  `json:"tokens_remaining"`
	Exhausted   bool   `json:"is_exhausted"`
}

func usageToResponse(r usageuc.Report) usageResponse {
	return usageResponse{
		Period:      string(r.Period),
		PeriodStart: r.PeriodStart.Format(time.RFC3339),
		PeriodEnd:   r.PeriodEnd.Format(time.RFC3339),
		Tokens:      r.Tokens,
		Limit:       r.Limit,
		Remaining:   r.Remaining,
		Exhausted:   r.Exhausted,
	}
}

func itemToResponse(it domitem.Item) itemResponse {
	return itemResponse{
		ID:           it.ID(),
		Slug:         it.Slug(),
		Title:        it.Title(),
		Description:  it.Description(),
		Category:     it.Category(),
		Content:      it.Content(),
		Attributes:   it.Attributes(),
		HasEmbedding: it.HasEmbedding(),
		CreatedAt:    it.CreatedAt(),
		UpdatedAt:    it.UpdatedAt(),
	}
}

func itemsToResponse(items []domitem.Item) []itemResponse {
	out := make([]itemResponse, len(items))
	for i, it := range items {
		out[i] = itemToResponse(it)
	}
	return out
}

func resultsToResponse(results []result.Result) []searchResultResponse {
	out := make([]searchResultResponse, len(results))
	for i, r := range results {
		out[i] = searchResultResponse{
			itemResponse: itemToResponse(r.Item()),
			Similarity:   r.Similarity(),
		}
	}
	return out
}
