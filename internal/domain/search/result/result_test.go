package result

import (
	"testing"

	"github.com/kailas-cloud/wikisearch/internal/domain/item"
	"github.com/kailas-cloud/wikisearch/internal/domain/vector"
)

func TestNew(t *testing.T) {
	it := item.Reconstruct("g1", item.Fields{Slug: "a", Title: "A"}, vector.Vector{1, 0}, 0, 0)

	r := New(it, 0.75)

	got := r.Item()
	if got.ID() != "g1" {
		t.Errorf("Item().ID() = %q", got.ID())
	}
	if got.Title() != "A" {
		t.Errorf("Item().Title() = %q", got.Title())
	}
	if r.Similarity() != 0.75 {
		t.Errorf("Similarity() = %f", r.Similarity())
	}
}
