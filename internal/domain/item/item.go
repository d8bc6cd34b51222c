// Package item defines the corpus item aggregate: a guide or project record
// that may carry an embedding.
package item

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kailas-cloud/wikisearch/internal/domain/vector"
)

var (
	idRegex   = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	slugRegex = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// Limits for authored content.
const (
	MaxIDLength      = 256
	MaxTitleLength   = 512
	MaxContentSize   = 512 * 1024
	MaxAttributeKeys = 32
)

// Fields are the authored, user-visible fields of an item.
type Fields struct {
	Slug        string
	Title       string
	Description string
	Category    string
	Content     string
	Attributes  map[string]string
}

// Item is a corpus record. The embedding is optional: items without one are
// never scored.
type Item struct {
	id        string
	fields    Fields
	embedding vector.Vector
	createdAt int64 // unix millis
	updatedAt int64 // unix millis
}

// New validates authored fields and creates an item without an embedding.
func New(id string, f Fields) (Item, error) {
	if id == "" {
		return Item{}, fmt.Errorf("item ID is required")
	}
	if len(id) > MaxIDLength {
		return Item{}, fmt.Errorf("item ID too long (max %d)", MaxIDLength)
	}
	if !idRegex.MatchString(id) {
		return Item{}, fmt.Errorf("item ID must be alphanumeric with underscores and hyphens")
	}
	if err := validateFields(f); err != nil {
		return Item{}, err
	}

	f.Attributes = cloneAttributes(f.Attributes)
	return Item{id: id, fields: f}, nil
}

func validateFields(f Fields) error {
	if !slugRegex.MatchString(f.Slug) {
		return fmt.Errorf("slug %q must be lowercase words joined by hyphens", f.Slug)
	}
	if strings.TrimSpace(f.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if len(f.Title) > MaxTitleLength {
		return fmt.Errorf("title too long (max %d)", MaxTitleLength)
	}
	if len(f.Content) > MaxContentSize {
		return fmt.Errorf("content too large (max %d bytes)", MaxContentSize)
	}
	if len(f.Attributes) > MaxAttributeKeys {
		return fmt.Errorf("too many attributes (max %d)", MaxAttributeKeys)
	}
	for k := range f.Attributes {
		if k == "" {
			return fmt.Errorf("attribute name must not be empty")
		}
	}
	return nil
}

// Reconstruct hydrates an item from storage without validation.
func Reconstruct(id string, f Fields, embedding vector.Vector, createdAt, updatedAt int64) Item {
	return Item{id: id, fields: f, embedding: embedding, createdAt: createdAt, updatedAt: updatedAt}
}

// ID returns the item identifier.
func (i Item) ID() string { return i.id }

// Slug returns the URL slug.
func (i Item) Slug() string { return i.fields.Slug }

// Title returns the title.
func (i Item) Title() string { return i.fields.Title }

// Description returns the short description.
func (i Item) Description() string { return i.fields.Description }

// Category returns the category label.
func (i Item) Category() string { return i.fields.Category }

// Content returns the body.
func (i Item) Content() string { return i.fields.Content }

// Attributes returns extra fields (e.g. project main/sub category).
func (i Item) Attributes() map[string]string { return i.fields.Attributes }

// Fields returns all authored fields.
func (i Item) Fields() Fields { return i.fields }

// Embedding returns the stored vector, nil when absent.
func (i Item) Embedding() vector.Vector { return i.embedding }

// HasEmbedding reports whether the item can be scored.
func (i Item) HasEmbedding() bool { return len(i.embedding) > 0 }

// CreatedAt returns the creation time in unix millis.
func (i Item) CreatedAt() int64 { return i.createdAt }

// UpdatedAt returns the last update time in unix millis.
func (i Item) UpdatedAt() int64 { return i.updatedAt }

// EmbeddingText is the text an item is embedded from.
func (i Item) EmbeddingText() string {
	return i.fields.Title + "\n" + i.fields.Description + "\n" + i.fields.Content
}

// WithEmbedding returns a copy carrying the given vector.
func (i Item) WithEmbedding(v vector.Vector) Item {
	i.embedding = vector.New(v)
	return i
}

// WithTimestamps returns a copy with creation and update times set.
func (i Item) WithTimestamps(createdAt, updatedAt int64) Item {
	i.createdAt = createdAt
	i.updatedAt = updatedAt
	return i
}

func cloneAttributes(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
