package main

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	domitem "github.com/kailas-cloud/wikisearch/internal/domain/item"
)

// seedFile is the on-disk seed format.
type seedFile struct {
	Collection string     `yaml:"collection"`
	Items      []seedItem `yaml:"items"`
}

type seedItem struct {
	ID          string            `yaml:"id"`
	Slug        string            `yaml:"slug"`
	Title       string            `yaml:"title"`
	Description string            `yaml:"description"`
	Category    string            `yaml:"category"`
	Content     string            `yaml:"content"`
	Attributes  map[string]string `yaml:"attributes"`
}

// loadSeed reads and validates a seed file. IDs default to the slug.
func loadSeed(path string) (string, []domitem.Item, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", nil, fmt.Errorf("read seed file: %w", err)
	}
	return parseSeed(data)
}

func parseSeed(data []byte) (string, []domitem.Item, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return "", nil, fmt.Errorf("parse seed file: %w", err)
	}

	items := make([]domitem.Item, 0, len(f.Items))
	for i, si := range f.Items {
		id := si.ID
		if id == "" {
			id = si.Slug
		}
		it, err := domitem.New(id, domitem.Fields{
			Slug:        si.Slug,
			Title:       si.Title,
			Description: si.Description,
			Category:    si.Category,
			Content:     si.Content,
			Attributes:  si.Attributes,
		})
		if err != nil {
			return "", nil, fmt.Errorf("item %d (%s): %w", i, si.Slug, err)
		}
		items = append(items, it)
	}
	return f.Collection, items, nil
}
