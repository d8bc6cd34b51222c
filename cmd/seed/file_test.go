package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `
collection: projects
items:
  - slug: internportal-redesign
    title: Redesign av internportal
    description: Et prosjekt for å forbedre brukeropplevelsen.
    category: UX-prosjekter
    content: |
      ## Om prosjektet
      Kartla eksisterende brukerreise.
    attributes:
      main: design
      sub: ux
  - id: custom-id
    slug: second
    title: Second
`

func TestParseSeed(t *testing.T) {
	collection, items, err := parseSeed([]byte(sample))
	if err != nil {
		t.Fatalf("parseSeed: %v", err)
	}
	if collection != "projects" {
		t.Errorf("collection = %q", collection)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID() != "internportal-redesign" {
		t.Errorf("id should default to slug, got %q", items[0].ID())
	}
	if items[0].Attributes()["sub"] != "ux" {
		t.Errorf("attributes = %v", items[0].Attributes())
	}
	if !strings.Contains(items[0].Content(), "Kartla") {
		t.Errorf("content = %q", items[0].Content())
	}
	if items[1].ID() != "custom-id" {
		t.Errorf("explicit id lost: %q", items[1].ID())
	}
}

func TestParseSeed_InvalidItem(t *testing.T) {
	_, _, err := parseSeed([]byte("items:\n  - slug: Bad Slug\n    title: x\n"))
	if err == nil || !strings.Contains(err.Error(), "item 0") {
		t.Fatalf("expected indexed validation error, got %v", err)
	}
}

func TestParseSeed_BadYAML(t *testing.T) {
	if _, _, err := parseSeed([]byte("items: [")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o600); err != nil {
		t.Fatal(err)
	}
	_, items, err := loadSeed(path)
	if err != nil || len(items) != 2 {
		t.Fatalf("loadSeed = %d items, %v", len(items), err)
	}
	if _, _, err := loadSeed(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
