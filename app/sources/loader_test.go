package sources

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSource(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write source file: %v", err)
	}
}

func TestLoader_LoadAll_Valid(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "news.yaml", `
name: mining-news
links:
  - https://example.com/article-1
feeds:
  - https://example.com/rss.xml
`)

	loader := NewLoader(dir)
	sources, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("Expected success, got error: %v", err)
	}

	if len(sources) != 1 {
		t.Fatalf("Expected 1 source, got %d", len(sources))
	}
	if sources[0].Name != "mining-news" {
		t.Errorf("Unexpected name: %s", sources[0].Name)
	}
	if len(sources[0].Links) != 1 || len(sources[0].Feeds) != 1 {
		t.Errorf("Unexpected links/feeds: %+v", sources[0])
	}
	if !sources[0].IsEnabled() {
		t.Error("Source without enabled field should default to enabled")
	}
}

func TestLoader_LoadAll_DefaultName(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "unnamed.yml", `
links:
  - https://example.com/a
`)

	loader := NewLoader(dir)
	sources, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("Expected success, got error: %v", err)
	}
	if sources[0].Name != "unnamed.yml" {
		t.Errorf("Expected file basename as default name, got %s", sources[0].Name)
	}
}

func TestLoader_LoadAll_MissingDirectory(t *testing.T) {
	loader := NewLoader(filepath.Join(t.TempDir(), "does-not-exist"))

	sources, err := loader.LoadAll()
	if err != nil {
		t.Fatalf("Missing directory should not error, got: %v", err)
	}
	if sources != nil {
		t.Errorf("Expected no sources, got %v", sources)
	}
}

func TestLoader_LoadAll_EmptySourceRejected(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "empty.yaml", `name: empty`)

	loader := NewLoader(dir)
	if _, err := loader.LoadAll(); err == nil {
		t.Fatal("Expected error for source without links or feeds")
	}
}

func TestLoader_LoadAll_BadScheme(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "bad.yaml", `
links:
  - ftp://example.com/file
`)

	loader := NewLoader(dir)
	if _, err := loader.LoadAll(); err == nil {
		t.Fatal("Expected error for non-http link")
	}
}

func TestSource_IsEnabled(t *testing.T) {
	enabled := true
	disabled := false

	if !(&Source{}).IsEnabled() {
		t.Error("Nil enabled should default to true")
	}
	if !(&Source{Enabled: &enabled}).IsEnabled() {
		t.Error("Explicit true should be enabled")
	}
	if (&Source{Enabled: &disabled}).IsEnabled() {
		t.Error("Explicit false should be disabled")
	}
}
