package vector

import (
	"path/filepath"
	"strings"
	"testing"
)

func seedIndex(t *testing.T) *Index {
	t.Helper()

	ix := NewIndex(2)
	err := ix.Add([][]float32{
		{0, 0},
		{1, 0},
		{5, 5},
		{10, 0},
		{0, 10},
	}, []string{"a", "b", "c", "d", "e"})
	if err != nil {
		t.Fatalf("Failed to seed index: %v", err)
	}
	return ix
}

func TestIndex_Search_NearestFirst(t *testing.T) {
	ix := seedIndex(t)

	keys, dists, err := ix.Search([]float32{4, 4}, 2)
	if err != nil {
		t.Fatalf("Expected success, got error: %v", err)
	}

	if len(keys) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(keys))
	}
	if keys[0] != "c" {
		t.Errorf("Expected 'c' as the nearest key, got '%s'", keys[0])
	}
	if dists[0] > dists[1] {
		t.Errorf("Expected distances sorted ascending, got %v", dists)
	}
}

func TestIndex_Search_KLargerThanIndex(t *testing.T) {
	ix := seedIndex(t)

	keys, _, err := ix.Search([]float32{0, 0}, 50)
	if err != nil {
		t.Fatalf("Expected success, got error: %v", err)
	}
	if len(keys) != 5 {
		t.Errorf("Expected all 5 entries, got %d", len(keys))
	}
}

func TestIndex_Search_DimensionMismatch(t *testing.T) {
	ix := seedIndex(t)

	_, _, err := ix.Search([]float32{1, 2, 3}, 1)
	if err == nil {
		t.Fatal("Expected error for wrong query dimension")
	}
}

func TestIndex_Add_DuplicateKeyRejected(t *testing.T) {
	ix := seedIndex(t)

	err := ix.Add([][]float32{{1, 1}}, []string{"a"})
	if err == nil {
		t.Fatal("Expected error for duplicate key")
	}
	if !strings.Contains(err.Error(), "already indexed") {
		t.Errorf("Unexpected error: %v", err)
	}
	if ix.Size() != 5 {
		t.Errorf("Size should be unchanged after rejected add, got %d", ix.Size())
	}
}

func TestIndex_Add_DimensionMismatch(t *testing.T) {
	ix := NewIndex(2)

	err := ix.Add([][]float32{{1, 2, 3}}, []string{"x"})
	if err == nil {
		t.Fatal("Expected error for wrong vector dimension")
	}
	if ix.Size() != 0 {
		t.Errorf("Nothing should be added on dimension mismatch, got size %d", ix.Size())
	}
}

func TestIndex_Contains(t *testing.T) {
	ix := seedIndex(t)

	if !ix.Contains("c") {
		t.Error("Expected 'c' to be indexed")
	}
	if ix.Contains("zzz") {
		t.Error("Did not expect 'zzz' to be indexed")
	}
}

func TestIndex_SaveAndLoad(t *testing.T) {
	ix := seedIndex(t)
	path := filepath.Join(t.TempDir(), "test.index")

	if err := ix.Save(path); err != nil {
		t.Fatalf("Failed to save index: %v", err)
	}

	restored, err := LoadIndex(path, 2)
	if err != nil {
		t.Fatalf("Failed to load index: %v", err)
	}

	if restored.Size() != 5 {
		t.Errorf("Expected 5 entries after restore, got %d", restored.Size())
	}
	if !restored.Contains("e") {
		t.Error("Membership set not rebuilt on load")
	}

	keys, _, err := restored.Search([]float32{4, 4}, 1)
	if err != nil {
		t.Fatalf("Search on restored index failed: %v", err)
	}
	if keys[0] != "c" {
		t.Errorf("Expected 'c' from restored index, got '%s'", keys[0])
	}
}

func TestLoadIndex_MissingFile(t *testing.T) {
	ix, err := LoadIndex(filepath.Join(t.TempDir(), "missing.index"), 4)
	if err != nil {
		t.Fatalf("Missing snapshot should yield a fresh index, got error: %v", err)
	}
	if ix.Size() != 0 {
		t.Errorf("Expected empty index, got size %d", ix.Size())
	}
}

func TestLoadIndex_DimensionMismatch(t *testing.T) {
	ix := seedIndex(t)
	path := filepath.Join(t.TempDir(), "test.index")
	if err := ix.Save(path); err != nil {
		t.Fatalf("Failed to save index: %v", err)
	}

	_, err := LoadIndex(path, 768)
	if err == nil {
		t.Fatal("Expected error for mismatched snapshot dimension")
	}
}
