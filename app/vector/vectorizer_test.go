package vector

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/gemfeed/gempress/app/database"
)

type fakeEmbedder struct {
	vectors map[string][]float32
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, ok := f.vectors[text]
	if !ok {
		return nil, errors.New("embedding service unavailable")
	}
	return vec, nil
}

type vectorRepo struct {
	articles []database.Article
}

func (r *vectorRepo) GetArticle(id string) (*database.Article, error)              { return nil, nil }
func (r *vectorRepo) GetArticleByLink(link string) (*database.Article, error)      { return nil, nil }
func (r *vectorRepo) GetArticleByCleanedText(t string) (*database.Article, error)  { return nil, nil }
func (r *vectorRepo) GetAllArticles() ([]database.Article, error) {
	return r.articles, nil
}
func (r *vectorRepo) GetUnprocessedArticles() ([]database.Article, error) { return nil, nil }
func (r *vectorRepo) ListArticles(filter database.ArticleFilter) ([]database.Article, error) {
	return nil, nil
}
func (r *vectorRepo) InsertArticle(article database.Article) (*database.Article, error) {
	return &article, nil
}
func (r *vectorRepo) UpdateArticle(article *database.Article) error { return nil }
func (r *vectorRepo) UpdateArticleMetadata(id string, name, description *string, processed *bool) error {
	return nil
}
func (r *vectorRepo) DeleteArticle(id string) error { return nil }
func (r *vectorRepo) GetArticleCount() (int, error) { return len(r.articles), nil }
func (r *vectorRepo) GetArticleStats() (int, int, int, error) {
	return len(r.articles), 0, 0, nil
}

func TestVectorizer_Run_AddsNewArticles(t *testing.T) {
	repo := &vectorRepo{articles: []database.Article{
		{ID: "a", CleanedText: "text a"},
		{ID: "b", CleanedText: "text b"},
	}}
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"text a": {1, 0},
		"text b": {0, 1},
	}}

	index := NewIndex(2)
	snapshot := filepath.Join(t.TempDir(), "run.index")
	vectorizer := NewVectorizer(repo, embedder, index, snapshot)

	result, err := vectorizer.Run(context.Background())
	if err != nil {
		t.Fatalf("Expected success, got error: %v", err)
	}

	if result.Added != 2 {
		t.Errorf("Expected 2 added, got %d", result.Added)
	}
	if result.TotalInIndex != 2 {
		t.Errorf("Expected 2 in index, got %d", result.TotalInIndex)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Expected no errors, got %v", result.Errors)
	}

	// Snapshot must be written after a successful add
	restored, err := LoadIndex(snapshot, 2)
	if err != nil {
		t.Fatalf("Failed to load snapshot: %v", err)
	}
	if restored.Size() != 2 {
		t.Errorf("Expected snapshot with 2 entries, got %d", restored.Size())
	}
}

func TestVectorizer_Run_SkipsIndexedArticles(t *testing.T) {
	repo := &vectorRepo{articles: []database.Article{
		{ID: "a", CleanedText: "text a"},
		{ID: "b", CleanedText: "text b"},
	}}
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"text a": {1, 0},
		"text b": {0, 1},
	}}

	index := NewIndex(2)
	if err := index.Add([][]float32{{1, 0}}, []string{"a"}); err != nil {
		t.Fatalf("Failed to pre-seed index: %v", err)
	}

	vectorizer := NewVectorizer(repo, embedder, index, "")

	result, err := vectorizer.Run(context.Background())
	if err != nil {
		t.Fatalf("Expected success, got error: %v", err)
	}
	if result.Added != 1 {
		t.Errorf("Expected only 'b' to be added, got %d", result.Added)
	}
	if result.TotalInIndex != 2 {
		t.Errorf("Expected 2 in index, got %d", result.TotalInIndex)
	}
}

func TestVectorizer_Run_EmbeddingFailureCollected(t *testing.T) {
	repo := &vectorRepo{articles: []database.Article{
		{ID: "a", CleanedText: "text a"},
		{ID: "broken", CleanedText: "unknown text"},
	}}
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"text a": {1, 0},
	}}

	vectorizer := NewVectorizer(repo, embedder, NewIndex(2), "")

	result, err := vectorizer.Run(context.Background())
	if err != nil {
		t.Fatalf("Per-article embedding failures must not abort the run, got: %v", err)
	}
	if result.Added != 1 {
		t.Errorf("Expected 1 added, got %d", result.Added)
	}
	if len(result.Errors) != 1 {
		t.Errorf("Expected 1 collected error, got %v", result.Errors)
	}
}
