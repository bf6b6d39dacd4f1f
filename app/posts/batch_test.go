package posts

import (
	"context"
	"strings"
	"testing"

	"github.com/gemfeed/gempress/app/database"
	"github.com/gemfeed/gempress/app/llm"
)

type batchRepo struct {
	unprocessed []database.Article
	updated     map[string]*database.Article
}

func (r *batchRepo) GetArticle(id string) (*database.Article, error)              { return nil, nil }
func (r *batchRepo) GetArticleByLink(link string) (*database.Article, error)      { return nil, nil }
func (r *batchRepo) GetArticleByCleanedText(t string) (*database.Article, error)  { return nil, nil }
func (r *batchRepo) GetAllArticles() ([]database.Article, error)                  { return nil, nil }
func (r *batchRepo) GetUnprocessedArticles() ([]database.Article, error) {
	return r.unprocessed, nil
}
func (r *batchRepo) ListArticles(filter database.ArticleFilter) ([]database.Article, error) {
	return nil, nil
}
func (r *batchRepo) InsertArticle(article database.Article) (*database.Article, error) {
	return &article, nil
}
func (r *batchRepo) UpdateArticle(article *database.Article) error {
	if r.updated == nil {
		r.updated = make(map[string]*database.Article)
	}
	copied := *article
	r.updated[article.ID] = &copied
	return nil
}
func (r *batchRepo) UpdateArticleMetadata(id string, name, description *string, processed *bool) error {
	return nil
}
func (r *batchRepo) DeleteArticle(id string) error { return nil }
func (r *batchRepo) GetArticleCount() (int, error) { return 0, nil }
func (r *batchRepo) GetArticleStats() (int, int, int, error) {
	return 0, 0, 0, nil
}

func TestService_GenerateAll_PartialFailure(t *testing.T) {
	longTranslation := strings.Repeat("texto traducido sobre esmeraldas ", 5)

	repo := &batchRepo{
		unprocessed: []database.Article{
			{ID: "a", Link: "https://example.com/a", Translation: "corto"},
			{ID: "b", Link: "https://example.com/b", Translation: longTranslation},
			{ID: "c", Link: "https://example.com/c", Translation: longTranslation},
		},
	}

	service := NewService(repo, newTestGenerator(validPosts))

	result, err := service.GenerateAll(context.Background(), 3)
	if err != nil {
		t.Fatalf("Batch must not fail on per-article errors, got: %v", err)
	}

	if result.Total != 3 {
		t.Errorf("Expected total 3, got %d", result.Total)
	}
	if result.Succeeded != 2 {
		t.Errorf("Expected 2 successes, got %d", result.Succeeded)
	}
	if result.Failed != 1 {
		t.Errorf("Expected 1 failure, got %d", result.Failed)
	}
	if len(result.Errors) != 1 || result.Errors[0].ArticleID != "a" {
		t.Errorf("Expected article 'a' in error list, got %+v", result.Errors)
	}

	// Failing article stays untouched, others are marked processed with posts
	if _, ok := repo.updated["a"]; ok {
		t.Error("Failed article must not be updated")
	}
	for _, id := range []string{"b", "c"} {
		saved, ok := repo.updated[id]
		if !ok {
			t.Errorf("Expected article %s to be saved", id)
			continue
		}
		if !saved.Processed {
			t.Errorf("Expected article %s marked processed", id)
		}
		if len(saved.Posts) != 3 {
			t.Errorf("Expected 3 posts on article %s, got %d", id, len(saved.Posts))
		}
	}
}

func TestService_GenerateAll_NothingToProcess(t *testing.T) {
	service := NewService(&batchRepo{}, newTestGenerator(validPosts))

	result, err := service.GenerateAll(context.Background(), 3)
	if err != nil {
		t.Fatalf("Empty batch should succeed, got: %v", err)
	}
	if result.Total != 0 || result.Succeeded != 0 || result.Failed != 0 {
		t.Errorf("Expected empty summary, got %+v", result)
	}
}

func TestService_GenerateAll_GenerationFailureLeavesUnprocessed(t *testing.T) {
	longTranslation := strings.Repeat("texto traducido sobre oro ", 5)

	repo := &batchRepo{
		unprocessed: []database.Article{
			{ID: "a", Link: "https://example.com/a", Translation: longTranslation},
		},
	}

	// Model returns garbage for every article
	generator := NewGenerator(llm.NewInvoker(&fixedChatter{response: "not json"}, 1, 0))
	service := NewService(repo, generator)

	result, err := service.GenerateAll(context.Background(), 3)
	if err != nil {
		t.Fatalf("Batch must not fail on per-article errors, got: %v", err)
	}
	if result.Failed != 1 {
		t.Errorf("Expected 1 failure, got %d", result.Failed)
	}
	if _, ok := repo.updated["a"]; ok {
		t.Error("Article must stay unprocessed after generation failure")
	}
}
