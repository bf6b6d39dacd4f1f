package posts

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gemfeed/gempress/app/database"
)

// minTranslationLength guards against generating posts from a truncated or
// empty translation.
const minTranslationLength = 30

// ItemResult records one successfully processed article in a batch.
type ItemResult struct {
	ArticleID      string `json:"article_id"`
	Link           string `json:"link"`
	PostsGenerated int    `json:"posts_generated"`
}

// ItemError records one failed article in a batch.
type ItemError struct {
	ArticleID string `json:"article_id"`
	Link      string `json:"link"`
	Error     string `json:"error"`
}

// BatchResult is the structured summary returned by GenerateAll. Batch jobs
// report partial failure here instead of raising past their boundary.
type BatchResult struct {
	Total     int          `json:"total"`
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Results   []ItemResult `json:"results"`
	Errors    []ItemError  `json:"errors"`
}

// Service runs post generation over unprocessed articles, one at a time.
type Service struct {
	repo      database.ArticleRepository
	generator *Generator
}

func NewService(repo database.ArticleRepository, generator *Generator) *Service {
	return &Service{repo: repo, generator: generator}
}

// GenerateAll walks every unprocessed article sequentially. Each article is
// marked processed only after its posts were generated, validated, and saved;
// a failure partway through the batch leaves exactly the affected article(s)
// unprocessed and the rest independently correct.
func (s *Service) GenerateAll(ctx context.Context, count int) (*BatchResult, error) {
	articles, err := s.repo.GetUnprocessedArticles()
	if err != nil {
		return nil, fmt.Errorf("failed to load unprocessed articles: %w", err)
	}

	result := &BatchResult{
		Total:   len(articles),
		Results: []ItemResult{},
		Errors:  []ItemError{},
	}

	for i := range articles {
		article := &articles[i]

		if err := s.generateForArticle(ctx, article, count); err != nil {
			slog.Warn("Post generation failed for article, leaving unprocessed",
				"article_id", article.ID, "link", article.Link, "error", err)
			result.Failed++
			result.Errors = append(result.Errors, ItemError{
				ArticleID: article.ID,
				Link:      article.Link,
				Error:     err.Error(),
			})
			continue
		}

		result.Succeeded++
		result.Results = append(result.Results, ItemResult{
			ArticleID:      article.ID,
			Link:           article.Link,
			PostsGenerated: len(article.Posts),
		})
	}

	slog.Info("Post generation batch completed",
		"total", result.Total, "succeeded", result.Succeeded, "failed", result.Failed)

	return result, nil
}

func (s *Service) generateForArticle(ctx context.Context, article *database.Article, count int) error {
	if len(strings.TrimSpace(article.Translation)) < minTranslationLength {
		return fmt.Errorf("translation missing or too short")
	}

	generated, err := s.generator.Generate(ctx, article.Translation, article.Link, count)
	if err != nil {
		return err
	}

	// Posts replace the whole sequence atomically together with processed.
	article.Posts = generated
	article.Processed = true
	article.DateAdded = time.Now().UTC()

	if err := s.repo.UpdateArticle(article); err != nil {
		return fmt.Errorf("failed to save generated posts: %w", err)
	}

	return nil
}
