package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/gemfeed/gempress/app/database"
	"github.com/gemfeed/gempress/app/vector"
)

// ArticleMatch is one retrieved article in an answer payload.
type ArticleMatch struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Link        string  `json:"link"`
	Distance    float32 `json:"distance"`
}

// Answer bundles a question with the synthesized answer and matched articles.
type Answer struct {
	Question string         `json:"question"`
	Answer   string         `json:"answer"`
	Articles []ArticleMatch `json:"articles"`
}

// Service answers free-text questions over the article corpus by nearest-
// neighbor search. It must share its embedder with the vectorizer.
type Service struct {
	embedder vector.Embedder
	index    *vector.Index
	repo     database.ArticleRepository
	topK     int
}

func NewService(embedder vector.Embedder, index *vector.Index, repo database.ArticleRepository, topK int) *Service {
	if topK <= 0 {
		topK = 3
	}
	return &Service{
		embedder: embedder,
		index:    index,
		repo:     repo,
		topK:     topK,
	}
}

// Ask embeds the question, searches the index, and composes an answer payload
// from the matched article records. An empty index returns a well-formed
// no-results payload instead of an error.
func (s *Service) Ask(ctx context.Context, question string) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("question is empty")
	}

	if s.index.Size() == 0 {
		return &Answer{
			Question: question,
			Answer:   "No articles indexed yet.",
			Articles: []ArticleMatch{},
		}, nil
	}

	queryVec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	keys, dists, err := s.index.Search(queryVec, s.topK)
	if err != nil {
		return nil, fmt.Errorf("index search failed: %w", err)
	}

	matches := make([]ArticleMatch, 0, len(keys))
	for i, key := range keys {
		article, err := s.repo.GetArticle(key)
		if err != nil {
			return nil, fmt.Errorf("failed to load article %s: %w", key, err)
		}
		if article == nil {
			slog.Warn("Indexed article missing from storage", "article_id", key)
			continue
		}

		matches = append(matches, ArticleMatch{
			ID:          article.ID,
			Name:        article.Name,
			Description: article.Description,
			Link:        article.Link,
			Distance:    dists[i],
		})
	}

	return &Answer{
		Question: question,
		Answer:   composeAnswer(matches),
		Articles: matches,
	}, nil
}

func composeAnswer(matches []ArticleMatch) string {
	if len(matches) == 0 {
		return "No matching articles found."
	}

	titles := make([]string, len(matches))
	for i, m := range matches {
		titles[i] = m.Name
	}

	return fmt.Sprintf("Found %d related article(s): %s", len(matches), strings.Join(titles, "; "))
}
