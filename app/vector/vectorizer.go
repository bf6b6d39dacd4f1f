package vector

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gemfeed/gempress/app/database"
)

// VectorizeResult summarizes one vectorization run. Per-article failures are
// collected here instead of aborting the run.
type VectorizeResult struct {
	Added        int      `json:"added"`
	TotalInIndex int      `json:"total_in_index"`
	Errors       []string `json:"errors,omitempty"`
}

// Vectorizer embeds stored articles and adds them to the index. It is the
// index's only writer; the scheduler and the API both funnel through it.
type Vectorizer struct {
	repo         database.ArticleRepository
	embedder     Embedder
	index        *Index
	snapshotPath string
}

func NewVectorizer(repo database.ArticleRepository, embedder Embedder, index *Index, snapshotPath string) *Vectorizer {
	return &Vectorizer{
		repo:         repo,
		embedder:     embedder,
		index:        index,
		snapshotPath: snapshotPath,
	}
}

// Run embeds the cleaned text of every article not yet in the index and adds
// the new vectors, then persists a snapshot. Embedding failures skip the
// article and land in the result summary.
func (v *Vectorizer) Run(ctx context.Context) (*VectorizeResult, error) {
	articles, err := v.repo.GetAllArticles()
	if err != nil {
		return nil, fmt.Errorf("failed to load articles: %w", err)
	}

	result := &VectorizeResult{}
	var vectors [][]float32
	var keys []string

	for _, article := range articles {
		if v.index.Contains(article.ID) {
			continue
		}

		vec, err := v.embedder.Embed(ctx, article.CleanedText)
		if err != nil {
			slog.Warn("Failed to embed article, skipping", "article_id", article.ID, "error", err)
			result.Errors = append(result.Errors, fmt.Sprintf("article %s: %v", article.ID, err))
			continue
		}

		vectors = append(vectors, vec)
		keys = append(keys, article.ID)
	}

	if len(vectors) > 0 {
		if err := v.index.Add(vectors, keys); err != nil {
			return nil, fmt.Errorf("failed to add vectors to index: %w", err)
		}
		result.Added = len(vectors)

		if v.snapshotPath != "" {
			if err := v.index.Save(v.snapshotPath); err != nil {
				slog.Error("Failed to save index snapshot", "path", v.snapshotPath, "error", err)
				result.Errors = append(result.Errors, fmt.Sprintf("snapshot: %v", err))
			}
		}
	}

	result.TotalInIndex = v.index.Size()

	slog.Info("Vectorization run completed", "added", result.Added,
		"total_in_index", result.TotalInIndex, "errors", len(result.Errors))

	return result, nil
}
