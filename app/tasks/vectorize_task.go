package tasks

import (
	"context"
	"log/slog"

	"github.com/gemfeed/gempress/app/vector"
)

type VectorizeArticlesTask struct {
	Task
	vectorizer *vector.Vectorizer
}

func NewVectorizeArticlesTask(vectorizer *vector.Vectorizer) *VectorizeArticlesTask {
	return &VectorizeArticlesTask{
		Task:       NewTask(TaskTypeVectorizeArticles, "all"),
		vectorizer: vectorizer,
	}
}

func (t *VectorizeArticlesTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result, err := t.vectorizer.Run(ctx)
	if err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", "VectorizeArticles",
		"duration", t.GetDuration(),
		"added", result.Added,
		"total_in_index", result.TotalInIndex,
		"errors", len(result.Errors))

	return nil
}
