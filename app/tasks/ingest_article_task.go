package tasks

import (
	"context"
	"log/slog"

	"github.com/gemfeed/gempress/app/pipeline"
)

type IngestArticleTask struct {
	Task
	Link string
	pipe *pipeline.Pipeline
}

func NewIngestArticleTask(link string, pipe *pipeline.Pipeline) *IngestArticleTask {
	return &IngestArticleTask{
		Task: NewTask(TaskTypeIngestArticle, link),
		Link: link,
		pipe: pipe,
	}
}

func (t *IngestArticleTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	article, created, err := t.pipe.Ingest(ctx, t.Link)
	if err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", "IngestArticle",
		"link", t.Link,
		"duration", t.GetDuration(),
		"article_id", article.ID,
		"created", created)

	return nil
}
