package tasks

import (
	"context"
	"log/slog"

	"github.com/gemfeed/gempress/app/posts"
)

type GeneratePostsTask struct {
	Task
	postService *posts.Service
	postCount   int
}

func NewGeneratePostsTask(postService *posts.Service, postCount int) *GeneratePostsTask {
	return &GeneratePostsTask{
		Task:        NewTask(TaskTypeGeneratePosts, "unprocessed"),
		postService: postService,
		postCount:   postCount,
	}
}

func (t *GeneratePostsTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	result, err := t.postService.GenerateAll(ctx, t.postCount)
	if err != nil {
		return err
	}

	slog.Info("Task completed",
		"type", "GeneratePosts",
		"duration", t.GetDuration(),
		"total", result.Total,
		"succeeded", result.Succeeded,
		"failed", result.Failed)

	return nil
}
