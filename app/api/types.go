package api

import (
	"github.com/gemfeed/gempress/app/database"
	"github.com/gemfeed/gempress/app/pipeline"
	"github.com/gemfeed/gempress/app/posts"
	"github.com/gemfeed/gempress/app/rag"
	"github.com/gemfeed/gempress/app/tasks"
	"github.com/gemfeed/gempress/app/vector"
)

type Handler struct {
	articleRepo database.ArticleRepository
	pipe        *pipeline.Pipeline
	vectorizer  *vector.Vectorizer
	index       *vector.Index
	postService *posts.Service
	ragService  *rag.Service
	scheduler   tasks.TaskSchedulerInterface
}

type ingestRequest struct {
	Link string `json:"link" binding:"required"`
}

type askRequest struct {
	Question string `json:"question" binding:"required"`
}

type updateArticleRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Processed   *bool   `json:"processed"`
}
