package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gemfeed/gempress/app/cfg"
	"github.com/gemfeed/gempress/app/database"
	"github.com/gemfeed/gempress/app/pipeline"
	"github.com/gemfeed/gempress/app/posts"
	"github.com/gemfeed/gempress/app/rag"
	"github.com/gemfeed/gempress/app/tasks"
	"github.com/gemfeed/gempress/app/vector"
)

func NewHandler(articleRepo database.ArticleRepository, pipe *pipeline.Pipeline,
	vectorizer *vector.Vectorizer, index *vector.Index, postService *posts.Service,
	ragService *rag.Service, scheduler tasks.TaskSchedulerInterface) *Handler {
	return &Handler{
		articleRepo: articleRepo,
		pipe:        pipe,
		vectorizer:  vectorizer,
		index:       index,
		postService: postService,
		ragService:  ragService,
		scheduler:   scheduler,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   cfg.Get().Version,
	}

	if articleCount, err := h.articleRepo.GetArticleCount(); err == nil {
		health["articles"] = articleCount
	}

	health["indexed"] = h.index.Size()

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	total, processed, unprocessed, err := h.articleRepo.GetArticleStats()
	if err != nil {
		slog.Error("Database error", "operation", "get_stats", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": gin.H{
			"total":       total,
			"processed":   processed,
			"unprocessed": unprocessed,
		},
		"index": gin.H{
			"size": h.index.Size(),
		},
	})
}

func (h *Handler) APIListArticles(c *gin.Context) {
	filter := database.ArticleFilter{}

	if raw, ok := c.GetQuery("processed"); ok {
		processed, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'processed' parameter, expected true or false"})
			return
		}
		filter.Processed = &processed
	}

	if raw, ok := c.GetQuery("limit"); ok {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'limit' parameter"})
			return
		}
		filter.Limit = limit
	}

	if raw, ok := c.GetQuery("offset"); ok {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'offset' parameter"})
			return
		}
		filter.Offset = offset
	}

	articles, err := h.articleRepo.ListArticles(filter)
	if err != nil {
		slog.Error("Database error", "operation", "list_articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if articles == nil {
		articles = []database.Article{}
	}

	c.JSON(http.StatusOK, gin.H{
		"articles": articles,
		"total":    len(articles),
	})
}

func (h *Handler) APIGetArticle(c *gin.Context) {
	id := c.Param("id")

	article, err := h.articleRepo.GetArticle(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_article", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	c.JSON(http.StatusOK, article)
}

func (h *Handler) APIIngestArticle(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid 'link' field"})
		return
	}

	// async=true hands the link to the background workers instead of
	// blocking the request on the full pipeline
	if c.Query("async") == "true" {
		task := tasks.NewIngestArticleTask(req.Link, h.pipe)
		if err := h.scheduler.EnqueueTask(task); err != nil {
			slog.Error("Error enqueueing ingest task", "link", req.Link, "error", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error":   "Failed to enqueue ingest task",
				"details": err.Error(),
			})
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"task": gin.H{
				"id":   task.ID,
				"type": task.Type,
			},
			"link": req.Link,
		})
		return
	}

	start := time.Now()
	article, created, err := h.pipe.Ingest(c.Request.Context(), req.Link)
	if err != nil {
		slog.Error("Article ingestion failed", "link", req.Link, "error", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   "Failed to ingest article",
			"details": err.Error(),
		})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}

	c.JSON(status, gin.H{
		"article":  article,
		"created":  created,
		"duration": time.Since(start).String(),
	})
}

func (h *Handler) APIUpdateArticle(c *gin.Context) {
	id := c.Param("id")

	var req updateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if req.Name == nil && req.Description == nil && req.Processed == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No updatable fields provided"})
		return
	}

	article, err := h.articleRepo.GetArticle(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_article", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	if err := h.articleRepo.UpdateArticleMetadata(id, req.Name, req.Description, req.Processed); err != nil {
		slog.Error("Database error", "operation", "update_article", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	updated, err := h.articleRepo.GetArticle(id)
	if err != nil || updated == nil {
		slog.Error("Database error", "operation", "reload_article", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *Handler) APIDeleteArticle(c *gin.Context) {
	id := c.Param("id")

	article, err := h.articleRepo.GetArticle(id)
	if err != nil {
		slog.Error("Database error", "operation", "get_article", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	if err := h.articleRepo.DeleteArticle(id); err != nil {
		slog.Error("Database error", "operation", "delete_article", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"article_id": id,
	})
}

// APIVectorize runs a vectorization pass inline and returns its summary. The
// scheduler triggers the same pass after new ingests; both share the index
// through the vectorizer, which serializes writes.
func (h *Handler) APIVectorize(c *gin.Context) {
	result, err := h.vectorizer.Run(c.Request.Context())
	if err != nil {
		slog.Error("Vectorization run failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Vectorization failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// APIGeneratePosts runs the post generation batch inline so the caller gets
// the per-article outcome. Failed articles stay unprocessed and are listed in
// the response, never surfaced as an HTTP error.
func (h *Handler) APIGeneratePosts(c *gin.Context) {
	count := cfg.Get().PostCount
	if raw, ok := c.GetQuery("count"); ok {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'count' parameter"})
			return
		}
		count = parsed
	}

	result, err := h.postService.GenerateAll(c.Request.Context(), count)
	if err != nil {
		slog.Error("Post generation batch failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Post generation failed",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) APIAsk(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid 'question' field"})
		return
	}

	answer, err := h.ragService.Ask(c.Request.Context(), req.Question)
	if err != nil {
		slog.Error("Question answering failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to answer question",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, answer)
}
