package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gemfeed/gempress/app/cfg"
	"github.com/gemfeed/gempress/app/database"
	"github.com/gemfeed/gempress/app/pipeline"
	"github.com/gemfeed/gempress/app/posts"
	"github.com/gemfeed/gempress/app/sources"
	"github.com/gemfeed/gempress/app/vector"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

type Scheduler struct {
	loader      *sources.Loader
	resolver    *sources.Resolver
	pipe        *pipeline.Pipeline
	vectorizer  *vector.Vectorizer
	postService *posts.Service
	articleRepo database.ArticleRepository
	interval    time.Duration
	workerCount int
	autoPosts   bool
	postCount   int
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

func NewScheduler(loader *sources.Loader, resolver *sources.Resolver, pipe *pipeline.Pipeline,
	vectorizer *vector.Vectorizer, postService *posts.Service,
	articleRepo database.ArticleRepository) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		loader:      loader,
		resolver:    resolver,
		pipe:        pipe,
		vectorizer:  vectorizer,
		postService: postService,
		articleRepo: articleRepo,
		interval:    time.Duration(cfg.SchedulerInterval) * time.Second,
		workerCount: cfg.WorkerCount,
		autoPosts:   cfg.AutoGeneratePosts,
		postCount:   cfg.PostCount,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.enqueueTasks()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()

}

func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
	close(s.taskQueue)
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueTasks() {
	sourceList, err := s.loader.LoadAll()
	if err != nil {
		slog.Error("Failed to load link sources", "error", err)
		return
	}
	if len(sourceList) == 0 {
		slog.Debug("No link sources found")
		return
	}

	slog.Debug("Processing link sources for task scheduling", "count", len(sourceList))

	newLinks := 0
	for _, source := range sourceList {
		if !source.IsEnabled() {
			slog.Debug("Source disabled, skipping", "source", source.Name)
			continue
		}

		for _, link := range s.resolver.Resolve(s.ctx, source) {
			existing, err := s.articleRepo.GetArticleByLink(link)
			if err != nil {
				slog.Warn("Failed to check article by link, skipping", "link", link, "error", err)
				continue
			}
			if existing != nil {
				continue
			}

			ingestTask := NewIngestArticleTask(link, s.pipe)
			if err := s.EnqueueTask(ingestTask); err != nil {
				slog.Warn("Failed to enqueue IngestArticleTask", "link", link, "error", err)
				continue
			}
			newLinks++
		}
	}

	if newLinks > 0 {
		vectorizeTask := NewVectorizeArticlesTask(s.vectorizer)
		if err := s.EnqueueTask(vectorizeTask); err != nil {
			slog.Warn("Failed to enqueue VectorizeArticlesTask", "error", err)
		}

		if s.autoPosts {
			postsTask := NewGeneratePostsTask(s.postService, s.postCount)
			if err := s.EnqueueTask(postsTask); err != nil {
				slog.Warn("Failed to enqueue GeneratePostsTask", "error", err)
			}
		}
	}

	slog.Debug("Scheduling round finished", "new_links", newLinks)
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task, ok := <-s.taskQueue:
			if !ok {
				return
			}
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "subject", task.GetSubject(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			go func() {
				time.Sleep(retryDelay)
				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				default:
					if retryErr := s.EnqueueTask(task); retryErr != nil {
						slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
					}
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
