package tasks

// TaskSchedulerInterface defines the interface for task scheduling operations.
// Used by the main application and the API layer to manage background task
// processing. Provides task queue management and worker pool control.
// Example usage:
//
//	scheduler := NewScheduler(loader, resolver, pipe, vectorizer, postService, repo)
//	scheduler.Start()
//	defer scheduler.Stop()
//	scheduler.EnqueueTask(NewIngestArticleTask(link, pipe))
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
