package tasks

import (
	"testing"
	"time"
)

func TestNewTask(t *testing.T) {
	task := NewTask(TaskTypeIngestArticle, "https://example.com/a")

	if task.ID == "" {
		t.Error("Expected a generated task ID")
	}
	if task.Type != TaskTypeIngestArticle {
		t.Errorf("Unexpected type: %s", task.Type)
	}
	if task.Subject != "https://example.com/a" {
		t.Errorf("Unexpected subject: %s", task.Subject)
	}
	if task.RetryCount != 0 {
		t.Errorf("Expected retry count 0, got %d", task.RetryCount)
	}
	if task.MaxRetries != DefaultMaxRetries {
		t.Errorf("Expected default max retries, got %d", task.MaxRetries)
	}
}

func TestTask_RetryAccounting(t *testing.T) {
	task := NewTask(TaskTypeVectorizeArticles, "all")

	for i := 0; i < DefaultMaxRetries; i++ {
		if !task.CanRetry() {
			t.Fatalf("Expected retry %d to be allowed", i+1)
		}
		task.IncrementRetryCount()
	}

	if task.CanRetry() {
		t.Error("Expected retries to be exhausted")
	}
	if task.GetRetryCount() != DefaultMaxRetries {
		t.Errorf("Expected retry count %d, got %d", DefaultMaxRetries, task.GetRetryCount())
	}
}

func TestTask_Duration(t *testing.T) {
	task := NewTask(TaskTypeGeneratePosts, "unprocessed")

	if task.GetDuration() != 0 {
		t.Error("Expected zero duration before Start")
	}

	task.Start()
	time.Sleep(time.Millisecond)

	if task.GetDuration() <= 0 {
		t.Error("Expected positive duration after Start")
	}
}

func TestNewTask_UniqueIDs(t *testing.T) {
	a := NewTask(TaskTypeIngestArticle, "x")
	b := NewTask(TaskTypeIngestArticle, "x")

	if a.ID == b.ID {
		t.Errorf("Expected unique IDs, got %s twice", a.ID)
	}
}
