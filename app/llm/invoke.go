package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// UnavailableError reports that every attempt against the model failed.
// Last carries the final underlying error.
type UnavailableError struct {
	Attempts int
	Last     error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("model unavailable after %d attempts: %v", e.Attempts, e.Last)
}

func (e *UnavailableError) Unwrap() error {
	return e.Last
}

// Invoker wraps a Chatter with bounded retries and exponential backoff.
// It knows nothing about prompt content; every model-backed service shares
// one Invoker instead of duplicating retry logic.
type Invoker struct {
	chatter    Chatter
	maxRetries int
	timeout    time.Duration

	// sleep is replaced in tests to avoid real backoff waits
	sleep func(ctx context.Context, d time.Duration) error
}

func NewInvoker(chatter Chatter, maxRetries int, timeout time.Duration) *Invoker {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &Invoker{
		chatter:    chatter,
		maxRetries: maxRetries,
		timeout:    timeout,
		sleep:      sleepContext,
	}
}

// Invoke calls the model, retrying up to maxRetries times with 2^attempt
// seconds of backoff between failures. Each attempt runs under its own hard
// timeout so a stuck provider call cannot stall a pipeline run indefinitely.
// Successful responses come back with provider code fences stripped.
func (i *Invoker) Invoke(ctx context.Context, system, user string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= i.maxRetries; attempt++ {
		response, err := i.attempt(ctx, system, user)
		if err == nil {
			return StripFences(response), nil
		}

		lastErr = err
		slog.Warn("Model call failed", "attempt", attempt, "max_retries", i.maxRetries, "error", err)

		if attempt == i.maxRetries {
			break
		}

		backoff := time.Duration(1<<uint(attempt)) * time.Second
		if err := i.sleep(ctx, backoff); err != nil {
			return "", fmt.Errorf("retry cancelled: %w", err)
		}
	}

	return "", &UnavailableError{Attempts: i.maxRetries, Last: lastErr}
}

func (i *Invoker) attempt(ctx context.Context, system, user string) (string, error) {
	if i.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.timeout)
		defer cancel()
	}
	return i.chatter.Chat(ctx, system, user)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// StripFences removes markdown code-fence markers some models wrap around
// structured output ("```json" ... "```").
func StripFences(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```json") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```json"))
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
	}

	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}

	return s
}
