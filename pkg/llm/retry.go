package llm

import (
	"context"
	"time"
)

// RetryProvider wraps another provider and retries failed calls.
// The wait before attempt n is n × Backoff; only the last error is
// surfaced.
type RetryProvider struct {
	inner    LLMProvider
	attempts int
	backoff  time.Duration
}

var _ LLMProvider = &RetryProvider{}

// WithRetry wraps the provider with a fixed attempt budget. An attempts
// value below 1 is treated as 1.
func WithRetry(inner LLMProvider, attempts int, backoff time.Duration) *RetryProvider {
	if attempts < 1 {
		attempts = 1
	}
	return &RetryProvider{
		inner:    inner,
		attempts: attempts,
		backoff:  backoff,
	}
}

func (r *RetryProvider) Chat(ctx context.Context, history []Message, opts ...Option) (string, error) {
	var lastErr error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		answer, err := r.inner.Chat(ctx, history, opts...)
		if err == nil {
			return answer, nil
		}
		lastErr = err

		if attempt == r.attempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(attempt) * r.backoff):
		}
	}
	return "", lastErr
}

func (r *RetryProvider) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	return r.Chat(ctx, []Message{{Role: "user", Content: prompt}}, opts...)
}
