package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

type flakyProvider struct {
	calls    int
	failures int
	answer   string
}

func (f *flakyProvider) Chat(ctx context.Context, history []Message, opts ...Option) (string, error) {
	f.calls++
	if f.calls <= f.failures {
		return "", errors.New("upstream hiccup")
	}
	return f.answer, nil
}

func (f *flakyProvider) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	return f.Chat(ctx, []Message{{Role: "user", Content: prompt}}, opts...)
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	inner := &flakyProvider{failures: 2, answer: "ok"}
	provider := WithRetry(inner, 3, time.Millisecond)

	answer, err := provider.Generate(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "ok" {
		t.Errorf("answer = %q, want %q", answer, "ok")
	}
	if inner.calls != 3 {
		t.Errorf("calls = %d, want 3", inner.calls)
	}
}

func TestRetryStopsAtAttemptBudget(t *testing.T) {
	inner := &flakyProvider{failures: 10}
	provider := WithRetry(inner, 3, time.Millisecond)

	_, err := provider.Generate(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if inner.calls != 3 {
		t.Errorf("calls = %d, want 3", inner.calls)
	}
}

func TestRetryNoBackoffOnFirstSuccess(t *testing.T) {
	inner := &flakyProvider{answer: "ok"}
	provider := WithRetry(inner, 3, time.Hour)

	done := make(chan struct{})
	go func() {
		provider.Generate(context.Background(), "hello")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("first attempt should return without waiting for backoff")
	}
	if inner.calls != 1 {
		t.Errorf("calls = %d, want 1", inner.calls)
	}
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	inner := &flakyProvider{failures: 10}
	provider := WithRetry(inner, 3, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := provider.Generate(ctx, "hello")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if inner.calls != 1 {
		t.Errorf("calls = %d, want 1", inner.calls)
	}
}
