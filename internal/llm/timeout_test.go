package llm

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

// blockingProvider waits for the context to end and reports its error.
type blockingProvider struct{}

func (blockingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	<-ctx.Done()
	return nil, &ErrProviderUnavailable{Err: ctx.Err()}
}

func (blockingProvider) ModelID() string { return "blocking" }

// deadlineProvider records whether its context carried a deadline.
type deadlineProvider struct {
	hadDeadline bool
}

func (d *deadlineProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	_, d.hadDeadline = ctx.Deadline()
	return &Response{Content: json.RawMessage(`ok`)}, nil
}

func (d *deadlineProvider) ModelID() string { return "deadline" }

func TestWithTimeout_CancelsSlowRequests(t *testing.T) {
	p := WithTimeout(blockingProvider{}, 10*time.Millisecond)

	start := time.Now()
	_, err := p.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from timed-out request")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("request was not cancelled by the deadline, took %s", elapsed)
	}
}

func TestWithTimeout_AppliesDeadline(t *testing.T) {
	inner := &deadlineProvider{}
	p := WithTimeout(inner, time.Minute)

	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !inner.hadDeadline {
		t.Fatal("expected the inner provider to see a deadline")
	}
}

func TestWithTimeout_ZeroTimeoutIsPassthrough(t *testing.T) {
	inner := &deadlineProvider{}
	p := WithTimeout(inner, 0)

	if p != Provider(inner) {
		t.Fatal("expected zero timeout to return the provider unchanged")
	}
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.hadDeadline {
		t.Fatal("expected no deadline without a configured timeout")
	}
}

func TestWithTimeout_StreamFallbackEmitsWholeReply(t *testing.T) {
	inner := &deadlineProvider{}
	p := WithTimeout(inner, time.Minute)

	streamer, ok := p.(Streamer)
	if !ok {
		t.Fatal("expected the timeout decorator to support streaming")
	}

	var fragments []string
	resp, err := streamer.GenerateStream(context.Background(), Request{}, func(delta string) {
		fragments = append(fragments, delta)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp.Content) != "ok" {
		t.Fatalf("expected full content, got %q", resp.Content)
	}
	if len(fragments) != 1 || fragments[0] != "ok" {
		t.Fatalf("expected single fragment with full reply, got %v", fragments)
	}
	if !inner.hadDeadline {
		t.Fatal("expected the inner provider to see a deadline")
	}
}
