package llm

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/caplearn/caplearn/internal/store"
)

// LoggingProvider is a decorator that records every LLM request as an event.
type LoggingProvider struct {
	inner     Provider
	eventRepo store.EventRepo
}

// WithLogging wraps a Provider with event logging.
func WithLogging(p Provider, repo store.EventRepo) Provider {
	return &LoggingProvider{inner: p, eventRepo: repo}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	l.record(ctx, start, resp, err)
	return resp, err
}

// GenerateStream passes through to the inner provider when it supports
// streaming, recording the request the same way as Generate. When the
// inner provider does not stream, it falls back to Generate and emits the
// whole reply as a single fragment.
func (l *LoggingProvider) GenerateStream(ctx context.Context, req Request, emit func(delta string)) (*Response, error) {
	start := time.Now()

	streamer, ok := l.inner.(Streamer)
	if !ok {
		resp, err := l.inner.Generate(ctx, req)
		l.record(ctx, start, resp, err)
		if err == nil && emit != nil {
			emit(string(resp.Content))
		}
		return resp, err
	}

	resp, err := streamer.GenerateStream(ctx, req, emit)
	l.record(ctx, start, resp, err)
	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

func (l *LoggingProvider) record(ctx context.Context, start time.Time, resp *Response, err error) {
	data := store.LLMRequestEventData{
		Provider:  l.inner.ModelID(),
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		data.Model = resp.Model
	}

	if err != nil {
		data.ErrorMessage = err.Error()
	}

	// Log the event but don't fail the request if logging fails.
	if logErr := l.eventRepo.AppendLLMRequest(ctx, data); logErr != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to log LLM request event: %v\n", logErr)
	}
}
