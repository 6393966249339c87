package llm

import (
	"context"
	"time"
)

// TimeoutProvider is a decorator that bounds each request with a deadline.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps a Provider so every call runs under cfg.Timeout.
// A non-positive timeout returns the provider unchanged.
func WithTimeout(p Provider, timeout time.Duration) Provider {
	if timeout <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: timeout}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

// GenerateStream applies the same deadline to streaming calls, falling
// back to Generate plus a single fragment when the inner provider does
// not stream.
func (t *TimeoutProvider) GenerateStream(ctx context.Context, req Request, emit func(delta string)) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	streamer, ok := t.inner.(Streamer)
	if !ok {
		resp, err := t.inner.Generate(ctx, req)
		if err == nil && emit != nil {
			emit(string(resp.Content))
		}
		return resp, err
	}
	return streamer.GenerateStream(ctx, req, emit)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
