package llm

import (
	"context"
	"errors"
	"time"

	"newslens/internal/llmclient"
)

// Retry retries CompleteJSON up to maxAttempts with exponential backoff
// starting at baseDelay. Transient provider failures (timeouts,
// 5xx-equivalent transport errors) are the target; permanent errors fail
// immediately. If the context is canceled, it stops at once.
func Retry(maxAttempts int, baseDelay time.Duration) Middleware {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if baseDelay <= 0 {
		baseDelay = 300 * time.Millisecond
	}
	return func(next llmclient.Client) llmclient.Client {
		return &retrying{next: next, max: maxAttempts, base: baseDelay}
	}
}

type retrying struct {
	next llmclient.Client
	max  int
	base time.Duration
}

func (r *retrying) Name() string { return r.next.Name() }
func (r *retrying) Close() error { return r.next.Close() }

func (r *retrying) CompleteJSON(ctx context.Context, req llmclient.Request) (*llmclient.Response, error) {
	var last error
	for i := 0; i < r.max; i++ {
		resp, err := r.next.CompleteJSON(ctx, req)
		if err == nil {
			return resp, nil
		}
		// If it's a permanent error, do not retry. Keep any response the
		// layer below attached; it carries the usage of the completed call.
		var pErr *llmclient.PermanentError
		if errors.As(err, &pErr) {
			return resp, err
		}
		last = err
		// Stop immediately if the context is canceled.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		time.Sleep(r.base * time.Duration(1<<i))
	}
	return nil, last
}
