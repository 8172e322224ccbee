package llm

import (
	"context"
	"log"
	"time"

	"newslens/internal/llmclient"
)

// Middleware decorates a Client to inject cross-cutting concerns
// (rate limiting, retries, logging, payload validation).
type Middleware func(llmclient.Client) llmclient.Client

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner llmclient.Client, mws ...Middleware) llmclient.Client {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// -------- Rate Limiting --------

// RateLimit limits request rate using a token-bucket limiter.
// If rps <= 0, the limiter is effectively disabled.
func RateLimit(rps float64, burst int) Middleware {
	return func(next llmclient.Client) llmclient.Client {
		rl := newRPSLimiter(rps, burst) // nil when disabled
		return &rateLimited{next: next, rl: rl}
	}
}

type rateLimited struct {
	next llmclient.Client
	rl   *rpsLimiter
}

func (c *rateLimited) Name() string { return c.next.Name() }

// Close stops the limiter's refill goroutine before closing the chain.
func (c *rateLimited) Close() error {
	c.rl.Stop()
	return c.next.Close()
}

func (c *rateLimited) CompleteJSON(ctx context.Context, req llmclient.Request) (*llmclient.Response, error) {
	if c.rl != nil {
		if err := c.rl.Acquire(ctx); err != nil {
			return nil, err
		}
	}
	return c.next.CompleteJSON(ctx, req)
}

// -------- Logging --------

// WithLogging logs per-call task, model, latency, token usage and errors.
// Provide a custom logger or nil to use log.Default().
func WithLogging(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next llmclient.Client) llmclient.Client {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next llmclient.Client
	log  *log.Logger
}

func (l *logging) Name() string { return l.next.Name() }
func (l *logging) Close() error { return l.next.Close() }

func (l *logging) CompleteJSON(ctx context.Context, req llmclient.Request) (*llmclient.Response, error) {
	start := time.Now()
	resp, err := l.next.CompleteJSON(ctx, req)
	task := llmclient.TaskFrom(ctx)
	if err != nil {
		l.log.Printf("llm call task=%s model=%s elapsed=%s err=%v", task, req.Model, time.Since(start).Round(time.Millisecond), err)
		return resp, err
	}
	l.log.Printf("llm call task=%s model=%s elapsed=%s tokens=%d", task, req.Model, time.Since(start).Round(time.Millisecond), resp.Usage.TotalTokens)
	return resp, nil
}
