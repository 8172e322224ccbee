package llmclient

import "context"

type ctxKeyTask struct{}

// WithTask labels the context with the task the call serves (an analysis
// kind, or "critique"). Logging middleware and the fake client key off it.
func WithTask(ctx context.Context, task string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKeyTask{}, task)
}

// TaskFrom extracts the task label, or "" when none was attached.
func TaskFrom(ctx context.Context) string {
	if ctx != nil {
		if v := ctx.Value(ctxKeyTask{}); v != nil {
			if s, ok := v.(string); ok {
				return s
			}
		}
	}
	return ""
}
