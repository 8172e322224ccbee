package llmclient

import (
	"context"
	"encoding/json"
	"time"
)

// FakeClient returns deterministic, minimal JSON payloads per task for
// offline runs and tests. Tests override ReplyFn to script behavior.
type FakeClient struct {
	// ReplyFn, when set, fully replaces the canned replies.
	ReplyFn func(ctx context.Context, req Request) (*Response, error)
	// Delay simulates provider latency; the wait observes ctx cancellation.
	Delay time.Duration
}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "fake" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) CompleteJSON(ctx context.Context, req Request) (*Response, error) {
	if f.ReplyFn != nil {
		return f.ReplyFn(ctx, req)
	}
	if f.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.Delay):
		}
	}
	obj := cannedReply(TaskFrom(ctx))
	b, _ := json.Marshal(obj)
	est := len(req.Prompt) / 4
	return &Response{
		JSON:  json.RawMessage(b),
		Usage: Usage{InputTokens: est, OutputTokens: len(b) / 4, TotalTokens: est + len(b)/4},
	}, nil
}

func cannedReply(task string) any {
	switch task {
	case "jargon":
		return map[string]any{
			"terms": []any{
				map[string]any{"term": "fake term", "definition": "fake definition"},
			},
		}
	case "viewpoints":
		return map[string]any{
			"viewpoints": []any{
				map[string]any{"stance": "supporting", "summary": "fake viewpoint", "source_url": "https://example.org/a"},
			},
		}
	case "factcheck":
		return map[string]any{
			"claims": []any{
				map[string]any{"claim": "fake claim", "verdict": "unverified", "explanation": "fake explanation"},
			},
		}
	case "bias":
		return map[string]any{
			"overall":    "center",
			"confidence": 0.5,
			"indicators": []any{},
		}
	case "timeline":
		return map[string]any{
			"events": []any{
				map[string]any{"date": "2026-01-01", "summary": "fake event"},
			},
		}
	case "expert":
		return map[string]any{
			"opinions": []any{
				map[string]any{"expert": "Fake Expert", "field": "fake field", "summary": "fake opinion"},
			},
		}
	case "socialpulse":
		return map[string]any{
			"sentiment": "mixed",
			"themes":    []any{map[string]any{"theme": "fake theme", "share": 1.0}},
		}
	case "critique":
		return map[string]any{"ok": true, "defects": []any{}}
	default:
		return map[string]any{}
	}
}
