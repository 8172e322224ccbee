package analysis

import (
	"encoding/json"
	"time"
)

// Status classifies a single kind's outcome. A request can legitimately mix
// all three in one response.
type Status string

const (
	StatusSuccess        Status = "success"
	StatusPartialSuccess Status = "partial_success"
	StatusFailed         Status = "failed"
)

// TokenUsage accumulates token counts across every LLM call an agent made
// for one result, including quality-control retries and critique passes.
type TokenUsage struct {
	Input  int `json:"input"`
	Output int `json:"output"`
	Total  int `json:"total"`
}

func (u *TokenUsage) Add(o TokenUsage) {
	u.Input += o.Input
	u.Output += o.Output
	u.Total += o.Total
}

// Result is one kind's outcome. An agent fills it exactly once on
// completion; it is immutable afterwards. Reason is a user-displayable
// failure or quality annotation, never a raw stack trace.
type Result struct {
	Kind      Kind            `json:"kind"`
	Status    Status          `json:"status"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Usage     TokenUsage      `json:"usage"`
	Elapsed   time.Duration   `json:"elapsed_ns"`
	Citations []string        `json:"citations,omitempty"`
	Retries   int             `json:"retries"`
	Reason    string          `json:"reason,omitempty"`
}

// Failure builds a complete failed result so no half-mutated structure ever
// reaches a caller.
func Failure(kind Kind, reason string) Result {
	return Result{Kind: kind, Status: StatusFailed, Reason: reason}
}
