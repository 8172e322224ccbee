package llmclient

import (
	"context"
	"encoding/json"
)

// SearchParams steer a provider's live-search grounding for one call.
// A zero value disables search entirely.
type SearchParams struct {
	Enabled bool
	// SourceTypes restricts results, e.g. "news", "social", "academic".
	SourceTypes []string
	// ExcludeDomains keeps named hosts out of citations (typically the
	// article's own domain).
	ExcludeDomains []string
	// DaysBack bounds result recency; 0 means no bound.
	DaysBack int
	// MaxResults caps how many sources the model should draw on.
	MaxResults int
}

// Request is one structured-completion call: a prompt, the JSON schema the
// reply must satisfy, and optional live-search parameters.
type Request struct {
	Model     string
	MaxTokens int
	Prompt    string
	Schema    json.RawMessage
	Search    SearchParams
}

// Usage is the provider-reported token accounting for a single call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Response carries the model's JSON plus citation URLs when the call was
// search-grounded.
type Response struct {
	JSON      json.RawMessage
	Citations []string
	Usage     Usage
}

// Client is the narrow contract to the external completion service.
// Cross-cutting concerns (retries, rate limiting, logging, payload
// validation) are layered on via middleware, not baked into providers.
type Client interface {
	Name() string
	CompleteJSON(ctx context.Context, req Request) (*Response, error)
	Close() error
}
