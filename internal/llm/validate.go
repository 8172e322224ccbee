package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"newslens/internal/llmclient"
)

// ValidateJSON checks that a successful reply parses as a JSON object and
// carries the top-level keys the request schema marks as required. A
// violation is wrapped as permanent: transport retries cannot fix it, only
// the agent's quality-control loop can. The rejected response is returned
// alongside the error: the provider call completed and consumed tokens, so
// callers must still be able to account for it.
func ValidateJSON() Middleware {
	return func(next llmclient.Client) llmclient.Client {
		return &validating{next: next}
	}
}

type validating struct {
	next llmclient.Client
}

func (v *validating) Name() string { return v.next.Name() }
func (v *validating) Close() error { return v.next.Close() }

func (v *validating) CompleteJSON(ctx context.Context, req llmclient.Request) (*llmclient.Response, error) {
	resp, err := v.next.CompleteJSON(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := CheckShape(resp.JSON, req.Schema); err != nil {
		return resp, llmclient.NewPermanentError(err)
	}
	return resp, nil
}

// CheckShape verifies raw is a JSON object containing every top-level key
// the schema's "required" list names. It is a minimal shape check, not full
// schema validation; the critique pass covers the rest.
func CheckShape(raw, schema json.RawMessage) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%w: %v", llmclient.ErrInvalidJSON, err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: top-level value is not an object", llmclient.ErrInvalidJSON)
	}
	if len(schema) == 0 {
		return nil
	}
	var s struct {
		Required []string `json:"required"`
	}
	if err := json.Unmarshal(schema, &s); err != nil {
		return nil
	}
	for _, key := range s.Required {
		if _, ok := obj[key]; !ok {
			return fmt.Errorf("%w: missing required key %q", llmclient.ErrInvalidJSON, key)
		}
	}
	return nil
}
