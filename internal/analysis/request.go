package analysis

import (
	"context"
	"strings"
)

// Tier is the requester's subscription tier. It caps how expensive a model
// an agent may select, regardless of retries.
type Tier string

const (
	TierFree Tier = "free"
	TierPlus Tier = "plus"
	TierPro  Tier = "pro"
)

// NormalizeTier accepts env/API style inputs and falls back to free.
func NormalizeTier(t Tier) Tier {
	switch Tier(strings.ToLower(strings.TrimSpace(string(t)))) {
	case TierPlus:
		return TierPlus
	case TierPro:
		return TierPro
	default:
		return TierFree
	}
}

// Request names the analyses wanted for one article, the requester tier, and
// an optional session key binding the request to cached enrichment context.
type Request struct {
	Kinds      []Kind `json:"kinds"`
	Tier       Tier   `json:"tier"`
	SessionKey string `json:"session_key,omitempty"`
}

type ctxKeyTier struct{}

// WithTier attaches the requester tier to the context so agents can pass it
// to model selection without widening their Execute contract.
func WithTier(ctx context.Context, t Tier) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxKeyTier{}, NormalizeTier(t))
}

// TierFrom extracts the requester tier from the context, defaulting to free.
func TierFrom(ctx context.Context) Tier {
	if ctx != nil {
		if v := ctx.Value(ctxKeyTier{}); v != nil {
			if t, ok := v.(Tier); ok {
				return t
			}
		}
	}
	return TierFree
}
