package analysis

import (
	"fmt"
	"strings"
)

// Kind identifies one analysis type an agent can produce for an article.
type Kind string

const (
	KindJargon      Kind = "jargon"
	KindViewpoints  Kind = "viewpoints"
	KindFactCheck   Kind = "factcheck"
	KindBias        Kind = "bias"
	KindTimeline    Kind = "timeline"
	KindExpert      Kind = "expert"
	KindSocialPulse Kind = "socialpulse"
)

// AllKinds lists every known kind in stable order.
func AllKinds() []Kind {
	return []Kind{
		KindJargon,
		KindViewpoints,
		KindFactCheck,
		KindBias,
		KindTimeline,
		KindExpert,
		KindSocialPulse,
	}
}

// CoreKinds are the cheap kinds run immediately on first request. The
// remaining kinds are produced on demand from the cached core context.
func CoreKinds() []Kind {
	return []Kind{KindJargon, KindViewpoints}
}

func (k Kind) Valid() bool {
	switch k {
	case KindJargon, KindViewpoints, KindFactCheck, KindBias, KindTimeline, KindExpert, KindSocialPulse:
		return true
	}
	return false
}

// Core reports whether k belongs to the core subset.
func (k Kind) Core() bool {
	return k == KindJargon || k == KindViewpoints
}

// ParseKind accepts user/API input with accidental whitespace and casing.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
	return k, nil
}
