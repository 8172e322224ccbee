package llm

import (
	"newslens/internal/analysis"
)

// Level orders models by cost/capability.
type Level string

const (
	LevelLow    Level = "low"
	LevelMiddle Level = "middle"
	LevelHigh   Level = "high"
	LevelXHigh  Level = "xhigh"
)

var levelOrder = []Level{LevelLow, LevelMiddle, LevelHigh, LevelXHigh}

// Rank maps a level onto the cost order; unknown levels rank lowest.
func (l Level) Rank() int {
	for i, v := range levelOrder {
		if v == l {
			return i
		}
	}
	return 0
}

func levelAt(rank int) Level {
	if rank < 0 {
		rank = 0
	}
	if rank >= len(levelOrder) {
		rank = len(levelOrder) - 1
	}
	return levelOrder[rank]
}

// ModelSpec describes one concrete model the catalog can select.
type ModelSpec struct {
	Model              string
	MaxTokens          int
	SupportsLiveSearch bool
}

// Choice is the outcome of model selection for a single agent invocation.
// It is recomputed per call and never persisted.
type Choice struct {
	Model              string
	Level              Level
	MaxTokens          int
	SupportsLiveSearch bool
}

// Catalog is the immutable model-selection table built at startup: one model
// per level, a baseline level per kind, and a ceiling per requester tier.
type Catalog struct {
	Models      map[Level]ModelSpec
	Baseline    map[analysis.Kind]Level
	TierCeiling map[analysis.Tier]Level
	// LongArticleWords bumps the baseline one level for articles above this
	// word count; 0 disables the bump.
	LongArticleWords int
}

// DefaultCatalog maps cheap kinds to the flash family and reasoning/search
// kinds to pro. Model ids are configuration, not behavior.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Models: map[Level]ModelSpec{
			LevelLow:    {Model: "gemini-2.5-flash-lite", MaxTokens: 8192, SupportsLiveSearch: false},
			LevelMiddle: {Model: "gemini-2.5-flash", MaxTokens: 12288, SupportsLiveSearch: true},
			LevelHigh:   {Model: "gemini-2.5-pro", MaxTokens: 16384, SupportsLiveSearch: true},
			LevelXHigh:  {Model: "gemini-2.5-pro", MaxTokens: 32768, SupportsLiveSearch: true},
		},
		Baseline: map[analysis.Kind]Level{
			analysis.KindJargon:      LevelLow,
			analysis.KindViewpoints:  LevelMiddle,
			analysis.KindFactCheck:   LevelHigh,
			analysis.KindBias:        LevelHigh,
			analysis.KindTimeline:    LevelHigh,
			analysis.KindExpert:      LevelHigh,
			analysis.KindSocialPulse: LevelHigh,
		},
		TierCeiling: map[analysis.Tier]Level{
			analysis.TierFree: LevelHigh,
			analysis.TierPlus: LevelHigh,
			analysis.TierPro:  LevelXHigh,
		},
		LongArticleWords: 3000,
	}
}

// Select is a deterministic, pure function: no I/O, no stored state. The
// chosen level is monotonically nondecreasing in retryCount and clamped at
// the tier's ceiling.
func (c *Catalog) Select(kind analysis.Kind, tier analysis.Tier, articleWords, retryCount int) Choice {
	baseline, ok := c.Baseline[kind]
	if !ok {
		baseline = LevelMiddle
	}
	rank := baseline.Rank()
	if c.LongArticleWords > 0 && articleWords > c.LongArticleWords {
		rank++
	}
	if retryCount > 0 {
		rank += retryCount
	}
	if ceiling, ok := c.TierCeiling[analysis.NormalizeTier(tier)]; ok && rank > ceiling.Rank() {
		rank = ceiling.Rank()
	}
	level := levelAt(rank)
	spec := c.Models[level]
	return Choice{
		Model:              spec.Model,
		Level:              level,
		MaxTokens:          spec.MaxTokens,
		SupportsLiveSearch: spec.SupportsLiveSearch,
	}
}

// CritiqueChoice returns the cheap model used for self-critique passes; the
// checker call must cost far less than the call it checks.
func (c *Catalog) CritiqueChoice() Choice {
	spec := c.Models[LevelLow]
	return Choice{
		Model:              spec.Model,
		Level:              LevelLow,
		MaxTokens:          spec.MaxTokens,
		SupportsLiveSearch: spec.SupportsLiveSearch,
	}
}
