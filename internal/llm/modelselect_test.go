package llm

import (
	"testing"

	"github.com/stretchr/testify/require"

	"newslens/internal/analysis"
)

func TestSelectEscalationMonotonicAndClamped(t *testing.T) {
	c := DefaultCatalog()
	tiers := []analysis.Tier{analysis.TierFree, analysis.TierPlus, analysis.TierPro}
	lengths := []int{0, 500, 10000}

	for _, kind := range analysis.AllKinds() {
		for _, tier := range tiers {
			for _, words := range lengths {
				ceiling := c.TierCeiling[tier]
				prev := -1
				for retry := 0; retry <= 5; retry++ {
					got := c.Select(kind, tier, words, retry)
					require.NotEmpty(t, got.Model, "kind=%s tier=%s", kind, tier)
					require.GreaterOrEqual(t, got.Level.Rank(), prev,
						"escalation must never get cheaper: kind=%s tier=%s retry=%d", kind, tier, retry)
					require.LessOrEqual(t, got.Level.Rank(), ceiling.Rank(),
						"tier ceiling must clamp escalation: kind=%s tier=%s retry=%d", kind, tier, retry)
					prev = got.Level.Rank()
				}
			}
		}
	}
}

func TestSelectIsDeterministic(t *testing.T) {
	c := DefaultCatalog()
	a := c.Select(analysis.KindFactCheck, analysis.TierPro, 1200, 1)
	b := c.Select(analysis.KindFactCheck, analysis.TierPro, 1200, 1)
	require.Equal(t, a, b)
}

func TestSelectBaselinePerKind(t *testing.T) {
	c := DefaultCatalog()
	require.Equal(t, LevelLow, c.Select(analysis.KindJargon, analysis.TierFree, 100, 0).Level)
	require.Equal(t, LevelHigh, c.Select(analysis.KindFactCheck, analysis.TierFree, 100, 0).Level)
}

func TestSelectLongArticleBumpsLevel(t *testing.T) {
	c := DefaultCatalog()
	short := c.Select(analysis.KindJargon, analysis.TierFree, 100, 0)
	long := c.Select(analysis.KindJargon, analysis.TierFree, c.LongArticleWords+1, 0)
	require.Greater(t, long.Level.Rank(), short.Level.Rank())
}

func TestSelectRetryEscalatesJargon(t *testing.T) {
	c := DefaultCatalog()
	first := c.Select(analysis.KindJargon, analysis.TierFree, 100, 0)
	second := c.Select(analysis.KindJargon, analysis.TierFree, 100, 1)
	require.NotEqual(t, first.Model, second.Model)
	require.Greater(t, second.Level.Rank(), first.Level.Rank())
}

func TestCritiqueChoiceIsCheap(t *testing.T) {
	c := DefaultCatalog()
	require.Equal(t, LevelLow, c.CritiqueChoice().Level)
}
