package cache

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"newslens/internal/analysis"
	"newslens/internal/article"
)

func testEntry(text string) *Entry {
	e := NewEntry(article.New(text, "https://example.com/a", "en", nil))
	e.Results[analysis.KindJargon] = analysis.Result{
		Kind:    analysis.KindJargon,
		Status:  analysis.StatusSuccess,
		Payload: json.RawMessage(`{"terms":[]}`),
	}
	return e
}

func TestRoundTrip(t *testing.T) {
	c := New(8, time.Minute)
	e := testEntry("hello")
	c.Put("s1", e)

	got, ok := c.Get("s1")
	require.True(t, ok)
	require.Equal(t, e.Article, got.Article)
	require.Contains(t, got.Results, analysis.KindJargon)
}

func TestExpiredEntryBehavesAsNotFound(t *testing.T) {
	c := New(8, 30*time.Millisecond)
	c.Put("s1", testEntry("hello"))

	_, ok := c.Get("s1")
	require.True(t, ok)

	time.Sleep(60 * time.Millisecond)
	_, ok = c.Get("s1")
	require.False(t, ok)
}

func TestSizeBoundEvictsOldestFirst(t *testing.T) {
	c := New(2, time.Minute)
	c.Put("a", testEntry("a"))
	c.Put("b", testEntry("b"))
	c.Put("c", testEntry("c"))

	_, ok := c.Get("a")
	require.False(t, ok, "oldest entry must be evicted when the bound is exceeded")
	_, ok = c.Get("b")
	require.True(t, ok)
	_, ok = c.Get("c")
	require.True(t, ok)
	require.Equal(t, 2, c.Len())
}

func TestCloneIsolatesResultMap(t *testing.T) {
	orig := testEntry("hello")
	clone := orig.Clone()
	clone.Results[analysis.KindBias] = analysis.Result{Kind: analysis.KindBias, Status: analysis.StatusSuccess}

	require.NotContains(t, orig.Results, analysis.KindBias,
		"readers of the pre-write snapshot must never see the merge in progress")
	require.Contains(t, clone.Results, analysis.KindJargon)
}

func TestEmptyKeyIsIgnored(t *testing.T) {
	c := New(2, time.Minute)
	c.Put("", testEntry("x"))
	_, ok := c.Get("")
	require.False(t, ok)
	require.Equal(t, 0, c.Len())
}
