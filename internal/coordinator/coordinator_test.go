package coordinator

import (
	"context"
	"io"
	"log"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"newslens/internal/agent"
	"newslens/internal/analysis"
	"newslens/internal/article"
	"newslens/internal/cache"
	"newslens/internal/llmclient"
)

// countingClient wraps the canned fake and tracks concurrency plus per-task
// call counts, so tests can assert both the dispatch bound and cache reuse.
type countingClient struct {
	inner *llmclient.FakeClient
	delay time.Duration

	current int64
	peak    int64
	total   int64

	mu     sync.Mutex
	byTask map[string]int
}

func newCountingClient(delay time.Duration) *countingClient {
	return &countingClient{
		inner:  llmclient.NewFakeClient(),
		delay:  delay,
		byTask: make(map[string]int),
	}
}

func (c *countingClient) Name() string { return "counting" }
func (c *countingClient) Close() error { return nil }

func (c *countingClient) CompleteJSON(ctx context.Context, req llmclient.Request) (*llmclient.Response, error) {
	cur := atomic.AddInt64(&c.current, 1)
	defer atomic.AddInt64(&c.current, -1)
	for {
		p := atomic.LoadInt64(&c.peak)
		if cur <= p || atomic.CompareAndSwapInt64(&c.peak, p, cur) {
			break
		}
	}
	atomic.AddInt64(&c.total, 1)

	c.mu.Lock()
	c.byTask[llmclient.TaskFrom(ctx)]++
	c.mu.Unlock()

	if c.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.delay):
		}
	}
	return c.inner.CompleteJSON(ctx, req)
}

func (c *countingClient) calls(task string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.byTask[task]
}

func discard() *log.Logger { return log.New(io.Discard, "", 0) }

func newCoordinator(cli llmclient.Client, cfg Config) (*Coordinator, *cache.ResultCache) {
	store := cache.New(8, time.Minute)
	agents := agent.NewRegistry(agent.Deps{Client: cli, Log: discard()})
	return New(agents, store, cfg, discard()), store
}

func testArticle() article.Context {
	return article.New("central bank raises rates amid inflation fears", "https://www.example.com/story", "en", []string{"economy"})
}

func TestCoreRunSucceedsAndPopulatesCache(t *testing.T) {
	cli := newCountingClient(0)
	c, store := newCoordinator(cli, Config{})

	req := analysis.Request{Kinds: analysis.CoreKinds(), SessionKey: "s1"}
	results, errs, err := c.Run(context.Background(), testArticle(), req)
	require.NoError(t, err)
	require.Empty(t, errs)
	require.Len(t, results, len(req.Kinds))
	for _, k := range req.Kinds {
		require.Contains(t, results, k, "result key set must equal the requested kind set")
		require.Equal(t, analysis.StatusSuccess, results[k].Status)
	}

	entry, ok := store.Get("s1")
	require.True(t, ok)
	require.Contains(t, entry.Results, analysis.KindJargon)
	require.Contains(t, entry.Results, analysis.KindViewpoints)
	require.Equal(t, testArticle().Text, entry.Article.Text)
}

func TestOnDemandWithoutCachedContextFailsFast(t *testing.T) {
	cli := newCountingClient(0)
	c, _ := newCoordinator(cli, Config{})

	req := analysis.Request{Kinds: []analysis.Kind{analysis.KindFactCheck}, SessionKey: "never-seen"}
	_, _, err := c.Run(context.Background(), testArticle(), req)
	require.ErrorIs(t, err, analysis.ErrContextMissing)
	require.Equal(t, int64(0), atomic.LoadInt64(&cli.total), "no provider call may happen before the context check")
}

func TestUnknownKindFailsBeforeAnyDispatch(t *testing.T) {
	cli := newCountingClient(0)
	c, _ := newCoordinator(cli, Config{})

	req := analysis.Request{Kinds: []analysis.Kind{analysis.KindJargon, analysis.Kind("summarize")}, SessionKey: "s1"}
	_, _, err := c.Run(context.Background(), testArticle(), req)
	require.ErrorIs(t, err, analysis.ErrUnknownKind)
	require.Equal(t, int64(0), atomic.LoadInt64(&cli.total))
}

func TestEmptyRequestIsRejected(t *testing.T) {
	cli := newCountingClient(0)
	c, _ := newCoordinator(cli, Config{})

	_, _, err := c.Run(context.Background(), testArticle(), analysis.Request{SessionKey: "s1"})
	require.Error(t, err)
}

func TestDuplicateKindsRunOnce(t *testing.T) {
	cli := newCountingClient(0)
	c, _ := newCoordinator(cli, Config{})

	req := analysis.Request{Kinds: []analysis.Kind{analysis.KindJargon, analysis.KindJargon}, SessionKey: "s1"}
	results, errs, err := c.Run(context.Background(), testArticle(), req)
	require.NoError(t, err)
	require.Empty(t, errs)
	require.Len(t, results, 1)
	require.Equal(t, 1, cli.calls("jargon"))
}

func TestConcurrencyNeverExceedsBound(t *testing.T) {
	cli := newCountingClient(20 * time.Millisecond)
	c, _ := newCoordinator(cli, Config{MaxConcurrent: 2})

	// Seed the session so the on-demand kinds find their context.
	seed := analysis.Request{Kinds: analysis.CoreKinds(), SessionKey: "s1"}
	_, _, err := c.Run(context.Background(), testArticle(), seed)
	require.NoError(t, err)

	req := analysis.Request{Kinds: analysis.AllKinds(), SessionKey: "s1"}
	results, errs, err := c.Run(context.Background(), testArticle(), req)
	require.NoError(t, err)
	require.Empty(t, errs)
	require.Len(t, results, len(analysis.AllKinds()))
	require.LessOrEqual(t, atomic.LoadInt64(&cli.peak), int64(2),
		"in-flight provider calls must stay under the configured bound")
}

func TestOnDemandReusesCachedResults(t *testing.T) {
	cli := newCountingClient(0)
	c, _ := newCoordinator(cli, Config{})

	seed := analysis.Request{Kinds: analysis.CoreKinds(), SessionKey: "s2"}
	_, _, err := c.Run(context.Background(), testArticle(), seed)
	require.NoError(t, err)
	jargonCalls := cli.calls("jargon")

	req := analysis.Request{Kinds: []analysis.Kind{analysis.KindJargon, analysis.KindFactCheck}, SessionKey: "s2"}
	results, errs, err := c.Run(context.Background(), testArticle(), req)
	require.NoError(t, err)
	require.Empty(t, errs)
	require.Equal(t, analysis.StatusSuccess, results[analysis.KindJargon].Status)
	require.Equal(t, analysis.StatusSuccess, results[analysis.KindFactCheck].Status)
	require.Equal(t, jargonCalls, cli.calls("jargon"), "a cached success must not be recomputed")
	require.Equal(t, 1, cli.calls("factcheck"))
}

func TestSlowKindFailsAloneUnderDeadline(t *testing.T) {
	fast := llmclient.NewFakeClient()
	fc := llmclient.NewFakeClient()
	fc.ReplyFn = func(ctx context.Context, req llmclient.Request) (*llmclient.Response, error) {
		if llmclient.TaskFrom(ctx) == "viewpoints" {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Second):
				return nil, context.DeadlineExceeded
			}
		}
		return fast.CompleteJSON(ctx, req)
	}
	c, store := newCoordinator(fc, Config{})

	ctx, cancel := context.WithTimeout(context.Background(), 80*time.Millisecond)
	defer cancel()

	req := analysis.Request{Kinds: analysis.CoreKinds(), SessionKey: "sd"}
	results, errs, err := c.Run(ctx, testArticle(), req)
	require.NoError(t, err, "one kind's timeout must not fail the request")
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "viewpoints")

	require.Equal(t, analysis.StatusSuccess, results[analysis.KindJargon].Status)
	require.Equal(t, analysis.StatusFailed, results[analysis.KindViewpoints].Status)
	require.Equal(t, analysis.ReasonDeadlineExceeded, results[analysis.KindViewpoints].Reason)

	entry, ok := store.Get("sd")
	require.True(t, ok)
	require.Contains(t, entry.Results, analysis.KindJargon)
	require.NotContains(t, entry.Results, analysis.KindViewpoints, "failed results are not cached")
}

func TestCanceledRequestReportsCancellationNotDeadline(t *testing.T) {
	cli := newCountingClient(0)
	c, _ := newCoordinator(cli, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := analysis.Request{Kinds: analysis.CoreKinds(), SessionKey: "sc"}
	results, errs, err := c.Run(ctx, testArticle(), req)
	require.NoError(t, err)
	require.Len(t, errs, len(req.Kinds))
	for _, k := range req.Kinds {
		require.Equal(t, analysis.StatusFailed, results[k].Status)
		require.Equal(t, analysis.ReasonCanceled, results[k].Reason,
			"a dropped caller is not an elapsed deadline")
	}
	require.Equal(t, int64(0), atomic.LoadInt64(&cli.total))
}

func TestConcurrentPassesOnOneSessionBothLand(t *testing.T) {
	cli := newCountingClient(5 * time.Millisecond)
	c, store := newCoordinator(cli, Config{})

	var wg sync.WaitGroup
	errCh := make(chan error, len(analysis.CoreKinds()))
	for _, kind := range analysis.CoreKinds() {
		wg.Add(1)
		go func(k analysis.Kind) {
			defer wg.Done()
			req := analysis.Request{Kinds: []analysis.Kind{k}, SessionKey: "sx"}
			_, _, err := c.Run(context.Background(), testArticle(), req)
			errCh <- err
		}(kind)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	entry, ok := store.Get("sx")
	require.True(t, ok)
	require.Contains(t, entry.Results, analysis.KindJargon,
		"the slower pass must not overwrite the faster pass's results")
	require.Contains(t, entry.Results, analysis.KindViewpoints)
}

func TestRunStreamDeliversEveryKindOnce(t *testing.T) {
	cli := newCountingClient(0)
	c, _ := newCoordinator(cli, Config{})

	var seen []analysis.Kind
	req := analysis.Request{Kinds: analysis.CoreKinds(), SessionKey: "s3"}
	results, errs, err := c.RunStream(context.Background(), testArticle(), req, func(r analysis.Result) {
		seen = append(seen, r.Kind)
	})
	require.NoError(t, err)
	require.Empty(t, errs)
	require.Len(t, seen, len(results))
	require.ElementsMatch(t, []analysis.Kind{analysis.KindJargon, analysis.KindViewpoints}, seen)
}

func TestNoSessionKeySkipsCaching(t *testing.T) {
	cli := newCountingClient(0)
	c, store := newCoordinator(cli, Config{})

	req := analysis.Request{Kinds: analysis.CoreKinds()}
	results, errs, err := c.Run(context.Background(), testArticle(), req)
	require.NoError(t, err)
	require.Empty(t, errs)
	require.Len(t, results, 2)
	require.Equal(t, 0, store.Len())
}
