package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/semaphore"

	"newslens/internal/agent"
	"newslens/internal/analysis"
	"newslens/internal/article"
	"newslens/internal/cache"
)

// Config tunes one Coordinator. MaxConcurrent bounds simultaneously
// in-flight LLM calls across every request served by this Coordinator,
// independent of how many kinds a single request asks for.
type Config struct {
	MaxConcurrent int64
}

// Coordinator is the orchestration root: it validates a request, dispatches
// one agent per requested kind under the concurrency bound, aggregates
// results, and merges them into the result cache. It is the cache's only
// writer.
type Coordinator struct {
	agents map[analysis.Kind]agent.Agent
	store  *cache.ResultCache
	sem    *semaphore.Weighted
	log    *log.Logger
	// mergeMu serializes cache merges so two passes on the same session key
	// cannot overwrite each other's results.
	mergeMu sync.Mutex
}

func New(agents map[analysis.Kind]agent.Agent, store *cache.ResultCache, cfg Config, logger *log.Logger) *Coordinator {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Coordinator{
		agents: agents,
		store:  store,
		sem:    semaphore.NewWeighted(cfg.MaxConcurrent),
		log:    logger,
	}
}

// Run executes every requested kind for one article and returns the
// aggregated per-kind results plus the list of per-kind failures (empty
// slice on full success). The returned map's key set always equals the
// requested kind set. Only a configuration error (unknown kind, empty
// request) or missing on-demand context fails the whole request; one kind's
// failure never cancels its siblings.
func (c *Coordinator) Run(ctx context.Context, art article.Context, req analysis.Request) (map[analysis.Kind]analysis.Result, []error, error) {
	return c.RunStream(ctx, art, req, nil)
}

// RunStream is Run with a progress callback invoked once per completed kind,
// in completion order. The callback runs on the aggregation goroutine, so
// implementations need no locking of their own.
func (c *Coordinator) RunStream(ctx context.Context, art article.Context, req analysis.Request, onResult func(analysis.Result)) (map[analysis.Kind]analysis.Result, []error, error) {
	kinds, err := c.validate(req)
	if err != nil {
		return nil, nil, err
	}
	ctx = analysis.WithTier(ctx, analysis.NormalizeTier(req.Tier))

	// On-demand requests (any non-core kind) must find previously computed
	// context in the cache rather than silently recomputing it.
	base, ok := c.store.Get(req.SessionKey)
	if !ok && !allCore(kinds) {
		return nil, nil, fmt.Errorf("session %q: %w", req.SessionKey, analysis.ErrContextMissing)
	}

	results := make(map[analysis.Kind]analysis.Result, len(kinds))
	var pending []analysis.Kind
	for _, k := range kinds {
		if base != nil {
			if cached, done := base.Results[k]; done && cached.Status == analysis.StatusSuccess {
				results[k] = cached
				continue
			}
		}
		pending = append(pending, k)
	}
	if base != nil {
		// Reuse the cached article so on-demand callers need not resend the
		// extracted text.
		art = base.Article
	}

	ch := make(chan analysis.Result, len(pending))
	var wg sync.WaitGroup
	for _, k := range pending {
		ag := c.agents[k]
		wg.Add(1)
		go func(k analysis.Kind, ag agent.Agent) {
			defer wg.Done()
			// One semaphore slot per agent invocation; released on every
			// exit path.
			if err := c.sem.Acquire(ctx, 1); err != nil {
				ch <- analysis.Failure(k, acquireReason(err))
				return
			}
			defer c.sem.Release(1)
			ch <- ag.Execute(ctx, art)
		}(k, ag)
	}
	go func() {
		wg.Wait()
		close(ch)
	}()

	for _, res := range results {
		if onResult != nil {
			onResult(res)
		}
	}
	for res := range ch {
		results[res.Kind] = res
		if onResult != nil {
			onResult(res)
		}
	}

	c.merge(req.SessionKey, art, results)

	var errs []error
	for _, k := range kinds {
		if r := results[k]; r.Status == analysis.StatusFailed {
			errs = append(errs, fmt.Errorf("%s: %s", k, r.Reason))
		}
	}
	return results, errs, nil
}

// merge publishes this pass's results under the session key. The entry is
// cloned and replaced wholesale so concurrent readers only ever see the
// pre-write snapshot or the fully merged one. The latest entry is re-read
// under the merge lock so two passes on the same key both land.
func (c *Coordinator) merge(key string, art article.Context, results map[analysis.Kind]analysis.Result) {
	if key == "" {
		return
	}
	c.mergeMu.Lock()
	defer c.mergeMu.Unlock()

	var merged *cache.Entry
	if cur, ok := c.store.Get(key); ok {
		merged = cur.Clone()
	} else {
		merged = cache.NewEntry(art)
	}
	for k, r := range results {
		if r.Status == analysis.StatusFailed {
			continue
		}
		merged.Results[k] = r
	}
	c.store.Put(key, merged)
}

// acquireReason maps a failed semaphore acquisition onto a truthful
// user-facing reason.
func acquireReason(err error) string {
	if errors.Is(err, context.Canceled) {
		return analysis.ReasonCanceled
	}
	return analysis.ReasonDeadlineExceeded
}

func (c *Coordinator) validate(req analysis.Request) ([]analysis.Kind, error) {
	if len(req.Kinds) == 0 {
		return nil, fmt.Errorf("%w: no kinds requested", analysis.ErrUnknownKind)
	}
	seen := make(map[analysis.Kind]struct{}, len(req.Kinds))
	out := make([]analysis.Kind, 0, len(req.Kinds))
	for _, k := range req.Kinds {
		if _, ok := c.agents[k]; !ok {
			return nil, fmt.Errorf("%w: %q", analysis.ErrUnknownKind, k)
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out, nil
}

func allCore(kinds []analysis.Kind) bool {
	for _, k := range kinds {
		if !k.Core() {
			return false
		}
	}
	return true
}
