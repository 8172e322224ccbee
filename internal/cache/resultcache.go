package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"newslens/internal/analysis"
	"newslens/internal/article"
)

// Entry holds one session's enrichment context: the article plus every
// analysis completed so far. Entries are replaced wholesale (copy-on-write),
// never mutated in place, so concurrent readers always see a consistent
// snapshot and never a partially merged one.
type Entry struct {
	Article   article.Context
	Results   map[analysis.Kind]analysis.Result
	CreatedAt time.Time
}

// NewEntry builds an empty entry for an article.
func NewEntry(art article.Context) *Entry {
	return &Entry{
		Article:   art,
		Results:   map[analysis.Kind]analysis.Result{},
		CreatedAt: time.Now(),
	}
}

// Clone returns a copy whose Results map can be extended without affecting
// the original. Results themselves are immutable once written.
func (e *Entry) Clone() *Entry {
	out := &Entry{
		Article:   e.Article,
		Results:   make(map[analysis.Kind]analysis.Result, len(e.Results)+1),
		CreatedAt: e.CreatedAt,
	}
	for k, v := range e.Results {
		out.Results[k] = v
	}
	return out
}

// ResultCache is a threadsafe, TTL'd, size-bounded store of per-session
// enrichment context. Expired entries behave as not-found on read; when the
// size bound is exceeded the least recently used entry is evicted.
type ResultCache struct {
	lru *expirable.LRU[string, *Entry]
}

func New(maxEntries int, ttl time.Duration) *ResultCache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &ResultCache{lru: expirable.NewLRU[string, *Entry](maxEntries, nil, ttl)}
}

// Get returns the stored entry. Callers must treat it as read-only; the
// coordinator clones before merging new results.
func (c *ResultCache) Get(key string) (*Entry, bool) {
	if c == nil || key == "" {
		return nil, false
	}
	return c.lru.Get(key)
}

// Put stores an entry under key. Only the coordinator writes, after all
// results of a pass are collected.
func (c *ResultCache) Put(key string, e *Entry) {
	if c == nil || key == "" || e == nil {
		return
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	c.lru.Add(key, e)
}

// Len reports the number of live entries.
func (c *ResultCache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}
