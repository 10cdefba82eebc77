package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// Counters keeps running totals of pipeline, cache and HTTP events.
// It is safe for concurrent use.
type Counters struct {
	clouds       atomic.Int64
	failures     atomic.Int64
	wordsPlaced  atomic.Int64
	wordsDropped atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	requests     atomic.Int64
	serverErrors atomic.Int64
}

// Snapshot is a point-in-time copy of Counters.
type Snapshot struct {
	Clouds       int64 `json:"clouds"`
	Failures     int64 `json:"failures"`
	WordsPlaced  int64 `json:"words_placed"`
	WordsDropped int64 `json:"words_dropped"`
	CacheHits    int64 `json:"cache_hits"`
	CacheMisses  int64 `json:"cache_misses"`
	Requests     int64 `json:"requests"`
	ServerErrors int64 `json:"server_errors"`
}

func (c *Counters) Snapshot() Snapshot {
	return Snapshot{
		Clouds:       c.clouds.Load(),
		Failures:     c.failures.Load(),
		WordsPlaced:  c.wordsPlaced.Load(),
		WordsDropped: c.wordsDropped.Load(),
		CacheHits:    c.cacheHits.Load(),
		CacheMisses:  c.cacheMisses.Load(),
		Requests:     c.requests.Load(),
		ServerErrors: c.serverErrors.Load(),
	}
}

func (c *Counters) OnTokenizeStart(context.Context, int)                          {}
func (c *Counters) OnTokenizeComplete(context.Context, int, time.Duration, error) {}
func (c *Counters) OnLayoutStart(context.Context, int)                            {}
func (c *Counters) OnRenderStart(context.Context, []string)                       {}

func (c *Counters) OnLayoutComplete(_ context.Context, placed, dropped int, _ time.Duration, err error) {
	if err != nil {
		c.failures.Add(1)
		return
	}
	c.clouds.Add(1)
	c.wordsPlaced.Add(int64(placed))
	c.wordsDropped.Add(int64(dropped))
}

func (c *Counters) OnRenderComplete(_ context.Context, _ []string, _ time.Duration, err error) {
	if err != nil {
		c.failures.Add(1)
	}
}

func (c *Counters) OnCacheHit(context.Context, string)      { c.cacheHits.Add(1) }
func (c *Counters) OnCacheMiss(context.Context, string)     { c.cacheMisses.Add(1) }
func (c *Counters) OnCacheSet(context.Context, string, int) {}

func (c *Counters) OnRequest(context.Context, string, string) { c.requests.Add(1) }

func (c *Counters) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	if status >= 500 {
		c.serverErrors.Add(1)
	}
}

var (
	_ PipelineHooks = (*Counters)(nil)
	_ CacheHooks    = (*Counters)(nil)
	_ HTTPHooks     = (*Counters)(nil)
)
