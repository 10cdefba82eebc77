package observability

import (
	"context"
	"time"
)

// TeePipeline returns hooks that forward every event to each of hooks in
// order. Nil entries are skipped.
func TeePipeline(hooks ...PipelineHooks) PipelineHooks {
	var t teePipeline
	for _, h := range hooks {
		if h != nil {
			t = append(t, h)
		}
	}
	return t
}

type teePipeline []PipelineHooks

func (t teePipeline) OnTokenizeStart(ctx context.Context, chars int) {
	for _, h := range t {
		h.OnTokenizeStart(ctx, chars)
	}
}

func (t teePipeline) OnTokenizeComplete(ctx context.Context, words int, d time.Duration, err error) {
	for _, h := range t {
		h.OnTokenizeComplete(ctx, words, d, err)
	}
}

func (t teePipeline) OnLayoutStart(ctx context.Context, words int) {
	for _, h := range t {
		h.OnLayoutStart(ctx, words)
	}
}

func (t teePipeline) OnLayoutComplete(ctx context.Context, placed, dropped int, d time.Duration, err error) {
	for _, h := range t {
		h.OnLayoutComplete(ctx, placed, dropped, d, err)
	}
}

func (t teePipeline) OnRenderStart(ctx context.Context, formats []string) {
	for _, h := range t {
		h.OnRenderStart(ctx, formats)
	}
}

func (t teePipeline) OnRenderComplete(ctx context.Context, formats []string, d time.Duration, err error) {
	for _, h := range t {
		h.OnRenderComplete(ctx, formats, d, err)
	}
}

// TeeCache returns cache hooks that forward to each of hooks.
func TeeCache(hooks ...CacheHooks) CacheHooks {
	var t teeCache
	for _, h := range hooks {
		if h != nil {
			t = append(t, h)
		}
	}
	return t
}

type teeCache []CacheHooks

func (t teeCache) OnCacheHit(ctx context.Context, keyType string) {
	for _, h := range t {
		h.OnCacheHit(ctx, keyType)
	}
}

func (t teeCache) OnCacheMiss(ctx context.Context, keyType string) {
	for _, h := range t {
		h.OnCacheMiss(ctx, keyType)
	}
}

func (t teeCache) OnCacheSet(ctx context.Context, keyType string, size int) {
	for _, h := range t {
		h.OnCacheSet(ctx, keyType, size)
	}
}
