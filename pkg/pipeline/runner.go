package pipeline

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/surveycloud/pkg/cache"
	"github.com/matzehuels/surveycloud/pkg/cloud/layout"
	"github.com/matzehuels/surveycloud/pkg/cloud/sink"
	"github.com/matzehuels/surveycloud/pkg/errors"
	"github.com/matzehuels/surveycloud/pkg/observability"
	"github.com/matzehuels/surveycloud/pkg/text"
)

// Cache key types reported to observability hooks.
const (
	keyTypeVocabulary = "vocabulary"
	keyTypeLayout     = "layout"
	keyTypeArtifact   = "artifact"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-stage cache lifetimes when positive.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete tokenize → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Tokenize
	tokenizeStart := time.Now()
	vocab, tokenizeHit, err := r.TokenizeWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Vocabulary = vocab
	result.VocabHash = vocabHash(vocab)
	result.Stats.Words = len(vocab)
	result.Stats.TokenizeTime = time.Since(tokenizeStart)
	result.CacheInfo.TokenizeHit = tokenizeHit

	opts.Logger.Info("counted words",
		"words", len(vocab),
		"cached", tokenizeHit,
		"duration", result.Stats.TokenizeTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	res, layoutHit, err := r.GenerateLayoutWithCacheInfo(ctx, vocab, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = res
	result.Stats.Placed = len(res.Words)
	result.Stats.Dropped = len(res.Dropped)
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	opts.Logger.Info("computed layout",
		"placed", len(res.Words),
		"dropped", len(res.Dropped),
		"cached", layoutHit,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	opts.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// TokenizeWithCacheInfo builds the vocabulary with caching and returns cache hit info.
// A pre-built vocabulary in opts.Weights is returned as is.
func (r *Runner) TokenizeWithCacheInfo(ctx context.Context, opts Options) (text.Vocabulary, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForTokenize(); err != nil {
		return nil, false, err
	}

	if len(opts.Weights) > 0 {
		vocab, err := text.FromEntries(opts.Weights)
		return vocab, false, err
	}

	cacheKey := r.Keyer.VocabularyKey(cache.Hash([]byte(opts.Text)), opts.VocabularyKeyOpts())

	if !opts.Refresh {
		var vocab text.Vocabulary
		err := r.load(ctx, cacheKey, keyTypeVocabulary, &vocab)
		if err == nil && len(vocab) > 0 {
			observability.Cache().OnCacheHit(ctx, keyTypeVocabulary)
			return vocab, true, nil
		}
		r.logLoadFailure(opts, keyTypeVocabulary, err)
		observability.Cache().OnCacheMiss(ctx, keyTypeVocabulary)
	}

	vocab, err := Tokenize(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	if data, err := json.Marshal(vocab); err == nil {
		r.store(ctx, cacheKey, keyTypeVocabulary, data, cache.TTLVocabulary)
	}
	return vocab, false, nil
}

// Tokenize is a convenience wrapper that calls TokenizeWithCacheInfo and discards the cache hit info.
func (r *Runner) Tokenize(ctx context.Context, opts Options) (text.Vocabulary, error) {
	vocab, _, err := r.TokenizeWithCacheInfo(ctx, opts)
	return vocab, err
}

// GenerateLayoutWithCacheInfo places vocab with caching and returns cache hit info.
func (r *Runner) GenerateLayoutWithCacheInfo(ctx context.Context, vocab text.Vocabulary, opts Options) (layout.Result, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Result{}, false, err
	}

	cacheKey := r.Keyer.LayoutKey(vocabHash(vocab), opts.LayoutKeyOpts())

	if !opts.Refresh {
		var cached layout.Result
		err := r.load(ctx, cacheKey, keyTypeLayout, &cached)
		if err == nil {
			observability.Cache().OnCacheHit(ctx, keyTypeLayout)
			return cached, true, nil
		}
		r.logLoadFailure(opts, keyTypeLayout, err)
		observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
	}

	res, err := GenerateLayout(ctx, vocab, opts)
	if err != nil {
		return layout.Result{}, false, err
	}

	if data, err := json.Marshal(res); err == nil {
		r.store(ctx, cacheKey, keyTypeLayout, data, cache.TTLLayout)
	}
	return res, false, nil
}

// GenerateLayout is a convenience wrapper that calls GenerateLayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) GenerateLayout(ctx context.Context, vocab text.Vocabulary, opts Options) (layout.Result, error) {
	res, _, err := r.GenerateLayoutWithCacheInfo(ctx, vocab, opts)
	return res, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res layout.Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	layoutData, err := sink.RenderJSON(res)
	if err != nil {
		return nil, false, err
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	artifacts := make(map[string][]byte, len(opts.Formats))
	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			data, hit, err := r.Cache.Get(ctx, cacheKey)
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
				break
			}
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	rendered, err := Render(ctx, res, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, cacheKey, keyTypeArtifact, data, cache.TTLArtifact)
	}
	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res layout.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// store writes a cache entry. Cache failures never fail the pipeline.
func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	if r.TTL > 0 {
		ttl = r.TTL
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", errors.UserMessage(err))
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// load decodes the JSON entry under key into v. It returns cache.ErrCacheMiss
// when there is no entry and cache.ErrCorrupt, after deleting the entry, when
// the stored bytes do not decode.
func (r *Runner) load(ctx context.Context, key, keyType string, v any) error {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		return err
	}
	if !hit {
		return cache.ErrCacheMiss
	}
	if err := json.Unmarshal(data, v); err != nil {
		if derr := r.Cache.Delete(ctx, key); derr != nil {
			r.Logger.Warn("cache delete failed", "type", keyType, "err", derr)
		}
		return fmt.Errorf("%w: %s: %v", cache.ErrCorrupt, keyType, err)
	}
	return nil
}

// logLoadFailure reports cache reads that failed for a reason other than a
// plain miss. The stage recomputes either way.
func (r *Runner) logLoadFailure(opts Options, keyType string, err error) {
	if err == nil || stderrors.Is(err, cache.ErrCacheMiss) {
		return
	}
	opts.Logger.Debug("cache read failed", "type", keyType, "err", err)
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func vocabHash(v text.Vocabulary) string {
	h, _ := cache.HashJSON(v)
	return h
}
