package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/surveycloud/pkg/cache"
	"github.com/matzehuels/surveycloud/pkg/cloud/layout"
	"github.com/matzehuels/surveycloud/pkg/errors"
	"github.com/matzehuels/surveycloud/pkg/observability"
	"github.com/matzehuels/surveycloud/pkg/text"
)

const corpus = `The data from this survey is great data.
Survey responses help us understand the data.
Every response counts, and the survey shows it.`

// memCache is an in-memory cache that counts writes.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

var _ cache.Cache = (*memCache)(nil)

func fastOptions() Options {
	return Options{
		Text:       corpus,
		Width:      400,
		Height:     200,
		MaxWords:   20,
		Formats:    []string{FormatPNG, FormatSVG, FormatJSON},
		Scale:      1,
		Typesetter: layout.BoxTypesetter{},
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	result, err := runner.Execute(context.Background(), fastOptions())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if len(result.Vocabulary) == 0 {
		t.Fatal("expected a vocabulary")
	}
	if result.Vocabulary[0].Word != "data" || result.Vocabulary[0].Weight != 3 {
		t.Errorf("top word = %+v, want data x3", result.Vocabulary[0])
	}
	if result.VocabHash == "" {
		t.Error("expected a vocabulary hash")
	}
	if result.Stats.Placed+result.Stats.Dropped != len(result.Vocabulary) {
		t.Errorf("placed %d + dropped %d != %d words", result.Stats.Placed, result.Stats.Dropped, len(result.Vocabulary))
	}
	for _, f := range []string{FormatPNG, FormatSVG, FormatJSON} {
		if len(result.Artifacts[f]) == 0 {
			t.Errorf("missing %s artifact", f)
		}
	}

	img, err := png.Decode(bytes.NewReader(result.Artifacts[FormatPNG]))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 200 {
		t.Errorf("png size = %v, want 400x200", b)
	}
}

func TestExecuteEmptyInput(t *testing.T) {
	opts := fastOptions()
	opts.Text = "the a an of"

	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	if !errors.Is(err, errors.ErrCodeEmptyInput) {
		t.Fatalf("error = %v, want EMPTY_INPUT", err)
	}
}

func TestExecuteInvalidConfig(t *testing.T) {
	opts := fastOptions()
	opts.MinFontSize = 50
	opts.MaxFontSize = 40

	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("error = %v, want INVALID_CONFIG", err)
	}
}

func TestExecuteWithWeights(t *testing.T) {
	opts := fastOptions()
	opts.Text = ""
	opts.Weights = text.Vocabulary{
		{Word: "response", Weight: 3},
		{Word: "data", Weight: 10},
		{Word: "survey", Weight: 7},
	}
	opts.MaxFontSize = 60

	result, err := NewRunner(nil, nil, nil).Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(result.Layout.Words) != 3 {
		t.Fatalf("placed %d words, want 3", len(result.Layout.Words))
	}
	if result.Layout.Words[0].Word != "data" || result.Layout.Words[0].FontSize != 60 {
		t.Errorf("first word = %+v, want data at 60px", result.Layout.Words[0])
	}
}

func TestExecuteCaching(t *testing.T) {
	mc := newMemCache()
	runner := NewRunner(mc, nil, nil)
	ctx := context.Background()

	first, err := runner.Execute(ctx, fastOptions())
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if first.CacheInfo.TokenizeHit || first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss everywhere: %+v", first.CacheInfo)
	}
	if mc.sets != 5 {
		t.Errorf("cache writes = %d, want 5 (vocabulary, layout, 3 artifacts)", mc.sets)
	}

	second, err := runner.Execute(ctx, fastOptions())
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if !second.CacheInfo.TokenizeHit || !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit everywhere: %+v", second.CacheInfo)
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached SVG differs from the rendered one")
	}

	refresh := fastOptions()
	refresh.Refresh = true
	third, err := runner.Execute(ctx, refresh)
	if err != nil {
		t.Fatalf("refresh Execute: %v", err)
	}
	if third.CacheInfo.TokenizeHit || third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh should bypass the cache: %+v", third.CacheInfo)
	}
}

func TestExecuteUsesRunnerLogger(t *testing.T) {
	var buf bytes.Buffer
	runner := NewRunner(nil, nil, log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))

	if _, err := runner.Execute(context.Background(), fastOptions()); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, want := range []string{"counted words", "computed layout", "rendered outputs"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("runner log missing %q:\n%s", want, buf.String())
		}
	}
}

func TestCorruptCacheEntriesAreRecomputed(t *testing.T) {
	mc := newMemCache()
	runner := NewRunner(mc, nil, nil)
	ctx := context.Background()

	first, err := runner.Execute(ctx, fastOptions())
	if err != nil {
		t.Fatalf("first Execute: %v", err)
	}

	opts := fastOptions()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	vocabKey := runner.Keyer.VocabularyKey(cache.Hash([]byte(opts.Text)), opts.VocabularyKeyOpts())
	layoutKey := runner.Keyer.LayoutKey(vocabHash(first.Vocabulary), opts.LayoutKeyOpts())
	for _, key := range []string{vocabKey, layoutKey} {
		if _, ok := mc.data[key]; !ok {
			t.Fatalf("no cache entry under %s", key)
		}
		mc.data[key] = []byte("{truncated")
	}

	var v text.Vocabulary
	if err := runner.load(ctx, vocabKey, keyTypeVocabulary, &v); !stderrors.Is(err, cache.ErrCorrupt) {
		t.Errorf("load(corrupt) error = %v, want ErrCorrupt", err)
	}
	if _, ok := mc.data[vocabKey]; ok {
		t.Error("corrupt entry was not deleted")
	}
	if err := runner.load(ctx, "missing", keyTypeVocabulary, &v); !stderrors.Is(err, cache.ErrCacheMiss) {
		t.Errorf("load(missing) error = %v, want ErrCacheMiss", err)
	}

	second, err := runner.Execute(ctx, fastOptions())
	if err != nil {
		t.Fatalf("second Execute: %v", err)
	}
	if second.CacheInfo.TokenizeHit || second.CacheInfo.LayoutHit {
		t.Errorf("corrupt entries served as hits: %+v", second.CacheInfo)
	}
	for _, key := range []string{vocabKey, layoutKey} {
		if !json.Valid(mc.data[key]) {
			t.Errorf("entry %s not rewritten: %q", key, mc.data[key])
		}
	}
}

func TestExecuteDeterministic(t *testing.T) {
	a, err := NewRunner(nil, nil, nil).Execute(context.Background(), fastOptions())
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewRunner(nil, nil, nil).Execute(context.Background(), fastOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Artifacts[FormatJSON], b.Artifacts[FormatJSON]) {
		t.Error("same input and seed produced different layouts")
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	res := layout.Result{Width: 10, Height: 10, Background: "#ffffff", Colormap: "viridis", Font: "regular"}
	_, err := Render(context.Background(), res, Options{Formats: []string{"gif"}})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Fatalf("error = %v, want INVALID_FORMAT", err)
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	mu      sync.Mutex
	placed  int
	dropped int
	renders int
}

func (h *recordingHooks) OnLayoutComplete(_ context.Context, placed, dropped int, _ time.Duration, _ error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.placed, h.dropped = placed, dropped
}

func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.renders++
}

func TestExecuteCallsHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	result, err := NewRunner(nil, nil, nil).Execute(context.Background(), fastOptions())
	if err != nil {
		t.Fatal(err)
	}
	if hooks.placed != result.Stats.Placed || hooks.dropped != result.Stats.Dropped {
		t.Errorf("hooks saw placed=%d dropped=%d, want %d/%d", hooks.placed, hooks.dropped, result.Stats.Placed, result.Stats.Dropped)
	}
	if hooks.renders != 1 {
		t.Errorf("render hook called %d times, want 1", hooks.renders)
	}
}
