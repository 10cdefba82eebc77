package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnTokenizeStart(ctx, 1200)
	p.OnTokenizeComplete(ctx, 80, time.Second, nil)
	p.OnLayoutStart(ctx, 80)
	p.OnLayoutComplete(ctx, 75, 5, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "vocabulary")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	// HTTP hooks
	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "/cloud.png")
	h.OnResponse(ctx, "GET", "/cloud.png", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	// Set custom hooks
	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)

	// Setting nil should be ignored
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

func TestCounters(t *testing.T) {
	ctx := context.Background()
	var c Counters

	c.OnLayoutComplete(ctx, 40, 2, time.Millisecond, nil)
	c.OnLayoutComplete(ctx, 10, 0, time.Millisecond, nil)
	c.OnLayoutComplete(ctx, 0, 0, time.Millisecond, errors.New("boom"))
	c.OnRenderComplete(ctx, []string{"png"}, time.Millisecond, errors.New("boom"))
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheMiss(ctx, "artifact")
	c.OnRequest(ctx, "GET", "/stats")
	c.OnRequest(ctx, "GET", "/cloud.png")
	c.OnResponse(ctx, "GET", "/stats", 200, time.Millisecond)
	c.OnResponse(ctx, "GET", "/cloud.png", 500, time.Millisecond)

	want := Snapshot{
		Clouds:       2,
		Failures:     2,
		WordsPlaced:  50,
		WordsDropped: 2,
		CacheHits:    1,
		CacheMisses:  2,
		Requests:     2,
		ServerErrors: 1,
	}
	if got := c.Snapshot(); got != want {
		t.Errorf("Snapshot() = %+v, want %+v", got, want)
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})
	h := NewLogHooks(logger)
	ctx := context.Background()

	h.OnLayoutComplete(ctx, 12, 3, time.Millisecond, nil)
	h.OnRenderComplete(ctx, []string{"pdf"}, time.Millisecond, errors.New("disk full"))

	out := buf.String()
	for _, want := range []string{"laid out", "placed=12", "dropped=3", "rendered with error", "disk full"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

// Test implementations
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testHTTPHooks struct{ NoopHTTPHooks }

func TestTeeForwardsToAll(t *testing.T) {
	ctx := context.Background()
	var a, b Counters

	p := TeePipeline(&a, nil, &b)
	p.OnLayoutComplete(ctx, 7, 1, time.Millisecond, nil)

	c := TeeCache(&a, &b)
	c.OnCacheHit(ctx, "layout")

	for name, got := range map[string]Snapshot{"a": a.Snapshot(), "b": b.Snapshot()} {
		if got.Clouds != 1 || got.WordsPlaced != 7 || got.WordsDropped != 1 || got.CacheHits != 1 {
			t.Errorf("%s snapshot = %+v", name, got)
		}
	}
}
