package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/surveycloud/pkg/cloud/sink"
	"github.com/matzehuels/surveycloud/pkg/errors"
	"github.com/matzehuels/surveycloud/pkg/survey"
)

// testEnv points every XDG directory into a temp dir and returns a store path.
func testEnv(t *testing.T) (dir, store string) {
	t.Helper()
	dir = t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return dir, filepath.Join(dir, "responses.txt")
}

// captureStdout redirects command output into the returned buffer until the
// test ends.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestRootCommandRegistersCommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{
		"collect", "responses", "stats", "generate", "layout", "visualize",
		"stopwords", "cache", "config", "serve", "completion",
	} {
		if !slices.Contains(names, want) {
			t.Errorf("missing command %q (have %v)", want, names)
		}
	}

	for _, flag := range []string{"config", "store"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}

func TestCollectThenGenerate(t *testing.T) {
	dir, store := testEnv(t)

	for _, text := range []string{
		"Data quality matters; the data pipeline is slow.",
		"More data, better survey tooling.",
	} {
		if err := runCLI(t, "--store", store, "collect", "-q", "What should improve?", text); err != nil {
			t.Fatalf("collect: %v", err)
		}
	}

	responses, err := survey.NewFileStore(store).List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(responses) != 2 || responses[0].Question != "What should improve?" {
		t.Fatalf("stored responses = %+v", responses)
	}

	base := filepath.Join(dir, "out", "cloud")
	err = runCLI(t, "--store", store, "generate",
		"--width", "300", "--height", "150", "-f", "json,svg", "-o", base)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	f, err := os.Open(base + ".json")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	res, err := sink.ReadJSON(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Words) == 0 || res.Words[0].Word != "data" {
		t.Errorf("top word = %+v, want data", res.Words)
	}
	if res.Width != 300 || res.Height != 150 {
		t.Errorf("canvas = %dx%d, want 300x150", res.Width, res.Height)
	}
	if _, err := os.Stat(base + ".svg"); err != nil {
		t.Errorf("svg not written: %v", err)
	}
}

func TestGenerateFromFileAndWeights(t *testing.T) {
	dir, _ := testEnv(t)

	input := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(input, []byte("coffee coffee coffee remote remote builds"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := runCLI(t, "generate", input, "-f", "json", "--width", "300", "--height", "150", "--no-cache"); err != nil {
		t.Fatalf("generate file: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "notes.json")); err != nil {
		t.Errorf("output next to input not written: %v", err)
	}

	weights := filepath.Join(dir, "weights.json")
	if err := os.WriteFile(weights, []byte(`{"alpha": 5, "beta": 2}`), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "weighted.json")
	if err := runCLI(t, "generate", "--weights", weights, "-f", "json", "-o", out, "--width", "800", "--height", "400"); err != nil {
		t.Fatalf("generate weights: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	res, err := sink.ReadJSON(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Words) != 2 || res.Words[0].Word != "alpha" {
		t.Errorf("words = %+v, want alpha then beta", res.Words)
	}
}

func TestGenerateEmptyStoreIsNotAnError(t *testing.T) {
	dir, store := testEnv(t)

	if err := runCLI(t, "--store", store, "generate", "-o", filepath.Join(dir, "x.png")); err != nil {
		t.Fatalf("generate on empty store: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "x.png")); !os.IsNotExist(err) {
		t.Errorf("no output expected for empty input, stat err = %v", err)
	}
}

func TestReadsBeforeFirstCollect(t *testing.T) {
	dir, _ := testEnv(t)
	store := filepath.Join(dir, "not", "yet", "created.txt")

	for _, args := range [][]string{{"responses"}, {"responses", "--raw"}, {"stats"}, {"generate", "-o", filepath.Join(dir, "x.png")}} {
		if err := runCLI(t, append([]string{"--store", store}, args...)...); err != nil {
			t.Errorf("%v on a fresh store: %v", args, err)
		}
	}
}

func TestGenerateRejectsBadInput(t *testing.T) {
	dir, store := testEnv(t)
	if err := runCLI(t, "--store", store, "collect", "hello survey world"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"unknown format", []string{"-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"font sizes", []string{"--min-font-size", "50", "--max-font-size", "40"}, errors.ErrCodeInvalidConfig},
		{"scaling", []string{"--relative-scaling", "1.5"}, errors.ErrCodeInvalidConfig},
		{"colormap", []string{"--colormap", "sunset"}, errors.ErrCodeInvalidConfig},
		{"missing file", []string{filepath.Join(dir, "nope.txt")}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--store", store, "generate", "-o", filepath.Join(dir, "bad")}, tt.args...)
			err := runCLI(t, args...)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q (err: %v)", got, tt.code, err)
			}
		})
	}
}

func TestLayoutThenVisualize(t *testing.T) {
	dir, store := testEnv(t)
	if err := runCLI(t, "--store", store, "collect", "layout once, render many times, render again"); err != nil {
		t.Fatal(err)
	}

	layoutFile := filepath.Join(dir, "cloud.layout.json")
	if err := runCLI(t, "--store", store, "layout", "-o", layoutFile, "--width", "300", "--height", "150"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	if err := runCLI(t, "visualize", layoutFile, "-f", "png,pdf", "--scale", "1"); err != nil {
		t.Fatalf("visualize: %v", err)
	}
	for _, name := range []string{"cloud.png", "cloud.pdf"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestConfigInitThenLoad(t *testing.T) {
	dir, _ := testEnv(t)
	path := filepath.Join(dir, "cfg", "config.toml")

	if err := runCLI(t, "--config", path, "config", "init"); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if err := runCLI(t, "--config", path, "config", "init"); err == nil {
		t.Error("second init without --force should fail")
	}
	if err := runCLI(t, "--config", path, "config", "init", "--force"); err != nil {
		t.Errorf("init --force: %v", err)
	}
	if err := runCLI(t, "--config", path, "config", "show"); err != nil {
		t.Errorf("config show: %v", err)
	}
}

func TestBaseOptionsFromConfig(t *testing.T) {
	dir, _ := testEnv(t)
	path := filepath.Join(dir, "config.toml")
	stops := filepath.Join(dir, "stops.txt")
	if err := os.WriteFile(stops, []byte("acme\n# comment\nwidget\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfgText := `
[render]
width = 640
colormap = "plasma"
relative_scaling = 0

[stopwords]
extra = ["foo"]
file = "` + stops + `"
fold_plurals = false
`
	if err := os.WriteFile(path, []byte(cfgText), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	c.configPath = path
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	opts, err := baseOptions(cfg)
	if err != nil {
		t.Fatal(err)
	}

	if opts.Width != 640 || opts.Colormap != "plasma" {
		t.Errorf("render = %dx, %q", opts.Width, opts.Colormap)
	}
	if opts.RelativeScaling == nil || *opts.RelativeScaling != 0 {
		t.Errorf("RelativeScaling = %v, want explicit 0", opts.RelativeScaling)
	}
	if !opts.KeepPlurals {
		t.Error("fold_plurals = false should keep plurals")
	}
	tok := opts.TokenizerOptions()
	for _, w := range []string{"acme", "widget", "foo", "the"} {
		if !tok.Stopwords.Contains(w) {
			t.Errorf("stopwords missing %q", w)
		}
	}
}

func TestStoreFlagOverridesConfig(t *testing.T) {
	_, store := testEnv(t)

	c := New(io.Discard, LogInfo)
	c.storeDSN = store
	cfg, err := c.loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Storage.DSN != store {
		t.Errorf("DSN = %q, want %q", cfg.Storage.DSN, store)
	}
}

func TestCacheCommands(t *testing.T) {
	dir, store := testEnv(t)
	if err := runCLI(t, "--store", store, "collect", "cache these words please"); err != nil {
		t.Fatal(err)
	}
	if err := runCLI(t, "--store", store, "generate", "-f", "json", "-o", filepath.Join(dir, "c.json"), "--width", "300", "--height", "150"); err != nil {
		t.Fatal(err)
	}

	cacheDir := filepath.Join(dir, "cache", appName)
	if entries, _ := os.ReadDir(cacheDir); len(entries) == 0 {
		t.Fatalf("expected cache entries in %s", cacheDir)
	}
	for _, sub := range []string{"info", "path", "clear"} {
		if err := runCLI(t, "cache", sub); err != nil {
			t.Errorf("cache %s: %v", sub, err)
		}
	}
	if entries, _ := os.ReadDir(cacheDir); len(entries) != 0 {
		t.Errorf("cache clear left %d entries", len(entries))
	}
}

func TestInspectionCommands(t *testing.T) {
	_, store := testEnv(t)
	if err := runCLI(t, "--store", store, "collect", "first answer about onboarding"); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"responses"}, "onboarding"},
		{[]string{"responses", "--json"}, `"text": "first answer about onboarding"`},
		{[]string{"responses", "--raw"}, "Response: first answer about onboarding"},
		{[]string{"responses", "-n", "1"}, "onboarding"},
		{[]string{"stats"}, "Responses"},
		{[]string{"stats", "--top", "3"}, "onboarding"},
		{[]string{"stopwords", "--stopwords", "zzyzx"}, "zzyzx"},
		{[]string{"completion", "bash"}, ""},
	}
	for _, tt := range tests {
		out := captureStdout(t)
		if err := runCLI(t, append([]string{"--store", store}, tt.args...)...); err != nil {
			t.Errorf("%v: %v", tt.args, err)
			continue
		}
		if !strings.Contains(out.String(), tt.want) {
			t.Errorf("%v output missing %q:\n%s", tt.args, tt.want, out.String())
		}
	}
}
