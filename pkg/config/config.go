package config

import (
	_ "embed"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/surveycloud/pkg/cloud/layout"
	"github.com/matzehuels/surveycloud/pkg/errors"
	"github.com/matzehuels/surveycloud/pkg/text"
)

//go:embed sample_config.toml
var sampleConfig string

const appName = "surveycloud"

// Render holds the defaults for every generated cloud.
type Render struct {
	Width           int     `toml:"width"`
	Height          int     `toml:"height"`
	Background      string  `toml:"background"`
	Colormap        string  `toml:"colormap"`
	Font            string  `toml:"font"`
	MinFontSize     int     `toml:"min_font_size"`
	MaxFontSize     int     `toml:"max_font_size"`
	RelativeScaling float64 `toml:"relative_scaling"`
	MaxWords        int     `toml:"max_words"`
	Margin          int     `toml:"margin"`
	NoRotate        bool    `toml:"no_rotate"`
	Seed            uint64  `toml:"seed"`
	Scale           int     `toml:"scale"` // PNG pixel multiplier
}

// Stopwords extends or replaces the built-in English list.
type Stopwords struct {
	Extra          []string `toml:"extra"`
	File           string   `toml:"file"`
	DisableBuiltin bool     `toml:"disable_builtin"`
	MinLength      int      `toml:"min_length"`
	FoldPlurals    bool     `toml:"fold_plurals"`
}

// Storage selects the response store. DSN is a file path, file://,
// sqlite:// or mongodb:// URL.
type Storage struct {
	DSN string `toml:"dsn"`
}

// Cache configures pipeline caching.
type Cache struct {
	Dir       string `toml:"dir"`
	RedisAddr string `toml:"redis_addr"` // used by the server when set
	Disabled  bool   `toml:"disabled"`
	TTLHours  int    `toml:"ttl_hours"`
}

// Server configures the HTTP API.
type Server struct {
	Addr  string `toml:"addr"`
	Title string `toml:"title"`
}

// Config is the complete surveycloud configuration.
type Config struct {
	Render    Render    `toml:"render"`
	Stopwords Stopwords `toml:"stopwords"`
	Storage   Storage   `toml:"storage"`
	Cache     Cache     `toml:"cache"`
	Server    Server    `toml:"server"`
}

// DefaultPath returns the config file location using the XDG layout
// (~/.config/surveycloud/config.toml).
func DefaultPath() (string, error) {
	if base := os.Getenv("XDG_CONFIG_HOME"); strings.TrimSpace(base) != "" {
		return filepath.Join(base, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the config at path, or at DefaultPath when path is empty. It
// returns the resolved path and whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolved, exists, err := resolvePath(path)
	if err != nil {
		return nil, "", false, err
	}
	if exists {
		md, err := toml.DecodeFile(resolved, &cfg)
		if err != nil {
			return nil, "", false, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", resolved)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, "", false, errors.New(errors.ErrCodeInvalidConfig, "unknown key %q in %s", undecoded[0].String(), resolved)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func resolvePath(path string) (string, bool, error) {
	if path == "" {
		def, err := DefaultPath()
		if err != nil {
			return "", false, err
		}
		path = def
	} else {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		path = expanded
	}

	info, err := os.Stat(path)
	switch {
	case stderrors.Is(err, fs.ErrNotExist):
		return path, false, nil
	case err != nil:
		return "", false, errors.Wrap(errors.ErrCodeIO, err, "stat config")
	case info.IsDir():
		return "", false, errors.New(errors.ErrCodeInvalidPath, "config path %s is a directory", path)
	}
	return path, true, nil
}

// CreateSample writes the annotated sample configuration to path. An
// existing file is left untouched unless force is set.
func CreateSample(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrCodeInvalidPath, "%s already exists", path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "create config directory")
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write sample config")
	}
	return nil
}

// Sample returns the annotated sample configuration.
func Sample() string { return sampleConfig }

// Encode writes c as TOML.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// =============================================================================
// Derived Settings
// =============================================================================

// LayoutConfig converts the [render] section into a layout configuration.
func (c *Config) LayoutConfig() layout.Config {
	r := c.Render
	return layout.Config{
		Width:           r.Width,
		Height:          r.Height,
		Background:      r.Background,
		Colormap:        r.Colormap,
		Font:            r.Font,
		MinFontSize:     r.MinFontSize,
		MaxFontSize:     r.MaxFontSize,
		RelativeScaling: r.RelativeScaling,
		MaxWords:        r.MaxWords,
		Margin:          r.Margin,
		MaxSpiralSteps:  layout.DefaultMaxSpiralSteps,
		NoRotate:        r.NoRotate,
		Seed:            r.Seed,
	}
}

// StopwordSet builds the active stopword list: the built-in English list
// (unless disabled), plus the word file, plus the extra words.
func (c *Config) StopwordSet() (text.StopwordSet, error) {
	set := text.NewStopwordSet()
	if !c.Stopwords.DisableBuiltin {
		set = text.English()
	}
	if c.Stopwords.File != "" {
		f, err := os.Open(c.Stopwords.File)
		if err != nil {
			return text.StopwordSet{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "stopword file")
		}
		defer f.Close()
		extra, err := text.ReadStopwords(f)
		if err != nil {
			return text.StopwordSet{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "stopword file %s", c.Stopwords.File)
		}
		set = set.Union(extra)
	}
	return set.With(c.Stopwords.Extra...), nil
}

// TokenizerOptions converts the [stopwords] section and the render word cap
// into tokenizer options.
func (c *Config) TokenizerOptions() (text.Options, error) {
	set, err := c.StopwordSet()
	if err != nil {
		return text.Options{}, err
	}
	return text.Options{
		Stopwords:   set,
		MinLength:   c.Stopwords.MinLength,
		MaxWords:    c.Render.MaxWords,
		FoldPlurals: c.Stopwords.FoldPlurals,
	}, nil
}

// CacheTTL returns the configured artifact lifetime. Zero keeps the
// per-kind defaults.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLHours) * time.Hour
}

// =============================================================================
// Paths
// =============================================================================

func expandPath(p string) (string, error) {
	if p == "" {
		return p, nil
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p[1:], "/"))
	}
	abs, err := filepath.Abs(filepath.Clean(p))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", p, err)
	}
	return abs, nil
}

func xdgDir(env string, fallback ...string) string {
	if base := os.Getenv(env); strings.TrimSpace(base) != "" {
		return filepath.Join(base, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(append([]string{"~"}, append(fallback, appName)...)...)
	}
	return filepath.Join(append([]string{home}, append(fallback, appName)...)...)
}

func defaultCacheDir() string { return xdgDir("XDG_CACHE_HOME", ".cache") }

func defaultStorePath() string {
	return filepath.Join(xdgDir("XDG_DATA_HOME", ".local", "share"), "survey_responses.txt")
}
