// Package pipeline provides the word-cloud pipeline for surveycloud.
//
// This package implements the complete tokenize → layout → render pipeline
// used by the CLI and the HTTP server. Both entry points go through the same
// defaults, validation and caching.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Tokenize: Turn raw response text into a weighted vocabulary
//  2. Layout: Place each word on the canvas (see [layout.Layout])
//  3. Render: Generate output in various formats (PNG, SVG, PDF, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
// A pre-built vocabulary in [Options.Weights] skips the tokenize stage.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Text:    corpus,
//	    Formats: []string{"png"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if errors.Is(err, errors.ErrCodeEmptyInput) {
//	    // nothing to render
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/surveycloud/pkg/cache"
	"github.com/matzehuels/surveycloud/pkg/cloud/layout"
	"github.com/matzehuels/surveycloud/pkg/cloud/palette"
	"github.com/matzehuels/surveycloud/pkg/errors"
	"github.com/matzehuels/surveycloud/pkg/fonts"
	"github.com/matzehuels/surveycloud/pkg/text"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultScale is the PNG pixel multiplier.
	DefaultScale = 2

	// MaxWordsLimit caps the vocabulary accepted from users.
	MaxWordsLimit = 2000

	// MaxScale caps the PNG pixel multiplier.
	MaxScale = 8

	// MaxCanvasSide caps canvas width and height in pixels.
	MaxCanvasSide = 8192
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatSVG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// ContentTypes maps each format to its MIME type.
var ContentTypes = map[string]string{
	FormatPNG:  "image/png",
	FormatSVG:  "image/svg+xml",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the word-cloud pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input: raw text, or a pre-built vocabulary that skips tokenization.
	Text    string          `json:"text,omitempty"`
	Weights text.Vocabulary `json:"weights,omitempty"`
	Refresh bool            `json:"refresh,omitempty"` // bypass cached results

	// Tokenize options
	ExtraStopwords []string `json:"extra_stopwords,omitempty"`
	NoBuiltinStops bool     `json:"no_builtin_stopwords,omitempty"`
	MinLength      int      `json:"min_length,omitempty"`
	KeepPlurals    bool     `json:"keep_plurals,omitempty"`

	// Layout options
	Width           int      `json:"width,omitempty"`
	Height          int      `json:"height,omitempty"`
	Background      string   `json:"background,omitempty"`
	Colormap        string   `json:"colormap,omitempty"`
	Font            string   `json:"font,omitempty"`
	MinFontSize     int      `json:"min_font_size,omitempty"`
	MaxFontSize     int      `json:"max_font_size,omitempty"`
	RelativeScaling *float64 `json:"relative_scaling,omitempty"` // nil means layout.DefaultRelativeScaling
	MaxWords        int      `json:"max_words,omitempty"`
	Margin          int      `json:"margin,omitempty"`
	NoRotate        bool     `json:"no_rotate,omitempty"`
	Seed            uint64   `json:"seed,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Scale     int      `json:"scale,omitempty"`
	EmbedFont bool     `json:"embed_font,omitempty"`
	Title     string   `json:"title,omitempty"`

	// Runtime options (not serialized)
	Logger     *log.Logger       `json:"-"`
	Stopwords  text.StopwordSet  `json:"-"` // replaces the built-in list when non-empty
	Mask       *layout.ShapeMask `json:"-"`
	Typesetter layout.Typesetter `json:"-"` // nil uses the font typesetter

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Vocabulary is the weighted word list fed to the layout.
	Vocabulary text.Vocabulary

	// VocabHash is the content hash of the vocabulary.
	VocabHash string

	// Layout holds the placed and dropped words.
	Layout layout.Result

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Words        int
	Placed       int
	Dropped      int
	TokenizeTime time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	TokenizeHit bool // Whether the vocabulary came from cache
	LayoutHit   bool // Whether the layout came from cache
	RenderHit   bool // Whether all artifacts came from cache
}

// Float returns a pointer to v, for Options.RelativeScaling.
func Float(v float64) *float64 { return &v }

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, svg, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, trimming blanks and
// lowercasing. An empty string yields PNG.
func ParseFormats(s string) []string {
	var out []string
	for f := range strings.SplitSeq(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return []string{FormatPNG}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForTokenize(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetTokenizeDefaults sets default values for tokenization.
func (o *Options) SetTokenizeDefaults() {
	if o.MinLength == 0 {
		o.MinLength = text.DefaultMinLength
	}
	if o.MaxWords == 0 {
		o.MaxWords = layout.DefaultMaxWords
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForTokenize checks that there is input and applies tokenizer defaults.
func (o *Options) ValidateForTokenize() error {
	o.SetTokenizeDefaults()
	if strings.TrimSpace(o.Text) == "" && len(o.Weights) == 0 {
		return errors.New(errors.ErrCodeEmptyInput, "no survey text to analyze")
	}
	if o.MinLength < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "min length must be at least 1, got %d", o.MinLength)
	}
	if o.MaxWords < 1 || o.MaxWords > MaxWordsLimit {
		return errors.New(errors.ErrCodeInvalidConfig, "max words must be between 1 and %d, got %d", MaxWordsLimit, o.MaxWords)
	}
	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = layout.DefaultWidth
	}
	if o.Height == 0 {
		o.Height = layout.DefaultHeight
	}
	if o.Background == "" {
		o.Background = palette.DefaultBackground
	}
	if o.Colormap == "" {
		o.Colormap = palette.DefaultColormap
	}
	if o.Font == "" {
		o.Font = fonts.Default
	}
	if o.MinFontSize == 0 {
		o.MinFontSize = layout.DefaultMinFontSize
	}
	if o.MaxFontSize == 0 {
		o.MaxFontSize = layout.DefaultMaxFontSize
	}
	if o.RelativeScaling == nil {
		o.RelativeScaling = Float(layout.DefaultRelativeScaling)
	}
	if o.MaxWords == 0 {
		o.MaxWords = layout.DefaultMaxWords
	}
	if o.Seed == 0 {
		o.Seed = layout.DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Width > MaxCanvasSide || o.Height > MaxCanvasSide {
		return errors.New(errors.ErrCodeInvalidConfig, "canvas %dx%d exceeds %d pixels per side", o.Width, o.Height, MaxCanvasSide)
	}
	if o.MaxWords > MaxWordsLimit {
		return errors.New(errors.ErrCodeInvalidConfig, "max words must be between 1 and %d, got %d", MaxWordsLimit, o.MaxWords)
	}
	return o.LayoutConfig().Validate()
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if o.Scale < 1 || o.Scale > MaxScale {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must be between 1 and %d, got %d", MaxScale, o.Scale)
	}
	return ValidateFormats(o.Formats)
}

// TokenizerOptions returns the tokenizer settings.
func (o *Options) TokenizerOptions() text.Options {
	stops := o.Stopwords
	if stops.Len() == 0 && !o.NoBuiltinStops {
		stops = text.English()
	}
	return text.Options{
		Stopwords:   stops.With(o.ExtraStopwords...),
		MinLength:   o.MinLength,
		MaxWords:    o.MaxWords,
		FoldPlurals: !o.KeepPlurals,
	}
}

// LayoutConfig returns the layout engine configuration.
func (o *Options) LayoutConfig() layout.Config {
	scaling := layout.DefaultRelativeScaling
	if o.RelativeScaling != nil {
		scaling = *o.RelativeScaling
	}
	return layout.Config{
		Width:           o.Width,
		Height:          o.Height,
		Background:      o.Background,
		Colormap:        o.Colormap,
		Font:            o.Font,
		MinFontSize:     o.MinFontSize,
		MaxFontSize:     o.MaxFontSize,
		RelativeScaling: scaling,
		MaxWords:        o.MaxWords,
		Margin:          o.Margin,
		NoRotate:        o.NoRotate,
		Seed:            o.Seed,
		Mask:            o.Mask,
	}
}

// VocabularyKeyOpts returns cache key options for tokenization.
func (o *Options) VocabularyKeyOpts() cache.VocabularyKeyOpts {
	tok := o.TokenizerOptions()
	stopHash, _ := cache.HashJSON(tok.Stopwords.Words())
	return cache.VocabularyKeyOpts{
		MinLength:     tok.MinLength,
		MaxWords:      tok.MaxWords,
		FoldPlurals:   tok.FoldPlurals,
		StopwordsHash: stopHash,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	cfg := o.LayoutConfig()
	font := cfg.Font
	if o.Typesetter != nil {
		font = fmt.Sprintf("%s/%T", font, o.Typesetter)
	}
	var mask string
	if cfg.Mask != nil {
		mask = cfg.Mask.Fingerprint()
	}
	return cache.LayoutKeyOpts{
		Width:           cfg.Width,
		Height:          cfg.Height,
		MinFontSize:     cfg.MinFontSize,
		MaxFontSize:     cfg.MaxFontSize,
		RelativeScaling: cfg.RelativeScaling,
		MaxWords:        cfg.MaxWords,
		Margin:          cfg.Margin,
		MaxSpiralSteps:  cfg.MaxSpiralSteps,
		NoRotate:        cfg.NoRotate,
		Seed:            cfg.Seed,
		Colormap:        cfg.Colormap,
		Background:      cfg.Background,
		Font:            font,
		Mask:            mask,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatPNG:
		opts.Scale = o.Scale
	case FormatSVG:
		opts.EmbedFont = o.EmbedFont
		opts.Title = o.Title
	case FormatPDF:
		opts.Title = o.Title
	}
	return opts
}
