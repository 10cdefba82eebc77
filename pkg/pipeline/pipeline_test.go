package pipeline

import (
	"testing"

	"github.com/matzehuels/surveycloud/pkg/cloud/layout"
	"github.com/matzehuels/surveycloud/pkg/errors"
	"github.com/matzehuels/surveycloud/pkg/text"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"png", false},
		{"svg", false},
		{"pdf", false},
		{"json", false},
		{"invalid", true},
		{"PNG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s, want INVALID_FORMAT", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"png"}},
		{"svg", []string{"svg"}},
		{"PNG, svg ,,pdf", []string{"png", "svg", "pdf"}},
		{" , ", []string{"png"}},
	}
	for _, tt := range tests {
		got := ParseFormats(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseFormats(%q) = %v, want %v", tt.in, got, tt.want)
				break
			}
		}
	}
}

func TestOptionsValidateForTokenize(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"valid text", Options{Text: "great survey"}, ""},
		{"valid weights", Options{Weights: text.Vocabulary{{Word: "data", Weight: 1}}}, ""},
		{"no input", Options{}, errors.ErrCodeEmptyInput},
		{"blank text", Options{Text: "  \n\t"}, errors.ErrCodeEmptyInput},
		{"negative min length", Options{Text: "x", MinLength: -1}, errors.ErrCodeInvalidConfig},
		{"too many words", Options{Text: "x", MaxWords: MaxWordsLimit + 1}, errors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForTokenize()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Fatalf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsValidateForLayout(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		ok   bool
	}{
		{"defaults", Options{}, true},
		{"font range", Options{MinFontSize: 50, MaxFontSize: 40}, false},
		{"scaling above one", Options{RelativeScaling: Float(1.5)}, false},
		{"scaling zero is valid", Options{RelativeScaling: Float(0)}, true},
		{"negative width", Options{Width: -5}, false},
		{"huge canvas", Options{Width: MaxCanvasSide + 1}, false},
		{"bad colormap", Options{Colormap: "sparkle"}, false},
		{"bad background", Options{Background: "#12"}, false},
		{"too many words", Options{MaxWords: MaxWordsLimit + 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateForLayout()
			if tt.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Fatalf("error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Text: "survey"}

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("First validation failed: %v", err)
	}

	originalWidth := opts.Width
	originalFormats := opts.Formats
	originalSeed := opts.Seed

	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("Second validation failed: %v", err)
	}

	if opts.Width != originalWidth {
		t.Error("Width changed on second call")
	}
	if len(opts.Formats) != len(originalFormats) {
		t.Error("Formats changed on second call")
	}
	if opts.Seed != originalSeed {
		t.Error("Seed changed on second call")
	}
}

func TestSetLayoutDefaults(t *testing.T) {
	opts := Options{}
	opts.SetLayoutDefaults()

	if opts.Width != layout.DefaultWidth || opts.Height != layout.DefaultHeight {
		t.Errorf("canvas should be %dx%d, got %dx%d", layout.DefaultWidth, layout.DefaultHeight, opts.Width, opts.Height)
	}
	if opts.Seed != layout.DefaultSeed {
		t.Errorf("Seed should be %d, got %d", layout.DefaultSeed, opts.Seed)
	}
	if opts.RelativeScaling == nil || *opts.RelativeScaling != layout.DefaultRelativeScaling {
		t.Errorf("RelativeScaling should default to %v", layout.DefaultRelativeScaling)
	}
	if opts.Colormap != "viridis" || opts.Background != "white" {
		t.Errorf("colours should default to viridis on white, got %s on %s", opts.Colormap, opts.Background)
	}
	if opts.Logger == nil {
		t.Error("Logger should be set")
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{}
	opts.SetRenderDefaults()

	if len(opts.Formats) != 1 || opts.Formats[0] != FormatPNG {
		t.Errorf("Formats should be [png], got %v", opts.Formats)
	}
	if opts.Scale != DefaultScale {
		t.Errorf("Scale should be %d, got %d", DefaultScale, opts.Scale)
	}
}

func TestTokenizerOptions(t *testing.T) {
	opts := Options{ExtraStopwords: []string{"Survey"}}
	opts.SetTokenizeDefaults()

	tok := opts.TokenizerOptions()
	if !tok.Stopwords.Contains("the") {
		t.Error("built-in stopwords should be active by default")
	}
	if !tok.Stopwords.Contains("survey") {
		t.Error("extra stopwords should be normalized and added")
	}
	if !tok.FoldPlurals {
		t.Error("plural folding should be on by default")
	}

	opts.NoBuiltinStops = true
	opts.KeepPlurals = true
	tok = opts.TokenizerOptions()
	if tok.Stopwords.Contains("the") {
		t.Error("built-in stopwords should be disabled")
	}
	if tok.FoldPlurals {
		t.Error("KeepPlurals should disable folding")
	}

	opts.Stopwords = text.NewStopwordSet("only")
	tok = opts.TokenizerOptions()
	if !tok.Stopwords.Contains("only") || tok.Stopwords.Contains("the") {
		t.Error("explicit stopword set should replace the built-in list")
	}
}

func TestKeyOptsDistinguishSettings(t *testing.T) {
	a := Options{}
	a.SetLayoutDefaults()
	b := a
	b.Seed = 7

	if a.LayoutKeyOpts() == b.LayoutKeyOpts() {
		t.Error("different seeds must give different layout keys")
	}

	c := a
	c.Typesetter = layout.BoxTypesetter{}
	if a.LayoutKeyOpts() == c.LayoutKeyOpts() {
		t.Error("a custom typesetter must give a different layout key")
	}

	a.Scale = 1
	b.Scale = 3
	if a.ArtifactKeyOpts(FormatSVG) != b.ArtifactKeyOpts(FormatSVG) {
		t.Error("PNG scale must not affect SVG keys")
	}
	if a.ArtifactKeyOpts(FormatPNG) == b.ArtifactKeyOpts(FormatPNG) {
		t.Error("PNG scale must affect PNG keys")
	}

	s1 := Options{ExtraStopwords: []string{"survey"}}
	s2 := Options{}
	s1.SetTokenizeDefaults()
	s2.SetTokenizeDefaults()
	if s1.VocabularyKeyOpts() == s2.VocabularyKeyOpts() {
		t.Error("extra stopwords must give a different vocabulary key")
	}
}
