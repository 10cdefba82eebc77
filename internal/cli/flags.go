package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/matzehuels/surveycloud/pkg/cloud/layout"
	"github.com/matzehuels/surveycloud/pkg/cloud/palette"
	"github.com/matzehuels/surveycloud/pkg/config"
	"github.com/matzehuels/surveycloud/pkg/errors"
	"github.com/matzehuels/surveycloud/pkg/fonts"
	"github.com/matzehuels/surveycloud/pkg/pipeline"
)

// cloudFlags holds the tokenizer and layout flags shared by generate, layout
// and serve. Only flags set on the command line override the config file.
type cloudFlags struct {
	width           int
	height          int
	background      string
	colormap        string
	font            string
	minFontSize     int
	maxFontSize     int
	relativeScaling float64
	maxWords        int
	margin          int
	noRotate        bool
	seed            uint64
	stopwords       []string
	noBuiltinStops  bool
	minLength       int
	keepPlurals     bool
	mask            string

	flags *pflag.FlagSet
}

// register adds the flags to cmd with the built-in defaults as help values.
func (f *cloudFlags) register(cmd *cobra.Command) {
	def := config.Default()
	fs := cmd.Flags()
	f.flags = fs

	fs.IntVar(&f.width, "width", def.Render.Width, "canvas width in pixels")
	fs.IntVar(&f.height, "height", def.Render.Height, "canvas height in pixels")
	fs.StringVar(&f.background, "bg", def.Render.Background, "background colour: name or hex ("+strings.Join(palette.Backgrounds(), ", ")+")")
	fs.StringVar(&f.colormap, "colormap", def.Render.Colormap, "colormap: "+strings.Join(palette.Names(), ", "))
	fs.StringVar(&f.font, "font", def.Render.Font, "font: "+strings.Join(fonts.Names(), ", "))
	fs.IntVar(&f.minFontSize, "min-font-size", def.Render.MinFontSize, "smallest font size in pixels")
	fs.IntVar(&f.maxFontSize, "max-font-size", def.Render.MaxFontSize, "largest font size in pixels")
	fs.Float64Var(&f.relativeScaling, "relative-scaling", def.Render.RelativeScaling, "weight influence on size, 0 (rank only) to 1 (linear)")
	fs.IntVar(&f.maxWords, "max-words", def.Render.MaxWords, "maximum number of words (1-2000)")
	fs.IntVar(&f.margin, "margin", def.Render.Margin, "empty pixels around each word")
	fs.BoolVar(&f.noRotate, "no-rotate", false, "never rotate words")
	fs.Uint64Var(&f.seed, "seed", def.Render.Seed, "random seed for placement and rotation")
	fs.StringSliceVar(&f.stopwords, "stopwords", nil, "extra stopwords (comma-separated)")
	fs.BoolVar(&f.noBuiltinStops, "no-builtin-stopwords", false, "do not remove the built-in English stopwords")
	fs.IntVar(&f.minLength, "min-length", def.Stopwords.MinLength, "shortest word kept, in characters")
	fs.BoolVar(&f.keepPlurals, "keep-plurals", false, "do not fold plurals onto their singular form")
	fs.StringVar(&f.mask, "mask", "", "PNG shape mask: words are placed on dark, opaque pixels only")
}

// apply overrides opts with the flags set on the command line and loads the
// shape mask, if any.
func (f *cloudFlags) apply(opts *pipeline.Options) error {
	set := func(name string) bool { return f.flags != nil && f.flags.Changed(name) }

	if set("width") {
		opts.Width = f.width
	}
	if set("height") {
		opts.Height = f.height
	}
	if set("bg") {
		opts.Background = strings.ToLower(strings.TrimSpace(f.background))
	}
	if set("colormap") {
		opts.Colormap = strings.ToLower(strings.TrimSpace(f.colormap))
	}
	if set("font") {
		opts.Font = strings.ToLower(strings.TrimSpace(f.font))
	}
	if set("min-font-size") {
		opts.MinFontSize = f.minFontSize
	}
	if set("max-font-size") {
		opts.MaxFontSize = f.maxFontSize
	}
	if set("relative-scaling") {
		opts.RelativeScaling = pipeline.Float(f.relativeScaling)
	}
	if set("max-words") {
		opts.MaxWords = f.maxWords
	}
	if set("margin") {
		opts.Margin = f.margin
	}
	if set("no-rotate") {
		opts.NoRotate = f.noRotate
	}
	if set("seed") {
		opts.Seed = f.seed
	}
	if set("stopwords") {
		opts.ExtraStopwords = append(opts.ExtraStopwords, f.stopwords...)
	}
	if set("no-builtin-stopwords") {
		opts.NoBuiltinStops = f.noBuiltinStops
	}
	if set("min-length") {
		opts.MinLength = f.minLength
	}
	if set("keep-plurals") {
		opts.KeepPlurals = f.keepPlurals
	}

	if f.mask != "" {
		mask, err := readMask(f.mask)
		if err != nil {
			return err
		}
		opts.Mask = mask
	}
	return nil
}

func readMask(path string) (*layout.ShapeMask, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "mask %s", path)
	}
	defer file.Close()
	mask, err := layout.ReadShapeMask(file)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "mask %s", path)
	}
	return mask, nil
}

// outputFlags holds the render flags of generate and visualize.
type outputFlags struct {
	formats   string
	output    string
	scale     int
	embedFont bool
	title     string
	noCache   bool
	refresh   bool

	flags *pflag.FlagSet
}

func (f *outputFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	f.flags = fs

	fs.StringVarP(&f.formats, "format", "f", "", "output format(s): png (default), svg, pdf, json (comma-separated)")
	fs.StringVarP(&f.output, "output", "o", "", "output file (single format), base path (multiple), or - for stdout")
	fs.IntVar(&f.scale, "scale", pipeline.DefaultScale, "PNG pixel multiplier (1-8)")
	fs.BoolVar(&f.embedFont, "embed-font", false, "embed the font in SVG output")
	fs.StringVar(&f.title, "title", "", "title for SVG and PDF output")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached results and recompute")
}

// apply sets the render fields of opts and validates the format list.
func (f *outputFlags) apply(opts *pipeline.Options) error {
	opts.Formats = pipeline.ParseFormats(f.formats)
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return err
	}
	if f.flags != nil && f.flags.Changed("scale") {
		opts.Scale = f.scale
	}
	opts.EmbedFont = f.embedFont
	opts.Title = f.title
	opts.Refresh = f.refresh
	if len(opts.Formats) > 1 && f.output == stdoutPath {
		return errors.New(errors.ErrCodeInvalidInput, "cannot write %d formats to stdout", len(opts.Formats))
	}
	return nil
}
