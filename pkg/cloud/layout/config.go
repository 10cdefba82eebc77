package layout

import (
	"math"

	"github.com/matzehuels/surveycloud/pkg/cloud/palette"
	"github.com/matzehuels/surveycloud/pkg/errors"
	"github.com/matzehuels/surveycloud/pkg/fonts"
)

const (
	DefaultWidth           = 800
	DefaultHeight          = 400
	DefaultMinFontSize     = 10
	DefaultMaxFontSize     = 100
	DefaultRelativeScaling = 0.5
	DefaultMaxWords        = 200
	DefaultMargin          = 2
	DefaultMaxSpiralSteps  = 12000
	DefaultSeed            = 42
)

// Config describes one layout run. It is a value type; the engine never
// modifies it.
type Config struct {
	Width           int        `json:"width"`
	Height          int        `json:"height"`
	Background      string     `json:"background"`
	Colormap        string     `json:"colormap"`
	Font            string     `json:"font"`
	MinFontSize     int        `json:"min_font_size"`
	MaxFontSize     int        `json:"max_font_size"`
	RelativeScaling float64    `json:"relative_scaling"`
	MaxWords        int        `json:"max_words"`        // 0 places every word
	Margin          int        `json:"margin"`           // free pixels kept around each word
	MaxSpiralSteps  int        `json:"max_spiral_steps"` // per orientation; 0 means DefaultMaxSpiralSteps
	NoRotate        bool       `json:"no_rotate"`        // disable the 90° retry
	Seed            uint64     `json:"seed"`
	Mask            *ShapeMask `json:"-"`
}

// DefaultConfig returns an 800x400 white canvas with the viridis colormap,
// font sizes 10-100, relative scaling 0.5, 200 words and seed 42.
func DefaultConfig() Config {
	return Config{
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		Background:      palette.DefaultBackground,
		Colormap:        palette.DefaultColormap,
		Font:            fonts.Default,
		MinFontSize:     DefaultMinFontSize,
		MaxFontSize:     DefaultMaxFontSize,
		RelativeScaling: DefaultRelativeScaling,
		MaxWords:        DefaultMaxWords,
		Margin:          DefaultMargin,
		MaxSpiralSteps:  DefaultMaxSpiralSteps,
		Seed:            DefaultSeed,
	}
}

// Validate reports the first problem with c as an INVALID_CONFIG error.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return errors.New(errors.ErrCodeInvalidConfig, "canvas must be positive, got %dx%d", c.Width, c.Height)
	case c.MinFontSize < 1:
		return errors.New(errors.ErrCodeInvalidConfig, "min font size must be at least 1, got %d", c.MinFontSize)
	case c.MinFontSize > c.MaxFontSize:
		return errors.New(errors.ErrCodeInvalidConfig, "min font size %d exceeds max font size %d", c.MinFontSize, c.MaxFontSize)
	case math.IsNaN(c.RelativeScaling) || c.RelativeScaling < 0 || c.RelativeScaling > 1:
		return errors.New(errors.ErrCodeInvalidConfig, "relative scaling must be within [0, 1], got %v", c.RelativeScaling)
	case c.MaxWords < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "max words cannot be negative, got %d", c.MaxWords)
	case c.Margin < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "margin cannot be negative, got %d", c.Margin)
	case c.MaxSpiralSteps < 0:
		return errors.New(errors.ErrCodeInvalidConfig, "max spiral steps cannot be negative, got %d", c.MaxSpiralSteps)
	}
	if _, err := palette.Lookup(c.Colormap); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "colormap")
	}
	if _, err := palette.ParseColor(c.Background); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "background")
	}
	if _, err := fonts.Get(c.Font); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "font")
	}
	return nil
}

func (c Config) spiralSteps() int {
	if c.MaxSpiralSteps == 0 {
		return DefaultMaxSpiralSteps
	}
	return c.MaxSpiralSteps
}
