package config

import (
	"github.com/matzehuels/surveycloud/pkg/cloud/layout"
	"github.com/matzehuels/surveycloud/pkg/cloud/palette"
	"github.com/matzehuels/surveycloud/pkg/fonts"
	"github.com/matzehuels/surveycloud/pkg/text"
)

const (
	defaultScale       = 2
	defaultServerAddr  = "127.0.0.1:8501"
	defaultServerTitle = "Survey Word Collector"
	maxCanvasSide      = 8192
	maxScale           = 8
)

// Default returns a Config populated with the built-in defaults.
func Default() Config {
	return Config{
		Render: Render{
			Width:           layout.DefaultWidth,
			Height:          layout.DefaultHeight,
			Background:      palette.DefaultBackground,
			Colormap:        palette.DefaultColormap,
			Font:            fonts.Default,
			MinFontSize:     layout.DefaultMinFontSize,
			MaxFontSize:     layout.DefaultMaxFontSize,
			RelativeScaling: layout.DefaultRelativeScaling,
			MaxWords:        layout.DefaultMaxWords,
			Margin:          layout.DefaultMargin,
			Seed:            layout.DefaultSeed,
			Scale:           defaultScale,
		},
		Stopwords: Stopwords{
			MinLength:   text.DefaultMinLength,
			FoldPlurals: true,
		},
		Storage: Storage{
			DSN: defaultStorePath(),
		},
		Cache: Cache{
			Dir: defaultCacheDir(),
		},
		Server: Server{
			Addr:  defaultServerAddr,
			Title: defaultServerTitle,
		},
	}
}
