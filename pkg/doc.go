// Package pkg provides the core libraries for surveycloud, a survey word
// cloud generator.
//
// # Overview
//
// Surveycloud collects free-text survey responses and turns the words people
// use most into a word cloud. The pkg directory is organized into these areas:
//
//  1. [text] - Tokenization, stopwords and word counting
//  2. [cloud] - Layout, colour palettes and output sinks
//  3. [survey] - Response model and response stores (file, SQLite, MongoDB)
//  4. [pipeline] - Orchestration (tokenize → layout → render) with caching
//  5. [server] - HTTP form, JSON API and rendered clouds
//
// # Architecture
//
// The typical data flow through surveycloud:
//
//	Survey responses / plain text
//	         ↓
//	    [text] package (tokenize, drop stopwords, count)
//	         ↓
//	    [cloud/layout] package (size words, spiral placement)
//	         ↓
//	    [cloud/sink] package (PNG, SVG, PDF, JSON)
//
// # Quick Start
//
// Count words and render a PNG:
//
//	import (
//	    "github.com/matzehuels/surveycloud/pkg/cloud/layout"
//	    "github.com/matzehuels/surveycloud/pkg/cloud/sink"
//	    "github.com/matzehuels/surveycloud/pkg/text"
//	)
//
//	vocab, _ := text.Count(corpus, text.DefaultOptions())
//	res, _ := layout.Layout(vocab, layout.DefaultConfig())
//	png, _ := sink.RenderPNG(res, sink.WithScale(2))
//
// The same flow with caching, as used by the CLI and the server:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
//	defer runner.Close()
//	result, _ := runner.Execute(ctx, pipeline.Options{Text: corpus, Formats: []string{"svg"}})
//
// # Main Packages
//
// [text] - Unicode-aware tokenizer with NFKC normalization, case folding,
// built-in English stopwords and optional plural folding. [text.Vocabulary]
// is the ordered list of weighted words every later stage consumes.
//
// [cloud/layout] - Deterministic spiral placement over an occupancy bitmap.
// Font sizes follow relative weight; words that fit nowhere are dropped and
// reported.
//
// [cloud/palette] - Named colormaps and background colours.
//
// [cloud/sink] - Output formats (PNG, SVG, PDF, JSON).
//
// [fonts] - Embedded fonts shared by layout measurement and rendering.
//
// [survey] - Responses and the [survey.Store] backends.
//
// [cache] - File, Redis and null caches plus content-hash cache keys.
//
// [config] - TOML configuration with defaults and validation.
//
// [observability] - Hooks for logging and counting pipeline, cache and HTTP
// events.
//
// [errors] - Error codes and user-facing messages.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/cloud/layout/... # Specific package
//	go test -run Example ./pkg/... # Examples only
//
// [text]: https://pkg.go.dev/github.com/matzehuels/surveycloud/pkg/text
// [cloud]: https://pkg.go.dev/github.com/matzehuels/surveycloud/pkg/cloud
// [cloud/layout]: https://pkg.go.dev/github.com/matzehuels/surveycloud/pkg/cloud/layout
// [cloud/palette]: https://pkg.go.dev/github.com/matzehuels/surveycloud/pkg/cloud/palette
// [cloud/sink]: https://pkg.go.dev/github.com/matzehuels/surveycloud/pkg/cloud/sink
// [fonts]: https://pkg.go.dev/github.com/matzehuels/surveycloud/pkg/fonts
// [survey]: https://pkg.go.dev/github.com/matzehuels/surveycloud/pkg/survey
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/surveycloud/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/surveycloud/pkg/server
// [cache]: https://pkg.go.dev/github.com/matzehuels/surveycloud/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/surveycloud/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/surveycloud/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/surveycloud/pkg/errors
package pkg
