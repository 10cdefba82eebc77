package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/surveycloud/pkg/buildinfo"
	"github.com/matzehuels/surveycloud/pkg/cache"
	"github.com/matzehuels/surveycloud/pkg/config"
	"github.com/matzehuels/surveycloud/pkg/pipeline"
	"github.com/matzehuels/surveycloud/pkg/survey"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "surveycloud"

	// defaultOutputBase names generated files when no input file is given.
	defaultOutputBase = "wordcloud"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string // --config
	storeDSN   string // --store, overrides [storage] dsn
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Surveycloud collects survey answers and draws them as word clouds",
		Long: `Surveycloud collects free-text survey responses, stores them in an
append-only log (or SQLite/MongoDB), and renders the accumulated text as a
frequency-based word cloud in PNG, SVG, PDF or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/surveycloud/config.toml)")
	root.PersistentFlags().StringVar(&c.storeDSN, "store", "", "response store: file path, sqlite://path or mongodb://uri")

	// Register all subcommands
	root.AddCommand(c.collectCommand())
	root.AddCommand(c.responsesCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.stopwordsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig loads the configuration file once per process. A missing file
// yields the defaults.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, path, exists, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if exists {
		c.Logger.Debug("loaded config", "path", path)
	}
	if c.storeDSN != "" {
		cfg.Storage.DSN = c.storeDSN
	}
	c.cfg = cfg
	return cfg, nil
}

// openStore opens the configured response store.
func (c *CLI) openStore(ctx context.Context) (survey.Store, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("opening store", "dsn", cfg.Storage.DSN)
	return survey.Open(ctx, cfg.Storage.DSN)
}

// baseOptions converts the configured defaults into pipeline options that
// command-line flags then override.
func baseOptions(cfg *config.Config) (pipeline.Options, error) {
	r := cfg.Render
	opts := pipeline.Options{
		ExtraStopwords:  cfg.Stopwords.Extra,
		NoBuiltinStops:  cfg.Stopwords.DisableBuiltin,
		MinLength:       cfg.Stopwords.MinLength,
		KeepPlurals:     !cfg.Stopwords.FoldPlurals,
		Width:           r.Width,
		Height:          r.Height,
		Background:      r.Background,
		Colormap:        r.Colormap,
		Font:            r.Font,
		MinFontSize:     r.MinFontSize,
		MaxFontSize:     r.MaxFontSize,
		RelativeScaling: pipeline.Float(r.RelativeScaling),
		MaxWords:        r.MaxWords,
		Margin:          r.Margin,
		NoRotate:        r.NoRotate,
		Seed:            r.Seed,
		Scale:           r.Scale,
	}
	if cfg.Stopwords.File != "" {
		set, err := cfg.StopwordSet()
		if err != nil {
			return pipeline.Options{}, err
		}
		opts.Stopwords = set
	}
	return opts, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	ch, err := newCache(cfg, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(ch, nil, c.Logger)
	runner.TTL = cfg.CacheTTL()
	return runner, nil
}

func newCache(cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache.Disabled || cfg.Cache.Dir == "" {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(cfg.Cache.Dir)
}
