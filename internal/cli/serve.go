package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/surveycloud/pkg/cache"
	"github.com/matzehuels/surveycloud/pkg/config"
	"github.com/matzehuels/surveycloud/pkg/observability"
	"github.com/matzehuels/surveycloud/pkg/pipeline"
	"github.com/matzehuels/surveycloud/pkg/server"
)

// serveCommand creates the serve command running the HTTP collection form
// and cloud API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		cloud   cloudFlags
		addr    string
		title   string
		redis   string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the survey form and word-cloud HTTP server",
		Long: `Run the survey form and word-cloud HTTP server.

The server offers a submission form at /, stores responses in the configured
store, and renders the current cloud at /cloud.png (also .svg, .pdf and
.json). Query parameters override the render defaults per request.

Rendered clouds are cached in Redis when --redis (or [cache] redis_addr) is
set, otherwise in the local cache directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), serveParams{
				cloud:   &cloud,
				addr:    addr,
				title:   title,
				redis:   redis,
				noCache: noCache,
			})
		},
	}

	cloud.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8501)")
	cmd.Flags().StringVar(&title, "title", "", "page title")
	cmd.Flags().StringVar(&redis, "redis", "", "Redis address or redis:// URL for the render cache")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

type serveParams struct {
	cloud   *cloudFlags
	addr    string
	title   string
	redis   string
	noCache bool
}

func (c *CLI) runServe(ctx context.Context, p serveParams) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	if p.addr == "" {
		p.addr = cfg.Server.Addr
	}
	if p.title == "" {
		p.title = cfg.Server.Title
	}
	if p.redis == "" {
		p.redis = cfg.Cache.RedisAddr
	}

	defaults, err := c.cloudOptions(p.cloud)
	if err != nil {
		return err
	}
	// Bad defaults fail at startup, not on the first request.
	check := defaults
	check.Text = "-"
	if err := check.ValidateAndSetDefaults(); err != nil {
		return fmt.Errorf("render defaults: %w", err)
	}

	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	runner, err := c.newServerRunner(ctx, cfg, p)
	if err != nil {
		return err
	}
	defer runner.Close()

	counters := &observability.Counters{}
	logHooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(observability.TeePipeline(logHooks, counters))
	observability.SetCacheHooks(observability.TeeCache(logHooks, counters))
	defer observability.Reset()

	srv := server.New(server.Config{
		Store:    store,
		Runner:   runner,
		Defaults: defaults,
		Logger:   c.Logger,
		Title:    p.title,
		Counters: counters,
	})

	printSuccess("Serving %s", StyleHighlight.Render(p.title))
	printKeyValue("URL", StyleLink.Render("http://"+p.addr+"/"))
	printKeyValue("Store", cfg.Storage.DSN)
	printDetail("Press Ctrl+C to stop")

	return srv.ListenAndServe(ctx, p.addr)
}

// newServerRunner picks the server's cache: Redis when configured, else the
// local file cache.
func (c *CLI) newServerRunner(ctx context.Context, cfg *config.Config, p serveParams) (*pipeline.Runner, error) {
	if p.noCache || cfg.Cache.Disabled || p.redis == "" {
		return c.newRunner(p.noCache)
	}

	rc, err := cache.NewRedisCache(ctx, p.redis)
	if err != nil {
		return nil, fmt.Errorf("connect cache: %w", err)
	}
	c.Logger.Info("using redis cache", "addr", p.redis)

	runner := pipeline.NewRunner(rc, cache.NewScopedKeyer(nil, appName+":"), c.Logger)
	runner.TTL = cfg.CacheTTL()
	return runner, nil
}
