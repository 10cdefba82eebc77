package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/surveycloud/pkg/cloud/sink"
	"github.com/matzehuels/surveycloud/pkg/errors"
	"github.com/matzehuels/surveycloud/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering a saved layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render a word cloud from a computed layout",
		Long: `Render a word cloud from a computed layout.

The visualize command takes a layout.json file (produced by 'layout' or
'generate -f json') and renders it to PNG, SVG or PDF. The layout carries the
canvas, colours and every word position, so this step does no placement.

Results are cached locally for faster subsequent runs.

Use 'generate' as a shortcut to go directly from text to visual output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runVisualize(cmd.Context(), args[0], &out)
		},
	}

	out.register(cmd)

	return cmd
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, input string, out *outputFlags) error {
	f, err := os.Open(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeFileNotFound, err, "load layout %s", input)
	}
	res, err := sink.ReadJSON(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	// Render only needs the canvas settings the layout was computed with.
	opts := pipeline.Options{
		Width:      res.Width,
		Height:     res.Height,
		Background: res.Background,
		Colormap:   res.Colormap,
		Font:       res.Font,
		Seed:       res.Seed,
		Logger:     c.Logger,
	}
	if cfg, err := c.loadConfig(); err == nil {
		opts.Scale = cfg.Render.Scale
	}
	if err := out.apply(&opts); err != nil {
		return err
	}

	runner, err := c.newRunner(out.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", describeFormats(opts.Formats)))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, res, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     trimLayoutSuffix(input),
		output:    out.output,
	})
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}

	printSuccess("Rendered %s", describeFormats(opts.Formats))
	for _, path := range paths {
		printFile(path, len(artifacts[formatOf(path, opts.Formats)]))
	}
	printCloudStats(len(res.Words)+len(res.Dropped), len(res.Words), len(res.Dropped), cacheHit)
	return nil
}

// trimLayoutSuffix maps cloud.layout.json to cloud.json so that derived
// output names become cloud.png rather than cloud.layout.png.
func trimLayoutSuffix(path string) string {
	if base, ok := strings.CutSuffix(path, ".layout.json"); ok {
		return base + ".json"
	}
	return path
}
