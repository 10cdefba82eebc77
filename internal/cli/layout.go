package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/surveycloud/pkg/cloud/sink"
	"github.com/matzehuels/surveycloud/pkg/errors"
)

// layoutCommand creates the layout command for computing word placements.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		cloud   cloudFlags
		output  string
		weights string
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "layout [file|-]",
		Short: "Compute word placements without rendering",
		Long: `Compute word placements without rendering.

The layout command counts words (from the response store, a text file, stdin
or --weights) and places them on the canvas. The output is a layout.json file
(same format as 'generate -f json') that can be rendered to PNG/SVG/PDF with
the 'visualize' command, so a slow layout never has to be recomputed when an
output file could not be written.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runLayout(cmd.Context(), input, weights, output, noCache, refresh, &cloud)
		},
	}

	cloud.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")
	cmd.Flags().StringVar(&weights, "weights", "", "JSON file of word weights (skips tokenization)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results and recompute")

	return cmd
}

// runLayout counts words, computes the layout, and writes it as JSON.
func (c *CLI) runLayout(ctx context.Context, input, weights, output string, noCache, refresh bool, cloud *cloudFlags) error {
	ctx = withLogger(ctx, c.Logger)

	opts, err := c.cloudOptions(cloud)
	if err != nil {
		return err
	}
	opts.Refresh = refresh
	source, err := c.loadInput(ctx, input, weights, &opts)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing layout from %s...", source))
	spinner.Start()

	vocab, err := runner.Tokenize(ctx, opts)
	if errors.Is(err, errors.ErrCodeEmptyInput) {
		spinner.Stop()
		printWarning("Nothing to lay out: %s", errors.UserMessage(err))
		return nil
	}
	if err != nil {
		spinner.StopWithError("Word count failed")
		return err
	}

	res, cacheHit, err := runner.GenerateLayoutWithCacheInfo(ctx, vocab, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	data, err := sink.RenderJSON(res)
	if err != nil {
		return err
	}

	outputPath := output
	if outputPath == "" {
		outputPath = layoutPath(input)
	}
	if outputPath == stdoutPath {
		w, _ := openOutput(stdoutPath)
		_, err := w.Write(data)
		return err
	}
	if err := writeFile(outputPath, data); err != nil {
		return err
	}

	printSuccess("Layout complete")
	printFile(outputPath, len(data))
	printCloudStats(len(vocab), len(res.Words), len(res.Dropped), cacheHit)
	printNewline()
	printNextStep("Render", appName+" visualize "+outputPath)

	return nil
}

// layoutPath derives <input>.layout.json, or wordcloud.layout.json without
// an input file.
func layoutPath(input string) string {
	if input == "" || input == stdoutPath {
		return defaultOutputBase + ".layout.json"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
}
