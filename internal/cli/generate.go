package cli

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/surveycloud/pkg/errors"
	"github.com/matzehuels/surveycloud/pkg/pipeline"
	"github.com/matzehuels/surveycloud/pkg/survey"
	"github.com/matzehuels/surveycloud/pkg/text"
)

// generateCommand creates the generate command, the full tokenize → layout →
// render pipeline.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		cloud   cloudFlags
		out     outputFlags
		weights string
	)

	cmd := &cobra.Command{
		Use:   "generate [file|-]",
		Short: "Render a word cloud from survey responses or a text file",
		Long: `Render a word cloud from survey responses or a text file.

Without an argument the text of every stored response is used. A file
argument reads plain text instead, and "-" reads standard input. With
--weights the tokenizer is skipped and a JSON word → weight object (or a
list of {"word", "weight"} entries) is laid out directly.

Defaults come from the config file; flags override them for this run.
Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var input string
			if len(args) == 1 {
				input = args[0]
			}
			return c.runGenerate(cmd.Context(), input, weights, &cloud, &out)
		},
	}

	cloud.register(cmd)
	out.register(cmd)
	cmd.Flags().StringVar(&weights, "weights", "", "JSON file of word weights (skips tokenization)")

	return cmd
}

// runGenerate resolves the input, runs the pipeline and writes the artifacts.
func (c *CLI) runGenerate(ctx context.Context, input, weights string, cloud *cloudFlags, out *outputFlags) error {
	ctx = withLogger(ctx, c.Logger)

	opts, err := c.cloudOptions(cloud)
	if err != nil {
		return err
	}
	if err := out.apply(&opts); err != nil {
		return err
	}
	source, err := c.loadInput(ctx, input, weights, &opts)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(out.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Generating word cloud from %s...", source))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if errors.Is(err, errors.ErrCodeEmptyInput) {
		spinner.Stop()
		printWarning("Nothing to render: %s", errors.UserMessage(err))
		return nil
	}
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     input,
		output:    out.output,
	})
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return nil
	}

	prog.done(fmt.Sprintf("Rendered %d file(s)", len(paths)))
	printSuccess("Word cloud generated (%s)", describeFormats(opts.Formats))
	for _, path := range paths {
		printFile(path, len(result.Artifacts[formatOf(path, opts.Formats)]))
	}
	printCloudStats(result.Stats.Words, result.Stats.Placed, result.Stats.Dropped,
		result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)
	if result.Stats.Dropped > 0 {
		printDetail("Dropped words did not fit; try a larger canvas or a smaller --min-font-size")
	}
	return nil
}

// cloudOptions builds pipeline options from the config file and cloud flags.
func (c *CLI) cloudOptions(cloud *cloudFlags) (pipeline.Options, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts, err := baseOptions(cfg)
	if err != nil {
		return pipeline.Options{}, err
	}
	if err := cloud.apply(&opts); err != nil {
		return pipeline.Options{}, err
	}
	opts.Logger = c.Logger
	return opts, nil
}

// loadInput fills opts.Text or opts.Weights and describes the source.
// Precedence: --weights, then the input file, then the response store.
func (c *CLI) loadInput(ctx context.Context, input, weights string, opts *pipeline.Options) (string, error) {
	switch {
	case weights != "":
		data, err := readInput(weights)
		if err != nil {
			return "", err
		}
		vocab, err := text.ReadWeights(bytes.NewReader(data))
		if err != nil {
			return "", err
		}
		opts.Weights = vocab
		return fmt.Sprintf("%d weighted words", len(vocab)), nil

	case input != "":
		data, err := readInput(input)
		if err != nil {
			return "", err
		}
		opts.Text = string(data)
		if input == stdoutPath {
			return "stdin", nil
		}
		return input, nil

	default:
		store, err := c.openStore(ctx)
		if err != nil {
			return "", err
		}
		defer store.Close()
		responses, err := store.List(ctx)
		if err != nil {
			return "", err
		}
		opts.Text = survey.Corpus(responses)
		loggerFromContext(ctx).Debug("loaded responses", "count", len(responses))
		return fmt.Sprintf("%d responses", len(responses)), nil
	}
}

// formatOf returns the format whose extension path carries, or the only
// format when -o named a file without one.
func formatOf(path string, formats []string) string {
	for _, f := range formats {
		if strings.HasSuffix(path, "."+f) {
			return f
		}
	}
	return formats[0]
}
