package cli

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/matzehuels/surveycloud/pkg/errors"
	"github.com/matzehuels/surveycloud/pkg/survey"
)

// responsesCommand creates the responses command for listing stored answers.
func (c *CLI) responsesCommand() *cobra.Command {
	var (
		raw    bool
		asJSON bool
		last   int
		width  int
	)

	cmd := &cobra.Command{
		Use:   "responses",
		Short: "List stored survey responses",
		Long: `List stored survey responses.

By default responses are shown as a table. --raw prints the response log
exactly as stored (file stores only) and --json prints machine-readable
output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runResponses(cmd.Context(), raw, asJSON, last, width)
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "print the raw response log")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print responses as JSON")
	cmd.Flags().IntVarP(&last, "last", "n", 0, "show only the last n responses")
	cmd.Flags().IntVar(&width, "width", 60, "truncate responses to this many characters in the table")

	return cmd
}

func (c *CLI) runResponses(ctx context.Context, raw, asJSON bool, last, width int) error {
	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if raw {
		fs, ok := store.(*survey.FileStore)
		if !ok {
			return errors.New(errors.ErrCodeUnsupported, "--raw needs a file store, have %T", store)
		}
		data, err := fs.Raw()
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	}

	responses, err := store.List(ctx)
	if err != nil {
		return err
	}
	if last > 0 && len(responses) > last {
		responses = responses[len(responses)-last:]
	}

	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if responses == nil {
			responses = []survey.Response{}
		}
		return enc.Encode(responses)
	}

	if len(responses) == 0 {
		printInfo("No responses yet")
		printNextStep("Add one", appName+" collect")
		return nil
	}
	printPlain(responsesTable(responses, width))
	return nil
}
