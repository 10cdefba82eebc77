package cli

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/matzehuels/surveycloud/pkg/errors"
	"github.com/matzehuels/surveycloud/pkg/survey"
)

// collectCommand creates the collect command for storing one response.
func (c *CLI) collectCommand() *cobra.Command {
	var question string

	cmd := &cobra.Command{
		Use:   "collect [text...]",
		Short: "Store a survey response",
		Long: `Store a survey response in the configured store.

The response text comes from the arguments, from standard input when it is
piped, or from an interactive form when running in a terminal.

Examples:
  surveycloud collect "More remote days and better coffee"
  echo "Faster builds" | surveycloud collect --question "What should change?"
  surveycloud collect`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCollect(cmd.Context(), args, question, os.Stdin)
		},
	}

	cmd.Flags().StringVarP(&question, "question", "q", "", "question the response answers")

	return cmd
}

// runCollect resolves the response text and appends it to the store.
func (c *CLI) runCollect(ctx context.Context, args []string, question string, stdin *os.File) error {
	text, err := responseText(args, &question, stdin)
	if err != nil {
		return err
	}
	if text == "" {
		printInfo("No response entered")
		return nil
	}

	resp, err := survey.NewResponse(question, text, time.Now())
	if err != nil {
		return err
	}

	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Append(ctx, resp); err != nil {
		return err
	}
	c.Logger.Debug("stored response", "id", resp.ID, "chars", len(resp.Text))

	printSuccess("Response saved")
	printKeyValue("ID", StyleNumber.Render(resp.ID.String()))
	if resp.Question != "" {
		printKeyValue("Question", resp.Question)
	}
	printNewline()
	printNextStep("Generate", appName+" generate")
	return nil
}

// responseText returns the text from args, piped stdin, or the interactive
// form. The form may also fill in the question. An empty result means the
// user cancelled.
func responseText(args []string, question *string, stdin *os.File) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}
	if !isTerminal(stdin) {
		data, err := io.ReadAll(io.LimitReader(stdin, 4*errors.MaxResponseRunes+1))
		if err != nil {
			return "", errors.Wrap(errors.ErrCodeIO, err, "read stdin")
		}
		return strings.TrimSpace(string(data)), nil
	}

	final, err := tea.NewProgram(NewCollectModel(*question), tea.WithInput(stdin)).Run()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "response form")
	}
	m, ok := final.(CollectModel)
	if !ok || m.Cancelled || !m.Submitted {
		return "", nil
	}
	*question = strings.TrimSpace(m.Question)
	return strings.TrimSpace(m.Text), nil
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
