package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// stopwordsCommand prints the active stopword list.
func (c *CLI) stopwordsCommand() *cobra.Command {
	var (
		count bool
		extra []string
	)

	cmd := &cobra.Command{
		Use:   "stopwords",
		Short: "Print the active stopword list",
		Long: `Print the active stopword list, one word per line.

The list is the built-in English list (unless disabled in the config file)
plus the config file's extra words and word file, plus --stopwords.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			set, err := cfg.StopwordSet()
			if err != nil {
				return err
			}
			set = set.With(extra...)
			if count {
				printPlain(fmt.Sprint(set.Len()))
				return nil
			}
			printPlain(strings.Join(set.Words(), "\n"))
			return nil
		},
	}

	cmd.Flags().BoolVar(&count, "count", false, "print only the number of stopwords")
	cmd.Flags().StringSliceVar(&extra, "stopwords", nil, "extra stopwords (comma-separated)")

	return cmd
}
