package cli

import (
	"context"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	prettytext "github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/matzehuels/surveycloud/pkg/survey"
	"github.com/matzehuels/surveycloud/pkg/text"
)

// statsCommand creates the stats command summarising stored responses.
func (c *CLI) statsCommand() *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show response statistics and the most frequent words",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStats(cmd.Context(), top)
		},
	}

	cmd.Flags().IntVar(&top, "top", 10, "number of frequent words to list (0 to skip)")

	return cmd
}

func (c *CLI) runStats(ctx context.Context, top int) error {
	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	responses, err := store.List(ctx)
	if err != nil {
		return err
	}
	stats := survey.ComputeStats(responses, survey.Size(store))
	printPlain(renderStatsTable(stats, time.Now()))

	if top <= 0 || stats.Responses == 0 {
		return nil
	}
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	tokOpts, err := cfg.TokenizerOptions()
	if err != nil {
		return err
	}
	tokOpts.MaxWords = top
	vocab, err := text.Count(survey.Corpus(responses), tokOpts)
	if err != nil {
		// Only stopwords so far; the summary above is still useful.
		printDetail("No countable words yet")
		return nil
	}
	printPlain(renderTopWordsTable(vocab))
	return nil
}

// renderStatsTable renders the response summary as a rounded table.
func renderStatsTable(s survey.Stats, now time.Time) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Statistic", "Value"})
	tw.AppendRow(table.Row{"Responses", humanize.Comma(int64(s.Responses))})
	tw.AppendRow(table.Row{"Words", humanize.Comma(int64(s.Words))})
	tw.AppendRow(table.Row{"Characters", humanize.Comma(int64(s.Characters))})
	if s.Bytes > 0 {
		tw.AppendRow(table.Row{"Storage", humanize.Bytes(uint64(s.Bytes))})
	}
	if !s.First.IsZero() {
		tw.AppendRow(table.Row{"First", humanize.RelTime(s.First, now, "ago", "from now")})
		tw.AppendRow(table.Row{"Latest", humanize.RelTime(s.Last, now, "ago", "from now")})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: prettytext.AlignRight, AlignHeader: prettytext.AlignLeft},
	})
	return tw.Render()
}

func renderTopWordsTable(v text.Vocabulary) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Word", "Count"})
	for i, e := range v {
		tw.AppendRow(table.Row{i + 1, e.Word, humanize.Ftoa(e.Weight)})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: prettytext.AlignRight},
		{Number: 3, Align: prettytext.AlignRight, AlignHeader: prettytext.AlignLeft},
	})
	return tw.Render()
}
