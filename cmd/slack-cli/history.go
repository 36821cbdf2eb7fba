package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/chrisedwards/slack-cli/internal/clierr"
	"github.com/chrisedwards/slack-cli/internal/render"
	"github.com/chrisedwards/slack-cli/internal/slack"
	"github.com/chrisedwards/slack-cli/internal/timeutil"
)

const maxHistory = 1000

var (
	historyChannel string
	historyNumber  int
	historySince   string
	historyOn      string
	historyFormat  string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show channel message history",
	Example: `  slack-cli history -c general
  slack-cli history -c general -n 50 --since "2026-10-01 09:00"
  slack-cli history -c general --on 2026-10-17`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVarP(&historyChannel, "channel", "c", "", "channel name or ID (required)")
	historyCmd.Flags().IntVarP(&historyNumber, "number", "n", 10, "number of messages (1-1000)")
	historyCmd.Flags().StringVar(&historySince, "since", "", "only messages after this time (YYYY-MM-DD HH:MM[:SS])")
	historyCmd.Flags().StringVar(&historyOn, "on", "", "only messages from this work day (YYYY-MM-DD)")
	historyCmd.Flags().StringVar(&historyFormat, "format", "table", "output format: table, simple, json")
	_ = historyCmd.MarkFlagRequired("channel")
	historyCmd.MarkFlagsMutuallyExclusive("since", "on")
	rootCmd.AddCommand(historyCmd)
}

// historyOptions builds fetch bounds from the command flags.
func historyOptions(number int, since, on string, loc *time.Location) (slack.HistoryOptions, error) {
	if number < 1 || number > maxHistory {
		return slack.HistoryOptions{}, clierr.Validationf("Message count must be between 1 and %d", maxHistory)
	}
	opts := slack.HistoryOptions{Limit: number}
	switch {
	case since != "" && on != "":
		return slack.HistoryOptions{}, clierr.Validationf("Cannot use both --since and --on")
	case since != "":
		oldest, err := timeutil.Since(since, loc)
		if err != nil {
			return slack.HistoryOptions{}, err
		}
		opts.Oldest = oldest
	case on != "":
		start, end, err := timeutil.DayBounds(on, loc)
		if err != nil {
			return slack.HistoryOptions{}, err
		}
		opts.Oldest = slack.FormatTimestamp(start)
		opts.Latest = slack.FormatTimestamp(end)
	}
	return opts, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	format, err := render.ParseFormat(historyFormat)
	if err != nil {
		return err
	}
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	opts, err := historyOptions(historyNumber, historySince, historyOn, a.loc)
	if err != nil {
		return err
	}
	client, err := a.client()
	if err != nil {
		return err
	}
	res, err := client.GetHistory(cmd.Context(), historyChannel, opts)
	if err != nil {
		return err
	}
	return a.renderer().History(channelLabel(historyChannel), res, format)
}
