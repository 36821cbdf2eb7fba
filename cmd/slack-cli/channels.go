package main

import (
	"github.com/spf13/cobra"

	"github.com/chrisedwards/slack-cli/internal/channels"
	"github.com/chrisedwards/slack-cli/internal/clierr"
	"github.com/chrisedwards/slack-cli/internal/render"
	"github.com/chrisedwards/slack-cli/internal/slack"
)

var (
	channelsType            string
	channelsIncludeArchived bool
	channelsLimit           int
	channelsFormat          string
	channelsInclude         []string
	channelsExclude         []string
)

var channelsCmd = &cobra.Command{
	Use:   "channels",
	Short: "List channels",
	Long: `List conversations in the workspace.

--include and --exclude take glob patterns matched against channel names
and IDs, e.g. --include "eng-*" --exclude "*-alerts".`,
	Args: cobra.NoArgs,
	RunE: runChannels,
}

func init() {
	channelsCmd.Flags().StringVar(&channelsType, "type", channels.KindPublic, "channel type: public, private, im, mpim, all")
	channelsCmd.Flags().BoolVar(&channelsIncludeArchived, "include-archived", false, "include archived channels")
	channelsCmd.Flags().IntVar(&channelsLimit, "limit", 100, "maximum number of channels to show (0 for all)")
	channelsCmd.Flags().StringVar(&channelsFormat, "format", "table", "output format: table, simple, json")
	channelsCmd.Flags().StringSliceVar(&channelsInclude, "include", nil, "only channels matching these patterns")
	channelsCmd.Flags().StringSliceVar(&channelsExclude, "exclude", nil, "skip channels matching these patterns")
	rootCmd.AddCommand(channelsCmd)
}

// limitChannels keeps the first n channels. n <= 0 keeps all.
func limitChannels(list []slack.Channel, n int) []slack.Channel {
	if n > 0 && len(list) > n {
		return list[:n]
	}
	return list
}

func runChannels(cmd *cobra.Command, args []string) error {
	format, err := render.ParseFormat(channelsFormat)
	if err != nil {
		return err
	}
	types, err := channels.TypesFor(channelsType)
	if err != nil {
		return err
	}
	if channelsLimit < 0 {
		return clierr.Validationf("--limit must not be negative")
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	client, err := a.client()
	if err != nil {
		return err
	}
	list, err := client.ListChannels(cmd.Context(), slack.ListOptions{
		Types:           types,
		IncludeArchived: channelsIncludeArchived,
	})
	if err != nil {
		return err
	}

	filter := channels.NewFilter(channelsInclude, channelsExclude)
	if !filter.Empty() {
		list = filter.Apply(list)
	}
	return a.renderer().Channels(limitChannels(list, channelsLimit), format)
}
