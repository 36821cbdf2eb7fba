package main

import (
	"github.com/spf13/cobra"

	"github.com/chrisedwards/slack-cli/internal/clierr"
	"github.com/chrisedwards/slack-cli/internal/render"
)

var (
	scheduledChannel string
	scheduledLimit   int
	scheduledFormat  string
)

var scheduledCmd = &cobra.Command{
	Use:   "scheduled",
	Short: "List scheduled messages",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := render.ParseFormat(scheduledFormat)
		if err != nil {
			return err
		}
		if scheduledLimit < 1 {
			return clierr.Validationf("--limit must be a positive number")
		}

		a, err := setup(cmd)
		if err != nil {
			return err
		}
		client, err := a.client()
		if err != nil {
			return err
		}
		msgs, err := client.ListScheduledMessages(cmd.Context(), scheduledChannel, scheduledLimit)
		if err != nil {
			return err
		}
		return a.renderer().Scheduled(msgs, format)
	},
}

func init() {
	scheduledCmd.Flags().StringVarP(&scheduledChannel, "channel", "c", "", "only messages for this channel")
	scheduledCmd.Flags().IntVar(&scheduledLimit, "limit", 50, "maximum number of messages")
	scheduledCmd.Flags().StringVar(&scheduledFormat, "format", "table", "output format: table, simple, json")
	rootCmd.AddCommand(scheduledCmd)
}
