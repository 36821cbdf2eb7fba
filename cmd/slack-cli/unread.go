package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/chrisedwards/slack-cli/internal/clierr"
	"github.com/chrisedwards/slack-cli/internal/render"
)

var (
	unreadChannel   string
	unreadCountOnly bool
	unreadLimit     int
	unreadFormat    string
	unreadMarkRead  bool
)

var unreadCmd = &cobra.Command{
	Use:   "unread",
	Short: "Show unread messages",
	Long: `Show channels with unread messages, or the unread messages of one
channel with --channel. --mark-read marks what was shown as read.`,
	Args: cobra.NoArgs,
	RunE: runUnread,
}

func init() {
	unreadCmd.Flags().StringVarP(&unreadChannel, "channel", "c", "", "show unread messages for this channel")
	unreadCmd.Flags().BoolVar(&unreadCountOnly, "count-only", false, "only show counts")
	unreadCmd.Flags().IntVar(&unreadLimit, "limit", 50, "maximum messages to show per channel")
	unreadCmd.Flags().StringVar(&unreadFormat, "format", "table", "output format: table, simple, json")
	unreadCmd.Flags().BoolVar(&unreadMarkRead, "mark-read", false, "mark as read after displaying")
	rootCmd.AddCommand(unreadCmd)
}

func runUnread(cmd *cobra.Command, args []string) error {
	format, err := render.ParseFormat(unreadFormat)
	if err != nil {
		return err
	}
	if unreadLimit < 1 {
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
	ctx := cmd.Context()
	r := a.renderer()

	if unreadChannel != "" {
		res, err := client.GetChannelUnread(ctx, unreadChannel)
		if err != nil {
			return err
		}
		if err := r.ChannelUnread(res, format, unreadCountOnly, unreadLimit); err != nil {
			return err
		}
		if unreadMarkRead && res.Channel.UnreadCount > 0 {
			if err := client.MarkAsRead(ctx, res.Channel.ID); err != nil {
				return err
			}
			r.Success("Marked %s as read", res.Channel.DisplayName())
		}
		return nil
	}

	list, err := client.ListUnreadChannels(ctx)
	if err != nil {
		return err
	}
	if err := r.UnreadChannels(list, format, unreadCountOnly); err != nil {
		return err
	}
	if !unreadMarkRead || len(list) == 0 {
		return nil
	}

	marked := 0
	for _, ch := range list {
		if err := client.MarkAsRead(ctx, ch.ID); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			a.logger.Warn("mark as read failed", zap.String("channel", ch.ID), zap.Error(err))
			continue
		}
		marked++
	}
	r.Success("Marked %d channel(s) as read", marked)
	return nil
}
