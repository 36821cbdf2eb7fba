package main

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/chrisedwards/slack-cli/internal/clierr"
	"github.com/chrisedwards/slack-cli/internal/slack"
	"github.com/chrisedwards/slack-cli/internal/timeutil"
)

var (
	sendChannel string
	sendMessage string
	sendFile    string
	sendThread  string
	sendAt      string
	sendAfter   string
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send a message to a channel",
	Long: `Send a message to a channel, DM or thread.

The message comes from --message or from a file with --file. Use --at or
--after to schedule it for later delivery instead of posting now.`,
	Example: `  slack-cli send -c general -m "Deploy finished"
  slack-cli send -c C0123456789 -f notes.md --thread 1700000000.123456
  slack-cli send -c general -m "Standup" --at "2026-10-20 09:00"
  slack-cli send -c general -m "Reminder" --after 30`,
	Args: cobra.NoArgs,
	RunE: runSend,
}

func init() {
	sendCmd.Flags().StringVarP(&sendChannel, "channel", "c", "", "channel name or ID (required)")
	sendCmd.Flags().StringVarP(&sendMessage, "message", "m", "", "message text")
	sendCmd.Flags().StringVarP(&sendFile, "file", "f", "", "read message text from file")
	sendCmd.Flags().StringVarP(&sendThread, "thread", "t", "", "thread timestamp to reply to")
	sendCmd.Flags().StringVar(&sendAt, "at", "", "schedule at a time (Unix seconds or YYYY-MM-DD HH:MM[:SS])")
	sendCmd.Flags().StringVar(&sendAfter, "after", "", "schedule after N minutes")
	_ = sendCmd.MarkFlagRequired("channel")
	sendCmd.MarkFlagsMutuallyExclusive("message", "file")
	sendCmd.MarkFlagsMutuallyExclusive("at", "after")
	rootCmd.AddCommand(sendCmd)
}

// messageText returns the text to send from exactly one of message or file.
func messageText(message, file string) (string, error) {
	switch {
	case message != "" && file != "":
		return "", clierr.Validationf("Cannot use both --message and --file")
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", &clierr.FileError{Path: file, Err: err}
		}
		return string(data), nil
	case strings.TrimSpace(message) != "":
		return message, nil
	}
	return "", clierr.Validationf("You must specify either --message or --file")
}

func validateThread(thread string) error {
	if thread != "" && !slack.ValidThreadTimestamp(thread) {
		return clierr.Validationf("Invalid thread timestamp %q. Expected format: 1234567890.123456", thread)
	}
	return nil
}

func runSend(cmd *cobra.Command, args []string) error {
	text, err := messageText(sendMessage, sendFile)
	if err != nil {
		return err
	}
	if err := validateThread(sendThread); err != nil {
		return err
	}

	a, err := setup(cmd)
	if err != nil {
		return err
	}
	scheduling := sendAt != "" || sendAfter != ""
	var postAt int64
	if scheduling {
		postAt, err = timeutil.ResolvePostAt(sendAt, sendAfter, time.Now(), a.loc)
		if err != nil {
			return err
		}
	}

	client, err := a.client()
	if err != nil {
		return err
	}
	r := a.renderer()
	label := channelLabel(sendChannel)

	if scheduling {
		res, err := client.ScheduleMessage(cmd.Context(), sendChannel, text, postAt, sendThread)
		if err != nil {
			return err
		}
		r.Success("Message scheduled to %s for %s (id %s)", label,
			time.Unix(res.PostAt, 0).In(a.loc).Format(time.DateTime), res.ID)
		return nil
	}

	if _, err := client.SendMessage(cmd.Context(), sendChannel, text, sendThread); err != nil {
		return err
	}
	if sendThread != "" {
		r.Success("Reply sent to thread in %s", label)
		return nil
	}
	r.Success("Message sent successfully to %s", label)
	return nil
}
