package render

import (
	"time"

	"github.com/chrisedwards/slack-cli/internal/slack"
	"github.com/chrisedwards/slack-cli/internal/timeutil"
)

type messageJSON struct {
	Timestamp string `json:"timestamp"`
	TS        string `json:"ts"`
	User      string `json:"user,omitempty"`
	Author    string `json:"author"`
	Text      string `json:"text"`
	Thread    string `json:"threadTs,omitempty"`
}

func (r *Renderer) messagesJSON(msgs []slack.Message, users map[string]string) []messageJSON {
	out := make([]messageJSON, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, messageJSON{
			Timestamp: timeutil.FormatMessageTime(m.Timestamp, r.loc),
			TS:        m.Timestamp,
			User:      m.User,
			Author:    author(m, users),
			Text:      text(m, users),
			Thread:    m.ThreadTimestamp,
		})
	}
	return out
}

func (r *Renderer) messageBlocks(msgs []slack.Message, users map[string]string) {
	for _, m := range msgs {
		gray.Fprintf(r.w, "[%s] ", timeutil.FormatMessageTime(m.Timestamp, r.loc))
		cyan.Fprintln(r.w, author(m, users))
		fprintf(r.w, "%s\n\n", text(m, users))
	}
}

func (r *Renderer) messageLines(msgs []slack.Message, users map[string]string) {
	for _, m := range msgs {
		fprintf(r.w, "[%s] %s: %s\n", timeutil.FormatMessageTime(m.Timestamp, r.loc), author(m, users), text(m, users))
	}
}

// History writes a channel's message history in the order returned.
func (r *Renderer) History(channel string, res *slack.HistoryResult, f Format) error {
	switch f {
	case JSON:
		return r.json(struct {
			Channel  string            `json:"channel"`
			Messages []messageJSON     `json:"messages"`
			Users    map[string]string `json:"users"`
			Total    int               `json:"total"`
		}{channel, r.messagesJSON(res.Messages, res.Users), res.Users, len(res.Messages)})
	case Simple:
		if len(res.Messages) == 0 {
			fprintf(r.w, "No messages found\n")
			return nil
		}
		r.messageLines(res.Messages, res.Users)
		return nil
	}

	bold.Fprintf(r.w, "\nMessage History for %s:\n", channel)
	if len(res.Messages) == 0 {
		r.Notice("No messages found")
		return nil
	}
	fprintf(r.w, "\n")
	r.messageBlocks(res.Messages, res.Users)
	r.Success("Displayed %d message(s)", len(res.Messages))
	return nil
}

// ChannelUnread writes one channel's unread messages. limit caps how many
// messages are shown; zero shows all.
func (r *Renderer) ChannelUnread(res *slack.UnreadResult, f Format, countOnly bool, limit int) error {
	msgs := res.Messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[:limit]
	}
	if countOnly {
		msgs = nil
	}
	name := res.Channel.DisplayName()

	switch f {
	case JSON:
		out := struct {
			Channel     string        `json:"channel"`
			ChannelID   string        `json:"channelId"`
			UnreadCount int           `json:"unreadCount"`
			Messages    []messageJSON `json:"messages,omitempty"`
		}{Channel: name, ChannelID: res.Channel.ID, UnreadCount: res.Channel.UnreadCount}
		if len(msgs) > 0 {
			out.Messages = r.messagesJSON(msgs, res.Users)
		}
		return r.json(out)
	case Simple:
		fprintf(r.w, "%s (%d)\n", name, res.Channel.UnreadCount)
		r.messageLines(msgs, res.Users)
		return nil
	}

	bold.Fprintf(r.w, "%s: %d unread messages\n", name, res.Channel.UnreadCount)
	if len(msgs) > 0 {
		fprintf(r.w, "\n")
		r.messageBlocks(msgs, res.Users)
	}
	return nil
}

type scheduledJSON struct {
	ID          string `json:"id"`
	ChannelID   string `json:"channel_id"`
	PostAt      int64  `json:"post_at"`
	DateCreated int64  `json:"date_created"`
	Text        string `json:"text"`
}

func postAt(epoch int64) string {
	return time.Unix(epoch, 0).UTC().Format(time.RFC3339)
}

// Scheduled writes pending scheduled messages.
func (r *Renderer) Scheduled(list []slack.ScheduledMessage, f Format) error {
	if len(list) == 0 && f != JSON {
		r.Notice("No scheduled messages found")
		return nil
	}

	switch f {
	case JSON:
		out := make([]scheduledJSON, 0, len(list))
		for _, m := range list {
			out = append(out, scheduledJSON{m.ID, m.ChannelID, m.PostAt, m.CreatedAt, m.Text})
		}
		return r.json(out)
	case Simple:
		for _, m := range list {
			fprintf(r.w, "%s %s %s %s\n", postAt(m.PostAt), m.ChannelID, m.ID, m.Text)
		}
		return nil
	}

	tw := r.table()
	bold.Fprintln(tw, "ID\tChannel\tPost At\tText")
	for _, m := range list {
		fprintf(tw, "%s\t%s\t%s\t%s\n", m.ID, m.ChannelID, postAt(m.PostAt), truncate(m.Text, 50))
	}
	return tw.Flush()
}
