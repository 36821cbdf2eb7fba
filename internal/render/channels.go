package render

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/chrisedwards/slack-cli/internal/channels"
	"github.com/chrisedwards/slack-cli/internal/slack"
	"github.com/chrisedwards/slack-cli/internal/timeutil"
)

type channelJSON struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Members int    `json:"members"`
	Created string `json:"created"`
	Purpose string `json:"purpose"`
}

func channelName(ch slack.Channel) string {
	if ch.Name == "" {
		return "unnamed"
	}
	return ch.Name
}

// Channels writes a channel listing.
func (r *Renderer) Channels(list []slack.Channel, f Format) error {
	if len(list) == 0 && f != JSON {
		r.Notice("No channels found")
		return nil
	}

	switch f {
	case JSON:
		out := make([]channelJSON, 0, len(list))
		for _, ch := range list {
			out = append(out, channelJSON{
				ID:      ch.ID,
				Name:    channelName(ch),
				Type:    channels.Kind(ch),
				Members: ch.MemberCount,
				Created: timeutil.FormatDate(ch.Created) + "T00:00:00Z",
				Purpose: ch.Purpose,
			})
		}
		return r.json(out)
	case Simple:
		for _, ch := range list {
			fprintf(r.w, "%s\n", channelName(ch))
		}
		return nil
	}

	tw := r.table()
	bold.Fprintln(tw, "Name\tType\tMembers\tCreated\tDescription")
	for _, ch := range list {
		fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			channelName(ch),
			channels.Kind(ch),
			humanize.Comma(int64(ch.MemberCount)),
			timeutil.FormatDate(ch.Created),
			truncate(ch.Purpose, 30),
		)
	}
	return tw.Flush()
}

type unreadChannelJSON struct {
	Channel     string `json:"channel"`
	ChannelID   string `json:"channelId"`
	UnreadCount int    `json:"unreadCount"`
}

// UnreadChannels writes the channels with unread messages. With countOnly
// it prints per-channel counts and a total.
func (r *Renderer) UnreadChannels(list []slack.Channel, f Format, countOnly bool) error {
	if countOnly {
		total := 0
		for _, ch := range list {
			total += ch.UnreadCount
			fprintf(r.w, "%s: %d\n", ch.DisplayName(), ch.UnreadCount)
		}
		bold.Fprintf(r.w, "Total: %s unread messages\n", humanize.Comma(int64(total)))
		return nil
	}

	if len(list) == 0 && f != JSON {
		r.Success("No unread messages")
		return nil
	}

	switch f {
	case JSON:
		out := make([]unreadChannelJSON, 0, len(list))
		for _, ch := range list {
			out = append(out, unreadChannelJSON{
				Channel:     ch.DisplayName(),
				ChannelID:   ch.ID,
				UnreadCount: ch.UnreadCount,
			})
		}
		return r.json(out)
	case Simple:
		for _, ch := range list {
			fprintf(r.w, "%s (%d)\n", ch.DisplayName(), ch.UnreadCount)
		}
		return nil
	}

	tw := r.table()
	bold.Fprintln(tw, "Channel\tUnread\tLast Read")
	for _, ch := range list {
		fprintf(tw, "%s\t%d\t%s\n", ch.DisplayName(), ch.UnreadCount, r.lastRead(ch.LastRead))
	}
	return tw.Flush()
}

func (r *Renderer) lastRead(watermark string) string {
	if watermark == "" {
		return "Unknown"
	}
	ts, err := slack.ParseTimestamp(watermark)
	if err != nil || ts.Seconds == 0 {
		return "Unknown"
	}
	t := ts.Time().In(r.loc)
	return humanize.RelTime(t, r.now(), "ago", "from now") + " (" + t.Format(time.DateTime) + ")"
}
