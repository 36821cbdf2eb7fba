package slack

import (
	slackapi "github.com/slack-go/slack"
)

// Channel is a conversation as the CLI sees it. Values are normalized by
// NewChannel so callers never need per-field fallbacks.
type Channel struct {
	ID             string // Channel ID (C..., D..., G...)
	Name           string // Human-readable name, may be empty for DMs
	NameNormalized string
	User           string // Peer user for DMs
	IsChannel      bool
	IsGroup        bool
	IsIM           bool
	IsMPIM         bool
	IsPrivate      bool
	IsArchived     bool
	IsMember       bool
	Created        int64 // Epoch seconds
	MemberCount    int
	Purpose        string

	// Unread state, populated by the Reconciler.
	UnreadCount        int
	UnreadCountDisplay int
	LastRead           string // Opaque watermark, compare with CompareTimestamps
}

// NewChannel converts an API channel, applying defaults once.
func NewChannel(c slackapi.Channel) Channel {
	return Channel{
		ID:                 c.ID,
		Name:               c.Name,
		NameNormalized:     c.NameNormalized,
		User:               c.User,
		IsChannel:          c.IsChannel,
		IsGroup:            c.IsGroup,
		IsIM:               c.IsIM,
		IsMPIM:             c.IsMpIM,
		IsPrivate:          c.IsPrivate,
		IsArchived:         c.IsArchived,
		IsMember:           c.IsMember,
		Created:            int64(c.Created),
		MemberCount:        c.NumMembers,
		Purpose:            c.Purpose.Value,
		UnreadCount:        c.UnreadCount,
		UnreadCountDisplay: c.UnreadCountDisplay,
		LastRead:           c.LastRead,
	}
}

// DisplayName returns "#name", falling back to the ID for unnamed
// conversations such as DMs.
func (c Channel) DisplayName() string {
	switch {
	case c.Name == "":
		return c.ID
	case c.Name[0] == '#':
		return c.Name
	default:
		return "#" + c.Name
	}
}

// Message is a single channel message.
type Message struct {
	Type            string
	Timestamp       string // Compound "<secs>.<micros>", unique within a channel
	User            string // Empty for some bot and system posts
	BotID           string
	Text            string
	ThreadTimestamp string
}

// NewMessage converts an API message.
func NewMessage(m slackapi.Message) Message {
	return Message{
		Type:            m.Type,
		Timestamp:       m.Timestamp,
		User:            m.User,
		BotID:           m.BotID,
		Text:            m.Text,
		ThreadTimestamp: m.ThreadTimestamp,
	}
}

func newMessages(in []slackapi.Message) []Message {
	out := make([]Message, 0, len(in))
	for _, m := range in {
		out = append(out, NewMessage(m))
	}
	return out
}

// ScheduledMessage is a message queued on the server for later delivery.
type ScheduledMessage struct {
	ID        string `json:"id"`
	ChannelID string `json:"channel_id"`
	PostAt    int64  `json:"post_at"`
	CreatedAt int64  `json:"date_created"`
	Text      string `json:"text"`
}

// NewScheduledMessage converts an API scheduled message.
func NewScheduledMessage(m slackapi.ScheduledMessage) ScheduledMessage {
	return ScheduledMessage{
		ID:        m.ID,
		ChannelID: m.Channel,
		PostAt:    int64(m.PostAt),
		CreatedAt: int64(m.DateCreated),
		Text:      m.Text,
	}
}

// HistoryOptions bounds a history fetch. Oldest and Latest are watermarks
// in compound timestamp form; empty means unbounded.
type HistoryOptions struct {
	Limit  int
	Oldest string
	Latest string
}

// HistoryResult holds fetched messages, newest first, and display names
// for every author and mentioned user.
type HistoryResult struct {
	ChannelID string
	Messages  []Message
	Users     map[string]string
}

// UnreadResult is the unread view of a single channel.
type UnreadResult struct {
	Channel  Channel
	Messages []Message
	Users    map[string]string
}

// SendResult identifies a posted message.
type SendResult struct {
	ChannelID string
	Timestamp string
}

// ScheduleResult identifies a scheduled message.
type ScheduleResult struct {
	ID        string
	ChannelID string
	PostAt    int64
}
