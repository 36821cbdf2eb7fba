package slack

import (
	"context"
	"strconv"

	slackapi "github.com/slack-go/slack"
	"go.uber.org/zap"
)

// DefaultScheduledLimit is the page size for listing scheduled messages.
const DefaultScheduledLimit = 50

// Messages sends, schedules and reads channel messages.
type Messages struct {
	api      API
	gateway  *Gateway
	catalog  *Catalog
	resolver Resolver
	mentions *MentionResolver
	logger   *zap.Logger
}

// NewMessages creates a Messages.
func NewMessages(api API, gateway *Gateway, catalog *Catalog, mentions *MentionResolver, logger *zap.Logger) *Messages {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Messages{
		api:      api,
		gateway:  gateway,
		catalog:  catalog,
		mentions: mentions,
		logger:   logger,
	}
}

func (m *Messages) resolve(ctx context.Context, channel string) (string, error) {
	return m.resolver.ResolveToID(ctx, channel, m.catalog.ListMemberChannels)
}

func msgOptions(text, threadTS string) []slackapi.MsgOption {
	opts := []slackapi.MsgOption{slackapi.MsgOptionText(text, false)}
	if threadTS != "" {
		opts = append(opts, slackapi.MsgOptionTS(threadTS))
	}
	return opts
}

// Send posts text to channel, as a reply when threadTS is set. threadTS
// must already be validated by the caller.
func (m *Messages) Send(ctx context.Context, channel, text, threadTS string) (*SendResult, error) {
	id, err := m.resolve(ctx, channel)
	if err != nil {
		return nil, err
	}

	var res SendResult
	err = m.gateway.Do(ctx, "chat.postMessage", func(ctx context.Context) error {
		var err error
		res.ChannelID, res.Timestamp, err = m.api.PostMessageContext(ctx, id, msgOptions(text, threadTS)...)
		return err
	})
	if err != nil {
		return nil, err
	}
	if res.ChannelID == "" {
		res.ChannelID = id
	}
	m.logger.Debug("message sent", zap.String("channel", res.ChannelID), zap.String("ts", res.Timestamp))
	return &res, nil
}

// Schedule queues text for delivery to channel at postAt (epoch seconds).
// The caller rejects times in the past.
func (m *Messages) Schedule(ctx context.Context, channel, text string, postAt int64, threadTS string) (*ScheduleResult, error) {
	id, err := m.resolve(ctx, channel)
	if err != nil {
		return nil, err
	}

	res := ScheduleResult{PostAt: postAt}
	err = m.gateway.Do(ctx, "chat.scheduleMessage", func(ctx context.Context) error {
		var err error
		res.ChannelID, res.ID, err = m.api.ScheduleMessageContext(ctx, id, strconv.FormatInt(postAt, 10), msgOptions(text, threadTS)...)
		return err
	})
	if err != nil {
		return nil, err
	}
	if res.ChannelID == "" {
		res.ChannelID = id
	}
	m.logger.Debug("message scheduled", zap.String("channel", res.ChannelID), zap.String("id", res.ID))
	return &res, nil
}

// ListScheduled lists pending scheduled messages, optionally only those
// for channel.
func (m *Messages) ListScheduled(ctx context.Context, channel string, limit int) ([]ScheduledMessage, error) {
	if limit <= 0 {
		limit = DefaultScheduledLimit
	}
	params := &slackapi.GetScheduledMessagesParameters{Limit: limit}
	if channel != "" {
		id, err := m.resolve(ctx, channel)
		if err != nil {
			return nil, err
		}
		params.Channel = id
	}

	type page struct {
		msgs []slackapi.ScheduledMessage
	}
	p, err := Call(ctx, m.gateway, "chat.scheduledMessages.list", func(ctx context.Context) (page, error) {
		msgs, _, err := m.api.GetScheduledMessagesContext(ctx, params)
		return page{msgs: msgs}, err
	})
	if err != nil {
		return nil, err
	}

	out := make([]ScheduledMessage, 0, len(p.msgs))
	for _, sm := range p.msgs {
		out = append(out, NewScheduledMessage(sm))
	}
	return out, nil
}

// History fetches recent messages from channel and resolves display names
// for their authors and mentions.
func (m *Messages) History(ctx context.Context, channel string, opts HistoryOptions) (*HistoryResult, error) {
	id, err := m.resolve(ctx, channel)
	if err != nil {
		return nil, err
	}

	params := &slackapi.GetConversationHistoryParameters{
		ChannelID: id,
		Limit:     opts.Limit,
		Oldest:    opts.Oldest,
		Latest:    opts.Latest,
	}
	resp, err := Call(ctx, m.gateway, "conversations.history", func(ctx context.Context) (*slackapi.GetConversationHistoryResponse, error) {
		return m.api.GetConversationHistoryContext(ctx, params)
	})
	if err != nil {
		return nil, err
	}

	msgs := newMessages(resp.Messages)
	return &HistoryResult{
		ChannelID: id,
		Messages:  msgs,
		Users:     m.mentions.UsersFor(ctx, msgs),
	}, nil
}
