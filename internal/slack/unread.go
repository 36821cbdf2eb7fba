package slack

import (
	"context"
	"time"

	slackapi "github.com/slack-go/slack"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/chrisedwards/slack-cli/internal/clierr"
)

const (
	// DefaultUnreadCap is the most messages counted per channel. Channels
	// with more unread messages report the cap, so counts are approximate.
	DefaultUnreadCap = 100

	// DefaultUnreadDelay spaces channels during an all-channels scan.
	DefaultUnreadDelay = 100 * time.Millisecond
)

// Unread is the unread state of one channel.
type Unread struct {
	Channel  Channel   // Metadata from conversations.info, with unread fields set
	Count    int       // Capped at the reconciler's limit
	Messages []Message // Newest first
}

// Reconciler computes unread counts from the server-side read watermark.
// It keeps no state between calls.
type Reconciler struct {
	api      API
	gateway  *Gateway
	catalog  *Catalog
	resolver Resolver
	mentions *MentionResolver
	cap      int
	delay    time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewReconciler creates a Reconciler. Non-positive cap selects the default;
// a zero delay disables pacing.
func NewReconciler(api API, gateway *Gateway, catalog *Catalog, mentions *MentionResolver, unreadCap int, delay time.Duration, logger *zap.Logger) *Reconciler {
	if unreadCap <= 0 {
		unreadCap = DefaultUnreadCap
	}
	if delay < 0 {
		delay = DefaultUnreadDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{
		api:      api,
		gateway:  gateway,
		catalog:  catalog,
		mentions: mentions,
		cap:      unreadCap,
		delay:    delay,
		now:      time.Now,
		logger:   logger,
	}
}

// ComputeUnread counts unread messages in channelID.
//
// Messages are fetched with an exclusive lower bound at the watermark, so
// the watermark message itself is never counted. When the newest message
// is at or before the watermark the channel is read and no further fetch
// is made.
func (r *Reconciler) ComputeUnread(ctx context.Context, channelID string) (*Unread, error) {
	info, err := Call(ctx, r.gateway, "conversations.info", func(ctx context.Context) (*slackapi.Channel, error) {
		return r.api.GetConversationInfoContext(ctx, &slackapi.GetConversationInfoInput{ChannelID: channelID})
	})
	if err != nil {
		return nil, err
	}
	ch := NewChannel(*info)
	if ch.ID == "" {
		ch.ID = channelID
	}

	latest, err := r.history(ctx, &slackapi.GetConversationHistoryParameters{ChannelID: channelID, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(latest) == 0 {
		return r.result(ch, nil), nil
	}

	params := &slackapi.GetConversationHistoryParameters{ChannelID: channelID, Limit: r.cap}
	if ch.LastRead != "" {
		if CompareTimestamps(latest[0].Timestamp, ch.LastRead) <= 0 {
			return r.result(ch, nil), nil
		}
		params.Oldest = ch.LastRead
		params.Inclusive = false
	}

	msgs, err := r.history(ctx, params)
	if err != nil {
		return nil, err
	}
	return r.result(ch, msgs), nil
}

func (r *Reconciler) result(ch Channel, msgs []Message) *Unread {
	count := len(msgs)
	if count > r.cap {
		count = r.cap
		msgs = msgs[:r.cap]
	}
	ch.UnreadCount = count
	ch.UnreadCountDisplay = count
	return &Unread{Channel: ch, Count: count, Messages: msgs}
}

func (r *Reconciler) history(ctx context.Context, params *slackapi.GetConversationHistoryParameters) ([]Message, error) {
	resp, err := Call(ctx, r.gateway, "conversations.history", func(ctx context.Context) (*slackapi.GetConversationHistoryResponse, error) {
		return r.api.GetConversationHistoryContext(ctx, params)
	})
	if err != nil {
		return nil, err
	}
	return newMessages(resp.Messages), nil
}

// ListUnread scans every member channel one at a time and returns those
// with unread messages. A channel that fails is logged and skipped.
func (r *Reconciler) ListUnread(ctx context.Context) ([]Channel, error) {
	channels, err := r.catalog.ListMemberChannels(ctx)
	if err != nil {
		return nil, err
	}

	limit := rate.Inf
	if r.delay > 0 {
		limit = rate.Every(r.delay)
	}
	limiter := rate.NewLimiter(limit, 1)

	var out []Channel
	for _, ch := range channels {
		if err := limiter.Wait(ctx); err != nil {
			return nil, err
		}

		u, err := r.ComputeUnread(ctx, ch.ID)
		if err != nil {
			level := zap.DebugLevel
			if clierr.IsRateLimited(err) {
				level = zap.WarnLevel
			}
			r.logger.Log(level, "skipping channel",
				zap.String("channel", ch.ID),
				zap.String("name", ch.Name),
				zap.Error(err),
			)
			continue
		}
		if u.Count == 0 {
			continue
		}

		ch.UnreadCount = u.Count
		ch.UnreadCountDisplay = u.Count
		ch.LastRead = u.Channel.LastRead
		out = append(out, ch)
	}

	r.logger.Debug("unread scan finished",
		zap.Int("channels", len(channels)),
		zap.Int("unread", len(out)),
	)
	return out, nil
}

// ChannelUnread resolves a channel name or ID and returns its unread
// messages with display names for every author and mention.
func (r *Reconciler) ChannelUnread(ctx context.Context, channel string) (*UnreadResult, error) {
	id, err := r.resolver.ResolveToID(ctx, channel, r.catalog.ListMemberChannels)
	if err != nil {
		return nil, err
	}

	u, err := r.ComputeUnread(ctx, id)
	if err != nil {
		return nil, err
	}

	users := map[string]string{}
	if len(u.Messages) > 0 {
		users = r.mentions.UsersFor(ctx, u.Messages)
	}
	return &UnreadResult{Channel: u.Channel, Messages: u.Messages, Users: users}, nil
}

// MarkAsRead advances the channel's read watermark to now.
func (r *Reconciler) MarkAsRead(ctx context.Context, channel string) error {
	id, err := r.resolver.ResolveToID(ctx, channel, r.catalog.ListMemberChannels)
	if err != nil {
		return err
	}
	ts := FormatTimestamp(r.now())
	return r.gateway.Do(ctx, "conversations.mark", func(ctx context.Context) error {
		return r.api.MarkConversationContext(ctx, id, ts)
	})
}
