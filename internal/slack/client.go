package slack

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Options configures a Client. Zero values select package defaults,
// except Cooldown and UnreadDelay where zero disables the wait and a
// negative value selects the default.
type Options struct {
	BaseURL     string
	HTTPTimeout time.Duration
	Concurrency int
	Cooldown    time.Duration
	UnreadDelay time.Duration
	UnreadCap   int
	MaxPages    int
	PageSize    int
	Logger      *zap.Logger
}

// Client exposes the operations the CLI commands use. Every call goes
// through one shared Gateway.
type Client struct {
	catalog    *Catalog
	messages   *Messages
	reconciler *Reconciler
}

// NewClient creates a Client talking to the Web API with token.
func NewClient(token string, opts Options) *Client {
	api := NewEndpoint(token).
		WithBaseURL(opts.BaseURL).
		WithTimeout(opts.HTTPTimeout).
		API()
	return NewClientWithAPI(api, opts)
}

// NewClientWithAPI creates a Client over an existing API implementation.
func NewClientWithAPI(api API, opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gateway := NewGateway(opts.Concurrency, opts.Cooldown, logger.Named("gateway"))
	catalog := NewCatalog(api, gateway, opts.PageSize, opts.MaxPages, logger.Named("catalog"))
	mentions := NewMentionResolver(api, gateway, NewUserCache(), logger.Named("users"))
	return &Client{
		catalog:    catalog,
		messages:   NewMessages(api, gateway, catalog, mentions, logger.Named("messages")),
		reconciler: NewReconciler(api, gateway, catalog, mentions, opts.UnreadCap, opts.UnreadDelay, logger.Named("unread")),
	}
}

// SendMessage posts text to channel, threaded under thread when set.
func (c *Client) SendMessage(ctx context.Context, channel, text, thread string) (*SendResult, error) {
	return c.messages.Send(ctx, channel, text, thread)
}

// ScheduleMessage queues text for channel at postAt epoch seconds.
func (c *Client) ScheduleMessage(ctx context.Context, channel, text string, postAt int64, thread string) (*ScheduleResult, error) {
	return c.messages.Schedule(ctx, channel, text, postAt, thread)
}

// ListChannels returns every conversation matching opts.
func (c *Client) ListChannels(ctx context.Context, opts ListOptions) ([]Channel, error) {
	return c.catalog.ListAll(ctx, opts)
}

// ListScheduledMessages lists pending scheduled messages. channel may be empty.
func (c *Client) ListScheduledMessages(ctx context.Context, channel string, limit int) ([]ScheduledMessage, error) {
	return c.messages.ListScheduled(ctx, channel, limit)
}

// GetHistory fetches recent messages of a channel name or ID.
func (c *Client) GetHistory(ctx context.Context, channel string, opts HistoryOptions) (*HistoryResult, error) {
	return c.messages.History(ctx, channel, opts)
}

// ListUnreadChannels returns member channels with unread messages.
func (c *Client) ListUnreadChannels(ctx context.Context) ([]Channel, error) {
	return c.reconciler.ListUnread(ctx)
}

// GetChannelUnread returns the unread messages of a channel name or ID.
func (c *Client) GetChannelUnread(ctx context.Context, channel string) (*UnreadResult, error) {
	return c.reconciler.ChannelUnread(ctx, channel)
}

// MarkAsRead moves the read watermark of a channel to now.
func (c *Client) MarkAsRead(ctx context.Context, channel string) error {
	return c.reconciler.MarkAsRead(ctx, channel)
}
