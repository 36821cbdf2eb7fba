package slack

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"
	"go.uber.org/zap"

	"github.com/chrisedwards/slack-cli/internal/clierr"
)

const (
	// DefaultPageSize is the page size requested from conversations.list.
	DefaultPageSize = 1000

	// DefaultMaxPages bounds how many pages a single listing may follow.
	DefaultMaxPages = 1000
)

// AllTypes lists every conversation type.
var AllTypes = []string{"public_channel", "private_channel", "mpim", "im"}

// ListOptions selects which conversations ListAll returns.
type ListOptions struct {
	Types           []string // API conversation types; empty means AllTypes
	IncludeArchived bool
	PageSize        int // 0 uses the catalog default
}

// Catalog enumerates conversations, following pagination cursors.
type Catalog struct {
	api      API
	gateway  *Gateway
	pageSize int
	maxPages int
	logger   *zap.Logger
}

// NewCatalog creates a Catalog. Non-positive sizes select the defaults.
func NewCatalog(api API, gateway *Gateway, pageSize, maxPages int, logger *zap.Logger) *Catalog {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Catalog{
		api:      api,
		gateway:  gateway,
		pageSize: pageSize,
		maxPages: maxPages,
		logger:   logger,
	}
}

// ListAll fetches every page of the listing. Pages are requested one at a
// time; an empty cursor ends the listing.
func (c *Catalog) ListAll(ctx context.Context, opts ListOptions) ([]Channel, error) {
	types := opts.Types
	if len(types) == 0 {
		types = AllTypes
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = c.pageSize
	}

	type page struct {
		channels []slackapi.Channel
		cursor   string
	}

	var all []Channel
	cursor := ""
	for pages := 0; ; pages++ {
		if pages >= c.maxPages {
			return nil, &clierr.APIError{
				Op:  "conversations.list",
				Err: fmt.Errorf("pagination did not finish after %d pages", c.maxPages),
			}
		}

		params := &slackapi.GetConversationsParameters{
			Cursor:          cursor,
			ExcludeArchived: !opts.IncludeArchived,
			Limit:           pageSize,
			Types:           types,
		}
		p, err := Call(ctx, c.gateway, "conversations.list", func(ctx context.Context) (page, error) {
			chs, next, err := c.api.GetConversationsContext(ctx, params)
			return page{channels: chs, cursor: next}, err
		})
		if err != nil {
			return nil, err
		}

		for _, ch := range p.channels {
			all = append(all, NewChannel(ch))
		}
		c.logger.Debug("fetched channel page",
			zap.Int("page", pages+1),
			zap.Int("count", len(p.channels)),
			zap.Bool("more", p.cursor != ""),
		)

		if p.cursor == "" {
			return all, nil
		}
		cursor = p.cursor
	}
}

// ListMemberChannels returns every non-archived conversation of any type,
// independent of any caller-supplied filter.
func (c *Catalog) ListMemberChannels(ctx context.Context) ([]Channel, error) {
	return c.ListAll(ctx, ListOptions{Types: AllTypes})
}
