package slack

import (
	"context"
	"regexp"

	slackapi "github.com/slack-go/slack"
	"go.uber.org/zap"
)

// A mention is <@ID> or <@ID|label>, with an uppercase alphanumeric ID.
var mentionPattern = regexp.MustCompile(`<@([A-Z0-9]+)(?:\|[^>]*)?>`)

// ExtractMentionedUserIDs returns the user IDs mentioned in text, in order
// of appearance. Duplicates are kept.
func ExtractMentionedUserIDs(text string) []string {
	matches := mentionPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m[1])
	}
	return ids
}

// CollectUserIDs returns every author and mentioned user across messages,
// de-duplicated, in first-seen order.
func CollectUserIDs(messages []Message) []string {
	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, m := range messages {
		add(m.User)
		for _, id := range ExtractMentionedUserIDs(m.Text) {
			add(id)
		}
	}
	return ids
}

// MentionResolver maps user IDs to display names, one lookup per ID.
type MentionResolver struct {
	api     API
	gateway *Gateway
	cache   *UserCache
	logger  *zap.Logger
}

// NewMentionResolver creates a MentionResolver. A nil cache disables memoization.
func NewMentionResolver(api API, gateway *Gateway, cache *UserCache, logger *zap.Logger) *MentionResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MentionResolver{api: api, gateway: gateway, cache: cache, logger: logger}
}

// Username returns the display name for one user. An empty ID yields
// "unknown"; without an API the ID itself is returned.
func (r *MentionResolver) Username(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "unknown", nil
	}
	if r.cache != nil {
		if u := r.cache.Get(id); u != nil {
			return u.Label(), nil
		}
	}
	if r.api == nil {
		return id, nil
	}

	info, err := Call(ctx, r.gateway, "users.info", func(ctx context.Context) (*slackapi.User, error) {
		return r.api.GetUserInfoContext(ctx, id)
	})
	if err != nil {
		return "", err
	}
	u := NewUser(*info)
	if r.cache != nil {
		r.cache.Set(&u)
	}
	return u.Label(), nil
}

// ResolveDisplayNames looks up every ID. A failed lookup maps the ID to
// itself; it never fails the batch.
func (r *MentionResolver) ResolveDisplayNames(ctx context.Context, ids []string) map[string]string {
	names := make(map[string]string, len(ids))
	for _, id := range ids {
		if _, done := names[id]; done || id == "" {
			continue
		}
		name, err := r.Username(ctx, id)
		if err != nil {
			r.logger.Debug("user lookup failed, using ID", zap.String("user", id), zap.Error(err))
			name = id
		}
		names[id] = name
	}
	return names
}

// UsersFor resolves display names for every author and mention in messages.
func (r *MentionResolver) UsersFor(ctx context.Context, messages []Message) map[string]string {
	return r.ResolveDisplayNames(ctx, CollectUserIDs(messages))
}
