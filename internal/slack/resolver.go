package slack

import (
	"context"
	"regexp"
	"strings"

	"github.com/chrisedwards/slack-cli/internal/clierr"
)

const maxSuggestions = 5

// Conversation IDs start with C (public), D (direct) or G (private/group).
var channelIDPattern = regexp.MustCompile(`^[CDG][A-Z0-9]{8,}$`)

// IsChannelID reports whether s is shaped like a conversation ID.
func IsChannelID(s string) bool {
	return channelIDPattern.MatchString(s)
}

// Resolver turns channel names into IDs.
type Resolver struct{}

// ResolveToID returns identifier unchanged when it is already an ID.
// Otherwise it fetches the channel list and matches names by, in order:
// exact name, name without a leading '#', case-insensitive name, and
// normalized name. The first rule with any match wins.
func (Resolver) ResolveToID(ctx context.Context, identifier string, fetch func(context.Context) ([]Channel, error)) (string, error) {
	if IsChannelID(identifier) {
		return identifier, nil
	}

	channels, err := fetch(ctx)
	if err != nil {
		return "", err
	}

	if ch, ok := FindChannel(identifier, channels); ok {
		return ch.ID, nil
	}
	return "", &clierr.ChannelNotFoundError{
		Channel:     identifier,
		Suggestions: SimilarChannels(identifier, channels, maxSuggestions),
	}
}

// FindChannel applies the name matching rules of ResolveToID.
func FindChannel(name string, channels []Channel) (Channel, bool) {
	stripped := strings.TrimPrefix(name, "#")
	rules := []func(Channel) bool{
		func(c Channel) bool { return c.Name == name },
		func(c Channel) bool { return c.Name == stripped },
		func(c Channel) bool { return strings.EqualFold(c.Name, name) || strings.EqualFold(c.Name, stripped) },
		func(c Channel) bool { return c.NameNormalized != "" && c.NameNormalized == strings.ToLower(stripped) },
	}
	for _, match := range rules {
		for _, c := range channels {
			if c.Name != "" && match(c) {
				return c, true
			}
		}
	}
	return Channel{}, false
}

// SimilarChannels returns up to limit channel names containing query,
// case-insensitively, in list order.
func SimilarChannels(query string, channels []Channel, limit int) []string {
	q := strings.ToLower(strings.TrimPrefix(query, "#"))
	if q == "" {
		return nil
	}
	var out []string
	for _, c := range channels {
		if len(out) >= limit {
			break
		}
		if c.Name != "" && strings.Contains(strings.ToLower(c.Name), q) {
			out = append(out, c.Name)
		}
	}
	return out
}
