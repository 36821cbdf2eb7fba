package channels

import (
	"strings"

	"github.com/chrisedwards/slack-cli/internal/clierr"
	"github.com/chrisedwards/slack-cli/internal/slack"
)

// Channel kinds accepted by --type and reported by Kind.
const (
	KindPublic  = "public"
	KindPrivate = "private"
	KindIM      = "im"
	KindMPIM    = "mpim"
	KindAll     = "all"
	KindUnknown = "unknown"
)

var apiTypes = map[string][]string{
	KindPublic:  {"public_channel"},
	KindPrivate: {"private_channel"},
	KindIM:      {"im"},
	KindMPIM:    {"mpim"},
	KindAll:     slack.AllTypes,
}

// TypesFor maps a --type value onto API conversation types. An empty
// value means public.
func TypesFor(kind string) ([]string, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		kind = KindPublic
	}
	types, ok := apiTypes[kind]
	if !ok {
		return nil, clierr.Validationf("invalid channel type %q: must be one of public, private, im, mpim, all", kind)
	}
	return types, nil
}

// Kind classifies a channel for display.
func Kind(ch slack.Channel) string {
	switch {
	case ch.IsChannel && !ch.IsPrivate:
		return KindPublic
	case ch.IsGroup, ch.IsChannel && ch.IsPrivate:
		return KindPrivate
	case ch.IsIM:
		return KindIM
	case ch.IsMPIM:
		return KindMPIM
	}
	return KindUnknown
}
