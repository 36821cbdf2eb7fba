// Package channels provides channel selection for the CLI: mapping the
// --type flag onto conversation types and glob include/exclude filtering.
package channels

import (
	"path/filepath"
	"strings"

	"github.com/chrisedwards/slack-cli/internal/slack"
)

// Filter applies include/exclude patterns to a list of channels.
type Filter struct {
	include []string
	exclude []string
}

// NewFilter creates a Filter with the given include and exclude patterns.
func NewFilter(include, exclude []string) *Filter {
	return &Filter{
		include: include,
		exclude: exclude,
	}
}

// Apply filters the given channels based on include/exclude patterns.
func (f *Filter) Apply(channels []slack.Channel) []slack.Channel {
	return FilterChannels(channels, f.include, f.exclude)
}

// Empty reports whether the filter has no patterns.
func (f *Filter) Empty() bool {
	return len(f.include) == 0 && len(f.exclude) == 0
}

// FilterChannels keeps channels whose name or ID matches an include pattern
// (all channels when include is empty) and matches no exclude pattern.
// Exclusion wins over inclusion. Order is preserved.
func FilterChannels(channels []slack.Channel, include, exclude []string) []slack.Channel {
	out := make([]slack.Channel, 0, len(channels))
	for _, ch := range channels {
		if len(include) > 0 && !matchChannel(include, ch) {
			continue
		}
		if matchChannel(exclude, ch) {
			continue
		}
		out = append(out, ch)
	}
	return out
}

func matchChannel(patterns []string, ch slack.Channel) bool {
	if len(patterns) == 0 {
		return false
	}
	return MatchAny(patterns, ch.ID) || (ch.Name != "" && MatchAny(patterns, ch.Name))
}

// MatchAny checks if a value matches any pattern in a list.
// Returns false for an empty pattern list.
func MatchAny(patterns []string, value string) bool {
	for _, pattern := range patterns {
		if MatchPattern(pattern, value) {
			return true
		}
	}
	return false
}

// MatchPattern matches value against a glob pattern, case-insensitively.
// A leading '#' on the pattern is ignored. Invalid patterns never match.
func MatchPattern(pattern, value string) bool {
	pattern = strings.TrimPrefix(pattern, "#")
	matched, err := filepath.Match(strings.ToLower(pattern), strings.ToLower(value))
	if err != nil {
		return false
	}
	return matched
}
