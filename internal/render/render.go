// Package render writes command results as table, simple or JSON output.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/chrisedwards/slack-cli/internal/clierr"
	"github.com/chrisedwards/slack-cli/internal/slack"
)

// Format selects an output variant.
type Format string

const (
	Table  Format = "table"
	Simple Format = "simple"
	JSON   Format = "json"
)

// ParseFormat validates a --format value. Empty means table.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return Table, nil
	case Table, Simple, JSON:
		return f, nil
	}
	return "", clierr.Validationf("invalid format %q: must be one of table, simple, json", s)
}

var (
	bold   = color.New(color.Bold)
	gray   = color.New(color.FgHiBlack)
	cyan   = color.New(color.FgCyan)
	yellow = color.New(color.FgYellow)
	green  = color.New(color.FgGreen)
	red    = color.New(color.FgRed)
)

// Renderer writes results to w. Times are shown in loc.
type Renderer struct {
	w   io.Writer
	loc *time.Location
	now func() time.Time
}

// New creates a Renderer. A nil loc means local time.
func New(w io.Writer, loc *time.Location) *Renderer {
	if loc == nil {
		loc = time.Local
	}
	return &Renderer{w: w, loc: loc, now: time.Now}
}

func (r *Renderer) json(v any) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Renderer) table() *tabwriter.Writer {
	return tabwriter.NewWriter(r.w, 0, 0, 2, ' ', 0)
}

// Success prints a green check line.
func (r *Renderer) Success(format string, args ...any) {
	green.Fprintf(r.w, "✓ "+format+"\n", args...)
}

// Failure prints a red cross line.
func Failure(w io.Writer, err error) {
	red.Fprintf(w, "✗ %v\n", err)
}

// Notice prints a yellow informational line.
func (r *Renderer) Notice(format string, args ...any) {
	yellow.Fprintf(r.w, format+"\n", args...)
}

// FormatMentions replaces <@ID> mentions with @name.
func FormatMentions(text string, users map[string]string) string {
	for _, id := range slack.ExtractMentionedUserIDs(text) {
		name := users[id]
		if name == "" {
			name = id
		}
		text = replaceMention(text, id, "@"+name)
	}
	return text
}

func replaceMention(text, id, with string) string {
	text = strings.ReplaceAll(text, "<@"+id+">", with)
	for {
		start := strings.Index(text, "<@"+id+"|")
		if start < 0 {
			return text
		}
		end := strings.IndexByte(text[start:], '>')
		if end < 0 {
			return text
		}
		text = text[:start] + with + text[start+end+1:]
	}
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func author(m slack.Message, users map[string]string) string {
	switch {
	case m.User != "":
		if name := users[m.User]; name != "" {
			return name
		}
		return m.User
	case m.BotID != "":
		return "Bot"
	}
	return "unknown"
}

func text(m slack.Message, users map[string]string) string {
	if m.Text == "" {
		return "(no text)"
	}
	return FormatMentions(m.Text, users)
}

func fprintf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
