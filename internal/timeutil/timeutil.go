// Package timeutil parses the date and time flags of the CLI and formats
// message timestamps for display.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/chrisedwards/slack-cli/internal/clierr"
)

// DateLayout is the layout of --on values.
const DateLayout = "2006-01-02"

// Accepted layouts for --since and --at, tried in order. Layouts without a
// zone are read in the configured location.
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	DateLayout,
}

// LoadLocation resolves a time zone name. Empty and "Local" mean the
// system zone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone: %w", err)
	}
	return loc, nil
}

// ParseTime parses a date or date-time in loc.
func ParseTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, clierr.Validationf("Invalid date format %q. Use YYYY-MM-DD HH:MM:SS", value)
}

// DayBounds returns the UTC start and end of a work day in loc: 3am on
// date to 2:59:59am on the next day. Late-night activity belongs to the
// previous day. Times are built in local time, so DST days are 23 or 25
// hours long.
func DayBounds(date string, loc *time.Location) (start, end time.Time, err error) {
	t, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, clierr.Validationf("Invalid date %q. Use YYYY-MM-DD", date)
	}

	start = time.Date(t.Year(), t.Month(), t.Day(), 3, 0, 0, 0, loc).UTC()
	next := t.AddDate(0, 0, 1)
	end = time.Date(next.Year(), next.Month(), next.Day(), 2, 59, 59, 0, loc).UTC()
	return start, end, nil
}

// ParseScheduledTimestamp reads an --at value: epoch seconds or a date-time.
func ParseScheduledTimestamp(value string, loc *time.Location) (int64, error) {
	value = strings.TrimSpace(value)
	if value != "" && strings.Trim(value, "0123456789") == "" {
		secs, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return 0, clierr.Validationf("Invalid schedule time %q", value)
		}
		return secs, nil
	}
	t, err := ParseTime(value, loc)
	if err != nil {
		return 0, clierr.Validationf("Invalid schedule time %q. Use Unix seconds or YYYY-MM-DD HH:MM:SS", value)
	}
	return t.Unix(), nil
}

// ResolvePostAt turns --at or --after (minutes from now) into epoch
// seconds. The result must be in the future.
func ResolvePostAt(at, afterMinutes string, now time.Time, loc *time.Location) (int64, error) {
	var postAt int64
	switch {
	case at != "":
		secs, err := ParseScheduledTimestamp(at, loc)
		if err != nil {
			return 0, err
		}
		postAt = secs
	case afterMinutes != "":
		minutes, err := strconv.Atoi(strings.TrimSpace(afterMinutes))
		if err != nil || minutes <= 0 {
			return 0, clierr.Validationf("--after must be a positive number of minutes")
		}
		postAt = now.Unix() + int64(minutes)*60
	default:
		return 0, clierr.Validationf("Specify a schedule time with --at or --after")
	}

	if postAt <= now.Unix() {
		return 0, clierr.Validationf("Schedule time must be in the future")
	}
	return postAt, nil
}

// Since converts a --since value into an oldest watermark.
func Since(value string, loc *time.Location) (string, error) {
	t, err := ParseTime(value, loc)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(t.Unix(), 10), nil
}

// FormatMessageTime renders a compound message timestamp in loc.
// Unparseable input is returned unchanged.
func FormatMessageTime(ts string, loc *time.Location) string {
	secs, _, _ := strings.Cut(ts, ".")
	n, err := strconv.ParseInt(secs, 10, 64)
	if err != nil {
		return ts
	}
	return time.Unix(n, 0).In(loc).Format("2006-01-02 15:04:05")
}

// FormatDate renders epoch seconds as a UTC date.
func FormatDate(epoch int64) string {
	return time.Unix(epoch, 0).UTC().Format(DateLayout)
}
