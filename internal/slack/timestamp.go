package slack

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const fracDigits = 6

var threadTimestampPattern = regexp.MustCompile(`^\d{10}\.\d{6}$`)

// Timestamp is a parsed compound message timestamp "<secs>.<micros>".
// Messages may share Seconds; Micros disambiguates them.
type Timestamp struct {
	Seconds int64
	Micros  int64
}

// ParseTimestamp parses a compound timestamp. The fraction is read as
// microseconds, right-padded to six digits, so "5.1" and "5.100000" are equal.
func ParseTimestamp(s string) (Timestamp, error) {
	secPart, fracPart, _ := strings.Cut(strings.TrimSpace(s), ".")
	if secPart == "" {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
	}
	secs, err := strconv.ParseInt(secPart, 10, 64)
	if err != nil || secs < 0 {
		return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
	}

	var micros int64
	if fracPart != "" {
		if len(fracPart) > fracDigits {
			fracPart = fracPart[:fracDigits]
		}
		fracPart += strings.Repeat("0", fracDigits-len(fracPart))
		micros, err = strconv.ParseInt(fracPart, 10, 64)
		if err != nil || micros < 0 {
			return Timestamp{}, fmt.Errorf("invalid timestamp %q", s)
		}
	}
	return Timestamp{Seconds: secs, Micros: micros}, nil
}

// Compare orders t against o by seconds, then by the sub-second part.
func (t Timestamp) Compare(o Timestamp) int {
	switch {
	case t.Seconds < o.Seconds:
		return -1
	case t.Seconds > o.Seconds:
		return 1
	case t.Micros < o.Micros:
		return -1
	case t.Micros > o.Micros:
		return 1
	}
	return 0
}

// String formats t in the API's compound form.
func (t Timestamp) String() string {
	return fmt.Sprintf("%d.%06d", t.Seconds, t.Micros)
}

// Time converts t to wall-clock time. Only meaningful for message
// timestamps; watermarks are compared with Compare, not converted.
func (t Timestamp) Time() time.Time {
	return time.Unix(t.Seconds, t.Micros*int64(time.Microsecond))
}

// CompareTimestamps compares two raw timestamps numerically. If either
// fails to parse it falls back to plain string comparison.
func CompareTimestamps(a, b string) int {
	ta, errA := ParseTimestamp(a)
	tb, errB := ParseTimestamp(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	return ta.Compare(tb)
}

// FormatTimestamp renders a wall-clock time as a compound timestamp.
func FormatTimestamp(t time.Time) string {
	return Timestamp{Seconds: t.Unix(), Micros: int64(t.Nanosecond()) / int64(time.Microsecond)}.String()
}

// ValidThreadTimestamp reports whether s has the "1234567890.123456" shape
// required for thread replies.
func ValidThreadTimestamp(s string) bool {
	return threadTimestampPattern.MatchString(s)
}
