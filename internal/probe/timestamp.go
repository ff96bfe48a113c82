package probe

import (
	"errors"
	"strings"
	"time"
)

// ErrBadTimestamp is returned by ParseTimestamp for values in no accepted format.
var ErrBadTimestamp = errors.New("probe: unrecognised timestamp")

// primaryLayouts are tried first, in order.
var primaryLayouts = []string{
	"2006-01-02 15:04:05",
	"02.01.2006 15:04:05",
}

// isoLayouts is the ISO-8601 fallback. Layouts with an explicit zone keep that
// zone; the rest are interpreted in the caller's location.
var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp parses s in loc (time.Local when nil).
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrBadTimestamp
	}
	for _, layout := range primaryLayouts {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts, nil
		}
	}
	for _, layout := range isoLayouts {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, ErrBadTimestamp
}
