package loader

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// dateLayouts are the publish_time shapes seen in CORD-19 metadata, tried
// before the general-purpose parser.
var dateLayouts = []string{
	"2006-01-02",
	"2006",
	"2006-01",
	"2006 Jan 2",
	"2006 Jan",
	"2006 January 2",
	"2006 January",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// errNoDigits rejects values that cannot hold a year at all.
var errNoDigits = errors.New("no digits")

// ParseDate parses a publish_time value into a UTC time.
func ParseDate(s string) (time.Time, error) {
	if !strings.ContainsAny(s, "0123456789") {
		return time.Time{}, fmt.Errorf("unparseable date %q: %w", s, errNoDigits)
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return parseAny(s)
}

// parseAny hands s to dateparse. dateparse can panic on some malformed
// inputs; those are reported as unparseable like any other bad value.
func parseAny(s string) (t time.Time, err error) {
	defer func() {
		if r := recover(); r != nil {
			t, err = time.Time{}, fmt.Errorf("unparseable date %q: %v", s, r)
		}
	}()

	t, err = dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable date %q: %w", s, err)
	}
	return t.UTC(), nil
}
