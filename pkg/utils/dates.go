package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order by ParseDate.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"01/02/2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ParseDate parses a date in any of the common exchange export formats, or a
// unix timestamp in seconds. Dates without a zone are interpreted as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(secs, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// FormatDate formats a time.Time as "2006-01-02" in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
