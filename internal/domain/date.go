package domain

import (
	"fmt"
	"strings"
	"time"
)

// readingDateLayouts are tried in order. Layouts without a zone are read as UTC.
var readingDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	time.DateTime,
	time.DateOnly,
}

// ParseReadingDate parses an ISO-8601 timestamp and normalises it to UTC.
func ParseReadingDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range readingDateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid reading date %q: want ISO-8601", s)
}

// FormatReadingDate renders t the way readings are exchanged, e.g. 2017-03-28T00:00:00.000Z.
func FormatReadingDate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}
