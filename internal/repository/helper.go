package repository

import (
	"fmt"
	"time"
)

// timeLayouts are the layouts SQLite timestamps are read back in.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime parses a timestamp stored by SQLite or written by this package.
func ParseTime(str string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse date: %q", str)
}

// FormatTime is the inverse of ParseTime.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
