package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Layouts tried when dateparse gives up, mostly forms it reads differently
// depending on version: weekday prefixes without a time, long month names
// with an hh:mm time, unpadded numeric dates.
var extraLayouts = []string{
	"Mon, 2 Jan 2006",
	"Monday, 2 January 2006",
	"January 2, 2006 15:04",
	"Jan 2, 2006 15:04",
	"2 Jan 2006",
	"Jan 2 2006",
	"2006-1-2",
	"2006-01-02T15:04:05-0700",
}

// ParseDate parses a frontmatter date leniently. Values without a zone are
// read as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err == nil {
		return t, nil
	}
	for _, layout := range extraLayouts {
		if t, lerr := time.ParseInLocation(layout, s, time.UTC); lerr == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q: %w", s, err)
}
