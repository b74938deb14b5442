package validate

import (
	"strings"
	"time"
)

// dateLayouts covers the formats users actually type. Order matters: the
// first calendar-valid parse wins.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"2 January 2006",
	time.RFC3339,
}

// ParseDate attempts a calendar-valid parse of s. Extraction and validation
// share this so a value that extracts also validates.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
