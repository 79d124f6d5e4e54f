package pkg

import (
	"fmt"
	"strings"
	"time"
)

// accepted calendar date layouts, the second one is sent by the calendar view (M/D/YYYY)
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
}

// ParseDate parses a calendar date and returns it as midnight UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date [%s], expected YYYY-MM-DD or M/D/YYYY", value)
}

// Day returns the calendar day of t (as seen in t's location) as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
