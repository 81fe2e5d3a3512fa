// Package format renders API date, time, and status values for display.
package format

import (
	"fmt"
	"strings"
	"time"
)

const (
	displayDate = "Mon, Jan 2, 2006"
	displayTime = "15:04"
)

var dateLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// DateTime combines an ISO date and an HH:MM:SS clock time into a display
// string like "Wed, Nov 27, 2025 at 14:30". Unparseable input is returned
// joined as-is rather than hidden.
func DateTime(dateString, timeString string) string {
	date, err := parseDate(dateString)
	if err != nil {
		return strings.TrimSpace(dateString + " " + timeString)
	}

	clock, err := time.Parse("15:04:05", timeString)
	if err != nil {
		return date.Format(displayDate)
	}

	combined := time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, date.Location())
	return fmt.Sprintf("%s at %s", combined.Format(displayDate), combined.Format(displayTime))
}

// Timestamp renders a full ISO timestamp, e.g. an upcoming-appointment date,
// as "Wed, Nov 27, 2025 14:30".
func Timestamp(value string) string {
	date, err := parseDate(value)
	if err != nil {
		return value
	}
	return date.Format(displayDate + " " + displayTime)
}

// ISODate returns the date portion used in API queries.
func ISODate(t time.Time) string {
	return t.Format("2006-01-02")
}

func parseDate(value string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		} else {
			lastErr = err
		}
	}
	return time.Time{}, lastErr
}
