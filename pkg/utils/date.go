package utils

import (
	"log"
	"time"
)

// DateLayout is the calendar-date key used to group journal entries.
const DateLayout = "2006-01-02"

// MustLoadLocation loads a named time zone and aborts on failure. Day
// boundaries for the journal depend on it, so a typo must not pass silently.
func MustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Fatal("Failed to load location ", err)
	}
	return loc
}

// DateKey formats a time as the journal grouping key.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}
