package control

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time of day, interpreted in UTC.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay parses "HH:MM:SS".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	var tod TimeOfDay
	n, err := fmt.Sscanf(s, "%d:%d:%d", &tod.Hour, &tod.Minute, &tod.Second)
	if err != nil || n != 3 {
		return TimeOfDay{}, fmt.Errorf("parse time of day %q: want HH:MM:SS", s)
	}
	if tod.Hour < 0 || tod.Hour > 23 || tod.Minute < 0 || tod.Minute > 59 || tod.Second < 0 || tod.Second > 59 {
		return TimeOfDay{}, fmt.Errorf("time of day %q out of range", s)
	}
	return tod, nil
}

// String renders the time as "HH:MM:SS".
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// On returns the instant at which this time of day falls on the UTC
// calendar date of day.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.UTC().Date()
	return time.Date(y, m, d, t.Hour, t.Minute, t.Second, 0, time.UTC)
}
