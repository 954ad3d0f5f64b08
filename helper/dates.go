package helper

import (
	"fmt"
	"time"
)

const (
	DateLayout    = "2006-01-02"
	Clock12Layout = "3:04 PM"
	Clock24Layout = "15:04"
)

// ParseSessionStart combines a "2006-01-02" date and a "3:04 PM" time in loc.
func ParseSessionStart(date, clock string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", date, err)
	}
	c, err := time.Parse(Clock12Layout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing time %q: %w", clock, err)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), c.Hour(), c.Minute(), 0, 0, loc), nil
}

// To12Hour turns "16:00" into "4:00 PM".
func To12Hour(clock24 string) (string, error) {
	t, err := time.Parse(Clock24Layout, clock24)
	if err != nil {
		return "", err
	}
	return t.Format(Clock12Layout), nil
}

func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
