// Package meetingtime parses the meeting date and time fields from the
// group forms.
//
// Dates arrive as "MM/DD/YYYY" and times as 12-hour "HH:MM AM/PM". Times
// are stored internally as minutes since midnight on a 24-hour clock, so
// "12:00 AM" maps to 0 and "12:00 PM" maps to 720.
package meetingtime

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrBadDate = errors.New("date must be in MM/DD/YYYY form")
	ErrBadTime = errors.New("time must be in HH:MM AM/PM form")
)

// ParseDate parses "MM/DD/YYYY" into a UTC-midnight date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	d, err := time.Parse("01/02/2006", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
}

// ParseClock parses 12-hour "HH:MM AM/PM" into minutes since midnight.
// The hour may be one or two digits; the meridiem is case-insensitive and
// may be separated from the clock by whitespace ("2:30PM" also works).
func ParseClock(s string) (int, error) {
	raw := strings.ToUpper(strings.TrimSpace(s))

	var meridiem string
	switch {
	case strings.HasSuffix(raw, "AM"):
		meridiem = "AM"
	case strings.HasSuffix(raw, "PM"):
		meridiem = "PM"
	default:
		return 0, fmt.Errorf("%w: %q", ErrBadTime, s)
	}
	clock := strings.TrimSpace(strings.TrimSuffix(raw, meridiem))

	hh, mm, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrBadTime, s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil || hour < 1 || hour > 12 {
		return 0, fmt.Errorf("%w: %q", ErrBadTime, s)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrBadTime, s)
	}

	// 12AM is midnight, 12PM is noon.
	if hour == 12 {
		hour = 0
	}
	if meridiem == "PM" {
		hour += 12
	}
	return hour*60 + minute, nil
}

// FormatClock renders minutes-since-midnight back in 12-hour form for
// pre-filling edit forms.
func FormatClock(minutes int) string {
	hour := minutes / 60
	minute := minutes % 60
	meridiem := "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		meridiem = "PM"
	case hour > 12:
		hour -= 12
		meridiem = "PM"
	}
	return fmt.Sprintf("%02d:%02d %s", hour, minute, meridiem)
}

// FormatDate renders a stored date back in MM/DD/YYYY form.
func FormatDate(d time.Time) string {
	return d.Format("01/02/2006")
}
