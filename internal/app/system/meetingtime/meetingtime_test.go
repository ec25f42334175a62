package meetingtime

import (
	"errors"
	"testing"
	"time"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"02:30 PM", 14*60 + 30},
		{"12:00 AM", 0},
		{"12:00 PM", 12 * 60},
		{"12:01 AM", 1},
		{"12:59 PM", 12*60 + 59},
		{"01:00 AM", 60},
		{"11:59 PM", 23*60 + 59},
		{"9:05 AM", 9*60 + 5},
		{"2:30pm", 14*60 + 30},
		{"  07:45 pm  ", 19*60 + 45},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseClock(tt.input)
			if err != nil {
				t.Fatalf("ParseClock(%q): %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseClock(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseClock_Malformed(t *testing.T) {
	bad := []string{
		"",
		"14:30",      // no meridiem
		"02:30",      // no meridiem
		"13:00 PM",   // hour out of 12-hour range
		"00:30 AM",   // zero hour
		"02:60 PM",   // minute out of range
		"02:5 PM",    // single-digit minute
		"0230 PM",    // missing colon
		"around 2pm", // nonsense
	}
	for _, s := range bad {
		t.Run(s, func(t *testing.T) {
			if _, err := ParseClock(s); !errors.Is(err, ErrBadTime) {
				t.Errorf("ParseClock(%q): expected ErrBadTime, got %v", s, err)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("03/14/2026")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	want := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseDate = %v, want %v", got, want)
	}
}

func TestParseDate_Malformed(t *testing.T) {
	bad := []string{"", "2026-03-14", "14/03/2026", "03/32/2026", "march 14"}
	for _, s := range bad {
		t.Run(s, func(t *testing.T) {
			if _, err := ParseDate(s); !errors.Is(err, ErrBadDate) {
				t.Errorf("ParseDate(%q): expected ErrBadDate, got %v", s, err)
			}
		})
	}
}

func TestFormatClock_RoundTrip(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "12:00 AM"},
		{12 * 60, "12:00 PM"},
		{14*60 + 30, "02:30 PM"},
		{60, "01:00 AM"},
		{23*60 + 59, "11:59 PM"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := FormatClock(tt.minutes)
			if got != tt.want {
				t.Errorf("FormatClock(%d) = %q, want %q", tt.minutes, got, tt.want)
			}
			back, err := ParseClock(got)
			if err != nil || back != tt.minutes {
				t.Errorf("round trip of %d failed: %q -> %d (%v)", tt.minutes, got, back, err)
			}
		})
	}
}
