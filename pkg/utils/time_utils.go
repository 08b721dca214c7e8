package utils

import (
	"fmt"
	"time"
)

// ParseClock parses an "HH:MM" label into minutes since midnight. Returns
// ok=false for anything that is not a well-formed 24h clock.
func ParseClock(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// FormatDate renders a date for prompts and responses; empty for nil.
func FormatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// ClockLabel renders minutes since midnight back into "HH:MM".
func ClockLabel(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", (minutes/60)%24, minutes%60)
}
