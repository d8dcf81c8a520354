package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ParseTimestamp parses timestamps for manual time entries
// Supported formats:
// - yyyy-mm-dd HH:MM (e.g., "2026-08-30 09:15")
// - dd/mm/yyyy HH:MM (e.g., "30/08/2026 09:15")
// - HH:MM (today at that time)
// - X hours ago / X minutes ago (e.g., "2 hours ago")
func ParseTimestamp(input string, now time.Time) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("timestamp is required")
	}

	if ts, err := time.ParseInLocation("2006-01-02 15:04", input, now.Location()); err == nil {
		return ts, nil
	}
	if ts, err := time.ParseInLocation("02/01/2006 15:04", input, now.Location()); err == nil {
		return ts, nil
	}
	if ts, err := parseClockToday(input, now); err == nil {
		return ts, nil
	}
	if ts, err := parseRelativeAgo(input, now); err == nil {
		return ts, nil
	}

	return time.Time{}, fmt.Errorf("invalid timestamp. Use: yyyy-mm-dd HH:MM, dd/mm/yyyy HH:MM, HH:MM, or X hours ago")
}

// ParseDate parses day anchors for timesheet views
// Supported formats:
// - today, yesterday
// - weekday names (most recent one, e.g., "monday")
// - yyyy-mm-dd
// - dd/mm/yyyy
func ParseDate(input string, now time.Time) (time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" || input == "today" {
		return now, nil
	}
	if input == "yesterday" {
		return now.AddDate(0, 0, -1), nil
	}

	if day, ok := weekdayNames[input]; ok {
		return lastWeekday(now, day), nil
	}

	if d, err := time.ParseInLocation("2006-01-02", input, now.Location()); err == nil {
		return d, nil
	}
	if d, err := parseSlashDate(input, now.Location()); err == nil {
		return d, nil
	}

	return time.Time{}, fmt.Errorf("invalid date. Use: today, yesterday, a weekday name, yyyy-mm-dd, or dd/mm/yyyy")
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// lastWeekday returns the most recent occurrence of day on or before now
func lastWeekday(now time.Time, day time.Weekday) time.Time {
	diff := int(now.Weekday()) - int(day)
	if diff < 0 {
		diff += 7
	}
	return now.AddDate(0, 0, -diff)
}

// parseSlashDate parses dd/mm/yyyy
func parseSlashDate(input string, loc *time.Location) (time.Time, error) {
	dateRegex := regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{4})$`)
	matches := dateRegex.FindStringSubmatch(input)
	if len(matches) != 4 {
		return time.Time{}, fmt.Errorf("invalid date format")
	}

	day, _ := strconv.Atoi(matches[1])
	month, _ := strconv.Atoi(matches[2])
	year, _ := strconv.Atoi(matches[3])

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)

	// Check if date is valid (handles leap years, etc.)
	if d.Day() != day || d.Month() != time.Month(month) || d.Year() != year {
		return time.Time{}, fmt.Errorf("invalid date")
	}
	return d, nil
}

// parseClockToday parses HH:MM as today at that wall time
func parseClockToday(input string, now time.Time) (time.Time, error) {
	clockRegex := regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	matches := clockRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return time.Time{}, fmt.Errorf("invalid clock format")
	}

	hour, _ := strconv.Atoi(matches[1])
	minute, _ := strconv.Atoi(matches[2])
	if hour > 23 {
		return time.Time{}, fmt.Errorf("hour must be between 0 and 23")
	}
	if minute > 59 {
		return time.Time{}, fmt.Errorf("minute must be between 0 and 59")
	}

	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location()), nil
}

// parseRelativeAgo parses relative offsets like "3 hours ago", "45 minutes ago"
func parseRelativeAgo(input string, now time.Time) (time.Time, error) {
	input = strings.ToLower(input)

	relativeRegex := regexp.MustCompile(`^(\d+)\s+(minute|minutes|hour|hours|day|days)\s+ago$`)
	matches := relativeRegex.FindStringSubmatch(input)
	if len(matches) != 3 {
		return time.Time{}, fmt.Errorf("invalid relative time format")
	}

	amount, err := strconv.Atoi(matches[1])
	if err != nil || amount < 1 {
		return time.Time{}, fmt.Errorf("invalid number")
	}

	switch matches[2] {
	case "minute", "minutes":
		return now.Add(-time.Duration(amount) * time.Minute), nil
	case "hour", "hours":
		if amount > 8760 { // Max 1 year in hours
			return time.Time{}, fmt.Errorf("hours must be between 1 and 8760")
		}
		return now.Add(-time.Duration(amount) * time.Hour), nil
	case "day", "days":
		if amount > 365 {
			return time.Time{}, fmt.Errorf("days must be between 1 and 365")
		}
		return now.AddDate(0, 0, -amount), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported time unit")
	}
}

// FormatSeconds formats a second count for display, e.g. "2h 15m 30s"
func FormatSeconds(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	if h > 0 {
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	}
	if m > 0 {
		return fmt.Sprintf("%dm %ds", m, s)
	}
	return fmt.Sprintf("%ds", s)
}
