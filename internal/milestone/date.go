package milestone

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for start and end.
const DateLayout = "2006-01-02"

// ParseDate parses a calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// Timestamps returns the start and end of m as Unix milliseconds.
func (m Milestone) Timestamps() (int64, int64, error) {
	start, err := ParseDate(m.Start)
	if err != nil {
		return 0, 0, &InvalidDateError{MilestoneID: m.ID, Field: "start", Value: m.Start}
	}
	end, err := ParseDate(m.End)
	if err != nil {
		return 0, 0, &InvalidDateError{MilestoneID: m.ID, Field: "end", Value: m.End}
	}
	return start.UnixMilli(), end.UnixMilli(), nil
}
