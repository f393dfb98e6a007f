package milestone

import (
	"fmt"
	"strings"
)

// ValidationError reports required fields that are empty or malformed.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid milestone: %s (%s)", e.Reason, strings.Join(e.Fields, ", "))
}

// NotFoundError is returned when no milestone has the requested ID.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("milestone %s not found", e.ID)
}

// InvalidDateError reports a stored date that cannot be parsed.
type InvalidDateError struct {
	MilestoneID string
	Field       string
	Value       string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("milestone %s: invalid %s date %q", e.MilestoneID, e.Field, e.Value)
}
