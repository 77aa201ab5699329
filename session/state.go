package session

import (
	"database/sql/driver"
	"fmt"
)

// Status represents the current state of a work session.
type Status string

const (
	// StatusActive indicates the session is accepting activity and insights.
	StatusActive Status = "active"

	// StatusCompleted indicates the session ended normally and its summary
	// has been generated.
	StatusCompleted Status = "completed"

	// StatusContextExceeded indicates the session ended because the context
	// token budget was exhausted.
	StatusContextExceeded Status = "context_exceeded"

	// StatusCrashed indicates the session ended abnormally. A crashed
	// session is picked up by the error_recovery rollover trigger.
	StatusCrashed Status = "crashed"
)

// AllStatuses returns all possible session statuses.
func AllStatuses() []Status {
	return []Status{StatusActive, StatusCompleted, StatusContextExceeded, StatusCrashed}
}

// IsValid returns true if the status is a known Status value.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusCompleted, StatusContextExceeded, StatusCrashed:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if the status is a terminal (final) state.
// Terminal sessions cannot transition to any other state.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCompleted, StatusContextExceeded, StatusCrashed:
		return true
	default:
		return false
	}
}

// CanTransitionTo returns true if a transition from this status to the
// target status is valid. Only an active session can transition, and only
// to a terminal state.
func (s Status) CanTransitionTo(target Status) bool {
	if s.IsTerminal() || s == target {
		return false
	}
	return s == StatusActive && target.IsTerminal()
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Value implements driver.Valuer for database serialization.
func (s Status) Value() (driver.Value, error) {
	return string(s), nil
}

// Scan implements sql.Scanner for database deserialization.
func (s *Status) Scan(src any) error {
	switch v := src.(type) {
	case string:
		status := Status(v)
		if !status.IsValid() {
			return fmt.Errorf("session: invalid status %q", v)
		}
		*s = status
		return nil
	case []byte:
		status := Status(v)
		if !status.IsValid() {
			return fmt.Errorf("session: invalid status %q", v)
		}
		*s = status
		return nil
	default:
		return fmt.Errorf("session: cannot scan type %T into Status", src)
	}
}
