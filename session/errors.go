package session

import (
	"errors"
	"fmt"
)

// Sentinel errors for session tracking operations.
var (
	// ErrNoActiveSession indicates activity or insight capture was
	// attempted with no active session.
	ErrNoActiveSession = errors.New("no active session")

	// ErrInvalidInsight indicates an insight is missing required fields.
	ErrInvalidInsight = errors.New("invalid insight")

	// ErrInvalidConfig indicates invalid tracker configuration.
	ErrInvalidConfig = errors.New("invalid tracker configuration")

	// ErrSessionNotFound indicates the session does not exist.
	ErrSessionNotFound = errors.New("session not found")
)

// TrackerError provides structured error context for tracker operations.
type TrackerError struct {
	// Op is the operation that failed (e.g. "TrackActivity", "CaptureInsight").
	Op string

	// SessionID is the session id, if one applies.
	SessionID string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *TrackerError) Error() string {
	if e.SessionID != "" {
		return fmt.Sprintf("%s (session=%s): %v", e.Op, e.SessionID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *TrackerError) Unwrap() error {
	return e.Err
}

// NewTrackerError creates a new TrackerError.
func NewTrackerError(op string, err error) *TrackerError {
	return &TrackerError{Op: op, Err: err}
}

// NewTrackerErrorWithSession creates a new TrackerError with a session id.
func NewTrackerErrorWithSession(op, sessionID string, err error) *TrackerError {
	return &TrackerError{Op: op, SessionID: sessionID, Err: err}
}
