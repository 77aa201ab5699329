package compactor

import (
	"errors"
	"fmt"
)

// Sentinel errors for compaction operations.
var (
	// ErrInvalidConfig indicates malformed scoring configuration.
	ErrInvalidConfig = errors.New("invalid scoring configuration")

	// ErrMalformedItem indicates a work item missing fields required for scoring.
	ErrMalformedItem = errors.New("malformed work item")

	// ErrUnknownFormat indicates an unsupported serialization format.
	ErrUnknownFormat = errors.New("unknown export format")

	// ErrNilResult indicates serialization was attempted on a nil result.
	ErrNilResult = errors.New("nil compaction result")
)

// CompactionError provides structured error context for compactor operations.
type CompactionError struct {
	// Op is the operation that failed (e.g. "Compact", "Serialize").
	Op string

	// Err is the underlying error.
	Err error

	// Context holds additional key-value pairs for debugging.
	Context map[string]any
}

// Error returns a formatted error message.
func (e *CompactionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("compactor %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("compactor %s failed", e.Op)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *CompactionError) Unwrap() error {
	return e.Err
}

// WithContext adds a key-value pair to the error context and returns the
// error for chaining.
func (e *CompactionError) WithContext(key string, value any) *CompactionError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// NewCompactionError creates a new CompactionError for the given operation.
func NewCompactionError(op string, err error) *CompactionError {
	return &CompactionError{
		Op:      op,
		Err:     err,
		Context: make(map[string]any),
	}
}
