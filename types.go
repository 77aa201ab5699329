package frizycore

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// BlockStatus represents the board status of a work item.
type BlockStatus string

const (
	StatusNotStarted BlockStatus = "not-started"
	StatusInProgress BlockStatus = "in-progress"
	StatusBlocked    BlockStatus = "blocked"
	StatusCompleted  BlockStatus = "completed"
	StatusArchived   BlockStatus = "archived"
)

// IsValid returns true if the status is a known BlockStatus value.
func (s BlockStatus) IsValid() bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusBlocked, StatusCompleted, StatusArchived:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s BlockStatus) String() string {
	return string(s)
}

// Value implements driver.Valuer for database serialization.
func (s BlockStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// Scan implements sql.Scanner for database deserialization.
func (s *BlockStatus) Scan(src any) error {
	switch v := src.(type) {
	case string:
		*s = BlockStatus(v)
		return nil
	case []byte:
		*s = BlockStatus(v)
		return nil
	default:
		return fmt.Errorf("frizycore: cannot scan type %T into BlockStatus", src)
	}
}

// Priority represents the urgency of a work item.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// IsValid returns true if the priority is a known Priority value.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// Rank returns the ordinal position of the priority, with urgent highest.
// Unknown priorities rank below low.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// Value implements driver.Valuer for database serialization.
func (p Priority) Value() (driver.Value, error) {
	return string(p), nil
}

// Scan implements sql.Scanner for database deserialization.
func (p *Priority) Scan(src any) error {
	switch v := src.(type) {
	case string:
		*p = Priority(v)
		return nil
	case []byte:
		*p = Priority(v)
		return nil
	default:
		return fmt.Errorf("frizycore: cannot scan type %T into Priority", src)
	}
}

// WorkItem is a unit of project work tracked on the board (a "block").
// Work items are owned by the host application; the core only reads them.
type WorkItem struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`

	// Lane is the board column the item belongs to
	// (e.g. "vision", "goals", "current-sprint").
	Lane string `json:"lane"`

	Status   BlockStatus `json:"status"`
	Priority Priority    `json:"priority"`

	Effort      int `json:"effort"`
	EnergyLevel int `json:"energy_level"`
	Complexity  int `json:"complexity"`
	Inspiration int `json:"inspiration"`
	Progress    int `json:"progress"`

	// LastWorkedAt is the last time any session touched this item.
	// Nil means the item has never been worked.
	LastWorkedAt *time.Time `json:"last_worked_at,omitempty"`

	// SessionTouchCount is how many sessions have referenced this item.
	SessionTouchCount int `json:"session_touch_count"`

	Tags []string `json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Age returns how long ago the item was last worked, relative to now.
// Returns false if the item has never been worked.
func (w *WorkItem) Age(now time.Time) (time.Duration, bool) {
	if w.LastWorkedAt == nil {
		return 0, false
	}
	return now.Sub(*w.LastWorkedAt), true
}
