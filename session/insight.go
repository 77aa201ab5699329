package session

import (
	"fmt"
	"strings"
	"time"
)

// InsightType classifies a captured insight.
type InsightType string

const (
	InsightDecision        InsightType = "decision"
	InsightProblemSolution InsightType = "problem_solution"
	InsightIdea            InsightType = "idea"
	InsightLearning        InsightType = "learning"
	InsightBlocker         InsightType = "blocker"
	InsightNextStep        InsightType = "next_step"
	InsightReference       InsightType = "reference"
)

// IsValid returns true if the insight type is a known value.
func (t InsightType) IsValid() bool {
	switch t {
	case InsightDecision, InsightProblemSolution, InsightIdea,
		InsightLearning, InsightBlocker, InsightNextStep, InsightReference:
		return true
	default:
		return false
	}
}

// String returns the string representation of the insight type.
func (t InsightType) String() string {
	return string(t)
}

// Importance is the user-assigned weight of an insight.
type Importance string

const (
	ImportanceLow    Importance = "low"
	ImportanceMedium Importance = "medium"
	ImportanceHigh   Importance = "high"
)

// IsValid returns true if the importance is a known value.
func (i Importance) IsValid() bool {
	switch i {
	case ImportanceLow, ImportanceMedium, ImportanceHigh:
		return true
	default:
		return false
	}
}

// InsightInput is the host-supplied shape of an insight to capture.
type InsightInput struct {
	Type       InsightType `json:"type"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	BlockIDs   []string    `json:"block_ids,omitempty"`
	Tags       []string    `json:"tags,omitempty"`
	Importance Importance  `json:"importance,omitempty"`
}

// Validate checks the required fields. Type, title, and content must all
// be non-empty after trimming.
func (in *InsightInput) Validate() error {
	if !in.Type.IsValid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidInsight, in.Type)
	}
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidInsight)
	}
	if strings.TrimSpace(in.Content) == "" {
		return fmt.Errorf("%w: content is required", ErrInvalidInsight)
	}
	if in.Importance != "" && !in.Importance.IsValid() {
		return fmt.Errorf("%w: unknown importance %q", ErrInvalidInsight, in.Importance)
	}
	return nil
}

// CapturedInsight is a user-captured note stored inside a session.
// Insights are append-only and feed the end-of-session summary.
type CapturedInsight struct {
	ID         string      `json:"id"`
	Type       InsightType `json:"type"`
	Title      string      `json:"title"`
	Content    string      `json:"content"`
	BlockIDs   []string    `json:"block_ids,omitempty"`
	Tags       []string    `json:"tags,omitempty"`
	Importance Importance  `json:"importance"`
	CapturedAt time.Time   `json:"captured_at"`
}
