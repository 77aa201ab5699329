package compactor

import (
	"fmt"
	"math"
	"time"

	"github.com/frizyai/frizycore"
)

// CompressionLevel is how much detail an included item receives in
// serialized output.
type CompressionLevel string

const (
	// CompressionFull renders the item's full content.
	CompressionFull CompressionLevel = "full"

	// CompressionSummary renders a truncated, first-lines form.
	CompressionSummary CompressionLevel = "summary"

	// CompressionMinimal renders the title and a single line only.
	CompressionMinimal CompressionLevel = "minimal"
)

// IsValid returns true if the level is a known CompressionLevel value.
func (l CompressionLevel) IsValid() bool {
	switch l {
	case CompressionFull, CompressionSummary, CompressionMinimal:
		return true
	default:
		return false
	}
}

// String returns the string representation of the level.
func (l CompressionLevel) String() string {
	return string(l)
}

// Override is a user-set manual include/exclude flag for an item. It trumps
// score-based inclusion and exclusion.
type Override string

const (
	OverrideInclude Override = "include"
	OverrideExclude Override = "exclude"
)

// ScoreBreakdown holds the named sub-scores behind an item's final score.
// Each sub-score is in [0,1] before weighting.
type ScoreBreakdown struct {
	Recency        float64 `json:"recency"`
	SessionTouches float64 `json:"session_touches"`
	Priority       float64 `json:"priority"`
	UserImportance float64 `json:"user_importance"`
}

// ScoredItem wraps a work item with its computed relevance and the
// compactor's inclusion decision. Scored items are created fresh on every
// compaction pass and never persisted by the core.
type ScoredItem struct {
	Item frizycore.WorkItem `json:"item"`

	// Score is the weighted sum of the sub-scores in Breakdown.
	Score float64 `json:"score"`

	Breakdown ScoreBreakdown `json:"breakdown"`

	// Included reports whether the item made it into the budget.
	Included bool `json:"included"`

	// Compression is the detail tier assigned to the item. Excluded items
	// carry CompressionMinimal but are omitted from serialization.
	Compression CompressionLevel `json:"compression"`

	// ManualOverride is the user's include/exclude flag, if any.
	ManualOverride *Override `json:"manual_override,omitempty"`

	// IncludeReasons are human-readable justifications for the item's
	// placement.
	IncludeReasons []string `json:"include_reasons,omitempty"`
}

// recencyScore computes the half-life decay sub-score for the time since
// the item was last worked. Strictly monotonic in age down to the floor;
// never-worked items score exactly the floor.
func recencyScore(lastWorkedAt *time.Time, now time.Time, decayDays float64) float64 {
	if lastWorkedAt == nil {
		return recencyFloor
	}

	ageDays := now.Sub(*lastWorkedAt).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}

	score := math.Pow(0.5, ageDays/decayDays)
	if score < recencyFloor {
		return recencyFloor
	}
	return score
}

// touchScore computes the saturating session-touch sub-score. Monotonically
// increasing in the touch count with diminishing returns.
func touchScore(count int) float64 {
	if count <= 0 {
		return 0
	}
	n := float64(count)
	return n / (n + touchSaturation)
}

// priorityScore maps priority to its fixed ratio.
func priorityScore(p frizycore.Priority) float64 {
	switch p {
	case frizycore.PriorityUrgent:
		return 1.0
	case frizycore.PriorityHigh:
		return 0.75
	case frizycore.PriorityMedium:
		return 0.5
	case frizycore.PriorityLow:
		return 0.25
	default:
		return 0.25
	}
}

// Score computes a ScoredItem for a single work item. The inclusion flag
// and compression tier are not decided here; Compact assigns them after
// ordering the full set.
func Score(item frizycore.WorkItem, cfg *Config, isUserImportant bool, override *Override, now time.Time) ScoredItem {
	breakdown := ScoreBreakdown{
		Recency:        recencyScore(item.LastWorkedAt, now, cfg.RecencyDecayDays),
		SessionTouches: touchScore(item.SessionTouchCount),
		Priority:       priorityScore(item.Priority),
	}
	if isUserImportant {
		breakdown.UserImportance = 1.0
	}

	score := cfg.Weights.Recency*breakdown.Recency +
		cfg.Weights.SessionTouches*breakdown.SessionTouches +
		cfg.Weights.Priority*breakdown.Priority +
		cfg.Weights.UserImportance*breakdown.UserImportance

	scored := ScoredItem{
		Item:           item,
		Score:          score,
		Breakdown:      breakdown,
		ManualOverride: override,
	}
	scored.IncludeReasons = includeReasons(&scored, isUserImportant)

	return scored
}

// includeReasons derives human-readable justifications for an item's
// placement.
func includeReasons(s *ScoredItem, isUserImportant bool) []string {
	var reasons []string

	if s.ManualOverride != nil {
		switch *s.ManualOverride {
		case OverrideInclude:
			reasons = append(reasons, "manually pinned by user")
		case OverrideExclude:
			reasons = append(reasons, "manually excluded by user")
		}
	}

	if isUserImportant {
		reasons = append(reasons, "marked important by user")
	}

	if s.Item.Priority == frizycore.PriorityUrgent || s.Item.Priority == frizycore.PriorityHigh {
		reasons = append(reasons, fmt.Sprintf("%s priority", s.Item.Priority))
	}

	if s.Breakdown.Recency > 0.5 {
		reasons = append(reasons, "worked on recently")
	}

	if s.Item.SessionTouchCount >= 3 {
		reasons = append(reasons, fmt.Sprintf("touched in %d sessions", s.Item.SessionTouchCount))
	}

	return reasons
}
