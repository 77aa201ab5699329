package session

import (
	"time"
)

// Productivity score weights. The score is
//
//	2.0*blocksCompleted + 1.0*insightCount + 10.0*activitiesPerMinute
//
// clamped to [0,10]. Sessions with no activity and no insights score 0.
const (
	productivityCompletedWeight = 2.0
	productivityInsightWeight   = 1.0
	productivityDensityWeight   = 10.0
	productivityMax             = 10.0
)

// SessionSummary is the immutable digest produced when a session ends.
type SessionSummary struct {
	SessionID string `json:"session_id"`
	ProjectID string `json:"project_id"`

	StartedAt time.Time     `json:"started_at"`
	EndedAt   time.Time     `json:"ended_at"`
	Duration  time.Duration `json:"duration"`

	// Insights bucketed by type.
	Decisions  []CapturedInsight `json:"decisions,omitempty"`
	Problems   []CapturedInsight `json:"problems,omitempty"`
	Ideas      []CapturedInsight `json:"ideas,omitempty"`
	Learnings  []CapturedInsight `json:"learnings,omitempty"`
	Blockers   []CapturedInsight `json:"blockers,omitempty"`
	NextSteps  []CapturedInsight `json:"next_steps,omitempty"`
	References []CapturedInsight `json:"references,omitempty"`

	BlocksCreated   int `json:"blocks_created"`
	BlocksModified  int `json:"blocks_modified"`
	BlocksCompleted int `json:"blocks_completed"`

	// ProductivityScore is bounded to [0,10]; see the package constants
	// for the formula.
	ProductivityScore float64 `json:"productivity_score"`

	// FocusAreas lists the distinct block ids touched during the session,
	// in first-touch order.
	FocusAreas []string `json:"focus_areas,omitempty"`

	// Insights is the full capture list in order.
	Insights []CapturedInsight `json:"insights,omitempty"`
}

// buildSummary derives the summary for an ended session.
func buildSummary(s *Session, endedAt time.Time) *SessionSummary {
	summary := &SessionSummary{
		SessionID: s.ID,
		ProjectID: s.ProjectID,
		StartedAt: s.StartedAt,
		EndedAt:   endedAt,
		Duration:  endedAt.Sub(s.StartedAt),
		Insights:  s.Insights,
	}
	if s.EndedAt != nil {
		summary.EndedAt = *s.EndedAt
		summary.Duration = s.EndedAt.Sub(s.StartedAt)
	}

	for _, insight := range s.Insights {
		switch insight.Type {
		case InsightDecision:
			summary.Decisions = append(summary.Decisions, insight)
		case InsightProblemSolution:
			summary.Problems = append(summary.Problems, insight)
		case InsightIdea:
			summary.Ideas = append(summary.Ideas, insight)
		case InsightLearning:
			summary.Learnings = append(summary.Learnings, insight)
		case InsightBlocker:
			summary.Blockers = append(summary.Blockers, insight)
		case InsightNextStep:
			summary.NextSteps = append(summary.NextSteps, insight)
		case InsightReference:
			summary.References = append(summary.References, insight)
		}
	}

	seen := make(map[string]bool)
	for _, record := range s.Activities {
		switch record.Type {
		case ActivityBlockCreated:
			summary.BlocksCreated++
		case ActivityBlockUpdated, ActivityBlockMoved:
			summary.BlocksModified++
		case ActivityBlockCompleted:
			summary.BlocksCompleted++
		}

		if record.BlockID != "" && !seen[record.BlockID] {
			seen[record.BlockID] = true
			summary.FocusAreas = append(summary.FocusAreas, record.BlockID)
		}
	}

	summary.ProductivityScore = productivityScore(
		summary.BlocksCompleted,
		len(s.Insights),
		len(s.Activities),
		summary.Duration,
	)

	return summary
}

// productivityScore computes the bounded productivity score. Sub-minute
// sessions are treated as one minute so activity density stays finite.
func productivityScore(completed, insights, activities int, duration time.Duration) float64 {
	if completed == 0 && insights == 0 && activities == 0 {
		return 0
	}

	minutes := duration.Minutes()
	if minutes < 1 {
		minutes = 1
	}
	density := float64(activities) / minutes

	score := productivityCompletedWeight*float64(completed) +
		productivityInsightWeight*float64(insights) +
		productivityDensityWeight*density

	if score > productivityMax {
		return productivityMax
	}
	if score < 0 {
		return 0
	}
	return score
}
