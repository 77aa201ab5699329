package hooks

import (
	"context"
	"log"

	"github.com/frizyai/frizycore/compactor"
	"github.com/frizyai/frizycore/session"
)

// LoggingHooks provides built-in logging hooks for observability.
type LoggingHooks struct {
	logger *log.Logger
}

// NewLoggingHooks creates logging hooks with the provided logger.
func NewLoggingHooks(logger *log.Logger) *LoggingHooks {
	return &LoggingHooks{logger: logger}
}

// DefaultLoggingHooks creates logging hooks with the default logger.
func DefaultLoggingHooks() *LoggingHooks {
	return &LoggingHooks{logger: log.Default()}
}

// Register attaches every logging hook to the registry.
func (h *LoggingHooks) Register(r *Registry) {
	r.OnBeforeCompaction(h.BeforeCompaction)
	r.OnAfterCompaction(h.AfterCompaction)
	r.OnSessionStarted(h.SessionStarted)
	r.OnSessionEnded(h.SessionEnded)
	r.OnInsightCaptured(h.InsightCaptured)
}

// BeforeCompaction logs before a compaction run.
func (h *LoggingHooks) BeforeCompaction(ctx context.Context, itemCount int) error {
	h.logger.Printf("[Frizy] Compacting %d work items", itemCount)
	return nil
}

// AfterCompaction logs the outcome of a compaction run.
func (h *LoggingHooks) AfterCompaction(ctx context.Context, result *compactor.Result) error {
	h.logger.Printf("[Frizy] Compaction complete: %d/%d items included (%d compressed, avg score %.2f, ~%d bytes)",
		result.Summary.IncludedItems, result.Summary.TotalItems,
		result.Summary.CompressedItems, result.Summary.AverageScore,
		result.Summary.EstimatedSize)
	for _, warning := range result.Summary.Warnings {
		h.logger.Printf("[Frizy] Compaction warning: %s", warning)
	}
	return nil
}

// SessionStarted logs a session start.
func (h *LoggingHooks) SessionStarted(ctx context.Context, s *session.Session, trigger *session.Trigger) error {
	reason := ""
	if trigger != nil {
		reason = trigger.Reason
	}
	h.logger.Printf("[Frizy] Session %s started for project %s (%s)", s.ID, s.ProjectID, reason)
	return nil
}

// SessionEnded logs a session summary.
func (h *LoggingHooks) SessionEnded(ctx context.Context, summary *session.SessionSummary) error {
	h.logger.Printf("[Frizy] Session %s ended after %s: %d insights, %d blocks completed, productivity %.1f/10",
		summary.SessionID, summary.Duration.Round(0),
		len(summary.Insights), summary.BlocksCompleted, summary.ProductivityScore)
	return nil
}

// InsightCaptured logs an insight capture.
func (h *LoggingHooks) InsightCaptured(ctx context.Context, insight *session.CapturedInsight) error {
	h.logger.Printf("[Frizy] Insight captured (%s): %s", insight.Type, insight.Title)
	return nil
}

// MetricsHooks collects metrics for monitoring.
type MetricsHooks struct {
	OnMetric func(name string, value float64, tags map[string]string)
}

// NewMetricsHooks creates metrics collection hooks.
func NewMetricsHooks(onMetric func(string, float64, map[string]string)) *MetricsHooks {
	return &MetricsHooks{OnMetric: onMetric}
}

// AfterCompaction records compaction metrics.
func (h *MetricsHooks) AfterCompaction(ctx context.Context, result *compactor.Result) error {
	h.OnMetric("frizy.compaction.total_items", float64(result.Summary.TotalItems), nil)
	h.OnMetric("frizy.compaction.included_items", float64(result.Summary.IncludedItems), nil)
	h.OnMetric("frizy.compaction.estimated_size", float64(result.Summary.EstimatedSize), nil)
	h.OnMetric("frizy.compaction.average_score", result.Summary.AverageScore, nil)
	return nil
}

// SessionEnded records session metrics.
func (h *MetricsHooks) SessionEnded(ctx context.Context, summary *session.SessionSummary) error {
	tags := map[string]string{"project": summary.ProjectID}

	h.OnMetric("frizy.session.duration_minutes", summary.Duration.Minutes(), tags)
	h.OnMetric("frizy.session.insights", float64(len(summary.Insights)), tags)
	h.OnMetric("frizy.session.blocks_completed", float64(summary.BlocksCompleted), tags)
	h.OnMetric("frizy.session.productivity", summary.ProductivityScore, tags)
	return nil
}
