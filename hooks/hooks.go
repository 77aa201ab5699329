// Package hooks provides lifecycle hooks for host observability around the
// compactor and session tracker.
//
// Hosts register functions on a Registry and trigger them around core
// operations: before/after a compaction run, on session start and end, and
// on insight capture. Built-in logging and metrics hooks cover the common
// cases.
package hooks

import (
	"context"
	"sync"

	"github.com/frizyai/frizycore/compactor"
	"github.com/frizyai/frizycore/session"
)

// BeforeCompactionHook is called before a compaction run.
type BeforeCompactionHook func(ctx context.Context, itemCount int) error

// AfterCompactionHook is called after a compaction run.
type AfterCompactionHook func(ctx context.Context, result *compactor.Result) error

// SessionStartedHook is called when a session starts.
type SessionStartedHook func(ctx context.Context, s *session.Session, trigger *session.Trigger) error

// SessionEndedHook is called when a session ends with its summary.
type SessionEndedHook func(ctx context.Context, summary *session.SessionSummary) error

// InsightCapturedHook is called when an insight is captured.
type InsightCapturedHook func(ctx context.Context, insight *session.CapturedInsight) error

// Registry holds all registered hooks.
type Registry struct {
	mu               sync.RWMutex
	beforeCompaction []BeforeCompactionHook
	afterCompaction  []AfterCompactionHook
	sessionStarted   []SessionStartedHook
	sessionEnded     []SessionEndedHook
	insightCaptured  []InsightCapturedHook
}

// NewRegistry creates a new hook registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// OnBeforeCompaction registers a hook to be called before compaction.
func (r *Registry) OnBeforeCompaction(hook BeforeCompactionHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.beforeCompaction = append(r.beforeCompaction, hook)
}

// OnAfterCompaction registers a hook to be called after compaction.
func (r *Registry) OnAfterCompaction(hook AfterCompactionHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterCompaction = append(r.afterCompaction, hook)
}

// OnSessionStarted registers a hook to be called on session start.
func (r *Registry) OnSessionStarted(hook SessionStartedHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessionStarted = append(r.sessionStarted, hook)
}

// OnSessionEnded registers a hook to be called on session end.
func (r *Registry) OnSessionEnded(hook SessionEndedHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessionEnded = append(r.sessionEnded, hook)
}

// OnInsightCaptured registers a hook to be called on insight capture.
func (r *Registry) OnInsightCaptured(hook InsightCapturedHook) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.insightCaptured = append(r.insightCaptured, hook)
}

// TriggerBeforeCompaction calls all registered before-compaction hooks.
// The first hook error stops the chain and is returned.
func (r *Registry) TriggerBeforeCompaction(ctx context.Context, itemCount int) error {
	r.mu.RLock()
	hooks := make([]BeforeCompactionHook, len(r.beforeCompaction))
	copy(hooks, r.beforeCompaction)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, itemCount); err != nil {
			return err
		}
	}
	return nil
}

// TriggerAfterCompaction calls all registered after-compaction hooks.
func (r *Registry) TriggerAfterCompaction(ctx context.Context, result *compactor.Result) error {
	r.mu.RLock()
	hooks := make([]AfterCompactionHook, len(r.afterCompaction))
	copy(hooks, r.afterCompaction)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, result); err != nil {
			return err
		}
	}
	return nil
}

// TriggerSessionStarted calls all registered session-started hooks.
func (r *Registry) TriggerSessionStarted(ctx context.Context, s *session.Session, trigger *session.Trigger) error {
	r.mu.RLock()
	hooks := make([]SessionStartedHook, len(r.sessionStarted))
	copy(hooks, r.sessionStarted)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, s, trigger); err != nil {
			return err
		}
	}
	return nil
}

// TriggerSessionEnded calls all registered session-ended hooks.
func (r *Registry) TriggerSessionEnded(ctx context.Context, summary *session.SessionSummary) error {
	r.mu.RLock()
	hooks := make([]SessionEndedHook, len(r.sessionEnded))
	copy(hooks, r.sessionEnded)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, summary); err != nil {
			return err
		}
	}
	return nil
}

// TriggerInsightCaptured calls all registered insight-captured hooks.
func (r *Registry) TriggerInsightCaptured(ctx context.Context, insight *session.CapturedInsight) error {
	r.mu.RLock()
	hooks := make([]InsightCapturedHook, len(r.insightCaptured))
	copy(hooks, r.insightCaptured)
	r.mu.RUnlock()

	for _, hook := range hooks {
		if err := hook(ctx, insight); err != nil {
			return err
		}
	}
	return nil
}
