package session

import (
	"fmt"
	"time"
)

// TriggerType classifies the condition that caused (or would cause) a
// session rollover.
type TriggerType string

const (
	// TriggerManual is an explicit host-initiated start, including the
	// very first session of a project.
	TriggerManual TriggerType = "manual"

	// TriggerDaily fires when the active session started on a different
	// calendar day than the current one.
	TriggerDaily TriggerType = "daily"

	// TriggerContextLimit fires when the context usage estimate crosses
	// the configured fraction of the context window.
	TriggerContextLimit TriggerType = "context_limit"

	// TriggerInactivity fires when no activity has been recorded for
	// longer than the inactivity timeout.
	TriggerInactivity TriggerType = "inactivity"

	// TriggerProjectSwitch fires when the host requests work on a
	// different project than the active session is bound to.
	TriggerProjectSwitch TriggerType = "project_switch"

	// TriggerErrorRecovery fires when the tracked session is crashed and
	// a fresh one is needed.
	TriggerErrorRecovery TriggerType = "error_recovery"
)

// IsValid returns true if the trigger type is a known value.
func (t TriggerType) IsValid() bool {
	switch t {
	case TriggerManual, TriggerDaily, TriggerContextLimit,
		TriggerInactivity, TriggerProjectSwitch, TriggerErrorRecovery:
		return true
	default:
		return false
	}
}

// String returns the string representation of the trigger type.
func (t TriggerType) String() string {
	return string(t)
}

// Trigger is the outcome of rollover evaluation. It is produced
// transiently and handed to the host for logging; it is not a stored
// entity.
type Trigger struct {
	Type   TriggerType `json:"type"`
	Reason string      `json:"reason"`
	At     time.Time   `json:"at"`
}

// Default tracker configuration values.
const (
	DefaultMaxContextTokens  = 200000          // Claude-sized context window
	DefaultContextTrigger    = 0.8             // Roll over at 80% context usage
	DefaultInactivityTimeout = 2 * time.Hour   // Roll over after 2h of silence
	DefaultMergeWindow       = 5 * time.Minute // Reconnects within 5m may resume
	DefaultMaxActiveVisible  = 10              // Archive all but the 10 newest
)

// Config holds session tracker thresholds.
type Config struct {
	// MaxContextTokens is the context window the usage estimate is
	// measured against.
	// Default: 200000
	MaxContextTokens int `json:"max_context_tokens" yaml:"max_context_tokens"`

	// ContextTrigger is the fraction (0.0-1.0) of MaxContextTokens at
	// which a context_limit rollover fires.
	// Default: 0.8
	ContextTrigger float64 `json:"context_trigger" yaml:"context_trigger"`

	// InactivityTimeout is how long a session may sit idle before an
	// inactivity rollover fires.
	// Default: 2h
	InactivityTimeout time.Duration `json:"inactivity_timeout" yaml:"inactivity_timeout"`

	// MergeWindow is the maximum gap between two sessions for
	// ShouldMerge to consider them resumable.
	// Default: 5m
	MergeWindow time.Duration `json:"merge_window" yaml:"merge_window"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MaxContextTokens:  DefaultMaxContextTokens,
		ContextTrigger:    DefaultContextTrigger,
		InactivityTimeout: DefaultInactivityTimeout,
		MergeWindow:       DefaultMergeWindow,
	}
}

// ApplyDefaults fills in zero values with defaults.
func (c *Config) ApplyDefaults() {
	if c.MaxContextTokens == 0 {
		c.MaxContextTokens = DefaultMaxContextTokens
	}
	if c.ContextTrigger == 0 {
		c.ContextTrigger = DefaultContextTrigger
	}
	if c.InactivityTimeout == 0 {
		c.InactivityTimeout = DefaultInactivityTimeout
	}
	if c.MergeWindow == 0 {
		c.MergeWindow = DefaultMergeWindow
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.MaxContextTokens <= 0 {
		return fmt.Errorf("%w: max_context_tokens must be positive, got %d",
			ErrInvalidConfig, c.MaxContextTokens)
	}
	if c.ContextTrigger <= 0 || c.ContextTrigger > 1.0 {
		return fmt.Errorf("%w: context_trigger must be between 0 and 1, got %f",
			ErrInvalidConfig, c.ContextTrigger)
	}
	if c.InactivityTimeout <= 0 {
		return fmt.Errorf("%w: inactivity_timeout must be positive, got %s",
			ErrInvalidConfig, c.InactivityTimeout)
	}
	if c.MergeWindow < 0 {
		return fmt.Errorf("%w: merge_window must be non-negative, got %s",
			ErrInvalidConfig, c.MergeWindow)
	}
	return nil
}

// ContextThreshold returns the absolute token count at which a
// context_limit rollover fires.
func (c *Config) ContextThreshold() int {
	return int(float64(c.MaxContextTokens) * c.ContextTrigger)
}

// EvaluateRollover decides whether the current session must end and a new
// one start. It is a pure function; hosts call it before accepting any
// mutating activity.
//
// Conditions are checked in fixed priority order, first match wins:
//
//  1. No current session
//  2. Session started on a different calendar day (local time)
//  3. Context usage estimate over the configured threshold
//  4. Inactivity beyond the timeout
//  5. Requested project differs from the session's project
//  6. Session is crashed
//
// If no condition matches, the current session continues and the returned
// trigger is nil.
func EvaluateRollover(
	current *Session,
	lastEventTime time.Time,
	contextUsage int,
	requestedProjectID string,
	now time.Time,
	cfg *Config,
) (bool, *Trigger) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if current == nil {
		return true, &Trigger{
			Type:   TriggerManual,
			Reason: "no active session",
			At:     now,
		}
	}

	sy, sm, sd := current.StartedAt.Local().Date()
	ny, nm, nd := now.Local().Date()
	if sy != ny || sm != nm || sd != nd {
		return true, &Trigger{
			Type:   TriggerDaily,
			Reason: fmt.Sprintf("session started %s, today is %s", current.StartedAt.Local().Format("2006-01-02"), now.Local().Format("2006-01-02")),
			At:     now,
		}
	}

	if contextUsage > cfg.ContextThreshold() {
		return true, &Trigger{
			Type:   TriggerContextLimit,
			Reason: fmt.Sprintf("context usage %d exceeds threshold %d", contextUsage, cfg.ContextThreshold()),
			At:     now,
		}
	}

	if !lastEventTime.IsZero() && now.Sub(lastEventTime) > cfg.InactivityTimeout {
		return true, &Trigger{
			Type:   TriggerInactivity,
			Reason: fmt.Sprintf("no activity for %s", now.Sub(lastEventTime).Round(time.Minute)),
			At:     now,
		}
	}

	if requestedProjectID != "" && requestedProjectID != current.ProjectID {
		return true, &Trigger{
			Type:   TriggerProjectSwitch,
			Reason: fmt.Sprintf("switching from project %s to %s", current.ProjectID, requestedProjectID),
			At:     now,
		}
	}

	if current.Status == StatusCrashed {
		return true, &Trigger{
			Type:   TriggerErrorRecovery,
			Reason: "recovering from crashed session",
			At:     now,
		}
	}

	return false, nil
}
