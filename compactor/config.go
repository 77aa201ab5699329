package compactor

import (
	"fmt"
	"math"
)

// Default configuration values.
const (
	DefaultMaxItems             = 25  // Budget of 25 included items
	DefaultCompressionThreshold = 0.3 // Top 30% of the budget gets full detail
	DefaultRecencyDecayDays     = 7.0 // One-week half-life for recency

	DefaultRecencyWeight        = 0.35
	DefaultSessionTouchesWeight = 0.20
	DefaultPriorityWeight       = 0.30
	DefaultUserImportanceWeight = 0.15
)

// recencyFloor is the minimum recency sub-score. Items that have decayed
// fully, or have never been worked, still get this baseline credit.
const recencyFloor = 0.1

// touchSaturation controls diminishing returns on session touches:
// the sub-score is n/(n+touchSaturation).
const touchSaturation = 5.0

// Weights holds the relative weight of each score component.
// Weights are relative, not normalized; they need not sum to 1.0.
// A zero weight disables its component. An all-zero Weights makes every
// score zero, in which case ordering falls back entirely to the tie-break
// rules (recency, then creation date).
type Weights struct {
	Recency        float64 `json:"recency" yaml:"recency"`
	SessionTouches float64 `json:"session_touches" yaml:"session_touches"`
	Priority       float64 `json:"priority" yaml:"priority"`
	UserImportance float64 `json:"user_importance" yaml:"user_importance"`
}

// DefaultWeights returns the default score component weights.
func DefaultWeights() Weights {
	return Weights{
		Recency:        DefaultRecencyWeight,
		SessionTouches: DefaultSessionTouchesWeight,
		Priority:       DefaultPriorityWeight,
		UserImportance: DefaultUserImportanceWeight,
	}
}

// Config holds scoring and budgeting configuration.
//
// The host owns the config and may mutate it between calls; changes take
// effect on the next Compact call, never retroactively.
type Config struct {
	// Weights are the relative weights of the score components.
	Weights Weights `json:"weights" yaml:"weights"`

	// MaxItems is the hard cap on included items. Zero is meaningful:
	// everything is excluded (but still returned, annotated).
	// Negative values are rejected by Validate.
	// Default: 25
	MaxItems int `json:"max_items" yaml:"max_items"`

	// CompressionThreshold is the fraction of MaxItems that gets full
	// detail (0.0-1.0).
	// Default: 0.3
	CompressionThreshold float64 `json:"compression_threshold" yaml:"compression_threshold"`

	// RecencyDecayDays is the half-life, in days, of the recency sub-score.
	// Default: 7
	RecencyDecayDays float64 `json:"recency_decay_days" yaml:"recency_decay_days"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights:              DefaultWeights(),
		MaxItems:             DefaultMaxItems,
		CompressionThreshold: DefaultCompressionThreshold,
		RecencyDecayDays:     DefaultRecencyDecayDays,
	}
}

// ApplyDefaults fills in the decay half-life if unset. MaxItems, the
// compression threshold, and the weights are left untouched: zero is a
// meaningful value for all of them (empty budget, no full-detail band,
// disabled component).
func (c *Config) ApplyDefaults() {
	if c.RecencyDecayDays <= 0 {
		c.RecencyDecayDays = DefaultRecencyDecayDays
	}
}

// Validate validates the configuration and returns an error if invalid.
// Invalid configuration fails fast; nothing is silently clamped.
func (c *Config) Validate() error {
	if c.MaxItems < 0 {
		return fmt.Errorf("%w: max_items must be non-negative, got %d", ErrInvalidConfig, c.MaxItems)
	}

	if c.CompressionThreshold < 0 || c.CompressionThreshold > 1.0 {
		return fmt.Errorf("%w: compression_threshold must be between 0 and 1, got %f",
			ErrInvalidConfig, c.CompressionThreshold)
	}

	if c.RecencyDecayDays <= 0 {
		return fmt.Errorf("%w: recency_decay_days must be positive, got %f",
			ErrInvalidConfig, c.RecencyDecayDays)
	}

	for name, w := range map[string]float64{
		"recency":         c.Weights.Recency,
		"session_touches": c.Weights.SessionTouches,
		"priority":        c.Weights.Priority,
		"user_importance": c.Weights.UserImportance,
	} {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: weight %s must be finite, got %f", ErrInvalidConfig, name, w)
		}
		if w < 0 {
			return fmt.Errorf("%w: weight %s must be non-negative, got %f", ErrInvalidConfig, name, w)
		}
	}

	return nil
}

// fullBand returns the number of top-ranked included items that render at
// full detail.
func (c *Config) fullBand() int {
	return int(math.Ceil(c.CompressionThreshold * float64(c.MaxItems)))
}
