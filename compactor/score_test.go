package compactor

import (
	"testing"
	"time"

	"github.com/frizyai/frizycore"
)

var scoreNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

func daysAgo(d float64) *time.Time {
	t := scoreNow.Add(-time.Duration(d * 24 * float64(time.Hour)))
	return &t
}

func TestRecencyScore(t *testing.T) {
	tests := []struct {
		name         string
		lastWorkedAt *time.Time
		decayDays    float64
		expected     float64
	}{
		{
			name:         "never worked scores the floor",
			lastWorkedAt: nil,
			decayDays:    7,
			expected:     recencyFloor,
		},
		{
			name:         "worked just now scores 1",
			lastWorkedAt: daysAgo(0),
			decayDays:    7,
			expected:     1.0,
		},
		{
			name:         "one half-life scores 0.5",
			lastWorkedAt: daysAgo(7),
			decayDays:    7,
			expected:     0.5,
		},
		{
			name:         "two half-lives scores 0.25",
			lastWorkedAt: daysAgo(14),
			decayDays:    7,
			expected:     0.25,
		},
		{
			name:         "ancient work floors out",
			lastWorkedAt: daysAgo(365),
			decayDays:    7,
			expected:     recencyFloor,
		},
		{
			name:         "future timestamp clamps to now",
			lastWorkedAt: daysAgo(-3),
			decayDays:    7,
			expected:     1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recencyScore(tt.lastWorkedAt, scoreNow, tt.decayDays)
			if diff := got - tt.expected; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("recencyScore() = %f, want %f", got, tt.expected)
			}
		})
	}
}

func TestRecencyScoreMonotonic(t *testing.T) {
	// Older items must never outscore newer ones.
	prev := 2.0
	for d := 0.0; d <= 60; d += 0.5 {
		got := recencyScore(daysAgo(d), scoreNow, 7)
		if got > prev {
			t.Fatalf("recency score increased with age at %.1f days: %f > %f", d, got, prev)
		}
		prev = got
	}
}

func TestTouchScoreSaturates(t *testing.T) {
	if got := touchScore(0); got != 0 {
		t.Errorf("touchScore(0) = %f, want 0", got)
	}

	// Monotonically increasing.
	prev := -1.0
	for n := 0; n <= 50; n++ {
		got := touchScore(n)
		if got <= prev && n > 0 {
			t.Fatalf("touch score not increasing at %d touches: %f <= %f", n, got, prev)
		}
		if got >= 1.0 {
			t.Fatalf("touch score reached 1.0 at %d touches", n)
		}
		prev = got
	}

	// Diminishing returns: the 10th touch adds less than the 2nd.
	second := touchScore(2) - touchScore(1)
	tenth := touchScore(10) - touchScore(9)
	if tenth >= second {
		t.Errorf("10th touch gain %f not below 2nd touch gain %f", tenth, second)
	}
}

func TestPriorityScoreOrdering(t *testing.T) {
	priorities := []frizycore.Priority{
		frizycore.PriorityLow,
		frizycore.PriorityMedium,
		frizycore.PriorityHigh,
		frizycore.PriorityUrgent,
	}

	prev := 0.0
	for _, p := range priorities {
		got := priorityScore(p)
		if got <= prev {
			t.Errorf("priorityScore(%s) = %f, want above %f", p, got, prev)
		}
		prev = got
	}
}

func TestScoreWeightedSum(t *testing.T) {
	cfg := &Config{
		Weights: Weights{
			Recency:        1.0,
			SessionTouches: 0,
			Priority:       0,
			UserImportance: 2.0,
		},
		MaxItems:             10,
		CompressionThreshold: 0.3,
		RecencyDecayDays:     7,
	}

	item := frizycore.WorkItem{
		ID:           "b1",
		Priority:     frizycore.PriorityUrgent,
		LastWorkedAt: daysAgo(7),
	}

	got := Score(item, cfg, true, nil, scoreNow)

	want := 1.0*0.5 + 2.0*1.0
	if diff := got.Score - want; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("Score = %f, want %f", got.Score, want)
	}
	if got.Breakdown.UserImportance != 1.0 {
		t.Errorf("UserImportance breakdown = %f, want 1.0", got.Breakdown.UserImportance)
	}
	if got.Breakdown.Priority != 1.0 {
		t.Errorf("Priority breakdown = %f, want 1.0", got.Breakdown.Priority)
	}
}

func TestScoreKeepsOverrideAndReasons(t *testing.T) {
	exclude := OverrideExclude
	item := frizycore.WorkItem{
		ID:                "b1",
		Priority:          frizycore.PriorityUrgent,
		LastWorkedAt:      daysAgo(1),
		SessionTouchCount: 4,
	}

	got := Score(item, DefaultConfig(), false, &exclude, scoreNow)

	if got.ManualOverride == nil || *got.ManualOverride != OverrideExclude {
		t.Fatal("manual override not carried through scoring")
	}
	if got.Score <= 0 {
		t.Error("excluded item should still carry its computed score for display")
	}
	if len(got.IncludeReasons) == 0 {
		t.Error("expected include reasons for an urgent, recent, frequently touched item")
	}
}
