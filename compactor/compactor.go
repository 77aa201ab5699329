package compactor

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/frizyai/frizycore"
)

// Logger interface for compactor logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a no-op implementation of Logger.
type noopLogger struct{}

func (noopLogger) Debug(msg string, args ...any) {}
func (noopLogger) Info(msg string, args ...any)  {}
func (noopLogger) Warn(msg string, args ...any)  {}
func (noopLogger) Error(msg string, args ...any) {}

// Summary holds aggregate statistics for a compaction result. Counts and
// averages cover the included set only; Warnings records items skipped
// during scoring.
type Summary struct {
	// TotalItems is the number of items in the result, included or not.
	TotalItems int `json:"total_items"`

	// IncludedItems is the number of items inside the budget.
	IncludedItems int `json:"included_items"`

	// CompressedItems is the number of included items rendered at less
	// than full detail.
	CompressedItems int `json:"compressed_items"`

	// EstimatedSize approximates the serialized byte size of the included
	// set at its assigned compression tiers.
	EstimatedSize int `json:"estimated_size"`

	// AverageScore is the mean score of the included items.
	AverageScore float64 `json:"average_score"`

	// Warnings records non-fatal problems, such as malformed items that
	// were skipped during scoring.
	Warnings []string `json:"warnings,omitempty"`
}

// Result is the ordered, annotated projection produced by a compaction run.
// It is immutable once produced and superseded wholesale by the next run.
type Result struct {
	// Items holds every scored item: manual includes first, then the
	// score-sorted remainder, then manual excludes last.
	Items []ScoredItem `json:"items"`

	Summary Summary `json:"summary"`

	GeneratedAt time.Time `json:"generated_at"`
}

// Included returns the items inside the budget, in rank order.
func (r *Result) Included() []ScoredItem {
	included := make([]ScoredItem, 0, r.Summary.IncludedItems)
	for _, item := range r.Items {
		if item.Included {
			included = append(included, item)
		}
	}
	return included
}

// Compactor transforms work item snapshots into ranked, budget-constrained
// projections. It is stateless between calls; repeated calls with identical
// inputs produce identical output.
type Compactor struct {
	logger Logger
	now    func() time.Time
}

// New creates a new Compactor. A nil logger disables logging.
func New(logger Logger) *Compactor {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Compactor{
		logger: logger,
		now:    time.Now,
	}
}

// Compact scores every item, orders the set, applies the item budget, and
// assigns compression tiers.
//
// The config is read fresh on every call, so host-side config changes take
// effect on the next run. isUserImportant marks user-flagged item ids;
// overrides maps item ids to manual include/exclude flags. Both maps may be
// nil.
//
// An empty item list produces a result with zero counts, not an error.
// Items missing an id are skipped with a warning recorded in the result
// summary; malformed config fails fast.
func (c *Compactor) Compact(
	items []frizycore.WorkItem,
	cfg *Config,
	isUserImportant map[string]bool,
	overrides map[string]Override,
) (*Result, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	} else {
		cfg.ApplyDefaults()
	}

	if err := cfg.Validate(); err != nil {
		return nil, NewCompactionError("Compact", err)
	}

	now := c.now()
	var warnings []string

	// Score every item, partitioned by manual override.
	var pinned, ranked, excluded []ScoredItem
	for _, item := range items {
		if strings.TrimSpace(item.ID) == "" {
			warnings = append(warnings,
				fmt.Sprintf("skipped item with empty id (title %q): %v", item.Title, ErrMalformedItem))
			c.logger.Warn("skipping malformed work item", "title", item.Title)
			continue
		}

		var override *Override
		if o, ok := overrides[item.ID]; ok {
			o := o
			override = &o
		}

		scored := Score(item, cfg, isUserImportant[item.ID], override, now)

		switch {
		case override != nil && *override == OverrideInclude:
			pinned = append(pinned, scored)
		case override != nil && *override == OverrideExclude:
			excluded = append(excluded, scored)
		default:
			ranked = append(ranked, scored)
		}
	}

	// Manual includes order among themselves by recency, then priority.
	sort.SliceStable(pinned, func(i, j int) bool {
		if c := compareRecency(pinned[i].Item, pinned[j].Item); c != 0 {
			return c > 0
		}
		if pi, pj := pinned[i].Item.Priority.Rank(), pinned[j].Item.Priority.Rank(); pi != pj {
			return pi > pj
		}
		return pinned[i].Item.ID < pinned[j].Item.ID
	})

	// The remainder orders by descending score, ties broken by recency,
	// then creation date, then id for full determinism.
	byScore := func(items []ScoredItem) func(i, j int) bool {
		return func(i, j int) bool {
			if items[i].Score != items[j].Score {
				return items[i].Score > items[j].Score
			}
			if c := compareRecency(items[i].Item, items[j].Item); c != 0 {
				return c > 0
			}
			if !items[i].Item.CreatedAt.Equal(items[j].Item.CreatedAt) {
				return items[i].Item.CreatedAt.After(items[j].Item.CreatedAt)
			}
			return items[i].Item.ID < items[j].Item.ID
		}
	}
	sort.SliceStable(ranked, byScore(ranked))
	sort.SliceStable(excluded, byScore(excluded))

	// Walk the ordered list applying the budget. Manual includes count
	// toward the cap; manual excludes never enter the included set.
	ordered := make([]ScoredItem, 0, len(pinned)+len(ranked)+len(excluded))
	ordered = append(ordered, pinned...)
	ordered = append(ordered, ranked...)

	fullBand := cfg.fullBand()
	for i := range ordered {
		if i < cfg.MaxItems {
			ordered[i].Included = true
			switch {
			case i < fullBand:
				ordered[i].Compression = CompressionFull
			case i < 2*fullBand:
				ordered[i].Compression = CompressionSummary
			default:
				ordered[i].Compression = CompressionMinimal
			}
		} else {
			ordered[i].Included = false
			ordered[i].Compression = CompressionMinimal
		}
	}

	for i := range excluded {
		excluded[i].Included = false
		excluded[i].Compression = CompressionMinimal
	}
	ordered = append(ordered, excluded...)

	result := &Result{
		Items:       ordered,
		Summary:     summarize(ordered, warnings),
		GeneratedAt: now,
	}

	c.logger.Debug("compaction complete",
		"total", result.Summary.TotalItems,
		"included", result.Summary.IncludedItems,
		"compressed", result.Summary.CompressedItems,
		"warnings", len(warnings),
	)

	return result, nil
}

// summarize computes aggregate statistics over the included set.
func summarize(items []ScoredItem, warnings []string) Summary {
	summary := Summary{
		TotalItems: len(items),
		Warnings:   warnings,
	}

	var scoreSum float64
	for _, item := range items {
		if !item.Included {
			continue
		}
		summary.IncludedItems++
		if item.Compression != CompressionFull {
			summary.CompressedItems++
		}
		summary.EstimatedSize += len(item.Item.Title) + len(contentForLevel(item.Item.Content, item.Compression))
		scoreSum += item.Score
	}

	if summary.IncludedItems > 0 {
		summary.AverageScore = scoreSum / float64(summary.IncludedItems)
	}

	return summary
}

// compareRecency compares two items by LastWorkedAt. Returns positive if a
// is more recent, negative if b is, zero on a tie. Never-worked items sort
// as oldest.
func compareRecency(a, b frizycore.WorkItem) int {
	switch {
	case a.LastWorkedAt == nil && b.LastWorkedAt == nil:
		return 0
	case a.LastWorkedAt == nil:
		return -1
	case b.LastWorkedAt == nil:
		return 1
	case a.LastWorkedAt.After(*b.LastWorkedAt):
		return 1
	case b.LastWorkedAt.After(*a.LastWorkedAt):
		return -1
	default:
		return 0
	}
}
