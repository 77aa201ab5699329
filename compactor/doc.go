// Package compactor selects and formats a bounded subset of work items for
// LLM consumption.
//
// Given a snapshot of the board plus user preference state (manual overrides
// and importance marks), the compactor scores every item, orders the result,
// caps it to a configured budget, assigns each included item a compression
// tier, and serializes the projection into an exportable string.
//
// # Scoring
//
// Each item's score is a weighted sum of four sub-scores:
//
//   - Recency: half-life decay of the time since the item was last worked,
//     0.5^(ageDays/RecencyDecayDays), floored at 0.1. Items never worked
//     score exactly the floor.
//   - Session touches: saturating n/(n+5) over the item's session touch
//     count, so a tenth touch adds far less than a second.
//   - Priority: fixed ordinal ratios, urgent 1.0 / high 0.75 / medium 0.5 /
//     low 0.25.
//   - User importance: binary 1.0 bonus for user-marked items.
//
// Manual overrides trump scores: include-pinned items always enter the
// included set (still subject to the item cap), exclude-pinned items never
// do. Overridden items keep their computed score for display.
//
// # Ordering and budget
//
// The result orders manual includes first (most recently worked first),
// then the score-sorted remainder (ties broken by recency, then creation
// date), then manual excludes last. The first MaxItems positions are
// included; everything else stays in the result flagged as excluded so the
// UI can show it.
//
// Included ranks inside the first ceil(CompressionThreshold*MaxItems)
// positions render at full detail; the next equally sized band renders as a
// summary; the remainder renders title-only. Excluded items carry
// CompressionMinimal and are omitted from serialization entirely.
//
// # Purity
//
// Compaction and serialization are pure functions over their inputs. They
// fail only on malformed configuration or an unknown export format; a
// malformed item (missing id) is skipped with a warning recorded in the
// result summary rather than aborting the run.
package compactor
