// Package frizycore provides the scoring and session-tracking core behind the
// Frizy project board: a context compactor that ranks work items into a
// bounded, LLM-ready projection, and a session lifecycle tracker that decides
// when a work session should roll over and summarizes it when it ends.
//
// The root package holds the shared data model. The engines live in
// subpackages:
//
//   - compactor: relevance scoring, budget-constrained selection, compression
//     tiers, and serialization of work items into exportable context.
//   - session: the session state machine, rollover trigger evaluation,
//     activity and insight capture, and end-of-session summaries.
//   - tokens: token estimation (chars/4 heuristic plus an optional
//     Anthropic count-tokens API counter).
//   - storage: Postgres-backed persistence for hosts that want the data
//     model round-tripped through a database.
//   - hooks: lifecycle hooks for host observability.
//
// Both engines are synchronous, in-memory cores: they perform no I/O, spawn
// no goroutines, and hold no locks. The host owns persistence, rendering,
// and transport, and is responsible for serializing concurrent mutation of
// the active session.
package frizycore
