// Package session tracks the lifecycle of work sessions on a Frizy project
// board.
//
// A session is a bounded period of tracked work, analogous to one
// AI-assistant conversation. The tracker maintains a single active session,
// accumulates typed activity records and user-captured insights while it
// runs, and produces an immutable summary when it ends.
//
// State machine:
//
//	(no session) -> active                (StartSession)
//	active -> completed                   (EndSession, or rollover to a new session)
//	active -> context_exceeded            (host marks the context budget blown)
//	active -> crashed                     (host marks an unrecoverable error)
//
// Terminal states (completed, context_exceeded, crashed) cannot transition
// further. Exactly one session is active at a time; starting a new session
// implicitly completes the previous one.
//
// Rollover conditions are evaluated by EvaluateRollover, a pure decision
// function checked in fixed priority order: no session, calendar day
// change, context-token threshold, inactivity timeout, project switch,
// crashed session recovery. The first matching condition wins.
//
// The tracker performs no I/O and spawns no goroutines. Hosts are
// responsible for serializing concurrent mutation (StartSession,
// TrackActivity, and EndSession all touch the shared active-session
// reference) and for persisting the plain data structures the tracker
// returns.
package session
