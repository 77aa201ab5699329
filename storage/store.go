// Package storage persists the Frizy core data model to Postgres.
//
// The compactor and session tracker are pure in-memory cores and never
// import this package; storage exists for hosts that want work items,
// sessions, and summaries round-tripped losslessly through a database
// (Supabase-style Postgres being the usual host backend).
//
// Two implementations are provided: PostgresStore on a pgx pool, and
// SQLStore on database/sql with lib/pq, for hosts already committed to
// one driver or the other.
package storage

import (
	"context"
	"errors"

	"github.com/frizyai/frizycore"
	"github.com/frizyai/frizycore/session"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the persistence interface for the Frizy data model.
type Store interface {
	// Work item operations
	SaveWorkItem(ctx context.Context, projectID string, item *frizycore.WorkItem) error
	GetWorkItem(ctx context.Context, id string) (*frizycore.WorkItem, error)
	ListWorkItems(ctx context.Context, projectID string) ([]frizycore.WorkItem, error)

	// Session operations. Activities and insights travel with the session.
	SaveSession(ctx context.Context, s *session.Session) error
	GetSession(ctx context.Context, id string) (*session.Session, error)
	ListSessions(ctx context.Context, projectID string) ([]*session.Session, error)

	// Summary operations
	SaveSummary(ctx context.Context, summary *session.SessionSummary) error
	GetSummary(ctx context.Context, sessionID string) (*session.SessionSummary, error)
}

// Schema is the DDL for the tables both stores expect. Hosts run it (or an
// equivalent migration) before first use.
const Schema = `
CREATE TABLE IF NOT EXISTS frizy_work_items (
	id                  TEXT PRIMARY KEY,
	project_id          TEXT NOT NULL,
	title               TEXT NOT NULL,
	content             TEXT NOT NULL DEFAULT '',
	lane                TEXT NOT NULL DEFAULT '',
	status              TEXT NOT NULL,
	priority            TEXT NOT NULL,
	effort              INTEGER NOT NULL DEFAULT 0,
	energy_level        INTEGER NOT NULL DEFAULT 0,
	complexity          INTEGER NOT NULL DEFAULT 0,
	inspiration         INTEGER NOT NULL DEFAULT 0,
	progress            INTEGER NOT NULL DEFAULT 0,
	last_worked_at      TIMESTAMPTZ,
	session_touch_count INTEGER NOT NULL DEFAULT 0,
	tags                TEXT[] NOT NULL DEFAULT '{}',
	created_at          TIMESTAMPTZ NOT NULL,
	updated_at          TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_frizy_work_items_project ON frizy_work_items(project_id);

CREATE TABLE IF NOT EXISTS frizy_sessions (
	id             TEXT PRIMARY KEY,
	project_id     TEXT NOT NULL,
	trigger        TEXT NOT NULL,
	started_at     TIMESTAMPTZ NOT NULL,
	ended_at       TIMESTAMPTZ,
	status         TEXT NOT NULL,
	activities     JSONB NOT NULL DEFAULT '[]',
	insights       JSONB NOT NULL DEFAULT '[]',
	context_tokens INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_frizy_sessions_project ON frizy_sessions(project_id, started_at DESC);

CREATE TABLE IF NOT EXISTS frizy_session_summaries (
	session_id TEXT PRIMARY KEY,
	project_id TEXT NOT NULL,
	payload    JSONB NOT NULL
);
`
