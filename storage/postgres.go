package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/frizyai/frizycore"
	"github.com/frizyai/frizycore/session"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on a pgx connection pool.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Init creates the schema if it does not exist.
func (s *PostgresStore) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// SaveWorkItem upserts a work item.
func (s *PostgresStore) SaveWorkItem(ctx context.Context, projectID string, item *frizycore.WorkItem) error {
	if item.ID == "" {
		return fmt.Errorf("work item id is required")
	}
	if projectID == "" {
		return fmt.Errorf("project_id is required")
	}

	query := `
		INSERT INTO frizy_work_items (
			id, project_id, title, content, lane, status, priority,
			effort, energy_level, complexity, inspiration, progress,
			last_worked_at, session_touch_count, tags, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			lane = EXCLUDED.lane,
			status = EXCLUDED.status,
			priority = EXCLUDED.priority,
			effort = EXCLUDED.effort,
			energy_level = EXCLUDED.energy_level,
			complexity = EXCLUDED.complexity,
			inspiration = EXCLUDED.inspiration,
			progress = EXCLUDED.progress,
			last_worked_at = EXCLUDED.last_worked_at,
			session_touch_count = EXCLUDED.session_touch_count,
			tags = EXCLUDED.tags,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		item.ID, projectID, item.Title, item.Content, item.Lane,
		item.Status, item.Priority,
		item.Effort, item.EnergyLevel, item.Complexity, item.Inspiration, item.Progress,
		item.LastWorkedAt, item.SessionTouchCount, item.Tags,
		item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save work item: %w", err)
	}

	return nil
}

const workItemColumns = `
	id, title, content, lane, status, priority,
	effort, energy_level, complexity, inspiration, progress,
	last_worked_at, session_touch_count, tags, created_at, updated_at
`

func scanWorkItem(row pgx.Row) (*frizycore.WorkItem, error) {
	var item frizycore.WorkItem
	err := row.Scan(
		&item.ID, &item.Title, &item.Content, &item.Lane, &item.Status, &item.Priority,
		&item.Effort, &item.EnergyLevel, &item.Complexity, &item.Inspiration, &item.Progress,
		&item.LastWorkedAt, &item.SessionTouchCount, &item.Tags, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetWorkItem retrieves a work item by id.
func (s *PostgresStore) GetWorkItem(ctx context.Context, id string) (*frizycore.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM frizy_work_items WHERE id = $1`

	item, err := scanWorkItem(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: work item %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get work item: %w", err)
	}
	return item, nil
}

// ListWorkItems retrieves all work items for a project, most recently
// updated first.
func (s *PostgresStore) ListWorkItems(ctx context.Context, projectID string) ([]frizycore.WorkItem, error) {
	query := `SELECT ` + workItemColumns + ` FROM frizy_work_items WHERE project_id = $1 ORDER BY updated_at DESC`

	rows, err := s.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query work items: %w", err)
	}
	defer rows.Close()

	var items []frizycore.WorkItem
	for rows.Next() {
		item, err := scanWorkItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work item: %w", err)
		}
		items = append(items, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating work items: %w", err)
	}

	return items, nil
}

// SaveSession upserts a session, including its activities and insights.
func (s *PostgresStore) SaveSession(ctx context.Context, sess *session.Session) error {
	if sess.ID == "" {
		return fmt.Errorf("session id is required")
	}

	activitiesJSON, err := json.Marshal(sess.Activities)
	if err != nil {
		return fmt.Errorf("failed to marshal activities: %w", err)
	}
	insightsJSON, err := json.Marshal(sess.Insights)
	if err != nil {
		return fmt.Errorf("failed to marshal insights: %w", err)
	}

	query := `
		INSERT INTO frizy_sessions (id, project_id, trigger, started_at, ended_at, status, activities, insights, context_tokens)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			ended_at = EXCLUDED.ended_at,
			status = EXCLUDED.status,
			activities = EXCLUDED.activities,
			insights = EXCLUDED.insights,
			context_tokens = EXCLUDED.context_tokens
	`

	_, err = s.pool.Exec(ctx, query,
		sess.ID, sess.ProjectID, sess.Trigger, sess.StartedAt, sess.EndedAt,
		sess.Status, activitiesJSON, insightsJSON, sess.ContextTokens,
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func scanSession(row pgx.Row) (*session.Session, error) {
	var sess session.Session
	var activitiesJSON, insightsJSON []byte

	err := row.Scan(
		&sess.ID, &sess.ProjectID, &sess.Trigger, &sess.StartedAt, &sess.EndedAt,
		&sess.Status, &activitiesJSON, &insightsJSON, &sess.ContextTokens,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(activitiesJSON, &sess.Activities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal activities: %w", err)
	}
	if err := json.Unmarshal(insightsJSON, &sess.Insights); err != nil {
		return nil, fmt.Errorf("failed to unmarshal insights: %w", err)
	}

	return &sess, nil
}

const sessionColumns = `id, project_id, trigger, started_at, ended_at, status, activities, insights, context_tokens`

// GetSession retrieves a session by id.
func (s *PostgresStore) GetSession(ctx context.Context, id string) (*session.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM frizy_sessions WHERE id = $1`

	sess, err := scanSession(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: session %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}

// ListSessions retrieves all sessions for a project, newest first.
func (s *PostgresStore) ListSessions(ctx context.Context, projectID string) ([]*session.Session, error) {
	query := `SELECT ` + sessionColumns + ` FROM frizy_sessions WHERE project_id = $1 ORDER BY started_at DESC`

	rows, err := s.pool.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*session.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, sess)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sessions: %w", err)
	}

	return sessions, nil
}

// SaveSummary stores an end-of-session summary.
func (s *PostgresStore) SaveSummary(ctx context.Context, summary *session.SessionSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	query := `
		INSERT INTO frizy_session_summaries (session_id, project_id, payload)
		VALUES ($1, $2, $3)
		ON CONFLICT (session_id) DO UPDATE SET payload = EXCLUDED.payload
	`

	if _, err := s.pool.Exec(ctx, query, summary.SessionID, summary.ProjectID, payload); err != nil {
		return fmt.Errorf("failed to save summary: %w", err)
	}

	return nil
}

// GetSummary retrieves the summary for a session.
func (s *PostgresStore) GetSummary(ctx context.Context, sessionID string) (*session.SessionSummary, error) {
	query := `SELECT payload FROM frizy_session_summaries WHERE session_id = $1`

	var payload []byte
	err := s.pool.QueryRow(ctx, query, sessionID).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: summary for session %s", ErrNotFound, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get summary: %w", err)
	}

	var summary session.SessionSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}

	return &summary, nil
}
