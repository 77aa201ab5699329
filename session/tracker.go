package session

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/frizyai/frizycore/tokens"
	"github.com/google/uuid"
)

// Logger interface for tracker logging.
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

// Session is a bounded period of tracked work on one project.
type Session struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`

	// Trigger is the condition that started this session.
	Trigger TriggerType `json:"trigger"`

	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	Status    Status     `json:"status"`

	Activities []ActivityRecord  `json:"activities"`
	Insights   []CapturedInsight `json:"insights"`

	// ContextTokens estimates how much of the context window this
	// session's events occupy. Monotonically non-decreasing while the
	// session is active.
	ContextTokens int `json:"context_tokens"`
}

// LastEventTime returns the timestamp of the most recent activity, or the
// session start if nothing has been recorded.
func (s *Session) LastEventTime() time.Time {
	if len(s.Activities) == 0 {
		return s.StartedAt
	}
	return s.Activities[len(s.Activities)-1].At
}

// ActivityInput is the host-supplied shape of an activity to track.
type ActivityInput struct {
	BlockID     string       `json:"block_id,omitempty"`
	Description string       `json:"description"`
	Data        ActivityData `json:"-"`
}

// Tracker owns the active-session reference and the session history. It is
// the explicit, injectable replacement for a module-level tracker
// singleton: hosts create one per board (or per test) and pass it around.
//
// The tracker holds no locks; hosts must serialize concurrent calls to
// StartSession, TrackActivity, CaptureInsight, and EndSession.
type Tracker struct {
	config   *Config
	logger   Logger
	now      func() time.Time
	active   *Session
	sessions []*Session
}

// NewTracker creates a tracker with the given configuration. If config is
// nil, defaults are used. A nil logger disables logging.
func NewTracker(config *Config, logger Logger) (*Tracker, error) {
	if config == nil {
		config = DefaultConfig()
	} else {
		config.ApplyDefaults()
	}
	if err := config.Validate(); err != nil {
		return nil, NewTrackerError("NewTracker", err)
	}

	if logger == nil {
		logger = noopLogger{}
	}

	return &Tracker{
		config: config,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Config returns the tracker's configuration.
func (t *Tracker) Config() *Config {
	return t.config
}

// Active returns the currently active session, or nil.
func (t *Tracker) Active() *Session {
	return t.active
}

// Sessions returns every session the tracker has started, in start order.
func (t *Tracker) Sessions() []*Session {
	return t.sessions
}

// ContextUsage returns the active session's context token estimate, or
// zero if no session is active.
func (t *Tracker) ContextUsage() int {
	if t.active == nil {
		return 0
	}
	return t.active.ContextTokens
}

// EvaluateRollover runs the rollover decision against the tracker's own
// state. See the package-level EvaluateRollover for the priority order.
func (t *Tracker) EvaluateRollover(requestedProjectID string) (bool, *Trigger) {
	var lastEvent time.Time
	if t.active != nil {
		lastEvent = t.active.LastEventTime()
	}
	return EvaluateRollover(t.active, lastEvent, t.ContextUsage(), requestedProjectID, t.now(), t.config)
}

// StartSession ends any active session (forcing it to completed if not
// already terminal) and starts a fresh one for the given project.
//
// contextSnapshot is the compiled context the new session begins with; its
// estimated token size seeds the session's context usage. A nil trigger is
// treated as a manual start.
//
// The returned session id encodes the trigger type and date plus a random
// suffix, so concurrent daily and manual starts on the same day still get
// unique ids.
func (t *Tracker) StartSession(projectID, contextSnapshot string, trigger *Trigger) (string, error) {
	now := t.now()

	if trigger == nil {
		trigger = &Trigger{Type: TriggerManual, Reason: "manual start", At: now}
	}

	if t.active != nil {
		t.finish(t.active, now)
	}

	s := &Session{
		ID:            trigger.Type.String() + "-" + now.Format("2006-01-02") + "-" + uuid.NewString()[:8],
		ProjectID:     projectID,
		Trigger:       trigger.Type,
		StartedAt:     now,
		Status:        StatusActive,
		ContextTokens: tokens.Approximate(contextSnapshot),
	}

	t.active = s
	t.sessions = append(t.sessions, s)

	t.logger.Info("session started",
		"session_id", s.ID,
		"project_id", projectID,
		"trigger", trigger.Type,
		"reason", trigger.Reason,
	)

	return s.ID, nil
}

// TrackActivity appends a typed activity record to the active session.
// Returns ErrNoActiveSession if none is active; data is never dropped
// silently.
func (t *Tracker) TrackActivity(typ ActivityType, in ActivityInput) error {
	if t.active == nil {
		return NewTrackerError("TrackActivity", ErrNoActiveSession)
	}

	record := ActivityRecord{
		ID:          uuid.NewString(),
		Type:        typ,
		BlockID:     in.BlockID,
		Description: in.Description,
		Data:        in.Data,
		At:          t.now(),
	}

	t.append(record)
	return nil
}

// append adds a record to the active session and advances its context
// usage estimate. All record insertion goes through here so the estimate
// stays monotonic.
func (t *Tracker) append(record ActivityRecord) {
	t.active.Activities = append(t.active.Activities, record)
	t.active.ContextTokens += recordTokens(record)
}

// CaptureInsight validates and stores a user-captured insight on the
// active session, returning the stored record. An insight_captured
// activity is recorded alongside it.
func (t *Tracker) CaptureInsight(in InsightInput) (*CapturedInsight, error) {
	if t.active == nil {
		return nil, NewTrackerError("CaptureInsight", ErrNoActiveSession)
	}

	if err := in.Validate(); err != nil {
		return nil, NewTrackerErrorWithSession("CaptureInsight", t.active.ID, err)
	}

	importance := in.Importance
	if importance == "" {
		importance = ImportanceMedium
	}

	insight := CapturedInsight{
		ID:         uuid.NewString(),
		Type:       in.Type,
		Title:      in.Title,
		Content:    in.Content,
		BlockIDs:   in.BlockIDs,
		Tags:       in.Tags,
		Importance: importance,
		CapturedAt: t.now(),
	}

	t.active.Insights = append(t.active.Insights, insight)
	t.append(ActivityRecord{
		ID:          uuid.NewString(),
		Type:        ActivityInsightCaptured,
		Description: insight.Title,
		Data:        InsightRefData{InsightID: insight.ID},
		At:          insight.CapturedAt,
	})

	t.logger.Debug("insight captured",
		"session_id", t.active.ID,
		"insight_id", insight.ID,
		"type", insight.Type,
	)

	return &insight, nil
}

// MarkCrashed flags the active session as crashed without clearing it. The
// next rollover evaluation will fire the error_recovery trigger, and the
// next StartSession leaves the crashed status in place.
func (t *Tracker) MarkCrashed() {
	if t.active == nil {
		return
	}
	t.active.Status = StatusCrashed
	t.logger.Warn("session marked crashed", "session_id", t.active.ID)
}

// MarkContextExceeded flags the active session as terminated by context
// exhaustion and clears the active reference.
func (t *Tracker) MarkContextExceeded() {
	if t.active == nil {
		return
	}
	now := t.now()
	t.active.Status = StatusContextExceeded
	t.active.EndedAt = &now
	t.active = nil
}

// EndSession ends the active session and returns its summary. Returns nil
// if no session is active; ending nothing is a valid no-op, so a second
// call with no new session in between returns nil rather than a duplicate
// summary.
func (t *Tracker) EndSession() *SessionSummary {
	if t.active == nil {
		return nil
	}

	now := t.now()
	s := t.active
	t.finish(s, now)
	t.active = nil

	summary := buildSummary(s, now)

	t.logger.Info("session ended",
		"session_id", s.ID,
		"duration", summary.Duration,
		"insights", len(summary.Insights),
		"productivity", summary.ProductivityScore,
	)

	return summary
}

// finish stamps the end time and forces the session to completed unless it
// is already terminal (a crashed session stays crashed).
func (t *Tracker) finish(s *Session, now time.Time) {
	if s.EndedAt == nil {
		ended := now
		s.EndedAt = &ended
	}
	if s.Status.CanTransitionTo(StatusCompleted) {
		s.Status = StatusCompleted
	}
}

// ContextUsage approximates the token footprint of a slice of activity
// records: each record's serialized character count divided by four. This
// is a rough heuristic, not an exact count; it is monotonic in the number
// of events.
func ContextUsage(events []ActivityRecord) int {
	total := 0
	for _, event := range events {
		total += recordTokens(event)
	}
	return total
}

func recordTokens(record ActivityRecord) int {
	data, err := json.Marshal(record)
	if err != nil {
		// Unmarshalable payloads still count their description.
		return tokens.Approximate(record.Description)
	}
	return tokens.Approximate(string(data))
}

// ShouldMerge reports whether session b should resume session a rather
// than fork: both belong to the same project, a did not crash, and the gap
// between a's end (or start, if it never ended) and b's start is inside
// the window. Merging itself is the host's responsibility.
func ShouldMerge(a, b *Session, window time.Duration) bool {
	if a == nil || b == nil {
		return false
	}
	if a.ProjectID != b.ProjectID {
		return false
	}
	if a.Status == StatusCrashed {
		return false
	}

	end := a.StartedAt
	if a.EndedAt != nil {
		end = *a.EndedAt
	}
	return b.StartedAt.Sub(end) < window
}

// Archive partitions sessions by recency: the newest maxActive stay
// visible, the rest are archived. Pure partition, no deletion.
func Archive(sessions []*Session, maxActive int) (active, archived []*Session) {
	if maxActive < 0 {
		maxActive = 0
	}

	sorted := make([]*Session, len(sessions))
	copy(sorted, sessions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartedAt.After(sorted[j].StartedAt)
	})

	if len(sorted) <= maxActive {
		return sorted, nil
	}
	return sorted[:maxActive], sorted[maxActive:]
}
