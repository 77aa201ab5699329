package session

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// testClock is a settable clock for tracker tests.
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestTracker(t *testing.T) (*Tracker, *testClock) {
	t.Helper()

	tr, err := NewTracker(nil, nil)
	if err != nil {
		t.Fatalf("NewTracker() error = %v", err)
	}

	clock := &testClock{now: time.Date(2026, 9, 1, 9, 0, 0, 0, time.Local)}
	tr.now = clock.Now
	return tr, clock
}

func TestNewTrackerInvalidConfig(t *testing.T) {
	_, err := NewTracker(&Config{MaxContextTokens: -5}, nil)
	if err == nil {
		t.Fatal("NewTracker() with invalid config should fail")
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestStartSession(t *testing.T) {
	tr, _ := newTestTracker(t)

	id, err := tr.StartSession("proj-a", "", nil)
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	if !strings.HasPrefix(id, "manual-2026-09-01-") {
		t.Errorf("session id %q missing trigger/date prefix", id)
	}

	active := tr.Active()
	if active == nil {
		t.Fatal("no active session after StartSession")
	}
	if active.ID != id {
		t.Errorf("active id = %s, want %s", active.ID, id)
	}
	if active.Status != StatusActive {
		t.Errorf("status = %s, want active", active.Status)
	}
	if active.ProjectID != "proj-a" {
		t.Errorf("project = %s, want proj-a", active.ProjectID)
	}
	if active.Trigger != TriggerManual {
		t.Errorf("trigger = %s, want manual", active.Trigger)
	}
}

func TestStartSessionSeedsContextFromSnapshot(t *testing.T) {
	tr, _ := newTestTracker(t)

	snapshot := strings.Repeat("x", 400)
	if _, err := tr.StartSession("proj-a", snapshot, nil); err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	if got := tr.ContextUsage(); got != 100 {
		t.Errorf("ContextUsage() = %d, want 100 for a 400-char snapshot", got)
	}
}

func TestStartSessionEndsPrevious(t *testing.T) {
	tr, clock := newTestTracker(t)

	first, _ := tr.StartSession("proj-a", "", nil)
	clock.Advance(10 * time.Minute)
	second, err := tr.StartSession("proj-a", "", &Trigger{
		Type:   TriggerDaily,
		Reason: "new day",
		At:     clock.Now(),
	})
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	sessions := tr.Sessions()
	if len(sessions) != 2 {
		t.Fatalf("got %d sessions, want 2", len(sessions))
	}
	if first == second {
		t.Error("session ids collide")
	}

	prev := sessions[0]
	if prev.Status != StatusCompleted {
		t.Errorf("previous session status = %s, want completed", prev.Status)
	}
	if prev.EndedAt == nil {
		t.Error("previous session has no end time")
	}

	if tr.Active().ID != second {
		t.Errorf("active = %s, want %s", tr.Active().ID, second)
	}
	if !strings.HasPrefix(second, "daily-") {
		t.Errorf("session id %q missing daily trigger prefix", second)
	}
}

func TestTrackActivityWithoutSession(t *testing.T) {
	tr, _ := newTestTracker(t)

	err := tr.TrackActivity(ActivityBlockCreated, ActivityInput{Description: "made a block"})
	if err == nil {
		t.Fatal("TrackActivity() without a session should fail")
	}
	if !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("error = %v, want ErrNoActiveSession", err)
	}
}

func TestTrackActivityAdvancesContextUsage(t *testing.T) {
	tr, clock := newTestTracker(t)
	tr.StartSession("proj-a", "", nil)

	prev := tr.ContextUsage()
	for i := 0; i < 5; i++ {
		clock.Advance(time.Minute)
		err := tr.TrackActivity(ActivityBlockUpdated, ActivityInput{
			BlockID:     "b1",
			Description: "tweaked the block",
			Data:        BlockChangeData{Fields: []string{"title"}},
		})
		if err != nil {
			t.Fatalf("TrackActivity() error = %v", err)
		}

		got := tr.ContextUsage()
		if got <= prev {
			t.Fatalf("context usage did not grow: %d -> %d", prev, got)
		}
		prev = got
	}

	if n := len(tr.Active().Activities); n != 5 {
		t.Errorf("recorded %d activities, want 5", n)
	}
}

func TestCaptureInsight(t *testing.T) {
	tr, _ := newTestTracker(t)
	tr.StartSession("proj-a", "", nil)

	insight, err := tr.CaptureInsight(InsightInput{
		Type:    InsightDecision,
		Title:   "Use Postgres",
		Content: "Supabase already runs it",
	})
	if err != nil {
		t.Fatalf("CaptureInsight() error = %v", err)
	}

	if insight.ID == "" {
		t.Error("insight missing id")
	}
	if insight.Importance != ImportanceMedium {
		t.Errorf("importance = %s, want medium default", insight.Importance)
	}

	active := tr.Active()
	if len(active.Insights) != 1 {
		t.Fatalf("stored %d insights, want 1", len(active.Insights))
	}
	if len(active.Activities) != 1 {
		t.Fatalf("recorded %d activities, want 1", len(active.Activities))
	}

	record := active.Activities[0]
	if record.Type != ActivityInsightCaptured {
		t.Errorf("activity type = %s, want insight_captured", record.Type)
	}
	ref, ok := record.Data.(InsightRefData)
	if !ok {
		t.Fatalf("activity data = %T, want InsightRefData", record.Data)
	}
	if ref.InsightID != insight.ID {
		t.Errorf("activity references insight %s, want %s", ref.InsightID, insight.ID)
	}
}

func TestCaptureInsightValidation(t *testing.T) {
	tr, _ := newTestTracker(t)

	// No active session comes first.
	if _, err := tr.CaptureInsight(InsightInput{}); !errors.Is(err, ErrNoActiveSession) {
		t.Errorf("error = %v, want ErrNoActiveSession", err)
	}

	tr.StartSession("proj-a", "", nil)

	tests := []struct {
		name  string
		input InsightInput
	}{
		{"unknown type", InsightInput{Type: "hunch", Title: "t", Content: "c"}},
		{"blank title", InsightInput{Type: InsightIdea, Title: "   ", Content: "c"}},
		{"blank content", InsightInput{Type: InsightIdea, Title: "t", Content: ""}},
		{"unknown importance", InsightInput{Type: InsightIdea, Title: "t", Content: "c", Importance: "critical"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tr.CaptureInsight(tt.input)
			if !errors.Is(err, ErrInvalidInsight) {
				t.Errorf("error = %v, want ErrInvalidInsight", err)
			}
		})
	}

	if len(tr.Active().Insights) != 0 {
		t.Error("rejected insights were stored")
	}
}

func TestEndSession(t *testing.T) {
	tr, clock := newTestTracker(t)
	id, _ := tr.StartSession("proj-a", "", nil)

	clock.Advance(30 * time.Minute)
	summary := tr.EndSession()
	if summary == nil {
		t.Fatal("EndSession() returned nil with an active session")
	}
	if summary.SessionID != id {
		t.Errorf("summary session = %s, want %s", summary.SessionID, id)
	}
	if summary.Duration != 30*time.Minute {
		t.Errorf("duration = %s, want 30m", summary.Duration)
	}

	if tr.Active() != nil {
		t.Error("session still active after EndSession")
	}
	if tr.Sessions()[0].Status != StatusCompleted {
		t.Errorf("status = %s, want completed", tr.Sessions()[0].Status)
	}

	// Ending again with nothing active is a no-op, not a duplicate summary.
	if again := tr.EndSession(); again != nil {
		t.Error("second EndSession() should return nil")
	}
}

func TestMarkCrashedFeedsErrorRecovery(t *testing.T) {
	tr, _ := newTestTracker(t)
	tr.StartSession("proj-a", "", nil)
	tr.MarkCrashed()

	active := tr.Active()
	if active == nil {
		t.Fatal("crashed session should stay referenced until recovery")
	}
	if active.Status != StatusCrashed {
		t.Errorf("status = %s, want crashed", active.Status)
	}

	rollover, trigger := tr.EvaluateRollover("proj-a")
	if !rollover || trigger == nil || trigger.Type != TriggerErrorRecovery {
		t.Fatalf("rollover = %v, trigger = %+v, want error_recovery", rollover, trigger)
	}

	// The replacement start must not resurrect the crashed session.
	tr.StartSession("proj-a", "", trigger)
	if tr.Sessions()[0].Status != StatusCrashed {
		t.Errorf("crashed session status = %s, want crashed preserved", tr.Sessions()[0].Status)
	}
	if tr.Active().Status != StatusActive {
		t.Errorf("replacement status = %s, want active", tr.Active().Status)
	}
}

func TestMarkContextExceeded(t *testing.T) {
	tr, _ := newTestTracker(t)
	tr.StartSession("proj-a", "", nil)
	tr.MarkContextExceeded()

	if tr.Active() != nil {
		t.Error("session still active after context exhaustion")
	}
	s := tr.Sessions()[0]
	if s.Status != StatusContextExceeded {
		t.Errorf("status = %s, want context_exceeded", s.Status)
	}
	if s.EndedAt == nil {
		t.Error("session has no end time")
	}
}

func TestContextUsageEstimate(t *testing.T) {
	// Ten records of roughly 400 serialized chars each land near 1000
	// tokens under the chars/4 heuristic.
	var events []ActivityRecord
	at := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 10; i++ {
		events = append(events, ActivityRecord{
			ID:          "00000000-0000-0000-0000-000000000000",
			Type:        ActivityBlockUpdated,
			BlockID:     "b1",
			Description: strings.Repeat("d", 260),
			At:          at,
		})
	}

	total := ContextUsage(events)

	want := 0
	for _, event := range events {
		want += recordTokens(event)
	}
	if total != want {
		t.Errorf("ContextUsage() = %d, want sum of per-record estimates %d", total, want)
	}
	if total < 900 || total > 1100 {
		t.Errorf("ContextUsage() = %d, want roughly 1000 for ten ~400-char events", total)
	}

	// Monotonic in the number of events.
	if less := ContextUsage(events[:5]); less >= total {
		t.Errorf("usage for fewer events = %d, want below %d", less, total)
	}
}

func TestShouldMerge(t *testing.T) {
	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	ended := base.Add(1 * time.Hour)

	prev := &Session{
		ID:        "a",
		ProjectID: "proj-a",
		StartedAt: base,
		EndedAt:   &ended,
		Status:    StatusCompleted,
	}

	next := func(project string, startedAt time.Time) *Session {
		return &Session{ID: "b", ProjectID: project, StartedAt: startedAt, Status: StatusActive}
	}

	tests := []struct {
		name string
		a    *Session
		b    *Session
		want bool
	}{
		{"reconnect inside window", prev, next("proj-a", ended.Add(2*time.Minute)), true},
		{"gap past window", prev, next("proj-a", ended.Add(10*time.Minute)), false},
		{"different project", prev, next("proj-b", ended.Add(2*time.Minute)), false},
		{"nil previous", nil, next("proj-a", ended), false},
		{"nil next", prev, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldMerge(tt.a, tt.b, DefaultMergeWindow); got != tt.want {
				t.Errorf("ShouldMerge() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("crashed sessions never merge", func(t *testing.T) {
		crashed := *prev
		crashed.Status = StatusCrashed
		if ShouldMerge(&crashed, next("proj-a", ended.Add(time.Minute)), DefaultMergeWindow) {
			t.Error("merged into a crashed session")
		}
	})
}

func TestArchive(t *testing.T) {
	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

	var sessions []*Session
	for i := 0; i < 5; i++ {
		sessions = append(sessions, &Session{
			ID:        string(rune('a' + i)),
			StartedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	active, archived := Archive(sessions, 3)
	if len(active) != 3 || len(archived) != 2 {
		t.Fatalf("partition = %d/%d, want 3/2", len(active), len(archived))
	}

	// Newest first in the visible set.
	if active[0].ID != "e" || active[1].ID != "d" || active[2].ID != "c" {
		t.Errorf("active order = %s %s %s, want e d c", active[0].ID, active[1].ID, active[2].ID)
	}
	if archived[0].ID != "b" || archived[1].ID != "a" {
		t.Errorf("archived order = %s %s, want b a", archived[0].ID, archived[1].ID)
	}

	// Fewer sessions than the cap leaves nothing archived.
	active, archived = Archive(sessions[:2], 3)
	if len(active) != 2 || archived != nil {
		t.Errorf("partition = %d/%v, want all active", len(active), archived)
	}
}
