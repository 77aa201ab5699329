package frizycore

import (
	"testing"
	"time"
)

func TestBlockStatusIsValid(t *testing.T) {
	valid := []BlockStatus{
		StatusNotStarted, StatusInProgress, StatusBlocked, StatusCompleted, StatusArchived,
	}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if BlockStatus("on-hold").IsValid() {
		t.Error("unknown status should be invalid")
	}
}

func TestPriorityRank(t *testing.T) {
	tests := []struct {
		priority Priority
		rank     int
	}{
		{PriorityUrgent, 4},
		{PriorityHigh, 3},
		{PriorityMedium, 2},
		{PriorityLow, 1},
		{Priority("unknown"), 0},
	}

	for _, tt := range tests {
		if got := tt.priority.Rank(); got != tt.rank {
			t.Errorf("%s.Rank() = %d, want %d", tt.priority, got, tt.rank)
		}
	}
}

func TestPriorityScan(t *testing.T) {
	var p Priority
	if err := p.Scan("urgent"); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if p != PriorityUrgent {
		t.Errorf("Scan = %s, want urgent", p)
	}
	if err := p.Scan(3.14); err == nil {
		t.Error("Scan with non-string type should fail")
	}
}

func TestWorkItemAge(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	item := WorkItem{ID: "b1"}
	if _, ok := item.Age(now); ok {
		t.Error("never-worked item should report no age")
	}

	worked := now.Add(-36 * time.Hour)
	item.LastWorkedAt = &worked
	age, ok := item.Age(now)
	if !ok {
		t.Fatal("worked item should report an age")
	}
	if age != 36*time.Hour {
		t.Errorf("age = %s, want 36h", age)
	}
}
