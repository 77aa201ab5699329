package storage

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/frizyai/frizycore"
	"github.com/frizyai/frizycore/internal/testutil"

	_ "github.com/lib/pq"
)

func setupSQLStore(t *testing.T) (*SQLStore, context.Context) {
	t.Helper()
	testutil.RequireIntegration(t)

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("Failed to ping database: %v", err)
	}

	store := NewSQLStore(db)
	if err := store.Init(ctx); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	for _, table := range []string{"frizy_session_summaries", "frizy_sessions", "frizy_work_items"} {
		if _, err := db.ExecContext(ctx, "TRUNCATE TABLE "+table+" CASCADE"); err != nil {
			t.Fatalf("Failed to truncate %s: %v", table, err)
		}
	}

	return store, ctx
}

func TestSQLStoreWorkItemRoundTrip(t *testing.T) {
	store, ctx := setupSQLStore(t)

	worked := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	item := &frizycore.WorkItem{
		ID:           "b1",
		Title:        "Wire the tracker",
		Lane:         "current",
		Status:       frizycore.StatusInProgress,
		Priority:     frizycore.PriorityUrgent,
		LastWorkedAt: &worked,
		Tags:         []string{"tracker"},
		CreatedAt:    worked,
		UpdatedAt:    worked,
	}

	if err := store.SaveWorkItem(ctx, "proj-a", item); err != nil {
		t.Fatalf("SaveWorkItem() error = %v", err)
	}

	got, err := store.GetWorkItem(ctx, "b1")
	if err != nil {
		t.Fatalf("GetWorkItem() error = %v", err)
	}
	if got.Title != item.Title || got.Priority != item.Priority {
		t.Errorf("got %+v, want %+v", got, item)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "tracker" {
		t.Errorf("tags = %v, want [tracker]", got.Tags)
	}

	items, err := store.ListWorkItems(ctx, "proj-a")
	if err != nil {
		t.Fatalf("ListWorkItems() error = %v", err)
	}
	if len(items) != 1 {
		t.Errorf("listed %d items, want 1", len(items))
	}

	if _, err := store.GetWorkItem(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
