package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"taskdash/internal/model"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(context.Background(), filepath.Join(t.TempDir(), "cache.sqlite"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_UsersRoundTripKeepsOrder(t *testing.T) {
	t.Parallel()
	c := openTestCache(t)
	ctx := context.Background()

	// Not sorted by id on purpose: ordering must survive the cache.
	users := []model.User{
		{ID: 9, Username: "zoe", Email: "zoe@example.com"},
		{ID: 3, Username: "amy", Email: "amy@example.com"},
	}
	if err := c.SaveUsers(ctx, users); err != nil {
		t.Fatalf("SaveUsers: %v", err)
	}
	got, err := c.Users(ctx)
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if len(got) != 2 || got[0].ID != 9 || got[1].ID != 3 {
		t.Fatalf("expected [9 3] in order; got %+v", got)
	}

	// Replacement semantics, not merge.
	if err := c.SaveUsers(ctx, users[:1]); err != nil {
		t.Fatalf("SaveUsers: %v", err)
	}
	got, err = c.Users(ctx)
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if len(got) != 1 || got[0].Username != "zoe" {
		t.Fatalf("expected single zoe; got %+v", got)
	}
}

func TestCache_TasksRoundTrip(t *testing.T) {
	t.Parallel()
	c := openTestCache(t)
	ctx := context.Background()

	due := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	tasks := []model.Task{
		{ID: 1, Title: "ship it", Priority: model.PriorityHigh, OwnerID: 3, DueDate: &due},
		{ID: 2, Title: "rest", Priority: model.PriorityLow, OwnerID: 3, Completed: true},
	}
	if err := c.SaveTasks(ctx, tasks); err != nil {
		t.Fatalf("SaveTasks: %v", err)
	}
	got, err := c.Tasks(ctx)
	if err != nil {
		t.Fatalf("Tasks: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks; got %d", len(got))
	}
	if got[0].DueDate == nil || !got[0].DueDate.Equal(due) {
		t.Fatalf("expected due date to survive; got %+v", got[0].DueDate)
	}
	if !got[1].Completed || got[1].Priority != model.PriorityLow {
		t.Fatalf("expected task fields to survive; got %+v", got[1])
	}
}

func TestCache_UIStateRoundTrip(t *testing.T) {
	t.Parallel()
	c := openTestCache(t)
	ctx := context.Background()

	st, err := c.LoadUIState(ctx)
	if err != nil {
		t.Fatalf("LoadUIState: %v", err)
	}
	if st.Version != 1 || st.SelectedUserID != 0 {
		t.Fatalf("expected fresh state; got %+v", st)
	}

	if err := c.SaveUIState(ctx, &UIState{SelectedUserID: 3, Filter: model.FilterHigh, Variant: "list"}); err != nil {
		t.Fatalf("SaveUIState: %v", err)
	}
	st, err = c.LoadUIState(ctx)
	if err != nil {
		t.Fatalf("LoadUIState: %v", err)
	}
	if st.SelectedUserID != 3 || st.Filter != model.FilterHigh || st.Variant != "list" {
		t.Fatalf("expected saved state back; got %+v", st)
	}

	// Overwrite, not append.
	if err := c.SaveUIState(ctx, &UIState{SelectedUserID: 4}); err != nil {
		t.Fatalf("SaveUIState: %v", err)
	}
	st, err = c.LoadUIState(ctx)
	if err != nil {
		t.Fatalf("LoadUIState: %v", err)
	}
	if st.SelectedUserID != 4 || st.Filter != "" {
		t.Fatalf("expected overwritten state; got %+v", st)
	}
}
