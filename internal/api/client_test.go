package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"taskdash/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNew_RequiresBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "   "})
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError; got %v", err)
	}
}

func TestUsers_PathAndOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/users/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode([]model.User{{ID: 9, Username: "zoe"}, {ID: 3, Username: "amy"}})
	})

	users, err := c.Users(context.Background())
	if err != nil {
		t.Fatalf("Users: %v", err)
	}
	if len(users) != 2 || users[0].ID != 9 {
		t.Fatalf("expected API order preserved; got %+v", users)
	}
}

func TestTasks_QueryShapes(t *testing.T) {
	var gotPath, gotUserID string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUserID = r.URL.Query().Get("user_id")
		json.NewEncoder(w).Encode([]model.Task{})
	})
	ctx := context.Background()

	cases := []struct {
		name       string
		q          TaskQuery
		wantPath   string
		wantUserID string
	}{
		{"all tasks", TaskQuery{}, "/api/tasks/", ""},
		{"user scoped", TaskQuery{UserID: 7}, "/api/tasks/", "7"},
		{"priority", TaskQuery{Filter: model.FilterHigh}, "/api/tasks/priority/high", ""},
		{"priority and user", TaskQuery{UserID: 7, Filter: model.FilterLow}, "/api/tasks/priority/low", "7"},
		{"filter all is plain listing", TaskQuery{UserID: 7, Filter: model.FilterAll}, "/api/tasks/", "7"},
	}
	for _, tc := range cases {
		if _, err := c.Tasks(ctx, tc.q); err != nil {
			t.Fatalf("%s: Tasks: %v", tc.name, err)
		}
		if gotPath != tc.wantPath || gotUserID != tc.wantUserID {
			t.Fatalf("%s: expected %s user_id=%q; got %s user_id=%q",
				tc.name, tc.wantPath, tc.wantUserID, gotPath, gotUserID)
		}
	}
}

func TestCreateTask_PostsDraft(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/users/5/tasks/" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var draft model.TaskDraft
		if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
			t.Errorf("decode draft: %v", err)
		}
		if draft.Title != "write docs" || draft.Priority != model.PriorityHigh {
			t.Errorf("unexpected draft: %+v", draft)
		}
		json.NewEncoder(w).Encode(model.Task{ID: 42, Title: draft.Title, OwnerID: 5, Priority: draft.Priority})
	})

	task, err := c.CreateTask(context.Background(), 5, model.TaskDraft{Title: "write docs", Priority: model.PriorityHigh})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.ID != 42 || task.OwnerID != 5 {
		t.Fatalf("unexpected task: %+v", task)
	}
}

func TestUpdateTask_PartialPatch(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/api/tasks/42" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var raw map[string]any
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Errorf("decode patch: %v", err)
		}
		// Partial update semantics: only the completed field on the wire.
		if len(raw) != 1 {
			t.Errorf("expected exactly one patched field; got %v", raw)
		}
		if v, ok := raw["completed"].(bool); !ok || !v {
			t.Errorf("expected completed=true; got %v", raw)
		}
		json.NewEncoder(w).Encode(model.Task{ID: 42, Completed: true})
	})

	done := true
	task, err := c.UpdateTask(context.Background(), 42, model.TaskPatch{Completed: &done})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if !task.Completed {
		t.Fatalf("expected completed task back; got %+v", task)
	}
}

func TestUpdateTask_EmptyPatchRejectedLocally(t *testing.T) {
	calls := 0
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) { calls++ })
	_, err := c.UpdateTask(context.Background(), 42, model.TaskPatch{})
	var ve ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError; got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no network call; got %d", calls)
	}
}

func TestErrorMapping(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tasks/404":
			http.Error(w, `{"detail": "Task not found"}`, http.StatusNotFound)
		case "/api/users/":
			http.Error(w, `{"detail": "Email already registered"}`, http.StatusBadRequest)
		default:
			http.Error(w, `{"detail": "boom"}`, http.StatusInternalServerError)
		}
	})
	ctx := context.Background()

	err := c.DeleteTask(ctx, 404)
	var nf NotFoundError
	if !errors.As(err, &nf) || nf.Kind != "task" || nf.ID != 404 {
		t.Fatalf("expected tagged NotFoundError; got %v", err)
	}

	_, err = c.CreateUser(ctx, model.UserDraft{Email: "a@b.c", Username: "a", Password: "x"})
	var ve ValidationError
	if !errors.As(err, &ve) || ve.Reason != "Email already registered" {
		t.Fatalf("expected ValidationError with API detail; got %v", err)
	}
}

func TestNetworkError(t *testing.T) {
	c, err := New(Config{BaseURL: "http://127.0.0.1:1"}) // nothing listens here
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	_, err = c.Users(context.Background())
	var ne NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("expected NetworkError; got %v", err)
	}
}

func TestDeleteTask_NoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/tasks/7" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})
	if err := c.DeleteTask(context.Background(), 7); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
}

func TestHealthAndStats(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/health":
			json.NewEncoder(w).Encode(model.Health{Status: "healthy", Environment: "test"})
		case "/api/stats/completed":
			if got := r.URL.Query().Get("user_id"); got != "3" {
				t.Errorf("expected user_id=3; got %q", got)
			}
			uid := 3
			json.NewEncoder(w).Encode(model.CompletedStats{CompletedTasks: 11, UserID: &uid})
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	h, err := c.Health(ctx)
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if !h.Healthy() || h.Environment != "test" {
		t.Fatalf("unexpected health: %+v", h)
	}

	st, err := c.CompletedStats(ctx, 3)
	if err != nil {
		t.Fatalf("CompletedStats: %v", err)
	}
	if st.CompletedTasks != 11 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}
