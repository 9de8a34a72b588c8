package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"taskdash/internal/api"
	"taskdash/internal/model"
)

type fakeClient struct {
	users []model.User
	tasks []model.Task
	err   error

	createCalls int
	patchCalls  int
	deleteCalls int
}

func (f *fakeClient) Users(context.Context) ([]model.User, error) {
	return f.users, f.err
}

func (f *fakeClient) Tasks(context.Context, api.TaskQuery) ([]model.Task, error) {
	return f.tasks, f.err
}

func (f *fakeClient) CreateTask(_ context.Context, userID int, draft model.TaskDraft) (model.Task, error) {
	f.createCalls++
	return model.Task{ID: 99, Title: draft.Title, OwnerID: userID, Priority: draft.Priority}, f.err
}

func (f *fakeClient) UpdateTask(_ context.Context, id int, _ model.TaskPatch) (model.Task, error) {
	f.patchCalls++
	return model.Task{ID: id}, f.err
}

func (f *fakeClient) DeleteTask(context.Context, int) error {
	f.deleteCalls++
	return f.err
}

func (f *fakeClient) Health(context.Context) (model.Health, error) {
	return model.Health{Status: "healthy", Environment: "test"}, nil
}

func newTestModel(t *testing.T, f *fakeClient) appModel {
	t.Helper()
	m := newAppModel(f, nil)
	mm, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return mm.(appModel)
}

func keyRunes(m appModel, r rune) appModel {
	mm, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return mm.(appModel)
}

func apply(m appModel, msg tea.Msg) appModel {
	mm, _ := m.Update(msg)
	return mm.(appModel)
}

func seedUsers(m appModel, users ...model.User) appModel {
	return apply(m, usersLoadedMsg{users: users})
}

func seedTasks(m appModel, tasks ...model.Task) appModel {
	return apply(m, tasksLoadedMsg{load: m.state.TaskLoad(), tasks: tasks})
}

func TestStaleTaskResponseDiscarded(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	m = seedUsers(m, model.User{ID: 1, Username: "amy"}, model.User{ID: 2, Username: "bo"})

	// Two reloads in flight; the older one resolves last.
	older := m.state.TaskLoad()
	newer := m.state.TaskLoad()

	m = apply(m, tasksLoadedMsg{load: newer, tasks: []model.Task{{ID: 10, Title: "fresh"}}})
	m = apply(m, tasksLoadedMsg{load: older, tasks: []model.Task{{ID: 20, Title: "stale"}}})

	tasks := m.state.Tasks()
	if len(tasks) != 1 || tasks[0].ID != 10 {
		t.Fatalf("expected the newer snapshot to survive; got %+v", tasks)
	}
}

func TestFilterKeyIssuesReload(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	m = seedUsers(m, model.User{ID: 1, Username: "amy"})

	mm, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	m = mm.(appModel)

	if m.state.Filter() != model.FilterHigh {
		t.Fatalf("expected high filter; got %q", m.state.Filter())
	}
	if cmd == nil {
		t.Fatalf("expected a reload command")
	}
}

func TestVariantToggle(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	if m.variant != variantCards {
		t.Fatalf("expected cards by default; got %v", m.variant)
	}
	m = keyRunes(m, 'v')
	if m.variant != variantRows {
		t.Fatalf("expected rows after toggle; got %v", m.variant)
	}
	if m.variant.String() != "list" {
		t.Fatalf("expected list variant name; got %q", m.variant.String())
	}
	m = keyRunes(m, 'v')
	if m.variant != variantCards {
		t.Fatalf("expected cards after second toggle; got %v", m.variant)
	}
}

func TestNewTaskModalRejectsEmptyTitle(t *testing.T) {
	f := &fakeClient{}
	m := newTestModel(t, f)
	m = seedUsers(m, model.User{ID: 1, Username: "amy"})

	m = keyRunes(m, 'n')
	if m.modal != modalNewTask {
		t.Fatalf("expected new-task modal open")
	}

	m = apply(m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.modal != modalNewTask {
		t.Fatalf("expected modal to stay open on invalid draft")
	}
	if !m.statusIsErr {
		t.Fatalf("expected a validation error flash; got %q", m.status)
	}
	if f.createCalls != 0 {
		t.Fatalf("expected fail-fast with no network call; got %d", f.createCalls)
	}
}

func TestToggleKeyAppliesOptimistically(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	m = seedUsers(m, model.User{ID: 1, Username: "amy"})
	m = seedTasks(m, model.Task{ID: 5, Title: "ship", OwnerID: 1})
	m.pane = paneTasks

	mm, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'x'}})
	m = mm.(appModel)
	if cmd == nil {
		t.Fatalf("expected a patch command")
	}
	if got, _ := m.state.Task(5); !got.Completed {
		t.Fatalf("expected optimistic completion; got %+v", got)
	}
	if st := m.state.Stats(); st.Completed != 1 || st.Pending != 0 {
		t.Fatalf("expected stats to track the optimistic edit; got %+v", st)
	}
}

func TestPatchFailureRollsBack(t *testing.T) {
	m := newTestModel(t, &fakeClient{})
	m = seedUsers(m, model.User{ID: 1, Username: "amy"})
	m = seedTasks(m, model.Task{ID: 5, Title: "ship", OwnerID: 1})

	mut, err := m.state.ToggleComplete(5)
	if err != nil {
		t.Fatalf("ToggleComplete: %v", err)
	}
	if got, _ := m.state.Task(5); !got.Completed {
		t.Fatalf("expected optimistic completion; got %+v", got)
	}

	m = apply(m, taskPatchedMsg{mut: mut, err: errors.New("boom")})
	if got, _ := m.state.Task(5); got.Completed {
		t.Fatalf("expected rollback to pending; got %+v", got)
	}
	if !m.statusIsErr {
		t.Fatalf("expected a sync error flash; got %q", m.status)
	}
}

func TestDeleteFlowRemovesTaskOnSuccess(t *testing.T) {
	f := &fakeClient{}
	m := newTestModel(t, f)
	m = seedUsers(m, model.User{ID: 1, Username: "amy"})
	m = seedTasks(m,
		model.Task{ID: 5, Title: "keep", OwnerID: 1},
		model.Task{ID: 6, Title: "drop", OwnerID: 1},
	)
	m.pane = paneTasks
	m.tasksList.Select(1)

	m = keyRunes(m, 'd')
	if m.modal != modalConfirmDelete || m.deleteTaskID != 6 {
		t.Fatalf("expected confirm modal for task 6; got modal=%v id=%d", m.modal, m.deleteTaskID)
	}
	if m.confirmFocus != confirmFocusCancel {
		t.Fatalf("expected cancel focused by default")
	}

	mm, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'y'}})
	m = mm.(appModel)
	if m.modal != modalNone {
		t.Fatalf("expected modal closed after confirm")
	}
	if cmd == nil {
		t.Fatalf("expected a delete command")
	}

	m = apply(m, taskDeletedMsg{taskID: 6})
	tasks := m.state.Tasks()
	if len(tasks) != 1 || tasks[0].ID != 5 {
		t.Fatalf("expected only task 5 left; got %+v", tasks)
	}
}

func TestEscCancelsConfirmWithoutDeleting(t *testing.T) {
	f := &fakeClient{}
	m := newTestModel(t, f)
	m = seedUsers(m, model.User{ID: 1, Username: "amy"})
	m = seedTasks(m, model.Task{ID: 5, Title: "keep", OwnerID: 1})
	m.pane = paneTasks

	m = keyRunes(m, 'd')
	m = apply(m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.modal != modalNone {
		t.Fatalf("expected modal closed")
	}
	if f.deleteCalls != 0 {
		t.Fatalf("expected no delete call; got %d", f.deleteCalls)
	}
	if len(m.state.Tasks()) != 1 {
		t.Fatalf("expected snapshot untouched; got %+v", m.state.Tasks())
	}
}

func TestUsersLoadAutoSelectsAndChainsTaskLoad(t *testing.T) {
	m := newTestModel(t, &fakeClient{})

	mm, cmd := m.Update(usersLoadedMsg{users: []model.User{{ID: 7, Username: "zoe"}}})
	m = mm.(appModel)

	if m.state.SelectedUserID() != 7 {
		t.Fatalf("expected auto-selected user 7; got %d", m.state.SelectedUserID())
	}
	if cmd == nil {
		t.Fatalf("expected a chained task reload")
	}
}
