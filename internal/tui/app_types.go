package tui

import (
	"context"

	"taskdash/internal/model"
	"taskdash/internal/viewstate"
)

// apiClient is the API surface the dashboard needs. *api.Client implements
// it; tests substitute a fake.
type apiClient interface {
	viewstate.Client
	CreateTask(ctx context.Context, userID int, draft model.TaskDraft) (model.Task, error)
	UpdateTask(ctx context.Context, id int, patch model.TaskPatch) (model.Task, error)
	DeleteTask(ctx context.Context, id int) error
	Health(ctx context.Context) (model.Health, error)
}

type pane int

const (
	paneUsers pane = iota
	paneTasks
)

type modalKind int

const (
	modalNone modalKind = iota
	modalNewTask
	modalConfirmDelete
)

// taskVariant selects how the task pane renders: bordered cards or compact
// one-line rows with a detail split.
type taskVariant int

const (
	variantCards taskVariant = iota
	variantRows
)

func (v taskVariant) String() string {
	if v == variantRows {
		return "list"
	}
	return "grid"
}

func parseVariant(s string) taskVariant {
	if s == "list" {
		return variantRows
	}
	return variantCards
}

type newTaskFocus int

const (
	newTaskFocusTitle newTaskFocus = iota
	newTaskFocusDescription
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

type usersLoadedMsg struct {
	users []model.User
	err   error
}

type tasksLoadedMsg struct {
	load  viewstate.Load
	tasks []model.Task
	err   error
}

type taskCreatedMsg struct {
	task model.Task
	err  error
}

type taskPatchedMsg struct {
	mut  viewstate.Mutation
	task model.Task
	err  error
}

type taskDeletedMsg struct {
	taskID int
	err    error
}

type healthMsg struct {
	health model.Health
	err    error
}

type healthTickMsg struct{}

type statusClearMsg struct{ seq int }
