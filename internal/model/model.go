package model

import (
	"fmt"
	"strings"
	"time"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("invalid priority %q (must be: low, medium, or high)", s)
	}
	return p, nil
}

// Filter is a view predicate over Task.Priority. It never mutates stored
// tasks; FilterAll selects everything.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterHigh   Filter = "high"
	FilterMedium Filter = "medium"
	FilterLow    Filter = "low"
)

func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterHigh, FilterMedium, FilterLow:
		return true
	}
	return false
}

// Priority returns the priority a non-all filter selects.
func (f Filter) Priority() (Priority, bool) {
	if f == FilterAll || f == "" {
		return "", false
	}
	return Priority(f), true
}

func ParseFilter(s string) (Filter, error) {
	f := Filter(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("invalid filter %q (must be: all, low, medium, or high)", s)
	}
	return f, nil
}

type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `json:"completed"`
	Priority    Priority   `json:"priority"`
	OwnerID     int        `json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// TaskDraft is the create payload. The API applies server-side defaults
// (timestamps, id), so a created task is always re-fetched, never built
// client-side from the draft.
type TaskDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Priority    Priority `json:"priority,omitempty"`
}

// TaskPatch is the PATCH payload. Pointer fields: only non-nil fields are
// sent, everything else is left untouched server-side.
type TaskPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Completed   *bool     `json:"completed,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
}

func (p TaskPatch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil && p.Priority == nil
}

type UserDraft struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Stats is derived from the current task snapshot and never persisted.
// Total == Completed + Pending holds at every settle point.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// CompletedStats is the server-computed completion count.
type CompletedStats struct {
	CompletedTasks int  `json:"completed_tasks"`
	UserID         *int `json:"user_id"`
}

type Health struct {
	Status      string `json:"status"`
	Environment string `json:"environment"`
}

func (h Health) Healthy() bool { return h.Status == "healthy" }
