// Package viewstate owns the dashboard's in-memory snapshot (users, tasks,
// selected user, active filter, derived stats) and the rules for keeping it
// consistent with the task API: load → filter → mutate → re-sync.
//
// The synchronizer never performs network I/O while holding the snapshot.
// Reads are split into issue (SelectUser/SetFilter/TaskLoad return a Load
// tag), fetch (Load.Fetch, safe on any goroutine) and settle (ApplyTasks,
// which discards stale results). Writes are split the same way: an
// optimistic stage (ToggleComplete/SetPriority) returns a Mutation, and the
// caller either confirms the API call or rolls the mutation back.
package viewstate

import (
	"context"
	"strings"

	"taskdash/internal/api"
	"taskdash/internal/model"
)

// Client is the slice of the API surface the synchronizer needs.
// *api.Client implements it.
type Client interface {
	Users(ctx context.Context) ([]model.User, error)
	Tasks(ctx context.Context, q api.TaskQuery) ([]model.Task, error)
}

// Synchronizer is not safe for concurrent use: intents and settlements must
// come from a single goroutine (the bubbletea update loop, or a sequential
// CLI command). Only Load.Fetch may run elsewhere.
type Synchronizer struct {
	users    []model.User
	tasks    []model.Task
	selected int // user id; 0 = none
	filter   model.Filter
	stats    model.Stats

	// loadSeq tags task reloads. A response whose seq no longer matches
	// current state is stale and gets discarded, so a slow early fetch can
	// never clobber a faster later one.
	loadSeq int
}

func New() *Synchronizer {
	return &Synchronizer{filter: model.FilterAll}
}

// Load identifies one task reload. The (user, filter) pair is pinned at
// issue time: the fetch stays scoped to what the user asked for back then,
// and ApplyTasks decides whether the result still matters.
type Load struct {
	seq    int
	UserID int
	Filter model.Filter
}

// Fetch runs the task query for this load tag. It reads the pair from the
// tag, not from current state, so it is safe to run on another goroutine.
func (ld Load) Fetch(ctx context.Context, c Client) ([]model.Task, error) {
	return c.Tasks(ctx, api.TaskQuery{UserID: ld.UserID, Filter: ld.Filter})
}

// LoadUsers fetches and applies the user list in one step, for sequential
// callers. A fetch error leaves the previous snapshot intact.
func (s *Synchronizer) LoadUsers(ctx context.Context, c Client) error {
	users, err := c.Users(ctx)
	if err != nil {
		return err
	}
	s.ApplyUsers(users)
	return nil
}

// ApplyUsers replaces the user list. If nothing was selected and the list is
// non-empty, the first returned user is auto-selected; the API's ordering is
// authoritative and never re-sorted. A selection pointing at a user that no
// longer exists falls back the same way.
func (s *Synchronizer) ApplyUsers(users []model.User) {
	s.users = users
	if s.selected != 0 && s.userByID(s.selected) == nil {
		s.selected = 0
	}
	if s.selected == 0 && len(users) > 0 {
		s.selected = users[0].ID
	}
}

// SelectUser sets the selection and returns the tag for the superseding
// reload. Any reload still in flight for a previous selection is superseded:
// its result, if it arrives late, is discarded by ApplyTasks.
func (s *Synchronizer) SelectUser(userID int) (Load, error) {
	if s.userByID(userID) == nil {
		return Load{}, api.NotFoundError{Kind: "user", ID: userID}
	}
	s.selected = userID
	return s.nextLoad(), nil
}

// SetFilter sets the view filter, with the same supersession contract as
// SelectUser.
func (s *Synchronizer) SetFilter(f model.Filter) Load {
	s.filter = f
	return s.nextLoad()
}

// TaskLoad returns a tag for the current (selection, filter) pair,
// superseding any reload still in flight. Used for the initial load and for
// post-mutation resyncs.
func (s *Synchronizer) TaskLoad() Load {
	return s.nextLoad()
}

func (s *Synchronizer) nextLoad() Load {
	s.loadSeq++
	return Load{seq: s.loadSeq, UserID: s.selected, Filter: s.filter}
}

// ApplyTasks replaces the task snapshot atomically (never a partial merge)
// and recomputes stats, if ld is still the current load. It reports whether
// the result was applied; stale results are discarded whole.
func (s *Synchronizer) ApplyTasks(ld Load, tasks []model.Task) bool {
	if ld.seq != s.loadSeq {
		return false
	}
	s.tasks = tasks
	s.recomputeStats()
	return true
}

// NewTask validates a draft against current state and returns the owner the
// task should be created under. It fails fast: when an error comes back, no
// network call has been issued. On API success the caller resynchronizes via
// TaskLoad; there is no speculative insert, since the API applies
// server-side defaults.
func (s *Synchronizer) NewTask(draft model.TaskDraft) (int, error) {
	if strings.TrimSpace(draft.Title) == "" {
		return 0, api.ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if draft.Priority != "" && !draft.Priority.Valid() {
		return 0, api.ValidationError{Field: "priority", Reason: "must be low, medium, or high"}
	}
	if s.selected == 0 {
		return 0, api.NoSelectionError{}
	}
	return s.selected, nil
}

// Mutation records one staged optimistic edit so a failed API call can be
// rolled back. Patch is what the caller sends to the API.
type Mutation struct {
	TaskID int
	Patch  model.TaskPatch
	prev   model.Task
}

// ToggleComplete flips the completed flag on the local snapshot immediately
// and returns the mutation to send. If the API call fails, pass the
// mutation to Rollback and report a SyncError.
func (s *Synchronizer) ToggleComplete(taskID int) (Mutation, error) {
	t := s.taskByID(taskID)
	if t == nil {
		return Mutation{}, api.NotFoundError{Kind: "task", ID: taskID}
	}
	mut := Mutation{TaskID: taskID, prev: *t}
	done := !t.Completed
	t.Completed = done
	mut.Patch.Completed = &done
	s.recomputeStats()
	return mut, nil
}

// SetPriority stages an optimistic priority change, scoped to the priority
// field only. Same confirm-or-rollback contract as ToggleComplete.
func (s *Synchronizer) SetPriority(taskID int, p model.Priority) (Mutation, error) {
	if !p.Valid() {
		return Mutation{}, api.ValidationError{Field: "priority", Reason: "must be low, medium, or high"}
	}
	t := s.taskByID(taskID)
	if t == nil {
		return Mutation{}, api.NotFoundError{Kind: "task", ID: taskID}
	}
	mut := Mutation{TaskID: taskID, prev: *t}
	t.Priority = p
	pr := p
	mut.Patch.Priority = &pr
	s.recomputeStats()
	return mut, nil
}

// Rollback restores the task as it was before the staged mutation. Safe to
// call even if a reload replaced the snapshot meanwhile: when the task is
// gone the rollback is a no-op.
func (s *Synchronizer) Rollback(m Mutation) {
	if t := s.taskByID(m.TaskID); t != nil {
		*t = m.prev
	}
	s.recomputeStats()
}

// RemoveTask drops exactly the given id from the snapshot, preserving the
// order and content of everything else. Call it only after the API DELETE
// succeeded; on failure the snapshot stays as it was.
func (s *Synchronizer) RemoveTask(taskID int) {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if t.ID != taskID {
			out = append(out, t)
		}
	}
	s.tasks = out
	s.recomputeStats()
}

func (s *Synchronizer) Users() []model.User { return s.users }

func (s *Synchronizer) Tasks() []model.Task { return s.tasks }

func (s *Synchronizer) Task(taskID int) (model.Task, bool) {
	if t := s.taskByID(taskID); t != nil {
		return *t, true
	}
	return model.Task{}, false
}

func (s *Synchronizer) SelectedUserID() int { return s.selected }

func (s *Synchronizer) SelectedUser() (model.User, bool) {
	if u := s.userByID(s.selected); u != nil {
		return *u, true
	}
	return model.User{}, false
}

func (s *Synchronizer) Filter() model.Filter { return s.filter }

func (s *Synchronizer) Stats() model.Stats { return s.stats }

func (s *Synchronizer) recomputeStats() {
	s.stats = ComputeStats(s.tasks)
}

func (s *Synchronizer) taskByID(id int) *model.Task {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return &s.tasks[i]
		}
	}
	return nil
}

func (s *Synchronizer) userByID(id int) *model.User {
	for i := range s.users {
		if s.users[i].ID == id {
			return &s.users[i]
		}
	}
	return nil
}
