package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"taskdash/internal/model"
	"taskdash/internal/store"
	"taskdash/internal/viewstate"
)

type appModel struct {
	client apiClient
	cache  *store.Cache // may be nil; all cache writes are best effort

	state *viewstate.Synchronizer

	width  int
	height int

	pane    pane
	modal   modalKind
	variant taskVariant

	usersList list.Model
	tasksList list.Model

	titleInput    textinput.Model
	descInput     textarea.Model
	draftPriority model.Priority
	draftFocus    newTaskFocus

	deleteTaskID int
	confirmFocus confirmModalFocus

	spin    spinner.Model
	loading bool

	health    model.Health
	healthErr string

	// Short-lived status line under the footer; seq guards the clear timer
	// so an old timer can't wipe a newer message.
	status      string
	statusIsErr bool
	statusSeq   int
}

func newAppModel(client apiClient, cache *store.Cache) appModel {
	m := appModel{
		client:        client,
		cache:         cache,
		state:         viewstate.New(),
		draftPriority: model.PriorityMedium,
		loading:       true, // Init fires the first loads immediately.
	}

	m.usersList = newList(nil, newUserDelegate())
	m.tasksList = newList(nil, newTaskCardDelegate())

	m.titleInput = textinput.New()
	m.titleInput.Placeholder = "Title"
	m.titleInput.CharLimit = 200

	m.descInput = textarea.New()
	m.descInput.Placeholder = "Description (markdown)"
	m.descInput.SetHeight(4)
	m.descInput.ShowLineNumbers = false

	m.spin = spinner.New()
	m.spin.Spinner = spinner.Dot
	m.spin.Style = lipgloss.NewStyle().Foreground(colorAccent)

	m.seedFromCache()
	m.rebuildUsersList()
	m.applyVariant()
	m.rebuildTasksList()
	return m
}

// seedFromCache shows the last-synced snapshot instantly while the real
// loads run. Everything here is optional: a cold cache just means an empty
// first frame.
func (m *appModel) seedFromCache() {
	if m.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if users, err := m.cache.Users(ctx); err == nil && len(users) > 0 {
		m.state.ApplyUsers(users)
	}

	st, err := m.cache.LoadUIState(ctx)
	if err != nil {
		st = &store.UIState{Version: 1}
	}
	if st.SelectedUserID != 0 {
		// Ignore the error: a remembered user that no longer exists simply
		// keeps the auto-selected first one.
		_, _ = m.state.SelectUser(st.SelectedUserID)
	}
	if st.Filter.Valid() {
		m.state.SetFilter(st.Filter)
	}
	m.variant = parseVariant(st.Variant)

	if tasks, err := m.cache.Tasks(ctx); err == nil && len(tasks) > 0 {
		m.state.ApplyTasks(m.state.TaskLoad(), tasks)
	}
}

func newList(items []list.Item, delegate list.ItemDelegate) list.Model {
	l := list.New(items, delegate, 0, 0)
	// We render our own chrome (header, stats, footer), so keep the list bare.
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(false)
	// ESC is "cancel" here, not "quit"; q quits from the top level only.
	l.DisableQuitKeybindings()

	// Emacs-style navigation aliases.
	upKeys := append([]string{}, l.KeyMap.CursorUp.Keys()...)
	l.KeyMap.CursorUp.SetKeys(append(upKeys, "ctrl+p")...)
	downKeys := append([]string{}, l.KeyMap.CursorDown.Keys()...)
	l.KeyMap.CursorDown.SetKeys(append(downKeys, "ctrl+n")...)
	return l
}

func (m *appModel) rebuildUsersList() {
	users := m.state.Users()
	items := make([]list.Item, 0, len(users))
	cursor := 0
	for i, u := range users {
		items = append(items, userItem{user: u})
		if u.ID == m.state.SelectedUserID() {
			cursor = i
		}
	}
	m.usersList.SetItems(items)
	m.usersList.Select(cursor)
}

func (m *appModel) rebuildTasksList() {
	prevID := 0
	if t, ok := m.selectedTask(); ok {
		prevID = t.ID
	}

	tasks := m.state.Tasks()
	items := make([]list.Item, 0, len(tasks))
	cursor := 0
	for i, t := range tasks {
		items = append(items, taskItem{task: t})
		if prevID != 0 && t.ID == prevID {
			cursor = i
		}
	}
	m.tasksList.SetItems(items)
	m.tasksList.Select(cursor)
}

func (m *appModel) applyVariant() {
	if m.variant == variantRows {
		m.tasksList.SetDelegate(newTaskRowDelegate())
	} else {
		m.tasksList.SetDelegate(newTaskCardDelegate())
	}
}

func (m appModel) selectedTask() (model.Task, bool) {
	it, ok := m.tasksList.SelectedItem().(taskItem)
	if !ok {
		return model.Task{}, false
	}
	return it.task, true
}

func (m appModel) cursorUser() (model.User, bool) {
	it, ok := m.usersList.SelectedItem().(userItem)
	if !ok {
		return model.User{}, false
	}
	return it.user, true
}

func (m *appModel) persistUIState() {
	if m.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = m.cache.SaveUIState(ctx, &store.UIState{
		Version:        1,
		SelectedUserID: m.state.SelectedUserID(),
		Filter:         m.state.Filter(),
		Variant:        m.variant.String(),
	})
}

func (m *appModel) persistUsers(users []model.User) {
	if m.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = m.cache.SaveUsers(ctx, users)
}

func (m *appModel) persistTasks(tasks []model.Task) {
	if m.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = m.cache.SaveTasks(ctx, tasks)
}
