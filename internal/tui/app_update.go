package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"taskdash/internal/api"
	"taskdash/internal/model"
	"taskdash/internal/viewstate"
)

const (
	requestTimeout = 15 * time.Second
	healthInterval = 30 * time.Second
	statusLinger   = 4 * time.Second
)

func (m appModel) Init() tea.Cmd {
	return tea.Batch(
		m.spin.Tick,
		m.loadUsersCmd(),
		m.healthCmd(),
	)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.resizeLists()
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case usersLoadedMsg:
		m.loading = false
		if msg.err != nil {
			return m, m.flash("load users: "+msg.err.Error(), true)
		}
		m.state.ApplyUsers(msg.users)
		m.rebuildUsersList()
		m.persistUsers(msg.users)
		m.persistUIState()
		// Tasks always follow the (possibly just auto-selected) user.
		ld := m.state.TaskLoad()
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.loadTasksCmd(ld))

	case tasksLoadedMsg:
		if msg.err != nil {
			m.loading = false
			err := api.SyncError{Op: "load tasks", Err: msg.err}
			return m, m.flash(err.Error(), true)
		}
		if !m.state.ApplyTasks(msg.load, msg.tasks) {
			// Superseded by a newer reload; a fresher response settles later.
			return m, nil
		}
		m.loading = false
		m.rebuildTasksList()
		m.persistTasks(msg.tasks)
		return m, nil

	case taskCreatedMsg:
		m.loading = false
		if msg.err != nil {
			// Keep the modal open so the draft isn't lost.
			return m, m.flash("create task: "+msg.err.Error(), true)
		}
		m.closeModal()
		ld := m.state.TaskLoad()
		m.loading = true
		return m, tea.Batch(
			m.spin.Tick,
			m.loadTasksCmd(ld),
			m.flash("created "+msg.task.Title, false),
		)

	case taskPatchedMsg:
		if msg.err != nil {
			m.state.Rollback(msg.mut)
			m.rebuildTasksList()
			err := api.SyncError{Op: "update task", Err: msg.err}
			return m, m.flash(err.Error(), true)
		}
		m.persistTasks(m.state.Tasks())
		return m, nil

	case taskDeletedMsg:
		if msg.err != nil {
			err := api.SyncError{Op: "delete task", Err: msg.err}
			return m, m.flash(err.Error(), true)
		}
		m.state.RemoveTask(msg.taskID)
		m.rebuildTasksList()
		m.persistTasks(m.state.Tasks())
		return m, m.flash("task deleted", false)

	case healthMsg:
		if msg.err != nil {
			m.health = model.Health{}
			m.healthErr = msg.err.Error()
		} else {
			m.health = msg.health
			m.healthErr = ""
		}
		return m, tea.Tick(healthInterval, func(time.Time) tea.Msg { return healthTickMsg{} })

	case healthTickMsg:
		return m, m.healthCmd()

	case statusClearMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
			m.statusIsErr = false
		}
		return m, nil
	}

	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.modal {
	case modalNewTask:
		return m.updateNewTaskModal(msg)
	case modalConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "tab":
		if m.pane == paneUsers {
			m.pane = paneTasks
		} else {
			m.pane = paneUsers
		}
		return m, nil

	case "r":
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.loadUsersCmd(), m.healthCmd())

	case "v":
		if m.variant == variantCards {
			m.variant = variantRows
		} else {
			m.variant = variantCards
		}
		m.applyVariant()
		m.resizeLists()
		m.persistUIState()
		return m, nil

	case "a":
		return m.setFilter(model.FilterAll)
	case "h":
		return m.setFilter(model.FilterHigh)
	case "m":
		return m.setFilter(model.FilterMedium)
	case "l":
		return m.setFilter(model.FilterLow)

	case "enter":
		if m.pane != paneUsers {
			return m, nil
		}
		u, ok := m.cursorUser()
		if !ok {
			return m, nil
		}
		ld, err := m.state.SelectUser(u.ID)
		if err != nil {
			return m, m.flash(err.Error(), true)
		}
		m.persistUIState()
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.loadTasksCmd(ld))

	case "n":
		m.openNewTaskModal()
		return m, m.titleInput.Focus()

	case " ", "x":
		if m.pane != paneTasks {
			break
		}
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		mut, err := m.state.ToggleComplete(t.ID)
		if err != nil {
			return m, m.flash(err.Error(), true)
		}
		m.rebuildTasksList()
		return m, m.patchTaskCmd(mut)

	case "p":
		if m.pane != paneTasks {
			break
		}
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		mut, err := m.state.SetPriority(t.ID, nextPriority(t.Priority))
		if err != nil {
			return m, m.flash(err.Error(), true)
		}
		m.rebuildTasksList()
		return m, m.patchTaskCmd(mut)

	case "d":
		if m.pane != paneTasks {
			break
		}
		t, ok := m.selectedTask()
		if !ok {
			return m, nil
		}
		m.modal = modalConfirmDelete
		m.deleteTaskID = t.ID
		m.confirmFocus = confirmFocusCancel
		return m, nil
	}

	var cmd tea.Cmd
	if m.pane == paneUsers {
		m.usersList, cmd = m.usersList.Update(msg)
	} else {
		m.tasksList, cmd = m.tasksList.Update(msg)
	}
	return m, cmd
}

func (m appModel) updateNewTaskModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeModal()
		return m, nil

	case "tab", "shift+tab":
		if m.draftFocus == newTaskFocusTitle {
			m.draftFocus = newTaskFocusDescription
			m.titleInput.Blur()
			return m, m.descInput.Focus()
		}
		m.draftFocus = newTaskFocusTitle
		m.descInput.Blur()
		return m, m.titleInput.Focus()

	case "ctrl+p":
		m.draftPriority = nextPriority(m.draftPriority)
		return m, nil

	case "ctrl+s", "enter":
		// Enter inside the description inserts a newline instead.
		if msg.String() == "enter" && m.draftFocus == newTaskFocusDescription {
			break
		}
		draft := model.TaskDraft{
			Title:       m.titleInput.Value(),
			Description: m.descInput.Value(),
			Priority:    m.draftPriority,
		}
		ownerID, err := m.state.NewTask(draft)
		if err != nil {
			return m, m.flash(err.Error(), true)
		}
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.createTaskCmd(ownerID, draft))
	}

	var cmd tea.Cmd
	if m.draftFocus == newTaskFocusTitle {
		m.titleInput, cmd = m.titleInput.Update(msg)
	} else {
		m.descInput, cmd = m.descInput.Update(msg)
	}
	return m, cmd
}

func (m appModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		m.closeModal()
		return m, nil

	case "tab", "shift+tab", "left", "right":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil

	case "y":
		return m.confirmDelete()

	case "enter":
		if m.confirmFocus == confirmFocusConfirm {
			return m.confirmDelete()
		}
		m.closeModal()
		return m, nil
	}
	return m, nil
}

func (m appModel) confirmDelete() (tea.Model, tea.Cmd) {
	id := m.deleteTaskID
	m.closeModal()
	return m, m.deleteTaskCmd(id)
}

func (m *appModel) openNewTaskModal() {
	m.modal = modalNewTask
	m.draftFocus = newTaskFocusTitle
	m.draftPriority = model.PriorityMedium
	m.titleInput.SetValue("")
	m.descInput.SetValue("")
	m.descInput.Blur()
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.deleteTaskID = 0
	m.confirmFocus = confirmFocusCancel
	m.titleInput.Blur()
	m.descInput.Blur()
}

func (m appModel) setFilter(f model.Filter) (tea.Model, tea.Cmd) {
	if m.state.Filter() == f {
		return m, nil
	}
	ld := m.state.SetFilter(f)
	m.persistUIState()
	m.loading = true
	return m, tea.Batch(m.spin.Tick, m.loadTasksCmd(ld))
}

func (m *appModel) flash(text string, isErr bool) tea.Cmd {
	m.status = text
	m.statusIsErr = isErr
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusLinger, func(time.Time) tea.Msg { return statusClearMsg{seq: seq} })
}

func nextPriority(p model.Priority) model.Priority {
	switch p {
	case model.PriorityLow:
		return model.PriorityMedium
	case model.PriorityMedium:
		return model.PriorityHigh
	default:
		return model.PriorityLow
	}
}

func (m appModel) loadUsersCmd() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		users, err := c.Users(ctx)
		return usersLoadedMsg{users: users, err: err}
	}
}

func (m appModel) loadTasksCmd(ld viewstate.Load) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		tasks, err := ld.Fetch(ctx, c)
		return tasksLoadedMsg{load: ld, tasks: tasks, err: err}
	}
}

func (m appModel) createTaskCmd(ownerID int, draft model.TaskDraft) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		task, err := c.CreateTask(ctx, ownerID, draft)
		return taskCreatedMsg{task: task, err: err}
	}
}

func (m appModel) patchTaskCmd(mut viewstate.Mutation) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		task, err := c.UpdateTask(ctx, mut.TaskID, mut.Patch)
		return taskPatchedMsg{mut: mut, task: task, err: err}
	}
}

func (m appModel) deleteTaskCmd(taskID int) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		err := c.DeleteTask(ctx, taskID)
		return taskDeletedMsg{taskID: taskID, err: err}
	}
}

func (m appModel) healthCmd() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		h, err := c.Health(ctx)
		return healthMsg{health: h, err: err}
	}
}
