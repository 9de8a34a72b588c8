package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"taskdash/internal/duefmt"
	"taskdash/internal/model"
)

func (m appModel) layout() (usersW, tasksW, bodyH int) {
	usersW = m.width / 4
	if usersW < 18 {
		usersW = 18
	}
	if usersW > 30 {
		usersW = 30
	}
	tasksW = m.width - usersW - 3
	if tasksW < 20 {
		tasksW = 20
	}
	// header + stats + help + status
	bodyH = m.height - 4
	if bodyH < 4 {
		bodyH = 4
	}
	return usersW, tasksW, bodyH
}

func (m *appModel) resizeLists() {
	usersW, tasksW, bodyH := m.layout()
	listH := bodyH - 1 // room for the pane title
	m.usersList.SetSize(usersW, listH)
	if m.variant == variantRows {
		m.tasksList.SetSize(tasksW/2, listH)
	} else {
		m.tasksList.SetSize(tasksW, listH)
	}

	bodyW := modalBodyWidth(m.width)
	m.titleInput.Width = bodyW - 4
	m.descInput.SetWidth(bodyW - 2)
}

func (m appModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading…"
	}

	screen := strings.Join([]string{
		m.renderHeader(),
		m.renderBody(),
		m.renderStatsLine(),
		m.renderHelpLine(),
		m.renderStatusLine(),
	}, "\n")

	switch m.modal {
	case modalNewTask:
		return m.placeModal(m.renderNewTaskModal())
	case modalConfirmDelete:
		return m.placeModal(m.renderConfirmDeleteModal())
	}
	return screen
}

func (m appModel) placeModal(modal string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func (m appModel) renderHeader() string {
	left := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render(" taskdash")
	if u, ok := m.state.SelectedUser(); ok {
		left += styleMuted().Render("  •  " + u.Username)
	}
	if m.loading {
		left += " " + m.spin.View()
	}

	right := m.healthBadge() + " "
	gap := m.width - xansi.StringWidth(left) - xansi.StringWidth(right)
	if gap < 1 {
		return padOrCutANSI(left, m.width)
	}
	return left + spaces(gap) + right
}

func (m appModel) healthBadge() string {
	if m.healthErr != "" {
		return lipgloss.NewStyle().Foreground(colorErrorFg).Render("● api unreachable")
	}
	if m.health.Status == "" {
		return styleMuted().Render("● api …")
	}
	if m.health.Healthy() {
		return lipgloss.NewStyle().Foreground(colorOkFg).Render("● api healthy")
	}
	return lipgloss.NewStyle().Foreground(colorErrorFg).Render("● api " + m.health.Status)
}

func (m appModel) renderBody() string {
	usersW, tasksW, bodyH := m.layout()

	users := m.paneTitle("Users", m.pane == paneUsers) + "\n" + m.usersList.View()
	usersPane := fitPane(users, usersW, bodyH)

	var tasksPane string
	if m.variant == variantRows {
		listW := tasksW / 2
		detailW := tasksW - listW - 2
		tasks := m.paneTitle("Tasks", m.pane == paneTasks) + "\n" + m.tasksList.View()
		left := fitPane(tasks, listW, bodyH)
		right := fitPane(m.renderTaskDetail(detailW), detailW, bodyH)
		tasksPane = lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	} else {
		tasks := m.paneTitle("Tasks", m.pane == paneTasks) + "\n" + m.tasksList.View()
		tasksPane = fitPane(tasks, tasksW, bodyH)
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, usersPane, " │ ", tasksPane)
}

func (m appModel) paneTitle(title string, focused bool) string {
	st := styleMuted()
	if focused {
		st = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	}
	return st.Render(" " + title)
}

// renderTaskDetail shows the selected task in full for the compact rows
// variant, where the one-line rows have no room for the description.
func (m appModel) renderTaskDetail(width int) string {
	t, ok := m.selectedTask()
	if !ok {
		return styleMuted().Render("(no task selected)")
	}
	now := time.Now()

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg).Render(t.Title))
	b.WriteString("\n")
	meta := doneGlyph(t.Completed) + " " + priorityBadge(t.Priority, false) + "  " + dueLabel(t, now, false)
	b.WriteString(meta)
	b.WriteString("\n")
	if !t.UpdatedAt.IsZero() {
		b.WriteString(styleMuted().Render("updated " + t.UpdatedAt.UTC().Format("2006-01-02 15:04")))
		b.WriteString("\n")
	}
	if desc := strings.TrimSpace(t.Description); desc != "" {
		b.WriteString("\n")
		b.WriteString(renderMarkdown(desc, width))
	}
	return b.String()
}

func (m appModel) renderStatsLine() string {
	st := m.state.Stats()
	line := fmt.Sprintf(" %d tasks • %d completed • %d pending", st.Total, st.Completed, st.Pending)
	if st.Total > 0 {
		line += styleMuted().Render(fmt.Sprintf(" (%d%%)", st.Completed*100/st.Total))
	}
	if overdue := m.overdueCount(); overdue > 0 {
		line += lipgloss.NewStyle().Foreground(colorOverdueFg).Render(fmt.Sprintf(" • %d overdue", overdue))
	}
	if f := m.state.Filter(); f != model.FilterAll {
		line += styleMuted().Render("   filter: " + string(f))
	}
	line += styleMuted().Render("   view: " + m.variant.String())
	return padOrCutANSI(line, m.width)
}

func (m appModel) overdueCount() int {
	now := time.Now()
	n := 0
	for _, t := range m.state.Tasks() {
		if duefmt.Overdue(t.DueDate, t.Completed, now) {
			n++
		}
	}
	return n
}

func (m appModel) renderHelpLine() string {
	help := " tab: pane   enter: select   n: new   space: done   p: priority   d: delete   a/h/m/l: filter   v: view   r: reload   q: quit"
	return padOrCutANSI(styleMuted().Render(help), m.width)
}

func (m appModel) renderStatusLine() string {
	if m.status == "" {
		return padOrCutANSI("", m.width)
	}
	st := lipgloss.NewStyle().Foreground(colorOkFg)
	if m.statusIsErr {
		st = lipgloss.NewStyle().Foreground(colorErrorFg).Bold(true)
	}
	return padOrCutANSI(st.Render(" "+m.status), m.width)
}

func (m appModel) renderNewTaskModal() string {
	bodyW := modalBodyWidth(m.width)

	priority := "priority: " +
		lipgloss.NewStyle().Foreground(priorityColor(m.draftPriority)).Render("["+string(m.draftPriority)+"]") +
		styleMuted().Render("  (ctrl+p to cycle)")

	owner := "(no user selected)"
	if u, ok := m.state.SelectedUser(); ok {
		owner = "for " + u.Username
	}

	help := styleMuted().Width(bodyW).Render("tab: field   enter: save   esc: cancel")

	content := strings.Join([]string{
		styleMuted().Render(owner),
		"",
		m.titleInput.View(),
		"",
		m.descInput.View(),
		"",
		priority,
		"",
		help,
	}, "\n")
	return renderModalBox(m.width, "New task", content)
}

func (m appModel) renderConfirmDeleteModal() string {
	title := "this task"
	if t, ok := m.state.Task(m.deleteTaskID); ok {
		title = "“" + t.Title + "”"
	}
	body := "Delete " + title + "? This cannot be undone."
	return renderConfirmModal(m.width, "Delete task", body, "Delete", "Cancel", m.confirmFocus)
}
