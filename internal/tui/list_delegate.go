package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"taskdash/internal/duefmt"
	"taskdash/internal/model"
)

type userItem struct {
	user model.User
}

func (i userItem) FilterValue() string { return i.user.Username }

type taskItem struct {
	task model.Task
}

func (i taskItem) FilterValue() string { return i.task.Title }

type userDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	inactive lipgloss.Style
}

func newUserDelegate() userDelegate {
	return userDelegate{
		normal: lipgloss.NewStyle().Foreground(colorSurfaceFg),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
		inactive: styleMuted(),
	}
}

func (d userDelegate) Height() int  { return 1 }
func (d userDelegate) Spacing() int { return 0 }
func (d userDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d userDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	it, ok := item.(userItem)
	if !ok {
		fmt.Fprint(w, "")
		return
	}

	style := d.normal
	if !it.user.IsActive {
		style = d.inactive
	}
	if index == m.Index() {
		style = d.selected
	}

	line := " " + it.user.Username
	if !it.user.IsActive {
		line += " (inactive)"
	}
	fmt.Fprint(w, style.Render(padOrCutANSI(line, contentW)))
}

// taskRowDelegate renders the compact "list" variant: one line per task with
// the due label right-aligned.
type taskRowDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	done     lipgloss.Style
}

func newTaskRowDelegate() taskRowDelegate {
	return taskRowDelegate{
		normal: lipgloss.NewStyle().Foreground(colorSurfaceFg),
		selected: lipgloss.NewStyle().
			Foreground(colorSelectedFg).
			Background(colorSelectedBg).
			Bold(true),
		done: styleMuted().Strikethrough(true),
	}
}

func (d taskRowDelegate) Height() int  { return 1 }
func (d taskRowDelegate) Spacing() int { return 0 }
func (d taskRowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d taskRowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 8 {
		fmt.Fprint(w, "")
		return
	}

	it, ok := item.(taskItem)
	if !ok {
		fmt.Fprint(w, "")
		return
	}
	t := it.task
	now := time.Now()
	selected := index == m.Index()

	left := " " + doneGlyph(t.Completed) + " " + priorityBadge(t.Priority, selected) + " "
	title := t.Title
	if t.Completed && !selected {
		title = d.done.Render(title)
	}
	left += title

	due := dueLabel(t, now, selected)
	gap := contentW - xansi.StringWidth(left) - xansi.StringWidth(due) - 1
	line := left
	if gap > 0 {
		line = left + spaces(gap) + due + " "
	}

	style := d.normal
	if selected {
		style = d.selected
	}
	fmt.Fprint(w, style.Render(padOrCutANSI(line, contentW)))
}

func doneGlyph(completed bool) string {
	if completed {
		return "✓"
	}
	return "○"
}

func priorityBadge(p model.Priority, selected bool) string {
	label := string(p)
	if label == "" {
		label = string(model.PriorityMedium)
	}
	if selected {
		// Keep the selection row a single background; colored badges on top
		// of the highlight read poorly on light terminals.
		return "[" + label + "]"
	}
	return lipgloss.NewStyle().Foreground(priorityColor(p)).Render("[" + label + "]")
}

func dueLabel(t model.Task, now time.Time, selected bool) string {
	label := duefmt.Label(t.DueDate, now)
	if !selected && duefmt.Overdue(t.DueDate, t.Completed, now) {
		return lipgloss.NewStyle().Foreground(colorOverdueFg).Bold(true).Render(label)
	}
	return label
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
