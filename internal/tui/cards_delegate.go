package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// taskCardDelegate renders the "grid" variant: each task is a bordered card
// with title, a one-line description preview and a metadata line.
type taskCardDelegate struct {
	normalCard   lipgloss.Style
	selectedCard lipgloss.Style

	titleStyle lipgloss.Style
	doneStyle  lipgloss.Style
	metaStyle  lipgloss.Style
}

func newTaskCardDelegate() taskCardDelegate {
	base := lipgloss.NewStyle().
		Width(0). // Set per-render.
		Padding(0, 1, 0, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorCardBorder).
		Foreground(colorSurfaceFg)

	selected := base.BorderForeground(colorSelectedBorder)

	return taskCardDelegate{
		normalCard:   base,
		selectedCard: selected,
		titleStyle:   lipgloss.NewStyle().Bold(true).Foreground(colorSurfaceFg),
		doneStyle:    styleMuted().Strikethrough(true),
		metaStyle:    lipgloss.NewStyle().Foreground(colorCardMetaFg),
	}
}

func (d taskCardDelegate) Height() int  { return 5 } // 3 inner lines + border top/bottom
func (d taskCardDelegate) Spacing() int { return 1 }
func (d taskCardDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d taskCardDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	totalW := m.Width()
	if totalW < 12 {
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

	card := d.normalCard
	if selected {
		card = d.selectedCard
	}
	frameW := card.GetHorizontalFrameSize()
	innerW := totalW - frameW
	if innerW < 1 {
		innerW = 1
	}
	card = card.Width(innerW)

	title := strings.TrimSpace(t.Title)
	if title == "" {
		title = "(untitled)"
	}
	titleLine := doneGlyph(t.Completed) + " "
	if t.Completed {
		titleLine += d.doneStyle.Render(truncateToWidth(title, innerW-2))
	} else {
		titleLine += d.titleStyle.Render(truncateToWidth(title, innerW-2))
	}

	desc := strings.TrimSpace(t.Description)
	if desc == "" {
		desc = "(no description)"
	}

	meta := priorityBadge(t.Priority, false) + "  " + dueLabel(t, now, false)
	if !t.UpdatedAt.IsZero() {
		meta += "  |  updated " + t.UpdatedAt.UTC().Format("2006-01-02")
	}

	lines := []string{
		titleLine,
		d.metaStyle.Render(truncateToWidth(desc, innerW)),
		d.metaStyle.Render(meta),
	}
	for i := range lines {
		lines[i] = padOrCutANSI(lines[i], innerW)
	}

	fmt.Fprint(w, card.Render(strings.Join(lines, "\n")))
}
