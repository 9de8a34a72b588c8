package tui

import (
	"taskdash/internal/api"
	"taskdash/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive dashboard. cache may be nil; the dashboard then
// starts cold and skips snapshot persistence.
func Run(client *api.Client, cache *store.Cache) error {
	applyColorProfilePreference()
	applyThemePreference()

	m := newAppModel(client, cache)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
