package tui

import (
	"log/slog"

	"dayplan/internal/planner"
	"dayplan/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type Options struct {
	Session *planner.Session
	Store   store.Store
	Config  store.Config
	Logger  *slog.Logger
}

func Run(opts Options) error {
	applyThemePreference()
	applyColorProfilePreference()
	glyphPref := ""
	if opts.Config.TUI != nil {
		glyphPref = opts.Config.TUI.Glyphs
	}
	applyGlyphPreference(glyphPref)

	m := newAppModel(opts.Session, opts.Store, opts.Config, opts.Logger)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
