package tui

import (
	"context"
	"log/slog"
	"time"

	"dayplan/internal/logging"
	"dayplan/internal/model"
	"dayplan/internal/planner"
	"dayplan/internal/render"
	"dayplan/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// searchDebounce is how long the food search field must be quiet before a query is sent.
const searchDebounce = 300 * time.Millisecond

type appModel struct {
	session *planner.Session
	store   store.Store
	state   *store.TUIState
	cfg     store.Config
	log     *slog.Logger

	width  int
	height int

	// date is the date of the displayed document; today reports whether it
	// was loaded in today mode.
	date    string
	today   bool
	doc     *model.Document
	boxes   []render.Box
	checks  []render.Check
	loading bool
	// loadErr replaces the day body when the last load failed.
	loadErr string

	status    string
	statusErr bool

	// cursor indexes checks.
	cursor int

	vp   viewport.Model
	help help.Model
	keys dayKeyMap

	modal       *form
	nextModalID int

	showSummary bool
}

func newAppModel(s *planner.Session, st store.Store, cfg store.Config, log *slog.Logger) appModel {
	if log == nil {
		log = logging.Discard()
	}
	state, err := st.LoadTUIState()
	if err != nil || state == nil {
		state = &store.TUIState{Version: 1}
	}
	return appModel{
		session: s,
		store:   st,
		state:   state,
		cfg:     cfg,
		log:     log,
		width:   80,
		height:  24,
		vp:      viewport.New(80, 20),
		help:    help.New(),
		keys:    newDayKeyMap(),
		loading: true,
	}
}

func (m appModel) Init() tea.Cmd {
	return m.loadToday()
}

// run wraps fn as a command with its own deadline. Each request is already
// bounded by the client timeout; this guards a post plus its reload.
func (m appModel) run(fn func(ctx context.Context, s *planner.Session) tea.Msg) tea.Cmd {
	s := m.session
	d := m.cfg.Timeout
	if d <= 0 {
		d = store.DefaultTimeout
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*d+time.Second)
		defer cancel()
		return fn(ctx, s)
	}
}

func (m appModel) loadToday() tea.Cmd {
	return m.run(func(ctx context.Context, s *planner.Session) tea.Msg {
		load, err := s.Today(ctx)
		return dayLoadedMsg{load: load, err: err}
	})
}

func (m appModel) reload() tea.Cmd {
	return m.run(func(ctx context.Context, s *planner.Session) tea.Msg {
		load, err := s.Reload(ctx)
		return dayLoadedMsg{load: load, err: err}
	})
}

func (m appModel) shift(days int) tea.Cmd {
	return m.run(func(ctx context.Context, s *planner.Session) tea.Msg {
		load, err := s.Shift(ctx, days)
		return dayLoadedMsg{load: load, err: err}
	})
}

func (m appModel) selectDate(date string, modalID int) tea.Cmd {
	return m.run(func(ctx context.Context, s *planner.Session) tea.Msg {
		load, err := s.SelectDate(ctx, date)
		return dayLoadedMsg{load: load, err: err, modalID: modalID}
	})
}

// mutate runs a session mutation and reports the reload that follows it.
func (m appModel) mutate(modalID int, fn func(context.Context, *planner.Session) (planner.Result, error)) tea.Cmd {
	return m.run(func(ctx context.Context, s *planner.Session) tea.Msg {
		res, err := fn(ctx, s)
		return dayLoadedMsg{load: res.Load, err: err, mutErr: res.MutationErr, modalID: modalID}
	})
}

func (m appModel) searchFood(seq int, query string) tea.Cmd {
	return m.run(func(ctx context.Context, s *planner.Session) tea.Msg {
		foods, err := s.SearchFood(ctx, query)
		return searchResultMsg{seq: seq, foods: foods, err: err}
	})
}

func searchTick(seq int, query string) tea.Cmd {
	return tea.Tick(searchDebounce, func(time.Time) tea.Msg {
		return searchTickMsg{seq: seq, query: query}
	})
}

func (m *appModel) openModal(f *form) {
	m.nextModalID++
	f.id = m.nextModalID
	m.modal = f
}

func (m *appModel) saveState() {
	if err := m.store.SaveTUIState(m.state); err != nil {
		m.log.Debug("tui_state_save_failed", "error", err.Error())
	}
}

func (m *appModel) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}
