package tui

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	"dayplan/internal/model"
	"dayplan/internal/planner"
	"dayplan/internal/render"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case dayLoadedMsg:
		return m.applyLoad(msg), nil

	case searchTickMsg:
		f := m.modal
		if f == nil || f.kind != modalAddFood || msg.seq != f.search.seq {
			return m, nil
		}
		f.search.state = searchLoading
		return m, m.searchFood(msg.seq, msg.query)

	case searchResultMsg:
		f := m.modal
		if f == nil || f.kind != modalAddFood || msg.seq != f.search.seq {
			return m, nil
		}
		f.search.idx = 0
		switch {
		case msg.err != nil:
			f.search.state = searchFailed
			f.search.results = nil
		case len(msg.foods) == 0:
			f.search.state = searchEmpty
			f.search.results = nil
		default:
			f.search.state = searchShown
			f.search.results = msg.foods
		}
		return m, nil

	case tea.KeyMsg:
		if m.modal != nil {
			return m.updateModal(msg)
		}
		return m.updateDay(msg)
	}
	return m, nil
}

func (m appModel) applyLoad(msg dayLoadedMsg) appModel {
	if m.modal != nil && msg.modalID != 0 && m.modal.id == msg.modalID {
		m.modal = nil
	}
	m.loading = false

	var le *planner.LoadError
	switch {
	case errors.As(msg.err, &le):
		m.date = msg.load.Date
		m.today = msg.load.Today
		m.doc = nil
		m.loadErr = le.Message()
	case msg.err != nil:
		// Rejected before anything was sent (bad date, empty text). Keep the day.
		m.setStatus(msg.err.Error(), true)
		return m
	default:
		m.date = msg.load.Date
		m.today = msg.load.Today
		m.doc = msg.load.Doc
		m.loadErr = ""
	}

	// A rejected mutation is logged and journaled by the session; the
	// reloaded day is all the user sees.
	if m.statusErr {
		m.setStatus("", false)
	}

	m.boxes = render.Render(m.doc)
	m.checks = render.Checks(m.boxes)
	if m.cursor >= len(m.checks) {
		m.cursor = len(m.checks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.layout()
	return m
}

func (m appModel) updateDay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.layout()
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.checks)-1 {
			m.cursor++
		}
		m.layout()
		return m, nil
	case key.Matches(msg, m.keys.Toggle):
		if m.cursor < 0 || m.cursor >= len(m.checks) {
			return m, nil
		}
		c := m.checks[m.cursor]
		m.loading = true
		return m, m.mutate(0, func(ctx context.Context, s *planner.Session) (planner.Result, error) {
			if c.Target == render.TargetGoal {
				return s.ToggleGoal(ctx, c.Section, c.Index, !c.Done)
			}
			return s.ToggleTask(ctx, c.Section, c.Index, !c.Done)
		})
	case key.Matches(msg, m.keys.AddTask):
		m.openModal(newAddTaskForm(m.doc, m.state.LastTaskSection))
		return m, nil
	case key.Matches(msg, m.keys.AddGoal):
		m.openModal(newAddGoalForm(m.doc, m.state.LastGoalSection))
		return m, nil
	case key.Matches(msg, m.keys.AddFood):
		m.openModal(newAddFoodForm(m.doc, m.state.LastMeal))
		return m, nil
	case key.Matches(msg, m.keys.Water):
		f := newAddWaterForm()
		if m.state.LastWater > 0 {
			f.setValue(fieldAmount, strconv.Itoa(m.state.LastWater))
		}
		m.openModal(f)
		return m, nil
	case key.Matches(msg, m.keys.GoTo):
		m.openModal(newGoToDateForm(m.session.Override()))
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.loading = true
		return m, m.shift(-1)
	case key.Matches(msg, m.keys.Next):
		m.loading = true
		return m, m.shift(1)
	case key.Matches(msg, m.keys.Today):
		m.loading = true
		return m, m.loadToday()
	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		return m, m.reload()
	case key.Matches(msg, m.keys.Summary):
		m.showSummary = !m.showSummary
		m.layout()
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.openModal(newHelpForm())
		return m, nil
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m appModel) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.modal

	if msg.String() == "esc" || msg.String() == "ctrl+g" {
		m.modal = nil
		return m, nil
	}
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if f.kind == modalHelp {
		switch msg.String() {
		case "q", "?", "enter":
			m.modal = nil
		}
		return m, nil
	}
	if f.submitting {
		return m, nil
	}

	switch msg.String() {
	case "tab":
		f.setFocus(f.focus + 1)
		return m, nil
	case "shift+tab":
		f.setFocus(f.focus - 1)
		return m, nil
	case "enter":
		if f.kind == modalAddFood && f.focusKey() == fieldSearch && f.pick() {
			return m, nil
		}
		return m.submit()
	}

	if f.pickerFocused() {
		switch msg.String() {
		case "left", "h", "up", "k":
			f.picker.move(-1)
		case "right", "l", "down", "j", " ":
			f.picker.move(1)
		}
		return m, nil
	}

	switch f.focusKey() {
	case fieldAmount:
		switch msg.String() {
		case "up":
			f.setValue(fieldAmount, strconv.Itoa(planner.StepWater(f.value(fieldAmount), 1)))
			return m, nil
		case "down":
			f.setValue(fieldAmount, strconv.Itoa(planner.StepWater(f.value(fieldAmount), -1)))
			return m, nil
		}
	case fieldSearch:
		s := &f.search
		switch msg.String() {
		case "up":
			if s.state == searchShown && s.idx > 0 {
				s.idx--
			}
			return m, nil
		case "down":
			if s.state == searchShown && s.idx < len(s.results)-1 {
				s.idx++
			}
			return m, nil
		}
	}

	in := f.input(f.focusKey())
	if in == nil {
		return m, nil
	}
	before := in.Value()
	var cmd tea.Cmd
	*in, cmd = in.Update(msg)
	f.errMsg = ""

	if f.focusKey() == fieldSearch && in.Value() != before {
		return m, tea.Batch(cmd, m.searchChanged(in.Value()))
	}
	return m, cmd
}

// searchChanged restarts the debounce for the food search. Any earlier tick or
// in-flight result is invalidated by the new seq.
func (m appModel) searchChanged(value string) tea.Cmd {
	s := &m.modal.search
	s.seq++
	q := strings.TrimSpace(value)
	if utf8.RuneCountInString(q) < planner.MinSearchLen {
		s.state = searchHidden
		s.results = nil
		s.idx = 0
		return nil
	}
	return searchTick(s.seq, q)
}

func (m appModel) submit() (tea.Model, tea.Cmd) {
	f := m.modal
	id := f.id

	switch f.kind {
	case modalAddTask, modalAddGoal:
		section := f.picker.value()
		text := f.value(fieldText)
		if section == "" {
			f.errMsg = "No section to add to."
			return m, nil
		}
		if text == "" {
			f.errMsg = "Text is required."
			return m, nil
		}
		f.submitting = true
		if f.kind == modalAddTask {
			m.state.LastTaskSection = section
			m.saveState()
			return m, m.mutate(id, func(ctx context.Context, s *planner.Session) (planner.Result, error) {
				return s.AddTask(ctx, section, text)
			})
		}
		m.state.LastGoalSection = section
		m.saveState()
		return m, m.mutate(id, func(ctx context.Context, s *planner.Session) (planner.Result, error) {
			return s.AddGoal(ctx, section, text)
		})

	case modalAddFood:
		meal := f.picker.value()
		name := f.value(fieldName)
		if meal == "" {
			f.errMsg = "No meal to add to."
			return m, nil
		}
		if name == "" {
			f.errMsg = "Name is required."
			return m, nil
		}
		weight, err := planner.ParseWeight(f.value(fieldWeight))
		if err != nil {
			f.errMsg = "Weight must be a positive number of grams."
			return m, nil
		}
		f.submitting = true
		m.state.LastMeal = meal
		m.saveState()
		return m, m.mutate(id, func(ctx context.Context, s *planner.Session) (planner.Result, error) {
			return s.AddFood(ctx, meal, name, weight)
		})

	case modalAddWater:
		amount, err := planner.ParseWater(f.value(fieldAmount))
		if err != nil {
			if errors.Is(err, planner.ErrNegativeWater) {
				f.errMsg = "Amount cannot be negative."
			} else {
				f.errMsg = "Amount must be a whole number of ml."
			}
			return m, nil
		}
		f.submitting = true
		m.state.LastWater = amount
		m.saveState()
		return m, m.mutate(id, func(ctx context.Context, s *planner.Session) (planner.Result, error) {
			return s.AddWater(ctx, amount)
		})

	case modalGoToDate:
		raw := f.value(fieldDate)
		date := ""
		if raw != "" {
			norm, err := model.ParseDate(raw)
			if err != nil {
				f.errMsg = "Use YYYY-MM-DD."
				return m, nil
			}
			date = norm
		}
		f.submitting = true
		m.loading = true
		return m, m.selectDate(date, id)
	}
	return m, nil
}
