package planner

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"dayplan/internal/model"
)

// MinSearchLen is the shortest query sent to the food search.
const MinSearchLen = 2

// WaterStep is the increment used by the up/down keys in the water form.
const WaterStep = 100

// Result is the outcome of a mutation: the post, then the reload it always triggers.
type Result struct {
	Load
	// MutationErr is the post's own failure. The reload ran regardless.
	MutationErr error
}

// ToggleTask flips a routine task for the active date.
func (s *Session) ToggleTask(ctx context.Context, section string, index int, done bool) (Result, error) {
	if strings.TrimSpace(section) == "" {
		return Result{}, ErrNoSection
	}
	if index < 0 {
		return Result{}, ErrBadIndex
	}
	date := s.ActiveDate()
	err := s.backend.UpdateTask(ctx, section, index, done, date)
	s.record(ctx, ActionToggleTask, date, map[string]string{
		"part": section, "index": strconv.Itoa(index), "done": strconv.FormatBool(done),
	}, err)
	return s.reloadAfter(ctx, err)
}

// ToggleGoal flips a goal for the active date.
func (s *Session) ToggleGoal(ctx context.Context, category string, index int, done bool) (Result, error) {
	if strings.TrimSpace(category) == "" {
		return Result{}, ErrNoSection
	}
	if index < 0 {
		return Result{}, ErrBadIndex
	}
	date := s.ActiveDate()
	err := s.backend.UpdateGoal(ctx, category, index, done, date)
	s.record(ctx, ActionToggleGoal, date, map[string]string{
		"section": category, "index": strconv.Itoa(index), "done": strconv.FormatBool(done),
	}, err)
	return s.reloadAfter(ctx, err)
}

// AddTask appends a task to a routine section. The backend always writes to its today.
func (s *Session) AddTask(ctx context.Context, section, text string) (Result, error) {
	if strings.TrimSpace(section) == "" {
		return Result{}, ErrNoSection
	}
	if strings.TrimSpace(text) == "" {
		return Result{}, ErrEmptyText
	}
	err := s.backend.AddTask(ctx, section, text)
	s.record(ctx, ActionAddTask, s.backendToday(), map[string]string{"section": section, "text": text}, err)
	return s.reloadAfter(ctx, err)
}

func (s *Session) AddGoal(ctx context.Context, category, text string) (Result, error) {
	if strings.TrimSpace(category) == "" {
		return Result{}, ErrNoSection
	}
	if strings.TrimSpace(text) == "" {
		return Result{}, ErrEmptyText
	}
	err := s.backend.AddGoal(ctx, category, text)
	s.record(ctx, ActionAddGoal, s.backendToday(), map[string]string{"section": category, "text": text}, err)
	return s.reloadAfter(ctx, err)
}

// AddFood logs weight grams of name to meal.
func (s *Session) AddFood(ctx context.Context, meal, name string, weight int) (Result, error) {
	if strings.TrimSpace(meal) == "" {
		return Result{}, ErrNoSection
	}
	if strings.TrimSpace(name) == "" {
		return Result{}, ErrEmptyText
	}
	if weight <= 0 {
		return Result{}, ErrInvalidWeight
	}
	err := s.backend.AddFood(ctx, meal, name, weight)
	s.record(ctx, ActionAddFood, s.backendToday(), map[string]string{
		"meal": meal, "name": name, "weight": strconv.Itoa(weight),
	}, err)
	return s.reloadAfter(ctx, err)
}

// AddWater adds amount milliliters to today's hydration total.
func (s *Session) AddWater(ctx context.Context, amount int) (Result, error) {
	if amount < 0 {
		return Result{}, ErrNegativeWater
	}
	err := s.backend.AddWater(ctx, amount)
	s.record(ctx, ActionAddWater, s.backendToday(), map[string]string{"amount": strconv.Itoa(amount)}, err)
	return s.reloadAfter(ctx, err)
}

// SearchFood looks up foods by substring. Queries shorter than MinSearchLen
// (after trimming) return ErrQueryTooShort without touching the network.
func (s *Session) SearchFood(ctx context.Context, query string) ([]model.FoodMatch, error) {
	q := strings.TrimSpace(query)
	if utf8.RuneCountInString(q) < MinSearchLen {
		return nil, ErrQueryTooShort
	}
	foods, err := s.backend.SearchFood(ctx, q)
	if err != nil {
		s.log.Warn("search_failed", "query", q, "error", err.Error())
		return nil, err
	}
	return foods, nil
}

// ParseWater validates the water form field.
func ParseWater(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, ErrInvalidAmount
	}
	if v < 0 {
		return 0, ErrNegativeWater
	}
	return v, nil
}

// ParseWeight validates the food weight field.
func ParseWeight(s string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return 0, ErrInvalidWeight
	}
	return v, nil
}

// StepWater moves the water field by one WaterStep in dir (+1/-1), never below zero.
// Unparseable input counts as zero.
func StepWater(current string, dir int) int {
	v, err := strconv.Atoi(strings.TrimSpace(current))
	if err != nil {
		v = 0
	}
	v += dir * WaterStep
	if v < 0 {
		v = 0
	}
	return v
}

func (s *Session) backendToday() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.today != "" {
		return s.today
	}
	return model.FormatDate(s.now())
}

func (s *Session) reloadAfter(ctx context.Context, mutErr error) (Result, error) {
	load, err := s.Reload(ctx)
	return Result{Load: load, MutationErr: mutErr}, err
}

func (s *Session) record(ctx context.Context, kind, date string, params map[string]string, err error) {
	a := Action{At: s.now().UTC(), Kind: kind, Date: date, Params: params}
	if err != nil {
		a.Err = err.Error()
		s.log.Warn("mutation_failed", "kind", kind, "date", date, "error", a.Err)
	} else {
		s.log.Info("mutation", "kind", kind, "date", date)
	}
	if s.journal == nil {
		return
	}
	if jerr := s.journal.Record(ctx, a); jerr != nil {
		s.log.Warn("journal_failed", "kind", kind, "error", jerr.Error())
	}
}
