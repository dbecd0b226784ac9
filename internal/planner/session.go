package planner

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"dayplan/internal/logging"
	"dayplan/internal/model"
)

// Backend is the subset of the planner API the session drives.
type Backend interface {
	Today(ctx context.Context) (string, error)
	Day(ctx context.Context, date string) (*model.Document, error)
	ReloadToday(ctx context.Context) (*model.Document, error)

	UpdateTask(ctx context.Context, part string, index int, done bool, date string) error
	UpdateGoal(ctx context.Context, section string, index int, done bool, date string) error
	AddTask(ctx context.Context, section, text string) error
	AddGoal(ctx context.Context, section, text string) error
	AddFood(ctx context.Context, meal, name string, weight int) error
	AddWater(ctx context.Context, amount int) error
	SearchFood(ctx context.Context, q string) ([]model.FoodMatch, error)
}

// Session is the client's view state: the selected date override and the last
// loaded document. A nil override means "today", tracked by the backend clock.
//
// Every mutation is followed by exactly one reload of the active date; the
// reloaded document replaces the previous one wholesale.
type Session struct {
	backend Backend
	journal Journal
	log     *slog.Logger
	now     func() time.Time

	mu       sync.Mutex
	override string
	today    string
	doc      *model.Document
}

type Option func(*Session)

func WithJournal(j Journal) Option {
	return func(s *Session) { s.journal = j }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the local clock used when the backend's today is unknown.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

func NewSession(b Backend, opts ...Option) *Session {
	s := &Session{
		backend: b,
		log:     logging.Discard(),
		now:     time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load is the outcome of fetching a day.
type Load struct {
	Date  string
	Today bool
	Doc   *model.Document
}

// LoadError wraps a failed day fetch.
type LoadError struct {
	Today bool
	Err   error
}

func (e *LoadError) Error() string { return e.Message() + ": " + e.Err.Error() }

func (e *LoadError) Unwrap() error { return e.Err }

// Message is the fixed text shown in place of the day.
func (e *LoadError) Message() string {
	if e.Today {
		return "Failed to fetch today's plan."
	}
	return "Failed to fetch plan."
}

// Override returns the selected date, or "" in today mode.
func (s *Session) Override() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.override
}

// Document returns the last loaded document (nil before the first load or after a failed one).
func (s *Session) Document() *model.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// ActiveDate is the date mutations and the header refer to: the override, then
// the backend's today, then the local clock.
func (s *Session) ActiveDate() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeDateLocked()
}

func (s *Session) activeDateLocked() string {
	if s.override != "" {
		return s.override
	}
	if s.today != "" {
		return s.today
	}
	return model.FormatDate(s.now())
}

// Today switches to today mode: it asks the backend for its date, then reloads
// (and possibly regenerates) today's document.
func (s *Session) Today(ctx context.Context) (Load, error) {
	s.mu.Lock()
	s.override = ""
	s.mu.Unlock()

	today, err := s.backend.Today(ctx)
	if err != nil {
		return s.failLoad(true, err)
	}
	s.mu.Lock()
	s.today = today
	s.doc = nil
	s.mu.Unlock()

	doc, err := s.backend.ReloadToday(ctx)
	if err != nil {
		return s.failLoad(true, err)
	}
	return s.setDoc(today, true, doc), nil
}

// SelectDate loads an explicit date. An empty date returns to today mode.
func (s *Session) SelectDate(ctx context.Context, date string) (Load, error) {
	if date == "" {
		return s.Today(ctx)
	}
	norm, err := model.ParseDate(date)
	if err != nil {
		return Load{}, errors.Join(ErrInvalidDate, err)
	}
	s.mu.Lock()
	s.override = norm
	s.mu.Unlock()

	doc, err := s.backend.Day(ctx, norm)
	if err != nil {
		return s.failLoad(false, err)
	}
	return s.setDoc(norm, false, doc), nil
}

// Reload refetches the active date's document.
func (s *Session) Reload(ctx context.Context) (Load, error) {
	if d := s.Override(); d != "" {
		return s.SelectDate(ctx, d)
	}
	return s.Today(ctx)
}

// Shift moves the active date by days. Landing on the backend's today returns
// to today mode.
func (s *Session) Shift(ctx context.Context, days int) (Load, error) {
	s.mu.Lock()
	base := s.activeDateLocked()
	today := s.today
	s.mu.Unlock()

	next, err := model.AddDays(base, days)
	if err != nil {
		return Load{}, errors.Join(ErrInvalidDate, err)
	}
	if next == today {
		return s.Today(ctx)
	}
	return s.SelectDate(ctx, next)
}

func (s *Session) setDoc(date string, today bool, doc *model.Document) Load {
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return Load{Date: date, Today: today, Doc: doc}
}

func (s *Session) failLoad(today bool, err error) (Load, error) {
	s.mu.Lock()
	s.doc = nil
	date := s.activeDateLocked()
	s.mu.Unlock()
	s.log.Warn("load_failed", "date", date, "today", today, "error", err.Error())
	return Load{Date: date, Today: today}, &LoadError{Today: today, Err: err}
}
