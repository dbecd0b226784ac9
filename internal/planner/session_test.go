package planner_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"dayplan/internal/api"
	"dayplan/internal/api/apitest"
	"dayplan/internal/model"
	"dayplan/internal/planner"
)

const today = "2025-06-10"

const todayDoc = `{
  "tasks": {"Morning": ["stretch", "journal"], "evening": ["read"]},
  "done": {"Morning": [false, true], "evening": [false]},
  "goals": {"focus": [{"text": "ship", "done": false}], "todo": []},
  "food": {"breakfast": [], "lunch": [], "dinner": []},
  "water": 500
}`

type memJournal struct{ actions []planner.Action }

func (j *memJournal) Record(_ context.Context, a planner.Action) error {
	j.actions = append(j.actions, a)
	return nil
}

func newSession(t *testing.T) (*planner.Session, *apitest.Backend, *memJournal) {
	t.Helper()
	be := apitest.New(t, today)
	be.SetDay(today, todayDoc)
	be.SetDay("2025-06-01", `{"water": 1000}`)
	c, err := api.New(be.URL())
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	j := &memJournal{}
	clock := func() time.Time { return time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC) }
	return planner.NewSession(c, planner.WithJournal(j), planner.WithClock(clock)), be, j
}

func equalPaths(t *testing.T, got []string, want ...string) {
	t.Helper()
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("paths:\n got %v\nwant %v", got, want)
	}
}

func TestToday_FetchesTodayStringThenReload(t *testing.T) {
	s, be, _ := newSession(t)
	load, err := s.Today(context.Background())
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if !load.Today || load.Date != today || load.Doc == nil {
		t.Fatalf("unexpected load: %+v", load)
	}
	equalPaths(t, be.Paths(), api.PathTodayStr, api.PathReload)
	if s.ActiveDate() != today {
		t.Fatalf("active date: %s", s.ActiveDate())
	}
}

func TestActiveDate_FallsBackToLocalClock(t *testing.T) {
	s, _, _ := newSession(t)
	if got := s.ActiveDate(); got != "2030-01-01" {
		t.Fatalf("expected local clock date before first load, got %s", got)
	}
}

func TestSelectDateThenClear_ReturnsToTodayMode(t *testing.T) {
	s, be, _ := newSession(t)
	ctx := context.Background()

	load, err := s.SelectDate(ctx, "2025-06-01")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if load.Today || s.Override() != "2025-06-01" || load.Doc.WaterML() != 1000 {
		t.Fatalf("unexpected load: %+v override=%q", load, s.Override())
	}

	be.Reset()
	load, err = s.SelectDate(ctx, "")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !load.Today || s.Override() != "" {
		t.Fatalf("expected today mode, got %+v", load)
	}
	equalPaths(t, be.Paths(), api.PathTodayStr, api.PathReload)
}

func TestSelectDate_InvalidSendsNothing(t *testing.T) {
	s, be, _ := newSession(t)
	_, err := s.SelectDate(context.Background(), "06/01/2025")
	if !errors.Is(err, planner.ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if len(be.Requests()) != 0 {
		t.Fatalf("expected no requests, got %v", be.Paths())
	}
}

func TestToggleTask_OneUpdateThenOneReload(t *testing.T) {
	s, be, j := newSession(t)
	ctx := context.Background()
	if _, err := s.Today(ctx); err != nil {
		t.Fatalf("today: %v", err)
	}
	be.Reset()

	res, err := s.ToggleTask(ctx, "Morning", 1, false)
	if err != nil || res.MutationErr != nil {
		t.Fatalf("toggle: %v / %v", err, res.MutationErr)
	}
	equalPaths(t, be.Paths(), api.PathUpdateTask, api.PathTodayStr, api.PathReload)
	r := be.Requests()[0]
	if r.Values.Get("part") != "Morning" || r.Values.Get("index") != "1" ||
		r.Values.Get("done") != "false" || r.Values.Get("date") != today {
		t.Fatalf("unexpected form: %v", r.Values)
	}
	if len(j.actions) != 1 || j.actions[0].Kind != planner.ActionToggleTask {
		t.Fatalf("expected one journaled toggle, got %+v", j.actions)
	}
}

func TestToggleGoal_UsesOverrideDate(t *testing.T) {
	s, be, _ := newSession(t)
	ctx := context.Background()
	if _, err := s.SelectDate(ctx, "2025-06-01"); err != nil {
		t.Fatalf("select: %v", err)
	}
	be.Reset()

	if _, err := s.ToggleGoal(ctx, "focus", 0, true); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	equalPaths(t, be.Paths(), api.PathUpdateGoal, api.PathGetDay)
	r := be.Requests()[0]
	if r.Values.Get("section") != "focus" || r.Values.Get("date") != "2025-06-01" || r.Values.Get("done") != "true" {
		t.Fatalf("unexpected form: %v", r.Values)
	}
}

func TestMutationFailure_StillReloads(t *testing.T) {
	s, be, j := newSession(t)
	ctx := context.Background()
	if _, err := s.Today(ctx); err != nil {
		t.Fatalf("today: %v", err)
	}
	be.Reset()
	be.Fail(api.PathAddTask, http.StatusInternalServerError)

	res, err := s.AddTask(ctx, "evening", "floss")
	if err != nil {
		t.Fatalf("reload should succeed: %v", err)
	}
	if res.MutationErr == nil {
		t.Fatalf("expected mutation error to be reported")
	}
	if res.Doc == nil {
		t.Fatalf("expected reloaded document")
	}
	equalPaths(t, be.Paths(), api.PathAddTask, api.PathTodayStr, api.PathReload)
	if j.actions[0].Err == "" {
		t.Fatalf("expected journaled failure")
	}
}

func TestAddWater(t *testing.T) {
	s, be, _ := newSession(t)
	ctx := context.Background()

	amount, err := planner.ParseWater("100")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, err := s.AddWater(ctx, amount); err != nil {
		t.Fatalf("add water: %v", err)
	}
	if got := be.Requests()[0].Values.Get("amount"); got != "100" {
		t.Fatalf("expected amount=100, got %q", got)
	}

	be.Reset()
	if _, err := planner.ParseWater("-100"); !errors.Is(err, planner.ErrNegativeWater) {
		t.Fatalf("expected ErrNegativeWater, got %v", err)
	}
	if _, err := s.AddWater(ctx, -100); !errors.Is(err, planner.ErrNegativeWater) {
		t.Fatalf("expected ErrNegativeWater, got %v", err)
	}
	if len(be.Requests()) != 0 {
		t.Fatalf("expected no request, got %v", be.Paths())
	}
}

func TestStepWater(t *testing.T) {
	cases := []struct {
		in   string
		dir  int
		want int
	}{
		{"100", 1, 200},
		{"100", -1, 0},
		{"0", -1, 0},
		{"", 1, 100},
		{"250", -1, 150},
	}
	for _, c := range cases {
		if got := planner.StepWater(c.in, c.dir); got != c.want {
			t.Fatalf("StepWater(%q,%d)=%d want %d", c.in, c.dir, got, c.want)
		}
	}
}

func TestAddFood_RejectsBadWeight(t *testing.T) {
	s, be, _ := newSession(t)
	for _, in := range []string{"0", "-5", "abc", "1.5"} {
		if _, err := planner.ParseWeight(in); !errors.Is(err, planner.ErrInvalidWeight) {
			t.Fatalf("ParseWeight(%q): %v", in, err)
		}
	}
	if _, err := s.AddFood(context.Background(), "lunch", "rice", 0); !errors.Is(err, planner.ErrInvalidWeight) {
		t.Fatalf("expected ErrInvalidWeight, got %v", err)
	}
	if len(be.Requests()) != 0 {
		t.Fatalf("expected no request")
	}
}

func TestSearchFood_ShortQueryNeverHitsNetwork(t *testing.T) {
	s, be, _ := newSession(t)
	be.SetFoods([]model.FoodMatch{{Name: "egg"}})
	for _, q := range []string{"", "e", "  e  "} {
		if _, err := s.SearchFood(context.Background(), q); !errors.Is(err, planner.ErrQueryTooShort) {
			t.Fatalf("query %q: %v", q, err)
		}
	}
	if be.Count(api.PathSearchFood) != 0 {
		t.Fatalf("expected no search requests")
	}
	foods, err := s.SearchFood(context.Background(), "eg")
	if err != nil || len(foods) != 1 {
		t.Fatalf("search: %v %v", foods, err)
	}
}

func TestLoadFailure_Messages(t *testing.T) {
	s, be, _ := newSession(t)
	be.Fail(api.PathReload, http.StatusBadGateway)
	_, err := s.Today(context.Background())
	var le *planner.LoadError
	if !errors.As(err, &le) || le.Message() != "Failed to fetch today's plan." {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Document() != nil {
		t.Fatalf("expected document cleared after failed load")
	}

	_, err = s.SelectDate(context.Background(), "1999-12-31")
	if !errors.As(err, &le) || le.Message() != "Failed to fetch plan." {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadFailure_MalformedBody(t *testing.T) {
	s, be, _ := newSession(t)
	be.SetDay(today, "{not json")
	be.SetDay("2025-06-01", `{"tasks": [`)

	_, err := s.Today(context.Background())
	var le *planner.LoadError
	if !errors.As(err, &le) || le.Message() != "Failed to fetch today's plan." {
		t.Fatalf("reload_today: unexpected error: %v", err)
	}

	_, err = s.SelectDate(context.Background(), "2025-06-01")
	if !errors.As(err, &le) || le.Message() != "Failed to fetch plan." {
		t.Fatalf("get_day: unexpected error: %v", err)
	}
	if s.Document() != nil {
		t.Fatalf("expected no document after a malformed body")
	}
}

func TestShift_LandingOnTodayReturnsToTodayMode(t *testing.T) {
	s, be, _ := newSession(t)
	ctx := context.Background()
	if _, err := s.Today(ctx); err != nil {
		t.Fatalf("today: %v", err)
	}
	be.SetDay("2025-06-09", `{}`)
	load, err := s.Shift(ctx, -1)
	if err != nil || load.Date != "2025-06-09" || load.Today {
		t.Fatalf("shift back: %+v %v", load, err)
	}
	load, err = s.Shift(ctx, 1)
	if err != nil || !load.Today || s.Override() != "" {
		t.Fatalf("shift forward: %+v %v", load, err)
	}
}
