// Package apitest provides an in-memory planner backend for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"dayplan/internal/model"
)

// Request is one recorded call.
type Request struct {
	Method string
	Path   string
	Values url.Values
}

// Backend serves canned documents and records every request. Mutations are
// recorded but do not change the served documents unless a handler says so.
type Backend struct {
	mu       sync.Mutex
	today    string
	days     map[string]string
	foods    []model.FoodMatch
	failing  map[string]int
	requests []Request

	// OnMutation, when set, runs for every POST after it is recorded.
	OnMutation func(b *Backend, r Request)

	srv *httptest.Server
}

// New starts a backend whose today is today. It is closed with the test.
func New(t testing.TB, today string) *Backend {
	t.Helper()
	b := &Backend{
		today:   today,
		days:    map[string]string{},
		failing: map[string]int{},
	}
	b.srv = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *Backend) URL() string { return b.srv.URL }

// SetDay stores the raw JSON served for date.
func (b *Backend) SetDay(date, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.days[date] = body
}

func (b *Backend) SetToday(date string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.today = date
}

func (b *Backend) SetFoods(foods []model.FoodMatch) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.foods = foods
}

// Fail makes path answer with status code until cleared with code 0.
func (b *Backend) Fail(path string, code int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if code == 0 {
		delete(b.failing, path)
		return
	}
	b.failing[path] = code
}

// Requests returns a copy of everything recorded so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// Paths returns the recorded request paths in order.
func (b *Backend) Paths() []string {
	var out []string
	for _, r := range b.Requests() {
		out = append(out, r.Path)
	}
	return out
}

// Count returns how many requests hit path.
func (b *Backend) Count(path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Path == path {
			n++
		}
	}
	return n
}

func (b *Backend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = nil
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	vals := url.Values{}
	for k, v := range r.Form {
		vals[k] = append([]string(nil), v...)
	}
	req := Request{Method: r.Method, Path: r.URL.Path, Values: vals}

	b.mu.Lock()
	b.requests = append(b.requests, req)
	code := b.failing[r.URL.Path]
	today := b.today
	b.mu.Unlock()

	if code != 0 {
		http.Error(w, "forced failure", code)
		return
	}

	switch r.URL.Path {
	case "/get_today_str":
		writeJSON(w, map[string]string{"today": today})
	case "/get_day":
		date := r.Form.Get("date")
		if date == "" {
			writeJSON(w, map[string]string{"error": "No date provided"})
			return
		}
		b.writeDay(w, date)
	case "/reload_today":
		b.writeDay(w, today)
	case "/search_food":
		q := strings.ToLower(r.Form.Get("q"))
		b.mu.Lock()
		var matches []model.FoodMatch
		for _, f := range b.foods {
			if q != "" && strings.Contains(strings.ToLower(f.Name), q) {
				matches = append(matches, f)
			}
		}
		b.mu.Unlock()
		if matches == nil {
			matches = []model.FoodMatch{}
		}
		writeJSON(w, map[string]any{"foods": matches})
	case "/update_task", "/update_goal", "/add_task", "/add_goal", "/add_food", "/add_water":
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if b.OnMutation != nil {
			b.OnMutation(b, req)
		}
		writeJSON(w, map[string]bool{"success": true})
	default:
		http.NotFound(w, r)
	}
}

func (b *Backend) writeDay(w http.ResponseWriter, date string) {
	b.mu.Lock()
	body, ok := b.days[date]
	b.mu.Unlock()
	if !ok {
		writeJSON(w, map[string]string{"error": "no log for " + date})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
