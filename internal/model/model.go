package model

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// Canonical section names. The backend is inconsistent about casing, so these
// are only used as lookup keys; the stored key is resolved before it is sent back.
const (
	SectionMorning = "morning"
	SectionEvening = "evening"

	GoalsFocus = "focus"
	GoalsTodo  = "todo"

	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
)

// Meals lists the meals in display order.
var Meals = []string{MealBreakfast, MealLunch, MealDinner}

// Document is the full snapshot of one calendar day as served by the backend.
//
// A nil section pointer means the key was absent from the response; an empty
// (non-nil) section means it was present with no entries.
type Document struct {
	Tasks *Keyed[[]string]    `json:"tasks,omitempty"`
	Done  *Keyed[[]bool]      `json:"done,omitempty"`
	Plan  *Keyed[string]      `json:"plan,omitempty"`
	Goals *Keyed[[]Goal]      `json:"goals,omitempty"`
	Food  *Keyed[[]FoodEntry] `json:"food,omitempty"`
	Water *float64            `json:"water,omitempty"`

	// Error is set when the backend answers with its failure shape ({"error": "..."}).
	Error string `json:"error,omitempty"`
}

type Goal struct {
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// FoodEntry is one logged food. Nutrient fields are optional; older logs only
// carry name and weight.
type FoodEntry struct {
	Name    string  `json:"name"`
	Weight  float64 `json:"weight,omitempty"`
	Protein float64 `json:"protein,omitempty"`
	Fat     float64 `json:"fat,omitempty"`
	Carbon  float64 `json:"carbon,omitempty"`
}

// UnmarshalJSON also accepts a bare string (legacy entries logged without weight).
func (f *FoodEntry) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		*f = FoodEntry{Name: name}
		return nil
	}
	type plain FoodEntry
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*f = FoodEntry(p)
	return nil
}

// FoodMatch is one result of a food database search.
type FoodMatch struct {
	Name    string  `json:"name"`
	Protein float64 `json:"protein"`
	Fat     float64 `json:"fat"`
	Carbon  float64 `json:"carbon"`
}

type SearchResult struct {
	Foods []FoodMatch `json:"foods"`
	Error string      `json:"error,omitempty"`
}

type TodayResponse struct {
	Today string `json:"today"`
}

// DecodeDocument reads one day document.
func DecodeDocument(r io.Reader) (*Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode day: %w", err)
	}
	return &d, nil
}

// Routine returns the tasks and done flags for a routine section, resolving the
// stored key case-insensitively. ok is false when the section is absent.
func (d *Document) Routine(name string) (key string, tasks []string, done []bool, ok bool) {
	if d == nil || d.Tasks == nil {
		return name, nil, nil, false
	}
	key, ok = d.Tasks.Resolve(name)
	if !ok {
		return name, nil, nil, false
	}
	tasks, _ = d.Tasks.Get(key)
	if d.Done != nil {
		done, _ = d.Done.Lookup(name)
	}
	return key, tasks, done, true
}

// DoneAt reports whether the i-th routine task is done. Missing flags read as false.
func DoneAt(done []bool, i int) bool {
	if i < 0 || i >= len(done) {
		return false
	}
	return done[i]
}

// HasWater reports whether the document carries a hydration total.
func (d *Document) HasWater() bool {
	return d != nil && d.Water != nil
}

// WaterML returns the hydration total, or 0 when absent.
func (d *Document) WaterML() float64 {
	if !d.HasWater() {
		return 0
	}
	return *d.Water
}

// FormatAmount renders a number without a trailing ".0" for whole values.
func FormatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
