// Package render turns a day document into an ordered list of boxes. It is pure:
// the same document always yields the same boxes, and nothing here talks to the
// backend. Frontends (TUI, CLI text, JSON) draw the boxes however they like.
package render

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"dayplan/internal/model"
)

// EmptyMessage is shown when there is no document at all.
const EmptyMessage = "No data available."

type Kind string

const (
	KindRoutine   Kind = "routine"
	KindPlan      Kind = "plan"
	KindGoals     Kind = "goals"
	KindHydration Kind = "hydration"
	KindFood      Kind = "food"
)

// Target says which mutation a checkbox row drives.
type Target string

const (
	TargetTask Target = "task"
	TargetGoal Target = "goal"
)

type Box struct {
	Kind Kind `json:"kind"`
	// Key is the section key as stored in the document (routine, goal category or meal).
	Key   string `json:"key,omitempty"`
	Title string `json:"title"`
	Rows  []Row  `json:"rows"`
}

type Row struct {
	Text  string `json:"text"`
	Check *Check `json:"check,omitempty"`
}

// Check describes a checkbox row: toggling it sends Section/Index with !Done.
type Check struct {
	Target  Target `json:"target"`
	Section string `json:"section"`
	Index   int    `json:"index"`
	Done    bool   `json:"done"`
}

// Render lays out doc in fixed order: morning, evening, plan, focus goals, todo
// goals, hydration, then breakfast/lunch/dinner. Absent sections produce no box;
// present but empty sections produce a box with no rows.
func Render(doc *model.Document) []Box {
	if doc == nil {
		return nil
	}
	var boxes []Box
	for _, name := range []string{model.SectionMorning, model.SectionEvening} {
		if b, ok := routineBox(doc, name); ok {
			boxes = append(boxes, b)
		}
	}
	if doc.Plan != nil {
		boxes = append(boxes, planBox(doc.Plan))
	}
	for _, cat := range []string{model.GoalsFocus, model.GoalsTodo} {
		if b, ok := goalsBox(doc, cat); ok {
			boxes = append(boxes, b)
		}
	}
	if doc.HasWater() {
		boxes = append(boxes, Box{
			Kind:  KindHydration,
			Title: "[Hydration]",
			Rows:  []Row{{Text: fmt.Sprintf("Water: %s ml", model.FormatAmount(doc.WaterML()))}},
		})
	}
	if doc.Food != nil {
		for _, meal := range model.Meals {
			if b, ok := foodBox(doc, meal); ok {
				boxes = append(boxes, b)
			}
		}
	}
	return boxes
}

func routineBox(doc *model.Document, name string) (Box, bool) {
	key, tasks, done, ok := doc.Routine(name)
	if !ok || tasks == nil {
		return Box{}, false
	}
	b := Box{Kind: KindRoutine, Key: key, Title: "[Routine] " + Capitalize(key), Rows: []Row{}}
	for i, t := range tasks {
		b.Rows = append(b.Rows, Row{
			Text:  t,
			Check: &Check{Target: TargetTask, Section: key, Index: i, Done: model.DoneAt(done, i)},
		})
	}
	return b, true
}

func planBox(plan *model.Keyed[string]) Box {
	b := Box{Kind: KindPlan, Title: "[Plan]", Rows: []Row{}}
	for _, hour := range plan.Keys() {
		task, _ := plan.Get(hour)
		b.Rows = append(b.Rows, Row{Text: fmt.Sprintf("%s:00 - %s", hour, task)})
	}
	return b
}

func goalsBox(doc *model.Document, cat string) (Box, bool) {
	if doc.Goals == nil {
		return Box{}, false
	}
	key, ok := doc.Goals.Resolve(cat)
	if !ok {
		return Box{}, false
	}
	goals, _ := doc.Goals.Get(key)
	if goals == nil {
		return Box{}, false
	}
	b := Box{Kind: KindGoals, Key: key, Title: "[Goals] " + cat, Rows: []Row{}}
	for i, g := range goals {
		b.Rows = append(b.Rows, Row{
			Text:  g.Text,
			Check: &Check{Target: TargetGoal, Section: key, Index: i, Done: g.Done},
		})
	}
	return b, true
}

func foodBox(doc *model.Document, meal string) (Box, bool) {
	key, ok := doc.Food.Resolve(meal)
	if !ok {
		return Box{}, false
	}
	foods, _ := doc.Food.Get(key)
	if foods == nil {
		return Box{}, false
	}
	b := Box{Kind: KindFood, Key: key, Title: "[Food] " + meal, Rows: []Row{}}
	for _, f := range foods {
		b.Rows = append(b.Rows, Row{Text: FoodLine(f)})
	}
	return b, true
}

// FoodLine formats one food entry as "name (80g)". A missing weight leaves "()g" empty.
func FoodLine(f model.FoodEntry) string {
	w := ""
	if f.Weight != 0 {
		w = model.FormatAmount(f.Weight)
	}
	return fmt.Sprintf("%s (%sg)", f.Name, w)
}

// Capitalize upper-cases the first letter and leaves the rest as stored.
func Capitalize(s string) string {
	r, n := utf8.DecodeRuneInString(s)
	if n == 0 {
		return s
	}
	return string(unicode.ToUpper(r)) + s[n:]
}

// Checks returns every checkbox row in display order.
func Checks(boxes []Box) []Check {
	var out []Check
	for _, b := range boxes {
		for _, r := range b.Rows {
			if r.Check != nil {
				out = append(out, *r.Check)
			}
		}
	}
	return out
}

// Option is one entry of an add-form picker: Value is the stored key, Label is for display.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Options lists keys in stored order and casing, for add-form pickers.
func Options(keys []string) []Option {
	out := make([]Option, 0, len(keys))
	for _, k := range keys {
		if strings.TrimSpace(k) == "" {
			continue
		}
		out = append(out, Option{Value: k, Label: Capitalize(k)})
	}
	return out
}
