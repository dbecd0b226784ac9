package tui

import (
	"strconv"
	"strings"

	"dayplan/internal/model"
	"dayplan/internal/planner"
	"dayplan/internal/render"

	"github.com/charmbracelet/bubbles/textinput"
)

// Field keys.
const (
	fieldText   = "text"
	fieldSearch = "search"
	fieldName   = "name"
	fieldWeight = "weight"
	fieldAmount = "amount"
	fieldDate   = "date"
)

type formInput struct {
	key   string
	label string
	input textinput.Model
}

// picker is a one-of selector over stored keys (sections, categories, meals).
type picker struct {
	label   string
	options []render.Option
	idx     int
}

func (p *picker) value() string {
	if p == nil || len(p.options) == 0 {
		return ""
	}
	return p.options[p.idx].Value
}

func (p *picker) move(delta int) {
	n := len(p.options)
	if n == 0 {
		return
	}
	p.idx = ((p.idx+delta)%n + n) % n
}

func (p *picker) selectValue(v string) {
	for i, o := range p.options {
		if o.Value == v {
			p.idx = i
			return
		}
	}
}

// foodSearch is the type-ahead panel of the add-food form.
type foodSearch struct {
	// seq increments on every edit of the search field; only the tick and
	// result carrying the latest seq are acted on.
	seq     int
	state   searchState
	results []model.FoodMatch
	idx     int
}

// form is the content of the modal host. At most one exists at a time.
type form struct {
	id     int
	kind   modalKind
	title  string
	picker *picker
	inputs []formInput
	// focus indexes the focusable elements: the picker first (when present), then inputs.
	focus int

	errMsg     string
	submitting bool

	search foodSearch
}

func newTextInput(placeholder string, width int) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.Prompt = ""
	in.CharLimit = 200
	if width > 0 {
		in.Width = width
	}
	return in
}

func newAddTaskForm(doc *model.Document, last string) *form {
	var keys []string
	if doc != nil {
		keys = doc.Tasks.Keys()
	}
	f := &form{
		kind:   modalAddTask,
		title:  "Add Task",
		picker: &picker{label: "Section", options: render.Options(keys)},
		inputs: []formInput{{key: fieldText, label: "Task", input: newTextInput("what to do", 40)}},
	}
	f.picker.selectValue(last)
	f.setFocus(1)
	return f
}

func newAddGoalForm(doc *model.Document, last string) *form {
	var keys []string
	if doc != nil {
		keys = doc.Goals.Keys()
	}
	f := &form{
		kind:   modalAddGoal,
		title:  "Add Goal",
		picker: &picker{label: "Section", options: render.Options(keys)},
		inputs: []formInput{{key: fieldText, label: "Goal", input: newTextInput("what to achieve", 40)}},
	}
	f.picker.selectValue(last)
	f.setFocus(1)
	return f
}

func newAddFoodForm(doc *model.Document, last string) *form {
	var keys []string
	if doc != nil {
		keys = doc.Food.Keys()
	}
	weight := newTextInput("grams", 8)
	weight.CharLimit = 6
	f := &form{
		kind:   modalAddFood,
		title:  "Add Food",
		picker: &picker{label: "Meal", options: render.Options(keys)},
		inputs: []formInput{
			{key: fieldSearch, label: "Search Food", input: newTextInput("type to search...", 40)},
			{key: fieldName, label: "Name", input: newTextInput("", 40)},
			{key: fieldWeight, label: "Weight (g)", input: weight},
		},
	}
	f.picker.selectValue(last)
	f.setFocus(1)
	return f
}

func newAddWaterForm() *form {
	amount := newTextInput("", 8)
	amount.CharLimit = 6
	amount.SetValue(strconv.Itoa(planner.WaterStep))
	f := &form{
		kind:   modalAddWater,
		title:  "Add Water",
		inputs: []formInput{{key: fieldAmount, label: "Amount (ml)", input: amount}},
	}
	f.setFocus(0)
	return f
}

func newHelpForm() *form {
	return &form{kind: modalHelp, title: "Help"}
}

func newGoToDateForm(current string) *form {
	in := newTextInput("YYYY-MM-DD (empty = today)", 28)
	in.CharLimit = 10
	in.SetValue(current)
	f := &form{
		kind:   modalGoToDate,
		title:  "Go to Date",
		inputs: []formInput{{key: fieldDate, label: "Date", input: in}},
	}
	f.setFocus(0)
	return f
}

func (f *form) focusCount() int {
	n := len(f.inputs)
	if f.picker != nil {
		n++
	}
	return n
}

// focusedInput returns the input index under focus, or -1 when the picker has it.
func (f *form) focusedInput() int {
	if f.picker != nil {
		return f.focus - 1
	}
	return f.focus
}

func (f *form) pickerFocused() bool {
	return f.picker != nil && f.focus == 0
}

func (f *form) setFocus(i int) {
	n := f.focusCount()
	if n == 0 {
		return
	}
	f.focus = ((i % n) + n) % n
	in := f.focusedInput()
	for j := range f.inputs {
		if j == in {
			f.inputs[j].input.Focus()
		} else {
			f.inputs[j].input.Blur()
		}
	}
}

func (f *form) focusKey() string {
	i := f.focusedInput()
	if i < 0 || i >= len(f.inputs) {
		return ""
	}
	return f.inputs[i].key
}

func (f *form) focusInputKey(key string) {
	for i, in := range f.inputs {
		if in.key == key {
			if f.picker != nil {
				f.setFocus(i + 1)
			} else {
				f.setFocus(i)
			}
			return
		}
	}
}

func (f *form) input(key string) *textinput.Model {
	for i := range f.inputs {
		if f.inputs[i].key == key {
			return &f.inputs[i].input
		}
	}
	return nil
}

func (f *form) value(key string) string {
	in := f.input(key)
	if in == nil {
		return ""
	}
	return strings.TrimSpace(in.Value())
}

func (f *form) setValue(key, v string) {
	if in := f.input(key); in != nil {
		in.SetValue(v)
		in.CursorEnd()
	}
}

// pick copies the highlighted search result into the name field and clears the search.
func (f *form) pick() bool {
	s := &f.search
	if s.state != searchShown || s.idx < 0 || s.idx >= len(s.results) {
		return false
	}
	f.setValue(fieldName, s.results[s.idx].Name)
	f.setValue(fieldSearch, "")
	s.seq++
	s.state = searchHidden
	s.results = nil
	s.idx = 0
	f.focusInputKey(fieldWeight)
	return true
}
