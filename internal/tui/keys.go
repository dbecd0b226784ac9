package tui

import "github.com/charmbracelet/bubbles/key"

type dayKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	AddTask key.Binding
	AddGoal key.Binding
	AddFood key.Binding
	Water   key.Binding
	GoTo    key.Binding
	Prev    key.Binding
	Next    key.Binding
	Today   key.Binding
	Reload  key.Binding
	Summary key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func newDayKeyMap() dayKeyMap {
	return dayKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "enter", "x"), key.WithHelp("space", "toggle")),
		AddTask: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "task")),
		AddGoal: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "goal")),
		AddFood: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "food")),
		Water:   key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "water")),
		GoTo:    key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "date")),
		Prev:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev day")),
		Next:    key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next day")),
		Today:   key.NewBinding(key.WithKeys("."), key.WithHelp(".", "today")),
		Reload:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Summary: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "summary")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k dayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.AddTask, k.AddGoal, k.AddFood, k.Water, k.Prev, k.Next, k.Today, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k dayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Toggle},
		{k.AddTask, k.AddGoal, k.AddFood, k.Water},
		{k.GoTo, k.Prev, k.Next, k.Today, k.Reload},
		{k.Summary, k.Help, k.Quit},
	}
}
