package planner

import (
	"context"
	"time"
)

// Action kinds as recorded in the journal.
const (
	ActionToggleTask = "toggle_task"
	ActionToggleGoal = "toggle_goal"
	ActionAddTask    = "add_task"
	ActionAddGoal    = "add_goal"
	ActionAddFood    = "add_food"
	ActionAddWater   = "add_water"
)

// Action is one dispatched mutation. Err is empty when the backend accepted it.
type Action struct {
	At     time.Time         `json:"at"`
	Kind   string            `json:"kind"`
	Date   string            `json:"date,omitempty"`
	Params map[string]string `json:"params,omitempty"`
	Err    string            `json:"error,omitempty"`
}

// Journal records dispatched actions. It is history only; nothing is replayed.
type Journal interface {
	Record(ctx context.Context, a Action) error
}
