package tui

import (
	"dayplan/internal/model"
	"dayplan/internal/planner"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalAddTask
	modalAddGoal
	modalAddFood
	modalAddWater
	modalGoToDate
	modalHelp
)

func (k modalKind) String() string {
	switch k {
	case modalAddTask:
		return "add-task"
	case modalAddGoal:
		return "add-goal"
	case modalAddFood:
		return "add-food"
	case modalAddWater:
		return "add-water"
	case modalGoToDate:
		return "go-to-date"
	case modalHelp:
		return "help"
	default:
		return "none"
	}
}

// dayLoadedMsg carries the result of any load: an explicit date, today, or the
// reload that follows a mutation.
type dayLoadedMsg struct {
	load planner.Load
	err  error
	// mutErr is the failure of the post that preceded this reload, if any.
	mutErr error
	// modalID names the modal whose submit triggered the load; that modal
	// closes on arrival. Zero means none.
	modalID int
}

// searchTickMsg fires when the search field has been quiet for searchDebounce.
type searchTickMsg struct {
	seq   int
	query string
}

type searchResultMsg struct {
	seq   int
	foods []model.FoodMatch
	err   error
}

type searchState int

const (
	searchHidden searchState = iota
	searchLoading
	searchShown
	searchEmpty
	searchFailed
)
