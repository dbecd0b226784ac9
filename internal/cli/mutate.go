package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"dayplan/internal/model"
	"dayplan/internal/planner"

	"github.com/spf13/cobra"
)

// finishMutation prints the reloaded day and turns a rejected post into a
// non-zero exit. The reload has already happened either way.
func finishMutation(cmd *cobra.Command, app *App, kind string, res planner.Result, err error) error {
	if err != nil {
		return writeErr(cmd, err)
	}
	if werr := writeOut(cmd, app, newDayView(res.Load)); werr != nil {
		return werr
	}
	if res.MutationErr != nil {
		return writeErr(cmd, mutationError{kind: kind, err: res.MutationErr})
	}
	return nil
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || i < 0 {
		return 0, errUsage("index", fmt.Sprintf("%q is not a non-negative integer", s))
	}
	return i, nil
}

func newTaskCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Check off or add routine tasks",
	}
	cmd.AddCommand(newToggleCmd(app, "task", true), newToggleCmd(app, "task", false))
	cmd.AddCommand(newAddTextCmd(app, "task"))
	return cmd
}

func newGoalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Check off or add goals",
	}
	cmd.AddCommand(newToggleCmd(app, "goal", true), newToggleCmd(app, "goal", false))
	cmd.AddCommand(newAddTextCmd(app, "goal"))
	return cmd
}

// newToggleCmd builds `task done|undo <section> <index>` and the goal equivalent.
// The section is matched case-insensitively against the day being edited.
func newToggleCmd(app *App, what string, done bool) *cobra.Command {
	var date string
	use, short := "undo", "Mark a "+what+" as not done"
	if done {
		use, short = "done", "Mark a "+what+" as done"
	}
	cmd := &cobra.Command{
		Use:   use + " <section> <index>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			ctx := cmd.Context()
			s, err := app.Session(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			load, err := loadDay(ctx, s, date)
			if err != nil {
				return writeErr(cmd, err)
			}
			section, n, err := resolveToggle(load.Doc, what, args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if index >= n {
				return writeErr(cmd, errUsage("index", fmt.Sprintf("%d out of range (%s has %d)", index, section, n)))
			}

			var res planner.Result
			if what == "goal" {
				res, err = s.ToggleGoal(ctx, section, index, done)
			} else {
				res, err = s.ToggleTask(ctx, section, index, done)
			}
			return finishMutation(cmd, app, what+" "+use, res, err)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day to edit (YYYY-MM-DD, default today)")
	return cmd
}

// resolveToggle finds the stored key for name and the number of rows under it.
func resolveToggle(doc *model.Document, what, name string) (string, int, error) {
	if doc == nil {
		return "", 0, unknownSectionError{what: what + " section", name: name}
	}
	if what == "goal" {
		if doc.Goals != nil {
			if key, ok := doc.Goals.Resolve(name); ok {
				goals, _ := doc.Goals.Get(key)
				return key, len(goals), nil
			}
		}
		return "", 0, unknownSectionError{what: "goal category", name: name}
	}
	key, tasks, _, ok := doc.Routine(name)
	if !ok {
		return "", 0, unknownSectionError{what: "routine section", name: name}
	}
	return key, len(tasks), nil
}

// newAddTextCmd builds `task add` / `goal add`. Additions always land on the
// backend's today.
func newAddTextCmd(app *App, what string) *cobra.Command {
	return &cobra.Command{
		Use:   "add <section> <text>",
		Short: "Add a " + what + " to today's plan",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args[1:], " "))
			ctx := cmd.Context()
			s, err := app.Session(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			load, err := s.Today(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			section := storedKey(load.Doc, what, args[0])

			var res planner.Result
			if what == "goal" {
				res, err = s.AddGoal(ctx, section, text)
			} else {
				res, err = s.AddTask(ctx, section, text)
			}
			return finishMutation(cmd, app, what+" add", res, err)
		},
	}
}

// storedKey maps name to the key casing already in doc, or returns name as typed.
func storedKey(doc *model.Document, what, name string) string {
	if doc == nil {
		return name
	}
	var (
		key string
		ok  bool
	)
	switch what {
	case "goal":
		if doc.Goals != nil {
			key, ok = doc.Goals.Resolve(name)
		}
	case "food":
		if doc.Food != nil {
			key, ok = doc.Food.Resolve(name)
		}
	default:
		if doc.Tasks != nil {
			key, ok = doc.Tasks.Resolve(name)
		}
	}
	if ok {
		return key
	}
	return name
}

type foodsView struct {
	Query string            `json:"query"`
	Foods []model.FoodMatch `json:"foods"`
}

func (v foodsView) Text() string {
	if len(v.Foods) == 0 {
		return "No results\n"
	}
	var b strings.Builder
	for _, f := range v.Foods {
		fmt.Fprintf(&b, "%s  (P %s  F %s  C %s per 100g)\n", f.Name,
			model.FormatAmount(f.Protein), model.FormatAmount(f.Fat), model.FormatAmount(f.Carbon))
	}
	return b.String()
}

func newFoodCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "food",
		Short: "Log food and search the food database",
	}

	add := &cobra.Command{
		Use:   "add <meal> <name> <grams>",
		Short: "Log grams of a food to a meal today",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			weight, err := planner.ParseWeight(args[2])
			if err != nil {
				return writeErr(cmd, errUsage("grams", err.Error()))
			}
			ctx := cmd.Context()
			s, err := app.Session(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			load, err := s.Today(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			meal := storedKey(load.Doc, "food", args[0])
			res, err := s.AddFood(ctx, meal, args[1], weight)
			return finishMutation(cmd, app, "food add", res, err)
		},
	}

	search := &cobra.Command{
		Use:   "search <query>",
		Short: "Search foods by name (at least 2 characters)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := strings.TrimSpace(strings.Join(args, " "))
			s, err := app.Session(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			foods, err := s.SearchFood(cmd.Context(), q)
			if errors.Is(err, planner.ErrQueryTooShort) {
				return writeErr(cmd, errUsage("query", err.Error()))
			}
			if err != nil {
				return writeErr(cmd, fmt.Errorf("search error: %w", err))
			}
			if foods == nil {
				foods = []model.FoodMatch{}
			}
			return writeOut(cmd, app, foodsView{Query: q, Foods: foods})
		},
	}

	cmd.AddCommand(add, search)
	return cmd
}

func newWaterCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "water",
		Short: "Track hydration",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "add <ml>",
		Short: "Add milliliters of water to today",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := planner.ParseWater(args[0])
			if err != nil {
				return writeErr(cmd, errUsage("ml", err.Error()))
			}
			ctx := cmd.Context()
			s, err := app.Session(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			res, err := s.AddWater(ctx, amount)
			return finishMutation(cmd, app, "water add", res, err)
		},
	})
	return cmd
}
