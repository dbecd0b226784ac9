package cli

import (
	"context"
	"fmt"
	"strings"

	"dayplan/internal/export"
	"dayplan/internal/model"
	"dayplan/internal/planner"
	"dayplan/internal/render"
	"dayplan/internal/store"

	"github.com/spf13/cobra"
)

type dayView struct {
	Date     string          `json:"date"`
	Today    bool            `json:"today"`
	Boxes    []render.Box    `json:"boxes"`
	Document *model.Document `json:"document,omitempty"`
}

func newDayView(l planner.Load) dayView {
	return dayView{Date: l.Date, Today: l.Today, Boxes: render.Render(l.Doc), Document: l.Doc}
}

func (v dayView) Text() string {
	mode := "selected"
	if v.Today {
		mode = "today"
	}
	return fmt.Sprintf("%s (%s)\n\n%s", v.Date, mode, render.Text(v.Boxes))
}

// loadDay loads date, or today when date is empty.
func loadDay(ctx context.Context, s *planner.Session, date string) (planner.Load, error) {
	if strings.TrimSpace(date) == "" {
		return s.Today(ctx)
	}
	return s.SelectDate(ctx, date)
}

func newShowCmd(app *App) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Render a day (today by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Session(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			load, err := loadDay(cmd.Context(), s, date)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, newDayView(load))
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day to show (YYYY-MM-DD)")
	return cmd
}

type todayView struct {
	Today string `json:"today"`
}

func (v todayView) Text() string { return v.Today + "\n" }

func newTodayCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Print the backend's current date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.Session(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			today, err := app.client.Today(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, todayView{Today: today})
		},
	}
}

type summaryView struct {
	Date string `json:"date"`
	render.Summary
}

func (v summaryView) Text() string {
	return v.Date + "\n\n" + render.SummaryText(v.Summary)
}

func newSummaryCmd(app *App) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Nutrition and hydration totals against configured targets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.Session(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			load, err := loadDay(cmd.Context(), s, date)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, summaryView{Date: load.Date, Summary: render.Summarize(load.Doc, app.cfg.Targets)})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day to summarize (YYYY-MM-DD)")
	return cmd
}

type exportView struct {
	Path string `json:"path"`
	Date string `json:"date"`
}

func (v exportView) Text() string { return fmt.Sprintf("wrote %s (%s)\n", v.Path, v.Date) }

func newExportCmd(app *App) *cobra.Command {
	var (
		date      string
		out       string
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a day to an .xlsx spreadsheet or a .md file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(out) == "" {
				return writeErr(cmd, errUsage("--out", "required"))
			}
			if _, err := export.Format(out); err != nil {
				return writeErr(cmd, errUsage("--out", err.Error()))
			}
			s, err := app.Session(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			load, err := loadDay(cmd.Context(), s, date)
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := export.Save(out, load.Date, load.Doc, app.cfg.Targets, overwrite); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, exportView{Path: out, Date: load.Date})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day to export (YYYY-MM-DD)")
	cmd.Flags().StringVar(&out, "out", "", "Output path (.xlsx or .md)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

type historyView struct {
	Actions []planner.Action `json:"actions"`
}

func (v historyView) Text() string {
	if len(v.Actions) == 0 {
		return "No actions recorded.\n"
	}
	var b strings.Builder
	for _, a := range v.Actions {
		fmt.Fprintf(&b, "%s  %-11s %s", a.At.Local().Format("2006-01-02 15:04:05"), a.Kind, a.Date)
		for _, k := range []string{"part", "section", "meal", "index", "done", "name", "text", "weight", "amount"} {
			if val, ok := a.Params[k]; ok {
				fmt.Fprintf(&b, " %s=%s", k, val)
			}
		}
		if a.Err != "" {
			fmt.Fprintf(&b, "  FAILED: %s", a.Err)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func newHistoryCmd(app *App) *cobra.Command {
	var (
		limit int
		date  string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently dispatched actions (newest first)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if date != "" {
				norm, err := model.ParseDate(date)
				if err != nil {
					return writeErr(cmd, errUsage("--date", err.Error()))
				}
				date = norm
			}
			j, err := app.openJournal(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			actions, err := j.Recent(cmd.Context(), store.Query{Date: date, Limit: limit})
			if err != nil {
				return writeErr(cmd, err)
			}
			if actions == nil {
				actions = []planner.Action{}
			}
			return writeOut(cmd, app, historyView{Actions: actions})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of actions")
	cmd.Flags().StringVar(&date, "date", "", "Only actions for this day (YYYY-MM-DD)")
	return cmd
}
