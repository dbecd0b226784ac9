package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"dayplan/internal/api"
	"dayplan/internal/format"
	"dayplan/internal/logging"
	"dayplan/internal/planner"
	"dayplan/internal/store"
	"dayplan/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	Server     string
	ConfigPath string
	Format     string
	PrettyJSON bool
	Timeout    time.Duration

	cfg     store.Config
	store   store.Store
	log     *slog.Logger
	closers []io.Closer

	client  *api.Client
	journal *store.Journal
	session *planner.Session
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "dayplan",
		Short:        "Terminal client for the daily planner",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  dayplan

  # Print today's plan
  dayplan show

  # Shortcut for: dayplan show --date 2025-06-01
  dayplan 2025-06-01

  # Check off the first morning task
  dayplan task done morning 0
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		app.close()
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.Server, "server", envOr("DAYPLAN_SERVER", ""), "Planner backend base URL (default from config, then "+store.DefaultServer+")")
	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", "", "Path to config.yaml (default ~/.dayplan/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("DAYPLAN_FORMAT", ""), "Output format (text|json)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().DurationVar(&app.Timeout, "timeout", 0, "Per-request timeout (default from config, then 10s)")

	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newTodayCmd(app))
	cmd.AddCommand(newTaskCmd(app))
	cmd.AddCommand(newGoalCmd(app))
	cmd.AddCommand(newFoodCmd(app))
	cmd.AddCommand(newWaterCmd(app))
	cmd.AddCommand(newSummaryCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newHistoryCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// setup resolves configuration. Precedence: flag/env (already folded into the
// flag defaults) > config file > built-in defaults.
func (app *App) setup(cmd *cobra.Command) error {
	cfg, err := store.LoadConfig(app.ConfigPath)
	if err != nil {
		return writeErr(cmd, err)
	}
	if strings.TrimSpace(app.Server) != "" {
		cfg.Server = strings.TrimSpace(app.Server)
	}
	if app.Timeout > 0 {
		cfg.Timeout = app.Timeout
	}
	if strings.TrimSpace(app.Format) == "" {
		app.Format = cfg.Format
	}
	app.cfg = cfg

	st, err := store.Open()
	if err != nil {
		return writeErr(cmd, err)
	}
	app.store = st

	app.log = logging.Discard()
	if lg, c, err := logging.Open(st.Dir, cfg.LogLevel); err == nil {
		app.log = lg
		app.closers = append(app.closers, c)
	}
	return nil
}

func (app *App) close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		_ = app.closers[i].Close()
	}
	app.closers = nil
	app.client = nil
	app.journal = nil
	app.session = nil
}

// Session builds the planner session on first use. The journal is best effort:
// a journal that cannot be opened only disables history.
func (app *App) Session(ctx context.Context) (*planner.Session, error) {
	if app.session != nil {
		return app.session, nil
	}
	client, err := api.New(app.cfg.Server, api.WithTimeout(app.cfg.Timeout), api.WithLogger(app.log))
	if err != nil {
		return nil, err
	}
	app.client = client
	opts := []planner.Option{planner.WithLogger(app.log)}
	if j, err := app.openJournal(ctx); err == nil {
		opts = append(opts, planner.WithJournal(j))
	} else {
		app.log.Warn("journal_unavailable", "error", err.Error())
	}
	app.session = planner.NewSession(client, opts...)
	return app.session, nil
}

func (app *App) openJournal(ctx context.Context) (*store.Journal, error) {
	if app.journal != nil {
		return app.journal, nil
	}
	j, err := app.store.OpenJournal(ctx)
	if err != nil {
		return nil, err
	}
	app.journal = j
	app.closers = append(app.closers, j)
	return j, nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	s, err := app.Session(cmd.Context())
	if err != nil {
		return writeErr(cmd, err)
	}
	return tui.Run(tui.Options{Session: s, Store: app.store, Config: app.cfg, Logger: app.log})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

// envelope wraps every payload as {"data": ...} in JSON output.
type envelope struct {
	Data any `json:"data"`
}

func (e envelope) Text() string {
	if t, ok := e.Data.(format.Texter); ok {
		return t.Text()
	}
	b, err := json.MarshalIndent(e.Data, "", "  ")
	if err != nil {
		return fmt.Sprint(e.Data) + "\n"
	}
	return string(b) + "\n"
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), envelope{Data: v}, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
