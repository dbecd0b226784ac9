package cli

import (
	"errors"
	"os"
	"strings"

	"dayplan/internal/store"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type configView struct {
	Path   string       `json:"path"`
	Config store.Config `json:"config"`
}

func (v configView) Text() string {
	b, err := yaml.Marshal(v.Config)
	if err != nil {
		return v.Path + "\n"
	}
	return "# " + v.Path + "\n" + string(b)
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the config file",
	}

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, configView{Path: path, Config: app.cfg})
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := configPath(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			if _, err := os.Stat(path); err == nil && !force {
				return writeErr(cmd, errors.New("config already exists: "+path+" (use --force to overwrite)"))
			}
			cfg := store.DefaultConfig()
			if strings.TrimSpace(app.Server) != "" {
				cfg.Server = strings.TrimSpace(app.Server)
			}
			if err := store.SaveConfig(path, cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, configView{Path: path, Config: cfg})
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")

	cmd.AddCommand(show, initCmd)
	return cmd
}

func configPath(app *App) (string, error) {
	if strings.TrimSpace(app.ConfigPath) != "" {
		return app.ConfigPath, nil
	}
	return store.ConfigPath()
}
