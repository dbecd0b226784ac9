package cli

import (
	"fmt"
	"os"

	"dayplan/internal/docs"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

type docsTopicsView struct {
	Topics []string `json:"topics"`
}

func (v docsTopicsView) Text() string {
	out := ""
	for _, t := range v.Topics {
		out += t + "\n"
	}
	return out
}

type docsView struct {
	Topic    string `json:"topic"`
	Markdown string `json:"markdown"`
	rendered string
}

func (v docsView) Text() string { return v.rendered }

func newDocsCmd(app *App) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show built-in documentation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return writeOut(cmd, app, docsTopicsView{Topics: docs.Topics()})
			}

			topic := args[0]
			body, ok := docs.Get(topic)
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown docs topic: %q (run `dayplan docs` to list topics)", topic))
			}

			if raw {
				_, err := fmt.Fprint(cmd.OutOrStdout(), body)
				return err
			}

			return writeOut(cmd, app, docsView{Topic: topic, Markdown: body, rendered: docs.Render(body, 80, docsStyle(cmd))})
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Print raw markdown")

	return cmd
}

// docsStyle picks a glamour style for the command's stdout: plain text when it
// is not a color terminal.
func docsStyle(cmd *cobra.Command) string {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return "notty"
	}
	out := termenv.NewOutput(f)
	if out.EnvColorProfile() == termenv.Ascii {
		return "notty"
	}
	if out.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
