package main

import (
	"os"
	"strings"

	"dayplan/internal/cli"
	"dayplan/internal/model"
)

func isDate(s string) bool {
	_, err := model.ParseDate(strings.TrimSpace(s))
	return err == nil
}

// rewriteDirectDateArgs makes `dayplan <date>` work like `dayplan show --date <date>`.
//
// Cobra treats the first non-flag token as a subcommand, so argv is rewritten
// before parsing. Persistent flags may come first (`dayplan --server URL 2025-06-01`),
// so the first positional token is located rather than assuming argv[1].
func rewriteDirectDateArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}

	valueFlags := map[string]bool{
		"--server":  true,
		"--config":  true,
		"--format":  true,
		"--timeout": true,
	}

	for i := 1; i < len(argv); i++ {
		a := strings.TrimSpace(argv[i])
		if a == "" {
			continue
		}
		if a == "--" {
			return argv
		}
		if strings.HasPrefix(a, "-") {
			if !strings.Contains(a, "=") && valueFlags[a] {
				i++ // skip value if present
			}
			continue
		}

		// First positional token.
		if !isDate(a) {
			return argv
		}
		out := make([]string, 0, len(argv)+2)
		out = append(out, argv[:i]...)
		out = append(out, "show", "--date", a)
		out = append(out, argv[i+1:]...)
		return out
	}

	return argv
}

func main() {
	os.Args = rewriteDirectDateArgs(os.Args)

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
