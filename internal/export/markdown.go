package export

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dayplan/internal/model"
	"dayplan/internal/render"
)

var titleBrackets = strings.NewReplacer("[", "", "]", "")

// RenderMarkdown renders a day as Markdown: one section per box, checkbox rows
// as task-list items, followed by the nutrition summary.
func RenderMarkdown(date string, doc *model.Document, targets render.Targets) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + date)
	writeLn("")

	boxes := render.Render(doc)
	if boxes == nil {
		writeLn(render.EmptyMessage)
		return buf.String()
	}

	for _, b := range boxes {
		writeLn("## " + strings.TrimSpace(titleBrackets.Replace(b.Title)))
		writeLn("")
		if len(b.Rows) == 0 {
			writeLn("_(empty)_")
			writeLn("")
			continue
		}
		for _, r := range b.Rows {
			switch {
			case r.Check == nil:
				writeLn("- " + r.Text)
			case r.Check.Done:
				writeLn("- [x] " + r.Text)
			default:
				writeLn("- [ ] " + r.Text)
			}
		}
		writeLn("")
	}

	s := render.Summarize(doc, targets)
	writeLn("## Summary")
	writeLn("")
	writeLn("| Meal | Items | Protein (g) | Fat (g) | Carbon (g) |")
	writeLn("|---|---|---|---|---|")
	for _, m := range s.Meals {
		writeLn(fmt.Sprintf("| %s | %d | %.1f | %.1f | %.1f |", render.Capitalize(m.Meal), m.Items, m.Protein, m.Fat, m.Carbon))
	}
	writeLn(fmt.Sprintf("| **Total** | | %.1f | %.1f | %.1f |", s.Total.Protein, s.Total.Fat, s.Total.Carbon))
	writeLn("")
	writeLn("Water: " + model.FormatAmount(s.WaterML) + " ml")

	return buf.String()
}

// Format picks the export format from the file extension.
func Format(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return "xlsx", nil
	case ".md", ".markdown":
		return "markdown", nil
	default:
		return "", fmt.Errorf("export: unsupported file type %q (want .xlsx or .md)", filepath.Ext(path))
	}
}

// Save writes the export to path in the format its extension names.
func Save(path, date string, doc *model.Document, targets render.Targets, overwrite bool) error {
	kind, err := Format(path)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	if kind == "markdown" {
		return os.WriteFile(path, []byte(RenderMarkdown(date, doc, targets)), 0o644)
	}
	return SaveXLSX(path, date, doc)
}
