package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// renderInputLine draws a labelled single-line field inside a modal body of
// width bodyW. The focused field gets the accent label.
func renderInputLine(bodyW int, label, inputView string, focused bool) string {
	if bodyW < 10 {
		bodyW = 10
	}

	// Text inputs must stay on one visual line; a stray newline would look like
	// the field wrapped while typing.
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")

	line := lipgloss.PlaceHorizontal(
		bodyW,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > bodyW {
		// Terminate ANSI styling so the cut never bleeds into the border.
		line = xansi.Cut(line, 0, bodyW) + "\x1b[0m"
	}
	return renderFieldLabel(label, focused) + "\n" + line
}

func renderFieldLabel(label string, focused bool) string {
	if focused {
		return lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render(glyphCursor() + " " + label)
	}
	return styleMuted().Render("  " + label)
}

// renderPickerLine draws a one-of selector as "‹ Morning ›".
func renderPickerLine(bodyW int, p *picker, focused bool) string {
	val := styleMuted().Render("(none)")
	if p != nil && len(p.options) > 0 {
		val = p.options[p.idx].Label
	}
	label := ""
	if p != nil {
		label = p.label
	}
	line := glyphArrowLeft() + " " + val + " " + glyphArrowRight()
	st := lipgloss.NewStyle().Background(colorControlBg).Padding(0, 1)
	if focused {
		st = st.Foreground(colorAccent).Bold(true)
	}
	out := st.Render(line)
	if xansi.StringWidth(out) > bodyW {
		out = xansi.Truncate(out, bodyW, "…")
	}
	return renderFieldLabel(label, focused) + "\n" + out
}
