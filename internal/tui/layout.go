package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// splitMinWidth is the terminal width from which the summary panel sits beside the day.
const splitMinWidth = 110

// normalizePane forces s to be exactly width columns wide (ANSI-aware) and height
// lines tall. This keeps split-pane rendering stable with lipgloss.JoinHorizontal.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	lines := strings.Split(s, "\n")

	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i, ln := range lines {
		w := xansi.StringWidth(ln)
		if w > width {
			switch {
			case width <= 0:
				ln = ""
			case width == 1:
				ln = xansi.Cut(ln, 0, 1)
			default:
				ln = xansi.Cut(ln, 0, width-1) + "…"
			}
			w = xansi.StringWidth(ln)
		}
		if w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}

	return strings.Join(lines, "\n")
}

// splitPanes lays left and right side by side, giving right a fixed width.
func splitPanes(left, right string, width, height, rightW int) string {
	gap := 2
	leftW := width - rightW - gap
	if leftW < 20 {
		return left
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		normalizePane(left, leftW, height),
		strings.Repeat(" ", gap),
		normalizePane(right, rightW, height),
	)
}
