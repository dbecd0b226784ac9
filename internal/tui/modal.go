package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const (
	modalMaxWidth = 72
	modalMinWidth = 24
)

// modalBodyWidth is the usable content width inside a modal for a terminal of width w.
func modalBodyWidth(w int) int {
	bw := w - 8
	if bw > modalMaxWidth {
		bw = modalMaxWidth
	}
	if bw < modalMinWidth {
		bw = modalMinWidth
	}
	return bw
}

// renderModalBox frames body with a title bar. Lines wider than the body are cut.
func renderModalBox(screenW int, title, body string) string {
	bodyW := modalBodyWidth(screenW)

	lines := strings.Split(body, "\n")
	for i, ln := range lines {
		if xansi.StringWidth(ln) > bodyW {
			lines[i] = xansi.Truncate(ln, bodyW, "…")
		}
	}

	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorSelectedFg).
		Width(bodyW).
		Render(title)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorAccent).
		Background(colorSurfaceBg).
		Foreground(colorSurfaceFg).
		Padding(0, 1).
		Width(bodyW + 2).
		Render(head + "\n\n" + strings.Join(lines, "\n"))
}

func (m appModel) placeCentered(s string) string {
	// If the modal fills the screen, Place will naturally have no padding; otherwise it centers.
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, s)
}
