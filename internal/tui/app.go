package tui

import (
	"fmt"
	"strings"

	"dayplan/internal/docs"
	"dayplan/internal/model"
	"dayplan/internal/planner"
	"dayplan/internal/render"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

const summaryPaneWidth = 44

// layout sizes the viewport and refreshes its content, keeping the cursor row visible.
func (m *appModel) layout() {
	bodyH := m.height - lipgloss.Height(m.viewHeader()) - lipgloss.Height(m.viewFooter())
	if bodyH < 3 {
		bodyH = 3
	}
	bodyW := m.width
	if m.showSummary && m.width >= splitMinWidth {
		bodyW = m.width - summaryPaneWidth - 2
	}
	m.vp.Width = bodyW
	m.vp.Height = bodyH

	content, cursorLine := m.renderDay(bodyW)
	m.vp.SetContent(content)
	if cursorLine >= 0 {
		if cursorLine < m.vp.YOffset {
			m.vp.SetYOffset(cursorLine)
		} else if cursorLine >= m.vp.YOffset+m.vp.Height {
			m.vp.SetYOffset(cursorLine - m.vp.Height + 1)
		}
	}
}

func (m appModel) View() string {
	if m.modal != nil {
		return m.placeCentered(m.renderModal())
	}

	body := m.vp.View()
	if m.showSummary && m.width >= splitMinWidth {
		body = splitPanes(body, m.renderSummary(summaryPaneWidth), m.width, m.vp.Height, summaryPaneWidth)
	}
	return strings.Join([]string{m.viewHeader(), body, m.viewFooter()}, "\n")
}

func (m appModel) viewHeader() string {
	mode := "selected"
	if m.today {
		mode = "today"
	}
	date := m.date
	if date == "" {
		date = m.session.ActiveDate()
	}
	title := lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Render("dayplan")
	line := title + "  " + date + " " + styleMuted().Render("("+mode+")")
	if m.loading {
		line += "  " + styleMuted().Render("loading…")
	}
	return line
}

func (m appModel) viewFooter() string {
	status := ""
	if m.status != "" {
		if m.statusErr {
			status = styleError().Render(m.status)
		} else {
			status = styleMuted().Render(m.status)
		}
	}
	return status + "\n" + m.help.View(m.keys)
}

// renderDay draws every box and returns the line of the cursor row, or -1.
func (m appModel) renderDay(width int) (string, int) {
	if m.loadErr != "" {
		return styleError().Render(m.loadErr), -1
	}
	if m.doc == nil {
		if m.loading {
			return styleMuted().Render("Loading…"), -1
		}
		return styleMuted().Render(render.EmptyMessage), -1
	}

	innerW := width - 4
	if innerW < 16 {
		innerW = 16
	}

	var parts []string
	cursorLine := -1
	line := 0
	checkIdx := 0
	for _, b := range m.boxes {
		var rows []string
		for _, r := range b.Rows {
			if r.Check == nil {
				rows = append(rows, xansi.Truncate("  "+r.Text, innerW, "…"))
				continue
			}
			selected := checkIdx == m.cursor
			if selected {
				// title line, then the top border
				cursorLine = line + 2 + len(rows)
			}
			rows = append(rows, renderCheckRow(r, selected, innerW))
			checkIdx++
		}
		if len(rows) == 0 {
			rows = append(rows, styleMuted().Render("  (empty)"))
		}

		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(boxColor(b)).
			Width(innerW).
			Render(strings.Join(rows, "\n"))
		title := lipgloss.NewStyle().Bold(true).Foreground(boxColor(b)).Render(b.Title)
		block := title + "\n" + box
		parts = append(parts, block)
		line += lipgloss.Height(block)
	}
	return strings.Join(parts, "\n"), cursorLine
}

func renderCheckRow(r render.Row, selected bool, width int) string {
	cursor := " "
	if selected {
		cursor = glyphCursor()
	}
	check := glyphCheckbox(r.Check.Done)
	text := xansi.Truncate(r.Text, width-6, "…")
	st := lipgloss.NewStyle()
	if r.Check.Done {
		st = st.Foreground(colorDone)
	}
	row := cursor + " " + st.Render(check) + " " + text
	if selected {
		row = lipgloss.NewStyle().
			Background(colorSelectedBg).
			Foreground(colorSelectedFg).
			Width(width).
			Render(row)
	}
	return row
}

func boxColor(b render.Box) lipgloss.TerminalColor {
	switch b.Kind {
	case render.KindRoutine:
		if strings.EqualFold(b.Key, "evening") {
			return colorEvening
		}
		return colorMorning
	case render.KindHydration:
		return colorHydration
	case render.KindFood:
		return colorFood
	case render.KindGoals, render.KindPlan:
		return colorAccent
	}
	return colorBoxBorder
}

func (m appModel) renderSummary(width int) string {
	s := render.Summarize(m.doc, m.cfg.Targets)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBoxBorder).
		Width(width - 2).
		Render(lipgloss.NewStyle().Bold(true).Render("[Summary]") + "\n" + strings.TrimRight(render.SummaryText(s), "\n"))
}

func (m appModel) renderModal() string {
	f := m.modal
	bodyW := modalBodyWidth(m.width)

	if f.kind == modalHelp {
		md, _ := docs.Get("keys")
		out := strings.TrimRight(docs.Render(md, bodyW, markdownStyle()), "\n")
		if limit := m.height - 6; limit > 0 {
			lines := strings.Split(out, "\n")
			if len(lines) > limit {
				out = strings.Join(lines[:limit], "\n")
			}
		}
		return renderModalBox(m.width, f.title, out+"\n\n"+styleMuted().Render("esc/q: close"))
	}

	var sections []string
	if f.picker != nil {
		sections = append(sections, renderPickerLine(bodyW, f.picker, f.pickerFocused()))
	}
	for i, in := range f.inputs {
		focused := f.focusedInput() == i
		sections = append(sections, renderInputLine(bodyW, in.label, in.input.View(), focused))
		if in.key == fieldSearch {
			if panel := renderSearchPanel(f.search, bodyW); panel != "" {
				sections = append(sections, panel)
			}
		}
	}
	if f.errMsg != "" {
		sections = append(sections, styleError().Render(f.errMsg))
	}
	hint := "tab: next field   enter: submit   esc: cancel"
	switch f.kind {
	case modalAddWater:
		hint = fmt.Sprintf("↑/↓: ±%d ml   ", planner.WaterStep) + hint
	case modalAddFood:
		hint = "↑/↓: pick result   " + hint
	}
	if f.submitting {
		hint = "saving…"
	}
	sections = append(sections, styleMuted().Render(hint))
	return renderModalBox(m.width, f.title, strings.Join(sections, "\n\n"))
}

// nutrientLine describes a search result per 100g.
func nutrientLine(f model.FoodMatch) string {
	return fmt.Sprintf("Protein: %sg | Fat: %sg | Carbs: %sg",
		model.FormatAmount(f.Protein), model.FormatAmount(f.Fat), model.FormatAmount(f.Carbon))
}

func renderSearchPanel(s foodSearch, width int) string {
	switch s.state {
	case searchLoading:
		return styleMuted().Render("  Searching…")
	case searchEmpty:
		return styleMuted().Render("  No results")
	case searchFailed:
		return styleError().Render("  Search error")
	case searchShown:
		var lines []string
		for i, f := range s.results {
			name := xansi.Truncate(f.Name, width-4, "…")
			text := "  " + glyphBullet() + " " + name
			if i == s.idx {
				text = lipgloss.NewStyle().
					Background(colorSelectedBg).
					Foreground(colorSelectedFg).
					Width(width).
					Render(glyphCursor() + " " + name)
			}
			lines = append(lines, text, styleMuted().Render(xansi.Truncate("    "+nutrientLine(f), width, "…")))
		}
		return strings.Join(lines, "\n")
	}
	return ""
}
