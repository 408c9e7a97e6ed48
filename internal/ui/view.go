package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/tbracken/pantree/internal/ui/styles"
)

const listWidth = 36

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.titleView())
	b.WriteString("\n\n")

	panes := []string{m.listView()}
	if m.sketch {
		panes = append(panes, m.sketchView())
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panes...))
	b.WriteString("\n")

	b.WriteString(m.formView())
	b.WriteString("\n")

	if m.mode == modeSearch {
		b.WriteString(m.searchInput.View())
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString(m.statusView())
		b.WriteString("\n")
	}

	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))

	return m.logOverlay.Overlay(b.String())
}

func (m Model) titleView() string {
	title := fmt.Sprintf("pantree · %s · %s", m.store.Ordering(), m.traversal)
	if m.cfg.UI.ShowCounts {
		title += fmt.Sprintf(" · %d items", m.store.Len())
	}
	return styles.TitleStyle.Render(title)
}

func (m Model) listView() string {
	items := m.store.Traverse(m.traversal)
	if len(items) == 0 {
		return stylePane(m.mode == modeList).Width(listWidth).Render(
			styles.MutedStyle.Render("nothing here yet (tab to add)"))
	}

	rows := make([]string, 0, len(items))
	for i, item := range items {
		prefix := "  "
		if m.mode == modeList && i == m.cursor {
			prefix = styles.CursorStyle.Render("> ")
		}

		name := styles.TruncateString(item.Name(), listWidth-10)
		row := prefix + styles.ItemStyle.Render(name)
		if m.cfg.UI.ShowPriority {
			badge := lipgloss.NewStyle().
				Foreground(styles.PriorityColor(item.Priority())).
				Render(fmt.Sprintf("[P%d]", item.Priority()))
			row += " " + badge
		}
		rows = append(rows, row)
	}

	return stylePane(m.mode == modeList).Width(listWidth).Render(strings.Join(rows, "\n"))
}

func (m Model) sketchView() string {
	sketch := m.store.Dump()
	title := styles.MutedStyle.Render("tree")
	return styles.PanelStyle.Render(title + "\n" + sketch)
}

func (m Model) formView() string {
	label := styles.MutedStyle.Render("add:")
	form := lipgloss.JoinHorizontal(lipgloss.Top,
		label, " ", m.nameInput.View(), "  ", m.priorityInput.View())
	return stylePane(m.mode == modeInsert).Render(form)
}

func (m Model) statusView() string {
	style := styles.SuccessStyle
	if m.statusErr {
		style = styles.ErrorStyle
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	return style.Render(wordwrap.String(m.status, width))
}

func stylePane(focused bool) lipgloss.Style {
	if focused {
		return styles.FocusPanelStyle
	}
	return styles.PanelStyle
}
