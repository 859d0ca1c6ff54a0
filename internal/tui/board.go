package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/fyrsmithlabs/motivatr/pkg/client"
)

var columnTitles = [4]string{"Ideas", "To Do", "In Progress", "Completed"}

func (m Model) renderBoard() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(" motivatr "))
	b.WriteString("  " + dimStyle.Render(m.owner))
	if m.streak != nil && m.streak.Current > 0 {
		b.WriteString("  " + streakFireStyle.Render(fmt.Sprintf("🔥 %d", m.streak.Current)))
	}
	if m.filter != filterAll {
		b.WriteString("  " + labelStyle.Render("due: ") + valueStyle.Render(m.filter.String()))
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render("error: "+m.err.Error()) + "\n")
	}
	if m.loading {
		b.WriteString("\n" + dimStyle.Render("loading board...") + "\n")
	}

	if m.searching || m.search.Value() != "" {
		b.WriteString(labelStyle.Render("search: ") + m.search.View() + "\n")
	}
	if m.adding {
		b.WriteString(labelStyle.Render("new: ") + m.input.View() + "\n")
	}

	cols := make([]string, 0, 4)
	for i := 0; i < 4; i++ {
		cols = append(cols, m.renderColumn(i))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))

	footer := footerKeyStyle.Render("[h/l]") + footerStyle.Render(" column  ") +
		footerKeyStyle.Render("[j/k]") + footerStyle.Render(" task  ") +
		footerKeyStyle.Render("[[/]]") + footerStyle.Render(" move  ") +
		footerKeyStyle.Render("[c]") + footerStyle.Render(" done  ") +
		footerKeyStyle.Render("[n]") + footerStyle.Render(" new  ") +
		footerKeyStyle.Render("[d]") + footerStyle.Render(" delete  ") +
		footerKeyStyle.Render("[/]") + footerStyle.Render(" search  ") +
		footerKeyStyle.Render("[f]") + footerStyle.Render(" filter  ") +
		footerKeyStyle.Render("[tab]") + footerStyle.Render(" view  ") +
		footerKeyStyle.Render("[q]") + footerStyle.Render(" quit")
	b.WriteString("\n" + footer)

	return b.String()
}

func (m Model) renderColumn(i int) string {
	tasks := m.column(i)

	var b strings.Builder
	b.WriteString(columnTitleStyle.Render(fmt.Sprintf("%s (%d)", columnTitles[i], len(tasks))))
	b.WriteString("\n")

	if len(tasks) == 0 {
		b.WriteString(dimStyle.Render("  -"))
	}
	for row, t := range tasks {
		b.WriteString(m.renderCard(t, i == m.col && row == m.cursor[i]))
		b.WriteString("\n")
	}

	style := columnStyle
	if i == m.col {
		style = activeColumnStyle
	}
	return style.Render(b.String())
}

func (m Model) renderCard(t client.Task, selected bool) string {
	title := t.Title
	if maxTitle := columnWidth - 6; len(title) > maxTitle {
		title = title[:maxTitle-1] + "…"
	}

	marker := " "
	switch t.Priority {
	case "high":
		marker = priorityHighStyle.Render("!")
	case "medium":
		marker = priorityMediumStyle.Render("·")
	}

	line := marker + " " + title
	switch {
	case selected:
		return selectedCardStyle.Render("▸ " + line)
	case t.Status == client.StatusCompleted:
		return completedCardStyle.Render("  " + line)
	default:
		return cardStyle.Render("  " + line)
	}
}
