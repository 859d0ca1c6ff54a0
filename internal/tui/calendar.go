package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/fyrsmithlabs/motivatr/pkg/client"
)

func (m Model) renderCalendar() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(" motivatr calendar "))
	b.WriteString("  " + valueStyle.Render(m.month.Format("January 2006")))
	b.WriteString("\n\n")

	byDay := m.tasksByDueDay()

	b.WriteString(dimStyle.Render(" Su  Mo  Tu  We  Th  Fr  Sa"))
	b.WriteString("\n")

	now := m.now()
	first := m.month
	daysInMonth := first.AddDate(0, 1, -1).Day()

	// Leading blanks up to the first weekday.
	b.WriteString(strings.Repeat("    ", int(first.Weekday())))

	for day := 1; day <= daysInMonth; day++ {
		date := first.AddDate(0, 0, day-1)
		cell := fmt.Sprintf("%3d", day)

		switch {
		case date.Year() == now.Year() && date.YearDay() == now.YearDay():
			cell = todayStyle.Render(cell)
		case len(byDay[day]) > 0:
			cell = doneDayStyle.Render(cell)
		default:
			cell = dimStyle.Render(cell)
		}
		b.WriteString(cell + " ")

		if date.Weekday() == time.Saturday {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	// Due tasks for the shown month, listed under the grid.
	listed := false
	for day := 1; day <= daysInMonth; day++ {
		for _, t := range byDay[day] {
			if !listed {
				b.WriteString("\n" + sectionStyle.Render("┃ Due this month") + "\n")
				listed = true
			}
			b.WriteString(labelStyle.Render(fmt.Sprintf("  %2d ", day)) +
				valueStyle.Render(t.Title) +
				dimStyle.Render(" ("+t.Status+")") + "\n")
		}
	}
	if !listed {
		b.WriteString("\n" + dimStyle.Render("nothing due this month") + "\n")
	}

	footer := footerKeyStyle.Render("[h/l]") + footerStyle.Render(" month  ") +
		footerKeyStyle.Render("[t]") + footerStyle.Render(" today  ") +
		footerKeyStyle.Render("[tab]") + footerStyle.Render(" view  ") +
		footerKeyStyle.Render("[q]") + footerStyle.Render(" quit")
	b.WriteString("\n" + footer)

	return b.String()
}

// tasksByDueDay groups the user's tasks due in the shown month by day of
// month.
func (m Model) tasksByDueDay() map[int][]client.Task {
	byDay := make(map[int][]client.Task)
	for _, t := range m.tasks {
		if t.DueDate == nil {
			continue
		}
		due := *t.DueDate
		if due.Year() != m.month.Year() || due.Month() != m.month.Month() {
			continue
		}
		byDay[due.Day()] = append(byDay[due.Day()], t)
	}
	return byDay
}
