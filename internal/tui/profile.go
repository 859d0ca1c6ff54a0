package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/sparkline"
)

var weekdayLabels = [7]string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}

func (m Model) renderProfile() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(" motivatr profile "))
	b.WriteString("  " + dimStyle.Render(m.owner))
	b.WriteString("\n")

	if m.streak == nil {
		b.WriteString("\n" + dimStyle.Render("loading streak...") + "\n")
		return b.String()
	}

	b.WriteString("\n" + sectionStyle.Render("┃ Streak") + "\n")
	b.WriteString(labelStyle.Render("  Current: ") +
		streakFireStyle.Render(fmt.Sprintf("🔥 %d", m.streak.Current)) +
		dimStyle.Render(" days") + "\n")
	b.WriteString(labelStyle.Render("  Longest: ") +
		valueStyle.Render(fmt.Sprintf("%d", m.streak.Longest)) +
		dimStyle.Render(" days") + "\n")
	if !m.streak.LastActiveDate.IsZero() {
		b.WriteString(labelStyle.Render("  Last active: ") +
			valueStyle.Render(m.streak.LastActiveDate.Format("Mon Jan 2")) + "\n")
	}

	b.WriteString("\n" + sectionStyle.Render("┃ This week") + "\n  ")
	for d := time.Sunday; d <= time.Saturday; d++ {
		label := weekdayLabels[d]
		if m.streak.WeeklyProgress[d] {
			b.WriteString(doneDayStyle.Render("●"+label) + " ")
		} else {
			b.WriteString(dimStyle.Render("○"+label) + " ")
		}
	}
	b.WriteString("\n")

	b.WriteString("\n" + sectionStyle.Render("┃ Completions (30 days)") + "\n")
	b.WriteString("  " + m.renderCompletionSparkline() + "\n")
	b.WriteString(labelStyle.Render("  Total done: ") +
		valueStyle.Render(fmt.Sprintf("%d", m.completedCount())) + "\n")

	footer := footerKeyStyle.Render("[b]") + footerStyle.Render(" board  ") +
		footerKeyStyle.Render("[tab]") + footerStyle.Render(" view  ") +
		footerKeyStyle.Render("[r]") + footerStyle.Render(" refresh  ") +
		footerKeyStyle.Render("[q]") + footerStyle.Render(" quit")
	b.WriteString("\n" + footer)

	return b.String()
}

// renderCompletionSparkline charts completions per day over the last 30 days.
func (m Model) renderCompletionSparkline() string {
	counts := make([]float64, 30)
	now := m.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	any := false
	for _, t := range m.tasks {
		if t.CompletedAt == nil {
			continue
		}
		done := t.CompletedAt.In(now.Location())
		doneDay := time.Date(done.Year(), done.Month(), done.Day(), 0, 0, 0, 0, now.Location())
		daysAgo := int(dayStart.Sub(doneDay).Hours() / 24)
		if daysAgo < 0 || daysAgo >= 30 {
			continue
		}
		counts[29-daysAgo]++
		any = true
	}
	if !any {
		return dimStyle.Render("no completions yet")
	}

	spark := sparkline.New(sparklineWidth, sparklineHeight)
	for _, v := range counts {
		spark.Push(v)
	}
	return sparklineStyle.Render(spark.View())
}

func (m Model) completedCount() int {
	n := 0
	for _, t := range m.tasks {
		if t.CompletedAt != nil {
			n++
		}
	}
	return n
}
