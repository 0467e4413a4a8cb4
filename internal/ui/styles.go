package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"taskmaster/internal/query"
	"taskmaster/internal/task"
)

type styles struct {
	title     lipgloss.Style
	dim       lipgloss.Style
	cursor    lipgloss.Style
	done      lipgloss.Style
	tabActive lipgloss.Style
	tab       lipgloss.Style
	high      lipgloss.Style
	medium    lipgloss.Style
	low       lipgloss.Style
	category  lipgloss.Style
	toastInfo lipgloss.Style
	toastOK   lipgloss.Style
	toastErr  lipgloss.Style
	bar       lipgloss.Style
	panel     lipgloss.Style
}

func newStyles(theme string) styles {
	dark := theme == "dark"
	fg := lipgloss.Color("235")
	dimc := lipgloss.Color("245")
	accent := lipgloss.Color("37")
	if dark {
		fg = lipgloss.Color("252")
		dimc = lipgloss.Color("243")
		accent = lipgloss.Color("80")
	}
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		dim:       lipgloss.NewStyle().Foreground(dimc),
		cursor:    lipgloss.NewStyle().Foreground(accent).Bold(true),
		done:      lipgloss.NewStyle().Foreground(dimc).Strikethrough(true),
		tabActive: lipgloss.NewStyle().Bold(true).Foreground(accent).Underline(true),
		tab:       lipgloss.NewStyle().Foreground(dimc),
		high:      lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		medium:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		low:       lipgloss.NewStyle().Foreground(lipgloss.Color("71")),
		category:  lipgloss.NewStyle().Foreground(accent),
		toastInfo: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		toastOK:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		toastErr:  lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		bar:       lipgloss.NewStyle().Foreground(accent),
		panel:     lipgloss.NewStyle().Foreground(fg),
	}
}

func (st styles) priority(p task.Priority) lipgloss.Style {
	switch p {
	case task.PriorityHigh:
		return st.high
	case task.PriorityMedium:
		return st.medium
	default:
		return st.low
	}
}

const chartWidth = 20

// renderChart draws one bar per category, scaled to the largest count.
// Rendered fresh every frame, so repeated updates replace the prior chart.
func renderChart(st styles, counts []int) string {
	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	var b strings.Builder
	for i, cat := range task.Categories {
		width := 0
		if max > 0 {
			width = counts[i] * chartWidth / max
		}
		if counts[i] > 0 && width == 0 {
			width = 1
		}
		bar := strings.Repeat("█", width) + strings.Repeat("░", chartWidth-width)
		b.WriteString(formatRow(st, string(cat), bar, counts[i]))
	}
	return b.String()
}

func formatRow(st styles, label, bar string, count int) string {
	return st.dim.Render(padRight(label, 9)) + " " + st.bar.Render(bar) + st.panel.Render(countSuffix(count)) + "\n"
}

func countSuffix(n int) string {
	return " " + strconv.Itoa(n)
}

func renderProgress(st styles, stats query.Stats) string {
	filled := stats.PercentComplete * chartWidth / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", chartWidth-filled)
	return st.bar.Render(bar) + st.panel.Render(" "+strconv.Itoa(stats.PercentComplete)+"%")
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}
