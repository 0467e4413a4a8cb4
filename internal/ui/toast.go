package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

const toastTTL = 3 * time.Second

type toastKind int

const (
	toastInfo toastKind = iota
	toastSuccess
	toastError
)

type toastItem struct {
	text    string
	kind    toastKind
	expires time.Time
}

type toastMsg struct {
	text string
	kind toastKind
}

type toastGCMsg struct{}

// showToast queues a transient message through the update loop.
func showToast(text string, kind toastKind) tea.Cmd {
	return func() tea.Msg { return toastMsg{text: text, kind: kind} }
}

func (m *Model) addToast(t toastMsg) tea.Cmd {
	m.toasts = append(m.toasts, toastItem{text: t.text, kind: t.kind, expires: time.Now().Add(toastTTL)})
	return tea.Tick(toastTTL, func(time.Time) tea.Msg { return toastGCMsg{} })
}

func (m *Model) sweepToasts() {
	now := time.Now()
	kept := m.toasts[:0:0]
	for _, t := range m.toasts {
		if t.expires.After(now) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

func (m Model) renderToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	var out string
	for _, t := range m.toasts {
		style := m.styles.toastInfo
		switch t.kind {
		case toastSuccess:
			style = m.styles.toastOK
		case toastError:
			style = m.styles.toastErr
		}
		out += style.Render("• "+t.text) + "\n"
	}
	return out
}
