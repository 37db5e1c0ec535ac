package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ToastTTL is how long a notice stays on screen.
const ToastTTL = 3 * time.Second

type toastKind int

const (
	toastInfo toastKind = iota
	toastSuccess
	toastError
)

type toast struct {
	id   int
	kind toastKind
	text string
}

// toastMsg asks the app to show a notice.
type toastMsg struct {
	kind toastKind
	text string
}

type toastExpiredMsg struct{ id int }

func notify(kind toastKind, text string) tea.Cmd {
	return func() tea.Msg { return toastMsg{kind: kind, text: text} }
}

func success(text string) tea.Cmd { return notify(toastSuccess, text) }
func failure(text string) tea.Cmd { return notify(toastError, text) }

func (t toast) render(s Styles) string {
	switch t.kind {
	case toastSuccess:
		return s.Success.Render("✓ " + t.text)
	case toastError:
		return s.Error.Render("✗ " + t.text)
	default:
		return s.Warning.Render(t.text)
	}
}
