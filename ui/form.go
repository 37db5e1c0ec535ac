package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// field describes one input of a form.
type field struct {
	label       string
	placeholder string
	secret      bool
}

// form is a vertical list of text inputs with one focused at a time.
type form struct {
	labels []string
	inputs []textinput.Model
	focus  int
}

func newForm(fields ...field) *form {
	f := &form{}
	for _, fd := range fields {
		ti := textinput.New()
		ti.Placeholder = fd.placeholder
		ti.Prompt = ""
		ti.CharLimit = 256
		ti.Cursor.SetMode(cursor.CursorStatic)
		if fd.secret {
			ti.EchoMode = textinput.EchoPassword
			ti.EchoCharacter = '•'
		}
		f.labels = append(f.labels, fd.label)
		f.inputs = append(f.inputs, ti)
	}
	if len(f.inputs) > 0 {
		f.inputs[0].Focus()
	}
	return f
}

func (f *form) move(delta int) {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + len(f.inputs)) % len(f.inputs)
	f.inputs[f.focus].Focus()
}

// update handles focus keys and forwards the rest to the focused input.
// It reports whether the user pressed enter on the last field.
func (f *form) update(msg tea.Msg) (tea.Cmd, bool) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			f.move(1)
			return nil, false
		case "shift+tab", "up":
			f.move(-1)
			return nil, false
		case "enter":
			if f.focus == len(f.inputs)-1 {
				return nil, true
			}
			f.move(1)
			return nil, false
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd, false
}

func (f *form) value(i int) string { return f.inputs[i].Value() }

func (f *form) set(i int, v string) { f.inputs[i].SetValue(v) }

func (f *form) reset() {
	for i := range f.inputs {
		f.inputs[i].SetValue("")
	}
}

func (f *form) view(s Styles) string {
	var b strings.Builder
	for i, in := range f.inputs {
		label := s.Muted.Render(f.labels[i])
		if i == f.focus {
			label = s.Selected.Render(f.labels[i])
		}
		b.WriteString(label + "\n  " + in.View() + "\n")
	}
	return b.String()
}
