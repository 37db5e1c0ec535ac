// Package ui is the interactive terminal client: sign-in screens, the customer
// storefront and the admin dashboard.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	Primary     = lipgloss.Color("#4F46E5")
	Accent      = lipgloss.Color("#10B981")
	Muted       = lipgloss.Color("#6B7280")
	Destructive = lipgloss.Color("#E53935")
	Warning     = lipgloss.Color("#FFC107")
)

// Styles holds the styled components shared by every screen.
type Styles struct {
	Header   lipgloss.Style
	Title    lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style
	Selected lipgloss.Style
	Tab      lipgloss.Style
	TabOn    lipgloss.Style
	Footer   lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Warning  lipgloss.Style
	Box      lipgloss.Style
}

// DefaultStyles returns the client palette.
func DefaultStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Background(Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),
		Title: lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true).
			MarginBottom(1),
		Muted: lipgloss.NewStyle().
			Foreground(Muted),
		Bold: lipgloss.NewStyle().Bold(true),
		Selected: lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true),
		Tab: lipgloss.NewStyle().
			Foreground(Muted).
			Padding(0, 1),
		TabOn: lipgloss.NewStyle().
			Foreground(Primary).
			Underline(true).
			Bold(true).
			Padding(0, 1),
		Footer: lipgloss.NewStyle().
			Foreground(Muted).
			MarginTop(1),
		Success: lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(Warning),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2),
	}
}
