package theme

import "github.com/charmbracelet/lipgloss"

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Header        *lipgloss.Style
	Item          *lipgloss.Style
	ItemIndicator *lipgloss.Style
	SelectedItem  *lipgloss.Style
	Liked         *lipgloss.Style
	Loading       *lipgloss.Style
	Error         *lipgloss.Style
	Info          *lipgloss.Style
	Footer        *lipgloss.Style

	PlayBarTitle  *lipgloss.Style
	PlayBarDetail *lipgloss.Style
	ProgressDone  *lipgloss.Style
	ProgressRest  *lipgloss.Style

	SearchPrompt      *lipgloss.Style
	SearchPlaceholder *lipgloss.Style
}

var defaultStyles = Styles{
	Header: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true),
	),
	Item: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	ItemIndicator: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	SelectedItem: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")).Bold(true),
	),
	Liked: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
	),
	Loading: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true),
	),
	Error: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	),
	Info: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	Footer: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("249")),
	),
	PlayBarTitle: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true),
	),
	PlayBarDetail: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	),
	ProgressDone: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("35")),
	),
	ProgressRest: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	),
	SearchPrompt: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("34")).Bold(true),
	),
	SearchPlaceholder: ptr(
		lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	),
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return &defaultStyles
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
