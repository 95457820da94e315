package tui

import "github.com/charmbracelet/lipgloss"

// Theme colors - "Ember" palette matching the web page
var (
	PrimaryColor = lipgloss.Color("#F97316") // Orange 500
	AccentColor  = lipgloss.Color("#FDBA74") // Orange 300
	ErrorColor   = lipgloss.Color("#EF4444") // Red 500
	MutedColor   = lipgloss.Color("#6B7280") // Gray 500
	TextPrimary  = lipgloss.Color("#F8FAFC")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(AccentColor).
			Padding(0, 1).
			MarginBottom(1)

	LabelStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	CounterStyle = lipgloss.NewStyle().
			Foreground(MutedColor)

	CounterNearStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor)

	WarnBannerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(PrimaryColor).
			PaddingLeft(1)

	ErrorBannerStyle = lipgloss.NewStyle().
				Foreground(ErrorColor).
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(ErrorColor).
				PaddingLeft(1)

	ButtonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000000")).
			Background(PrimaryColor).
			Padding(0, 3)

	ButtonDisabledStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				Background(lipgloss.Color("#1F2937")).
				Padding(0, 3)

	OutputStyle = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(0, 1)

	AlertStyle = lipgloss.NewStyle().
			Foreground(TextPrimary).
			Background(ErrorColor).
			Bold(true).
			Padding(1, 2)

	HelpStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			MarginTop(1)
)
