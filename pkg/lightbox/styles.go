package lightbox

import "github.com/charmbracelet/lipgloss"

// Colors
var (
	Primary      = lipgloss.Color("212")
	Muted        = lipgloss.Color("241")
	Error        = lipgloss.Color("196")
	BgSecondary  = lipgloss.Color("235") // lightbox background
	BorderNormal = lipgloss.Color("240")
)

// Button styles
var (
	Button = lipgloss.NewStyle().
		Foreground(lipgloss.Color("252")).
		Background(lipgloss.Color("238")).
		Padding(0, 2)

	ButtonFocused = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(Primary).
			Bold(true).
			Padding(0, 2)
)

// Text styles
var (
	Title     = lipgloss.NewStyle().Bold(true)
	MutedText = lipgloss.NewStyle().Foreground(Muted)
	ErrorText = lipgloss.NewStyle().Foreground(Error)
	Body      = lipgloss.NewStyle()
)

// Frame is the lightbox border.
var Frame = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Primary).
	Background(BgSecondary).
	Padding(1, 2)

// PageFrame wraps the page behind the lightbox.
var PageFrame = lipgloss.NewStyle().
	Border(lipgloss.NormalBorder()).
	BorderForeground(BorderNormal).
	Padding(0, 1)
