package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/ledlink/internal/config"
	"github.com/muurk/ledlink/internal/urls"
	"github.com/muurk/ledlink/internal/version"
)

// AppName is shown in the header of every screen
const AppName = "LEDLINK CONTROLLER"

// GitHubURL is the repository shown next to the app name
var GitHubURL = strings.TrimPrefix(urls.Repository, "https://")

// AppVersion returns the application version from the centralized version package
func AppVersion() string {
	return version.Version
}

// Layout constants for responsive terminal width
const (
	MinTerminalWidth = 72  // Minimum supported terminal width
	MaxContentWidth  = 120 // Maximum content width before capping
)

// Color palette. ApplyTheme swaps it between the dark and light variants.
var (
	PrimaryColor   lipgloss.Color
	SecondaryColor lipgloss.Color
	WarningColor   lipgloss.Color
	ErrorColor     lipgloss.Color
	TextColor      lipgloss.Color
	SubtleColor    lipgloss.Color
	BorderColor    lipgloss.Color
	HighlightColor lipgloss.Color
)

// Common styles, rebuilt by ApplyTheme
var (
	TitleStyle            lipgloss.Style
	SubtitleStyle         lipgloss.Style
	MenuItemStyle         lipgloss.Style
	SelectedMenuItemStyle lipgloss.Style
	LabelStyle            lipgloss.Style
	ValueStyle            lipgloss.Style
	ErrorStyle            lipgloss.Style
	StatusOKStyle         lipgloss.Style
	StatusErrorStyle      lipgloss.Style
	SpinnerStyle          lipgloss.Style
	InfoBoxStyle          lipgloss.Style
	WarningBoxStyle       lipgloss.Style
)

func init() {
	ApplyTheme(config.ThemeDark)
}

// ApplyTheme selects the dark or light palette. Unknown names use dark.
func ApplyTheme(theme string) {
	switch theme {
	case config.ThemeLight:
		PrimaryColor = lipgloss.Color("#5A3FD1")
		SecondaryColor = lipgloss.Color("#1E8C45")
		WarningColor = lipgloss.Color("#B36B00")
		ErrorColor = lipgloss.Color("#C00000")
		TextColor = lipgloss.Color("#1A1A1A")
		SubtleColor = lipgloss.Color("#6C6C6C")
	default:
		PrimaryColor = lipgloss.Color("#7D56F4")
		SecondaryColor = lipgloss.Color("#43BF6D")
		WarningColor = lipgloss.Color("#FFA500")
		ErrorColor = lipgloss.Color("#FF0000")
		TextColor = lipgloss.Color("#FFFFFF")
		SubtleColor = lipgloss.Color("#626262")
	}
	BorderColor = PrimaryColor
	HighlightColor = SecondaryColor

	TitleStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true).
		Padding(1, 0)

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(SubtleColor).
		Italic(true)

	MenuItemStyle = lipgloss.NewStyle().
		PaddingLeft(4).
		Foreground(TextColor)

	SelectedMenuItemStyle = lipgloss.NewStyle().
		PaddingLeft(2).
		Foreground(HighlightColor).
		Bold(true)

	LabelStyle = lipgloss.NewStyle().
		Foreground(SubtleColor).
		Width(14).
		PaddingLeft(2)

	ValueStyle = lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true)

	ErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true).
		Padding(1, 2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ErrorColor)

	StatusOKStyle = lipgloss.NewStyle().
		Foreground(SecondaryColor)

	StatusErrorStyle = lipgloss.NewStyle().
		Foreground(ErrorColor).
		Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
		Foreground(PrimaryColor)

	InfoBoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(1, 2)

	WarningBoxStyle = lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true).
		Border(lipgloss.DoubleBorder()).
		BorderForeground(WarningColor).
		Padding(1, 2)
}

// RenderTitle renders a title with consistent styling
func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

// RenderSubtitle renders a subtitle with consistent styling
func RenderSubtitle(text string) string {
	return SubtitleStyle.Render(text)
}

// RenderError renders an error message
func RenderError(text string) string {
	return ErrorStyle.Render("✗ " + text)
}

// BuildHeaderContent creates header content with app name and GitHub URL
func BuildHeaderContent() string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " " + AppVersion())

	right := lipgloss.NewStyle().
		Foreground(SubtleColor).
		Render(GitHubURL)

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

// RenderApplicationContainer wraps every screen: header with name and
// version, the screen content, and a footer carrying the help text. It fills
// the terminal using lipgloss.Place.
func RenderApplicationContainer(content string, footerText string, terminalWidth int, terminalHeight int) string {
	if terminalWidth < MinTerminalWidth {
		terminalWidth = MinTerminalWidth
	}
	if terminalHeight < 10 {
		terminalHeight = 24
	}

	headerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(BorderColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	footerStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(BorderColor).
		Foreground(SubtleColor).
		Width(terminalWidth-4).
		Padding(0, 1)

	contentStyle := lipgloss.NewStyle().
		Width(terminalWidth - 4)

	inner := lipgloss.JoinVertical(
		lipgloss.Left,
		headerStyle.Render(BuildHeaderContent()),
		contentStyle.Render(content),
		footerStyle.Render(footerText),
	)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(BorderColor).
		Width(terminalWidth - 2).
		Height(terminalHeight - 2).
		AlignVertical(lipgloss.Top).
		Render(inner)

	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Left, lipgloss.Top, bordered)
}

// RenderModal centers a modal on a dimmed screen
func RenderModal(modalContent string, terminalWidth int, terminalHeight int) string {
	return lipgloss.Place(
		terminalWidth,
		terminalHeight,
		lipgloss.Center,
		lipgloss.Center,
		modalContent,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("240")),
	)
}

// SafeModalWidth returns the smaller of requestedWidth and the usable
// terminal width, never below 40
func SafeModalWidth(requestedWidth, terminalWidth int) int {
	maxWidth := terminalWidth - 4
	if maxWidth < 40 {
		maxWidth = 40
	}
	if requestedWidth < maxWidth {
		return requestedWidth
	}
	return maxWidth
}
