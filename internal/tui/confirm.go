package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// confirmKeyMap defines key bindings for the confirm dialog
type confirmKeyMap struct {
	Yes key.Binding
	No  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k confirmKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Yes, k.No}
}

// FullHelp returns keybindings for the expanded help view
func (k confirmKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Yes, k.No}}
}

// ConfirmModel is a yes/no dialog. The owner checks Done and Confirmed after
// each Update.
type ConfirmModel struct {
	Title     string
	Lines     []string
	Done      bool
	Confirmed bool

	Width int
	Help  help.Model
	Keys  confirmKeyMap
}

// NewConfirmModel creates a dialog asking title with the given detail lines
func NewConfirmModel(title string, lines ...string) ConfirmModel {
	return ConfirmModel{
		Title: title,
		Lines: lines,
		Help:  help.New(),
		Keys: confirmKeyMap{
			Yes: key.NewBinding(
				key.WithKeys("y", "Y"),
				key.WithHelp("y", "confirm"),
			),
			No: key.NewBinding(
				key.WithKeys("n", "N", "esc"),
				key.WithHelp("n/esc", "cancel"),
			),
		},
	}
}

// Update handles y/n keys
func (m ConfirmModel) Update(msg tea.Msg) (ConfirmModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || m.Done {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.Keys.Yes):
		m.Done = true
		m.Confirmed = true
	case key.Matches(keyMsg, m.Keys.No):
		m.Done = true
		m.Confirmed = false
	}
	return m, nil
}

// View renders the dialog box
func (m ConfirmModel) View() string {
	var b strings.Builder
	b.WriteString("⚠  " + m.Title)
	b.WriteString("\n\n")
	for _, line := range m.Lines {
		b.WriteString(lipgloss.NewStyle().Foreground(TextColor).Bold(false).Render("• " + line))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.Help.View(m.Keys))

	width := m.Width
	if width == 0 {
		width = MinTerminalWidth
	}
	return WarningBoxStyle.Width(SafeModalWidth(60, width)).Render(b.String())
}
