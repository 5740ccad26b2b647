package tui

import (
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/ledlink/internal/udp"
)

// ScanFunc runs one discovery scan
type ScanFunc func(ctx context.Context) ([]udp.DeviceRecord, error)

// Messages for async operations
type scanStartMsg struct{}
type scanCompleteMsg struct {
	records []udp.DeviceRecord
	err     error
}

// discoveryKeyMap defines key bindings for the discovery screen
type discoveryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k discoveryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Manual, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k discoveryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Manual, k.Quit},
	}
}

// manualModeKeyMap defines key bindings for manual IP entry mode
type manualModeKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k manualModeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k manualModeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}}
}

// scanningKeyMap defines key bindings while a scan runs
type scanningKeyMap struct {
	Manual key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k scanningKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Manual, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k scanningKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Manual, k.Quit}}
}

// deviceItem wraps a discovered controller for use with bubbles/list
type deviceItem struct {
	record   udp.DeviceRecord
	nickname string
	manual   bool
}

// FilterValue implements list.Item
func (d deviceItem) FilterValue() string {
	return d.nickname + " " + d.record.IP + " " + d.record.MAC
}

// Title returns the device name for list display
func (d deviceItem) Title() string {
	switch {
	case d.manual:
		return "Manual: " + d.record.IP
	case d.nickname != "":
		return d.nickname
	default:
		return "Controller " + d.record.IP
	}
}

// Description returns device details for list display
func (d deviceItem) Description() string {
	mac := d.record.MAC
	if mac == "" {
		mac = "unknown MAC"
	}
	return fmt.Sprintf("%s:%d • %s", d.record.IP, udp.Port, mac)
}

// deviceDelegate renders each device as a small card
type deviceDelegate struct {
	width int
}

func (d deviceDelegate) Height() int { return 5 }

func (d deviceDelegate) Spacing() int { return 0 }

func (d deviceDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d deviceDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	device, ok := item.(deviceItem)
	if !ok {
		return
	}
	selected := index == m.Index()

	var content strings.Builder
	if selected {
		content.WriteString(SelectedMenuItemStyle.Render("→ " + device.Title()))
	} else {
		content.WriteString("  " + device.Title())
	}
	content.WriteString("\n")
	content.WriteString(lipgloss.NewStyle().Foreground(SubtleColor).Render("    " + device.Description()))

	cardWidth := d.width - 6
	if cardWidth < MinTerminalWidth-6 {
		cardWidth = MinTerminalWidth - 6
	}
	if cardWidth > MaxContentWidth-6 {
		cardWidth = MaxContentWidth - 6
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		MarginLeft(2).
		Width(cardWidth)
	if selected {
		cardStyle = cardStyle.BorderForeground(HighlightColor)
	}

	fmt.Fprint(w, cardStyle.Render(content.String()))
}

// DiscoveryModel represents the device discovery screen state
type DiscoveryModel struct {
	// Discovery state
	Scanning      bool
	DeviceList    list.Model
	Selected      bool
	QuitRequested bool
	Err           error

	// Manual IP entry state
	ManualMode bool
	IPInput    textinput.Model
	InputErr   string

	// Nicknames maps lower-case MAC to the name stored in the registry
	Nicknames map[string]string

	// UI state
	Width         int
	Height        int
	Spinner       spinner.Model
	ProgressBar   progress.Model
	ScanStartTime time.Time
	ScanWindow    time.Duration
	Help          help.Model
	Keys          discoveryKeyMap
	ManualKeys    manualModeKeyMap
	ScanningKeys  scanningKeyMap

	ctx  context.Context
	scan ScanFunc
}

// NewDiscoveryModel creates a discovery screen that runs scan on start and
// on rescan. window is the expected scan duration and drives the progress bar.
func NewDiscoveryModel(ctx context.Context, scan ScanFunc, window time.Duration) DiscoveryModel {
	if ctx == nil {
		ctx = context.Background()
	}
	if window <= 0 {
		window = udp.ScanWindow
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	ipInput := textinput.New()
	ipInput.Placeholder = "192.168.1.117"
	ipInput.CharLimit = 15
	ipInput.Width = 30

	progressBar := progress.New(progress.WithDefaultGradient())
	progressBar.Width = 40

	deviceList := list.New([]list.Item{}, deviceDelegate{width: MinTerminalWidth}, 0, 0)
	deviceList.Title = "Discovered Controllers"
	deviceList.SetShowStatusBar(false)
	deviceList.SetShowHelp(false)
	deviceList.SetFilteringEnabled(false)
	deviceList.Styles.Title = TitleStyle

	return DiscoveryModel{
		DeviceList:  deviceList,
		IPInput:     ipInput,
		Nicknames:   make(map[string]string),
		Spinner:     s,
		ProgressBar: progressBar,
		ScanWindow:  window,
		Help:        help.New(),
		Keys: discoveryKeyMap{
			Up: key.NewBinding(
				key.WithKeys("up", "k"),
				key.WithHelp("↑/k", "move up"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "j"),
				key.WithHelp("↓/j", "move down"),
			),
			Enter: key.NewBinding(
				key.WithKeys("enter", " "),
				key.WithHelp("enter", "control"),
			),
			Rescan: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "rescan"),
			),
			Manual: key.NewBinding(
				key.WithKeys("m"),
				key.WithHelp("m", "manual IP"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "esc"),
				key.WithHelp("q", "quit"),
			),
		},
		ManualKeys: manualModeKeyMap{
			Confirm: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "confirm"),
			),
			Cancel: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "cancel"),
			),
		},
		ScanningKeys: scanningKeyMap{
			Manual: key.NewBinding(
				key.WithKeys("m"),
				key.WithHelp("m", "manual IP"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q"),
				key.WithHelp("q", "quit"),
			),
		},
		ctx:  ctx,
		scan: scan,
	}
}

// Init starts the first scan
func (m DiscoveryModel) Init() tea.Cmd {
	return m.startScan()
}

func (m DiscoveryModel) startScan() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return scanStartMsg{} },
		m.scanCmd(),
		m.Spinner.Tick,
	)
}

func (m DiscoveryModel) scanCmd() tea.Cmd {
	scan, ctx := m.scan, m.ctx
	return func() tea.Msg {
		if scan == nil {
			return scanCompleteMsg{}
		}
		records, err := scan(ctx)
		return scanCompleteMsg{records: records, err: err}
	}
}

// Update handles messages and updates the model
func (m DiscoveryModel) Update(msg tea.Msg) (DiscoveryModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.ManualMode {
			return m.updateManualMode(msg)
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.DeviceList.SetDelegate(deviceDelegate{width: msg.Width})
		m.DeviceList.SetWidth(msg.Width - 4)
		m.DeviceList.SetHeight(msg.Height - 10)

	case scanStartMsg:
		m.Scanning = true
		m.ScanStartTime = time.Now()

	case scanCompleteMsg:
		m.Scanning = false
		m.Err = msg.err
		m.setRecords(msg.records)

	case spinner.TickMsg:
		if !m.Scanning {
			return m, nil
		}
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// setRecords replaces the scanned items and keeps manual entries on top
func (m *DiscoveryModel) setRecords(records []udp.DeviceRecord) {
	var items []list.Item
	for _, item := range m.DeviceList.Items() {
		if d, ok := item.(deviceItem); ok && d.manual {
			items = append(items, d)
		}
	}
	for _, r := range records {
		items = append(items, deviceItem{
			record:   r,
			nickname: m.Nicknames[strings.ToLower(r.MAC)],
		})
	}
	m.DeviceList.SetItems(items)
}

// updateNormalMode handles keyboard input in the device list
func (m DiscoveryModel) updateNormalMode(msg tea.KeyMsg) (DiscoveryModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.QuitRequested = true
		return m, nil

	case key.Matches(msg, m.Keys.Manual):
		m.ManualMode = true
		m.InputErr = ""
		m.IPInput.SetValue("")
		return m, m.IPInput.Focus()

	case m.Scanning:
		return m, nil

	case key.Matches(msg, m.Keys.Enter):
		if m.DeviceList.SelectedItem() != nil {
			m.Selected = true
		}
		return m, nil

	case key.Matches(msg, m.Keys.Rescan):
		m.Err = nil
		return m, m.startScan()
	}

	var cmd tea.Cmd
	m.DeviceList, cmd = m.DeviceList.Update(msg)
	return m, cmd
}

// updateManualMode handles keyboard input in manual IP entry mode
func (m DiscoveryModel) updateManualMode(msg tea.KeyMsg) (DiscoveryModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.ManualKeys.Cancel):
		m.ManualMode = false
		m.InputErr = ""
		m.IPInput.SetValue("")
		m.IPInput.Blur()
		return m, nil

	case key.Matches(msg, m.ManualKeys.Confirm):
		value := strings.TrimSpace(m.IPInput.Value())
		ip := net.ParseIP(value)
		if ip == nil || ip.To4() == nil {
			m.InputErr = fmt.Sprintf("%q is not an IPv4 address", value)
			return m, nil
		}

		item := deviceItem{record: udp.DeviceRecord{IP: ip.String()}, manual: true}
		m.DeviceList.SetItems(append([]list.Item{item}, m.DeviceList.Items()...))
		m.DeviceList.Select(0)
		m.ManualMode = false
		m.InputErr = ""
		m.IPInput.SetValue("")
		m.IPInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.IPInput, cmd = m.IPInput.Update(msg)
	return m, cmd
}

// SelectedDevice returns the chosen device, if any
func (m DiscoveryModel) SelectedDevice() (udp.DeviceRecord, string, bool) {
	if !m.Selected {
		return udp.DeviceRecord{}, "", false
	}
	item, ok := m.DeviceList.SelectedItem().(deviceItem)
	if !ok {
		return udp.DeviceRecord{}, "", false
	}
	return item.record, item.nickname, true
}

// Progress returns the scan progress in [0,1] based on elapsed time
func (m DiscoveryModel) Progress(now time.Time) float64 {
	if !m.Scanning || m.ScanWindow <= 0 {
		return 0
	}
	p := float64(now.Sub(m.ScanStartTime)) / float64(m.ScanWindow)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// View renders the discovery screen
func (m DiscoveryModel) View() string {
	width := m.Width
	if width == 0 {
		width = MinTerminalWidth
	}

	var content, helpText string
	switch {
	case m.ManualMode:
		content = m.renderManualEntry()
		helpText = m.Help.View(m.ManualKeys)
	case m.Scanning:
		content = m.renderScanning(width)
		helpText = m.Help.View(m.ScanningKeys)
	default:
		content = m.renderDeviceResults()
		helpText = m.Help.View(m.Keys)
	}

	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

func (m DiscoveryModel) renderScanning(width int) string {
	elapsed := time.Since(m.ScanStartTime)

	content := lipgloss.JoinVertical(lipgloss.Center,
		"",
		TitleStyle.Render(fmt.Sprintf("%s SEARCHING FOR CONTROLLERS", m.Spinner.View())),
		SubtitleStyle.Render(fmt.Sprintf("Broadcasting discover on UDP port %d...", udp.Port)),
		"",
		m.ProgressBar.ViewAs(m.Progress(time.Now())),
		"",
		SubtitleStyle.Render(fmt.Sprintf("Elapsed: %.1fs", elapsed.Seconds())),
		"",
	)
	return lipgloss.Place(width, 0, lipgloss.Center, lipgloss.Top, content)
}

func (m DiscoveryModel) renderDeviceResults() string {
	var b strings.Builder
	b.WriteString("\n")

	troubleshooting := func() {
		b.WriteString("  Troubleshooting:\n")
		b.WriteString("    • Ensure the controller is powered on and joined to WiFi\n")
		b.WriteString("    • Check that this machine is on the same network segment\n")
		b.WriteString(fmt.Sprintf("    • Make sure UDP port %d is not blocked by a firewall\n", udp.Port))
		b.WriteString("    • Press 'm' to enter the controller IP manually\n")
	}

	switch {
	case m.Err != nil && len(m.DeviceList.Items()) == 0:
		b.WriteString(RenderError(fmt.Sprintf("Scan failed: %s", udp.ShortMessage(m.Err))))
		b.WriteString("\n\n")
		troubleshooting()

	case len(m.DeviceList.Items()) == 0:
		warningStyle := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
		b.WriteString("  " + warningStyle.Render("⚠ No controllers answered the scan"))
		b.WriteString("\n\n")
		troubleshooting()

	default:
		if m.Err != nil {
			b.WriteString(StatusErrorStyle.Render("  Scan ended early: " + udp.ShortMessage(m.Err)))
			b.WriteString("\n")
		}
		b.WriteString(m.DeviceList.View())
	}

	return b.String()
}

func (m DiscoveryModel) renderManualEntry() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(RenderSubtitle("  Enter controller IP address"))
	b.WriteString("\n\n")
	b.WriteString("  IP Address: ")
	b.WriteString(m.IPInput.View())
	b.WriteString("\n\n")
	if m.InputErr != "" {
		b.WriteString(StatusErrorStyle.Render("  " + m.InputErr))
		b.WriteString("\n")
	}

	return b.String()
}
