package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/ledlink/internal/led"
	"github.com/muurk/ledlink/internal/udp"
)

const (
	brightnessStep = 16
	speedStep      = 5
	statsInterval  = 500 * time.Millisecond
)

// Messages for async operations
type connectResultMsg struct {
	config led.Config
	err    error
}

type commandResultMsg struct {
	label string
	err   error
}

type statsTickMsg struct{}

// controlKeyMap defines key bindings for the control screen
type controlKeyMap struct {
	BrightUp   key.Binding
	BrightDown key.Binding
	NextEffect key.Binding
	PrevEffect key.Binding
	Breath     key.Binding
	Direction  key.Binding
	SpeedUp    key.Binding
	SpeedDown  key.Binding
	Toggle     key.Binding
	Save       key.Binding
	Reconnect  key.Binding
	Back       key.Binding
	Quit       key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k controlKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.BrightDown, k.BrightUp, k.NextEffect, k.Toggle, k.Save, k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k controlKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.BrightDown, k.BrightUp, k.NextEffect, k.PrevEffect},
		{k.Breath, k.Direction, k.SpeedDown, k.SpeedUp},
		{k.Toggle, k.Save, k.Reconnect, k.Back, k.Quit},
	}
}

// ControlModel drives one controller. After a successful connect a
// heartbeat keeps re-sending the local config, so adjustments only change
// the local copy.
type ControlModel struct {
	Device     udp.DeviceRecord
	Nickname   string
	Controller *led.Controller
	Heartbeat  *led.Heartbeat

	Connecting bool
	Lit        bool
	Status     string
	StatusErr  bool
	Confirm    *ConfirmModel
	Back       bool

	QuitRequested bool

	// Remember is called on the UI goroutine after each successful connect
	Remember func(ip string, cfg led.Config)

	Width   int
	Height  int
	Spinner spinner.Model
	Help    help.Model
	Keys    controlKeyMap

	ctx context.Context
}

// NewControlModel creates the control screen for device
func NewControlModel(ctx context.Context, device udp.DeviceRecord, nickname string, transport led.Transport, interval time.Duration) ControlModel {
	if ctx == nil {
		ctx = context.Background()
	}

	controller := led.NewController(device.IP, transport)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	h := help.New()
	h.ShowAll = true

	return ControlModel{
		Device:     device,
		Nickname:   nickname,
		Controller: controller,
		Heartbeat:  led.NewHeartbeat(controller, interval),
		Connecting: true,
		Lit:        true,
		Status:     "Reading config from " + device.IP,
		Spinner:    s,
		Help:       h,
		Keys: controlKeyMap{
			BrightUp: key.NewBinding(
				key.WithKeys("right", "l"),
				key.WithHelp("→/l", "brighter"),
			),
			BrightDown: key.NewBinding(
				key.WithKeys("left", "h"),
				key.WithHelp("←/h", "dimmer"),
			),
			NextEffect: key.NewBinding(
				key.WithKeys("e", "tab"),
				key.WithHelp("e", "next effect"),
			),
			PrevEffect: key.NewBinding(
				key.WithKeys("E", "shift+tab"),
				key.WithHelp("E", "prev effect"),
			),
			Breath: key.NewBinding(
				key.WithKeys("b"),
				key.WithHelp("b", "breathing"),
			),
			Direction: key.NewBinding(
				key.WithKeys("d"),
				key.WithHelp("d", "direction"),
			),
			SpeedUp: key.NewBinding(
				key.WithKeys("+", "="),
				key.WithHelp("+", "faster"),
			),
			SpeedDown: key.NewBinding(
				key.WithKeys("-"),
				key.WithHelp("-", "slower"),
			),
			Toggle: key.NewBinding(
				key.WithKeys(" "),
				key.WithHelp("space", "on/off"),
			),
			Save: key.NewBinding(
				key.WithKeys("s"),
				key.WithHelp("s", "save"),
			),
			Reconnect: key.NewBinding(
				key.WithKeys("c"),
				key.WithHelp("c", "reconnect"),
			),
			Back: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "back"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q"),
				key.WithHelp("q", "quit"),
			),
		},
		ctx: ctx,
	}
}

// Init connects to the controller
func (m ControlModel) Init() tea.Cmd {
	return tea.Batch(m.connectCmd(), tickStats())
}

// beginConnect marks the model as connecting and returns the connect command
func (m *ControlModel) beginConnect() tea.Cmd {
	m.Connecting = true
	m.setStatus("Reading config from " + m.Device.IP)
	return m.connectCmd()
}

func (m ControlModel) connectCmd() tea.Cmd {
	controller, ctx := m.Controller, m.ctx
	return tea.Batch(
		m.Spinner.Tick,
		func() tea.Msg {
			cfg, err := controller.Connect(ctx)
			return connectResultMsg{config: cfg, err: err}
		},
	)
}

func tickStats() tea.Cmd {
	return tea.Tick(statsInterval, func(time.Time) tea.Msg { return statsTickMsg{} })
}

func (m ControlModel) command(label, cmd string) tea.Cmd {
	controller, ctx := m.Controller, m.ctx
	return func() tea.Msg {
		return commandResultMsg{label: label, err: controller.Command(ctx, cmd)}
	}
}

// Stop ends the heartbeat
func (m ControlModel) Stop() {
	if m.Heartbeat != nil {
		m.Heartbeat.Stop()
	}
}

// Update handles messages and updates the model
func (m ControlModel) Update(msg tea.Msg) (ControlModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		return m, nil

	case connectResultMsg:
		m.Connecting = false
		if msg.err != nil {
			m.setError("Connect failed: " + udp.ShortMessage(msg.err))
			return m, nil
		}
		m.Heartbeat.Start(m.ctx)
		m.setStatus(fmt.Sprintf("Connected • %d LEDs • %s", msg.config.TotalLEDs, msg.config.Effect))
		if m.Remember != nil {
			m.Remember(m.Device.IP, msg.config)
		}
		return m, nil

	case commandResultMsg:
		if msg.err != nil {
			m.setError(msg.label + " failed: " + udp.ShortMessage(msg.err))
		} else {
			m.setStatus(msg.label)
		}
		return m, nil

	case statsTickMsg:
		return m, tickStats()

	case spinner.TickMsg:
		if !m.Connecting {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.Confirm != nil {
			return m.updateConfirm(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m ControlModel) updateConfirm(msg tea.KeyMsg) (ControlModel, tea.Cmd) {
	confirm, _ := m.Confirm.Update(msg)
	if !confirm.Done {
		m.Confirm = &confirm
		return m, nil
	}

	m.Confirm = nil
	if !confirm.Confirmed {
		m.setStatus("Save cancelled")
		return m, nil
	}
	return m, m.command("Saved to flash", led.CmdSave)
}

func (m ControlModel) updateKeys(msg tea.KeyMsg) (ControlModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.QuitRequested = true
		return m, nil

	case key.Matches(msg, m.Keys.Back):
		m.Back = true
		return m, nil

	case key.Matches(msg, m.Keys.Reconnect):
		if m.Connecting {
			return m, nil
		}
		return m, m.beginConnect()
	}

	if !m.Controller.Connected() {
		m.setError(capitalize(led.ErrNotConnected.Error()) + " (press c to retry)")
		return m, nil
	}

	switch {
	case key.Matches(msg, m.Keys.BrightUp):
		cfg := m.adjust(func(c *led.Config) { c.Bright = min(c.Bright+brightnessStep, 255) })
		m.setStatus(fmt.Sprintf("Brightness %d", cfg.Bright))

	case key.Matches(msg, m.Keys.BrightDown):
		cfg := m.adjust(func(c *led.Config) { c.Bright = max(c.Bright-brightnessStep, 0) })
		m.setStatus(fmt.Sprintf("Brightness %d", cfg.Bright))

	case key.Matches(msg, m.Keys.NextEffect):
		cfg := m.adjust(func(c *led.Config) { c.Effect = shiftEffect(c.Effect, 1) })
		m.setStatus("Effect " + cfg.Effect.String())

	case key.Matches(msg, m.Keys.PrevEffect):
		cfg := m.adjust(func(c *led.Config) { c.Effect = shiftEffect(c.Effect, -1) })
		m.setStatus("Effect " + cfg.Effect.String())

	case key.Matches(msg, m.Keys.Breath):
		cfg := m.adjust(func(c *led.Config) { c.BreathEnabled = !c.BreathEnabled })
		m.setStatus("Breathing " + onOff(cfg.BreathEnabled))

	case key.Matches(msg, m.Keys.Direction):
		cfg := m.adjust(func(c *led.Config) { c.Dir = -c.Dir })
		m.setStatus("Direction " + directionName(cfg.Dir))

	case key.Matches(msg, m.Keys.SpeedUp):
		cfg := m.adjust(func(c *led.Config) { c.FlowSpeed = min(c.FlowSpeed+speedStep, 100) })
		m.setStatus(fmt.Sprintf("Speed %d", cfg.FlowSpeed))

	case key.Matches(msg, m.Keys.SpeedDown):
		cfg := m.adjust(func(c *led.Config) { c.FlowSpeed = max(c.FlowSpeed-speedStep, 0) })
		m.setStatus(fmt.Sprintf("Speed %d", cfg.FlowSpeed))

	case key.Matches(msg, m.Keys.Toggle):
		m.Lit = !m.Lit
		if m.Lit {
			return m, m.command("All LEDs on", led.CmdAllOn)
		}
		return m, m.command("All LEDs off", led.CmdAllOff)

	case key.Matches(msg, m.Keys.Save):
		confirm := NewConfirmModel("Save to flash?",
			"The current config becomes the power-on default",
			"Flash has limited write cycles",
		)
		confirm.Width = m.Width
		m.Confirm = &confirm
	}

	return m, nil
}

// adjust edits the local config. The heartbeat delivers it.
func (m ControlModel) adjust(fn func(*led.Config)) led.Config {
	return m.Controller.Update(fn)
}

func (m *ControlModel) setStatus(s string) {
	m.Status = s
	m.StatusErr = false
}

func (m *ControlModel) setError(s string) {
	m.Status = s
	m.StatusErr = true
}

func shiftEffect(e led.Effect, delta int) led.Effect {
	n := len(led.EffectNames())
	return led.Effect(((int(e)+delta)%n + n) % n)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func directionName(dir int) string {
	if dir == led.DirReverse {
		return "reverse"
	}
	return "forward"
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// View renders the control screen
func (m ControlModel) View() string {
	if m.Confirm != nil {
		return RenderModal(m.Confirm.View(), max(m.Width, MinTerminalWidth), max(m.Height, 24))
	}
	return RenderApplicationContainer(m.renderContent(), m.Help.View(m.Keys), m.Width, m.Height)
}

func (m ControlModel) renderContent() string {
	var b strings.Builder

	name := m.Nickname
	if name == "" {
		name = "Controller " + m.Device.IP
	}
	b.WriteString(RenderTitle("  " + name))
	b.WriteString("\n")

	cfg := m.Controller.Config()
	connection := StatusErrorStyle.Render("disconnected")
	switch {
	case m.Connecting:
		connection = m.Spinner.View() + " connecting"
	case m.Controller.Connected():
		connection = StatusOKStyle.Render("connected")
	}

	mac := m.Device.MAC
	if mac == "" {
		mac = "-"
	}

	rows := [][2]string{
		{"Address", fmt.Sprintf("%s:%d", m.Device.IP, udp.Port)},
		{"MAC", mac},
		{"Link", connection},
		{"", ""},
		{"Power", onOff(m.Lit)},
		{"Effect", cfg.Effect.String()},
		{"Brightness", fmt.Sprintf("%d %s", cfg.Bright, meter(cfg.Bright, 255, 20))},
		{"Breathing", fmt.Sprintf("%s (freq %d)", onOff(cfg.BreathEnabled), cfg.BreathFreq)},
		{"Direction", directionName(cfg.Dir)},
		{"Speed", fmt.Sprintf("%d %s", cfg.FlowSpeed, meter(cfg.FlowSpeed, 100, 20))},
		{"Colour", lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Color())).Render("██") + " " + cfg.Color()},
		{"LEDs", fmt.Sprintf("%d active of %d", cfg.ActiveLen, cfg.TotalLEDs)},
	}
	for _, row := range rows {
		if row[0] == "" {
			b.WriteString("\n")
			continue
		}
		b.WriteString(LabelStyle.Render(row[0]+":") + " " + ValueStyle.Render(row[1]) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())
	b.WriteString("\n")
	return b.String()
}

func (m ControlModel) renderStatusLine() string {
	status := m.Status
	if m.StatusErr {
		status = StatusErrorStyle.Render(status)
	} else {
		status = StatusOKStyle.Render(status)
	}

	stats := m.Heartbeat.Stats()
	sync := SubtitleStyle.Render(fmt.Sprintf("sync every %s • sent %d • failed %d • skipped %d",
		m.Heartbeat.Interval(), stats.Sent, stats.Failed, stats.Skipped))

	return "  " + status + "\n  " + sync
}

// meter renders value as a bar of width cells
func meter(value, maxValue, width int) string {
	if maxValue <= 0 {
		return ""
	}
	filled := value * width / maxValue
	filled = max(0, min(filled, width))
	return lipgloss.NewStyle().Foreground(PrimaryColor).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(SubtleColor).Render(strings.Repeat("░", width-filled))
}
