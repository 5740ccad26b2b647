package tui

import (
	"context"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/ledlink/internal/config"
	"github.com/muurk/ledlink/internal/led"
	"github.com/muurk/ledlink/internal/logging"
	"github.com/muurk/ledlink/internal/udp"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenDiscovery Screen = "discovery"
	ScreenControl   Screen = "control"
)

// Client is the UDP surface the app needs. *udp.Client implements it.
type Client interface {
	led.Transport
	ScanContext(ctx context.Context) ([]udp.DeviceRecord, error)
}

// Options configure the application
type Options struct {
	Context context.Context
	Client  Client

	// ScanWindow drives the scan progress bar
	ScanWindow time.Duration

	// HeartbeatInterval is the config re-send interval on the control screen
	HeartbeatInterval time.Duration

	// Registry supplies nicknames and records scans and connections. Optional.
	Registry *config.Registry

	// SaveRegistry persists Registry after it changes. Optional.
	SaveRegistry func(*config.Registry) error

	// DeviceIP skips discovery and opens the control screen directly
	DeviceIP string
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	CurrentScreen  Screen
	PreviousScreen Screen

	Discovery DiscoveryModel
	Control   ControlModel

	Width  int
	Height int

	opts Options
}

// NewAppModel creates the application. It starts on the control screen when
// opts.DeviceIP is set and on discovery otherwise.
func NewAppModel(opts Options) AppModel {
	if opts.Context == nil {
		opts.Context = context.Background()
	}

	m := AppModel{opts: opts}
	m.Discovery = m.newDiscovery()

	if opts.DeviceIP != "" {
		m.CurrentScreen = ScreenControl
		m.Control = m.newControl(m.deviceFor(opts.DeviceIP))
	} else {
		m.CurrentScreen = ScreenDiscovery
	}
	return m
}

func (m AppModel) newDiscovery() DiscoveryModel {
	var scan ScanFunc
	if m.opts.Client != nil {
		scan = m.opts.Client.ScanContext
	}
	d := NewDiscoveryModel(m.opts.Context, scan, m.opts.ScanWindow)
	d.Nicknames = m.nicknames()
	d.Width, d.Height = m.Width, m.Height
	if m.Width > 0 {
		d.DeviceList.SetDelegate(deviceDelegate{width: m.Width})
		d.DeviceList.SetSize(m.Width-4, m.Height-10)
	}
	return d
}

func (m AppModel) newControl(device udp.DeviceRecord, nickname string) ControlModel {
	c := NewControlModel(m.opts.Context, device, nickname, m.opts.Client, m.opts.HeartbeatInterval)
	c.Width, c.Height = m.Width, m.Height
	if m.opts.Registry != nil {
		c.Remember = m.remember
	}
	return c
}

// deviceFor builds a device record for ip using whatever the registry knows
func (m AppModel) deviceFor(ip string) (udp.DeviceRecord, string) {
	record := udp.DeviceRecord{IP: ip}
	if m.opts.Registry == nil {
		return record, ""
	}
	if mac, dev, ok := m.opts.Registry.Lookup(ip); ok {
		record.MAC = mac
		return record, dev.Nickname
	}
	return record, ""
}

func (m AppModel) nicknames() map[string]string {
	names := make(map[string]string)
	if m.opts.Registry == nil {
		return names
	}
	for mac, dev := range m.opts.Registry.Devices {
		if dev != nil && dev.Nickname != "" {
			names[strings.ToLower(mac)] = dev.Nickname
		}
	}
	return names
}

func (m AppModel) remember(ip string, cfg led.Config) {
	if m.opts.Registry.RememberConfig(ip, cfg) {
		m.saveRegistry()
	}
}

func (m AppModel) saveRegistry() {
	if m.opts.SaveRegistry == nil {
		return
	}
	if err := m.opts.SaveRegistry(m.opts.Registry); err != nil {
		logging.Warn("Failed to save device registry", zap.Error(err))
	}
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenControl:
		return m.Control.Init()
	default:
		return m.Discovery.Init()
	}
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Discovery, _ = m.Discovery.Update(msg)
		m.Control, _ = m.Control.Update(msg)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}

	case scanCompleteMsg:
		if m.opts.Registry != nil && len(msg.records) > 0 {
			if added := m.opts.Registry.RecordScan(msg.records); added > 0 {
				logging.Info("New controllers discovered", zap.Int("count", added))
			}
			m.saveRegistry()
		}
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenDiscovery:
		m.Discovery, cmd = m.Discovery.Update(msg)
		if m.Discovery.QuitRequested {
			return m.quit()
		}
		if record, nickname, ok := m.Discovery.SelectedDevice(); ok {
			m.Discovery.Selected = false
			return m.transitionTo(ScreenControl, record, nickname)
		}

	case ScreenControl:
		m.Control, cmd = m.Control.Update(msg)
		if m.Control.QuitRequested {
			return m.quit()
		}
		if m.Control.Back {
			return m.transitionTo(ScreenDiscovery, udp.DeviceRecord{}, "")
		}
	}

	return m, cmd
}

// transitionTo switches screens. Leaving the control screen stops its heartbeat.
func (m AppModel) transitionTo(screen Screen, device udp.DeviceRecord, nickname string) (tea.Model, tea.Cmd) {
	if m.CurrentScreen == ScreenControl {
		m.Control.Stop()
	}
	m.PreviousScreen = m.CurrentScreen
	m.CurrentScreen = screen

	switch screen {
	case ScreenControl:
		m.Control = m.newControl(device, nickname)
		return m, m.Control.Init()
	default:
		m.Discovery = m.newDiscovery()
		return m, m.Discovery.Init()
	}
}

func (m AppModel) quit() (tea.Model, tea.Cmd) {
	if m.CurrentScreen == ScreenControl {
		m.Control.Stop()
	}
	return m, tea.Quit
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenControl:
		return m.Control.View()
	default:
		return m.Discovery.View()
	}
}

// Run starts the application in the alternate screen and blocks until it exits
func Run(opts Options) error {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	program := tea.NewProgram(NewAppModel(opts), tea.WithAltScreen(), tea.WithContext(opts.Context))
	final, err := program.Run()
	if app, ok := final.(AppModel); ok && app.CurrentScreen == ScreenControl {
		app.Control.Stop()
	}
	return err
}
