package config

import (
	"strings"
	"time"

	"github.com/muurk/ledlink/internal/led"
	"github.com/muurk/ledlink/internal/udp"
)

// Themes accepted by Preferences.Theme
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// DefaultDeviceIP is the controller address used before anything is discovered
const DefaultDeviceIP = "192.168.1.117"

// Registry represents the entire user configuration file.
// This stores what we have learned about controllers and application preferences.
type Registry struct {
	Version     int                `yaml:"version"`
	Devices     map[string]*Device `yaml:"devices,omitempty"` // Keyed by lower-case MAC address
	Preferences *Preferences       `yaml:"preferences,omitempty"`
}

// Device represents what is remembered about a single LED controller.
type Device struct {
	Nickname string      `yaml:"nickname,omitempty"`  // User-friendly name
	LastIP   string      `yaml:"last_ip,omitempty"`   // Last known IP address
	LastSeen time.Time   `yaml:"last_seen,omitempty"` // Last discovery/connection time
	Config   *led.Config `yaml:"config,omitempty"`    // Last config read from or sent to the device
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultIP       string `yaml:"default_ip"`       // Controller used when --device is not given
	Theme           string `yaml:"theme"`            // "dark" or "light"
	HeartbeatMillis int    `yaml:"heartbeat_millis"` // Config re-send interval while connected
}

// defaultPreferences returns the preferences used when none are stored
func defaultPreferences() *Preferences {
	return &Preferences{
		DefaultIP:       DefaultDeviceIP,
		Theme:           ThemeDark,
		HeartbeatMillis: int(led.DefaultHeartbeatInterval / time.Millisecond),
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Devices:     make(map[string]*Device),
		Preferences: defaultPreferences(),
	}
}

// HeartbeatInterval returns the configured heartbeat interval, falling back
// to the default for unset or invalid values.
func (p *Preferences) HeartbeatInterval() time.Duration {
	if p == nil || p.HeartbeatMillis <= 0 {
		return led.DefaultHeartbeatInterval
	}
	return time.Duration(p.HeartbeatMillis) * time.Millisecond
}

func normalizeMAC(mac string) string {
	return strings.ToLower(strings.TrimSpace(mac))
}

// GetDevice retrieves device metadata by MAC address.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(mac string) *Device {
	return r.Devices[normalizeMAC(mac)]
}

// EnsureDevice ensures a device entry exists in the registry.
// Returns the device entry (existing or newly created).
func (r *Registry) EnsureDevice(mac string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	key := normalizeMAC(mac)
	if device, exists := r.Devices[key]; exists {
		return device
	}

	device := &Device{}
	r.Devices[key] = device
	return device
}

// RecordScan updates last seen time and IP for every discovered device.
// Returns the number of devices not previously known.
func (r *Registry) RecordScan(records []udp.DeviceRecord) int {
	now := time.Now()
	added := 0
	for _, rec := range records {
		if rec.MAC == "" {
			continue
		}
		if r.GetDevice(rec.MAC) == nil {
			added++
		}
		device := r.EnsureDevice(rec.MAC)
		device.LastIP = rec.IP
		device.LastSeen = now
	}
	return added
}

// SetNickname sets a user-friendly nickname for a device.
func (r *Registry) SetNickname(mac, nickname string) {
	device := r.EnsureDevice(mac)
	device.Nickname = strings.TrimSpace(nickname)
}

// RememberConfig stores the last known config for the device at ip.
// Returns false if no registered device has that IP.
func (r *Registry) RememberConfig(ip string, cfg led.Config) bool {
	for _, device := range r.Devices {
		if device.LastIP == ip {
			cfg.WiFi = nil
			device.Config = &cfg
			return true
		}
	}
	return false
}

// Lookup finds a device by MAC address, nickname, or last known IP, in that
// order. Matching on MAC and nickname ignores case.
func (r *Registry) Lookup(query string) (string, *Device, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", nil, false
	}

	if device := r.GetDevice(query); device != nil {
		return normalizeMAC(query), device, true
	}
	for mac, device := range r.Devices {
		if device.Nickname != "" && strings.EqualFold(device.Nickname, query) {
			return mac, device, true
		}
	}
	for mac, device := range r.Devices {
		if device.LastIP == query {
			return mac, device, true
		}
	}
	return "", nil, false
}

// ResolveIP turns a --device argument into an address. Known nicknames and
// MACs map to their last IP; anything else is returned unchanged. An empty
// query yields the preferred default.
func (r *Registry) ResolveIP(query string) string {
	if strings.TrimSpace(query) == "" {
		if r.Preferences != nil && r.Preferences.DefaultIP != "" {
			return r.Preferences.DefaultIP
		}
		return DefaultDeviceIP
	}
	if _, device, ok := r.Lookup(query); ok && device.LastIP != "" {
		return device.LastIP
	}
	return query
}
