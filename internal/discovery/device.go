package discovery

import (
	"fmt"
	"time"

	"github.com/muurk/ledlink/internal/udp"
)

// Device represents an LED controller found through mDNS
type Device struct {
	// Instance is the mDNS service instance name (e.g., "ledlink-eeff")
	Instance string

	// Hostname is the mDNS hostname (e.g., "ledstrip.local.")
	Hostname string

	// IP is the address commands should be sent to
	IP string

	// MAC is the controller MAC address from the "mac" TXT record
	MAC string

	// Port is the UDP command port (typically 8888)
	Port int

	// Metadata contains all mDNS TXT record data
	Metadata map[string]string

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("LED controller %s (%s) at %s:%d", d.Instance, d.MAC, d.IP, d.Port)
}

// Record converts the device to the record shape returned by a broadcast scan
func (d *Device) Record() udp.DeviceRecord {
	return udp.DeviceRecord{IP: d.IP, MAC: d.MAC}
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}

// Records converts devices to scan records, keeping the first per IP
func Records(devices []*Device) []udp.DeviceRecord {
	records := make([]udp.DeviceRecord, 0, len(devices))
	for _, d := range devices {
		records = append(records, d.Record())
	}
	return udp.Dedupe(records)
}

// Merge combines broadcast and mDNS results. Broadcast records come first
// and win when both report the same IP.
func Merge(broadcast, mdns []udp.DeviceRecord) []udp.DeviceRecord {
	all := make([]udp.DeviceRecord, 0, len(broadcast)+len(mdns))
	all = append(all, broadcast...)
	all = append(all, mdns...)
	return udp.Dedupe(all)
}
